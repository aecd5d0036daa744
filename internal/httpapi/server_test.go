package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design2prompt/internal/canvas"
	"design2prompt/internal/catalog"
	"design2prompt/internal/domain"
	"design2prompt/internal/httpapi"
	"design2prompt/internal/logging"
	"design2prompt/internal/service"
)

func newServer(t *testing.T) (*httptest.Server, *service.CanvasService) {
	t.Helper()
	reg := catalog.NewRegistry()
	store := canvas.NewLayoutStore(canvas.DefaultViewports(), canvas.NewMemoryPersister(), logging.Discard())
	cs := service.NewCanvasService(store, reg, nil, logging.Discard())
	api := httpapi.New(httpapi.Deps{
		Canvas:  cs,
		Export:  service.NewExportService(store, reg),
		Catalog: reg,
		Logger:  logging.Discard(),
	})
	fallback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("frontend"))
	})
	srv := httptest.NewServer(api.Handler(fallback))
	t.Cleanup(srv.Close)
	return srv, cs
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestLayoutAndExport(t *testing.T) {
	srv, cs := newServer(t)
	inst, err := cs.Place(service.PlaceInput{RefID: "pricing-card"})
	require.NoError(t, err)

	resp, body := get(t, srv, "/api/layout")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc domain.LayoutDocument
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Len(t, doc.Instances, 1)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, body = get(t, srv, "/api/export/prompt")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Pricing Card")

	resp, body = get(t, srv, "/api/export/prompt?instance="+inst.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Create a Pricing Card component")

	resp, _ = get(t, srv, "/api/export/prompt?instance=ghost")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, srv, "/api/export/json?download=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "layout.json")
	assert.Contains(t, body, inst.ID)
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := get(t, srv, "/api/catalog?category=forms")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Components []domain.CatalogDefinition `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	require.Len(t, payload.Components, 2)

	resp, _ = get(t, srv, "/api/catalog/neo-btn")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, srv, "/api/catalog/hologram")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeepLink(t *testing.T) {
	srv, _ := newServer(t)
	blob, err := catalog.EncodeDeepLink(domain.StyleParams{"neoDepth": domain.NumberValue(14)})
	require.NoError(t, err)

	_, body := get(t, srv, "/api/deeplink?component=neo-btn&config="+url.QueryEscape(blob))
	var wc domain.WorkingConfig
	require.NoError(t, json.Unmarshal([]byte(body), &wc))
	assert.True(t, wc.FromLink)
	assert.Equal(t, domain.NumberValue(14), wc.StyleParams["neoDepth"])

	_, body = get(t, srv, "/api/deeplink?component=neo-btn&config=not-json")
	require.NoError(t, json.Unmarshal([]byte(body), &wc))
	assert.False(t, wc.FromLink)

	resp, body := get(t, srv, "/api/export/prompt?component=neo-btn&config="+url.QueryEscape(blob))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Neomorphic depth: 14px")
}

func TestPlaceAndFallback(t *testing.T) {
	srv, cs := newServer(t)

	resp, err := http.Post(srv.URL+"/api/instances", "application/json",
		bytes.NewBufferString(`{"refId":"glass-card","position":{"x":40,"y":60}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, cs.Layout().Instances, 1)
	assert.Equal(t, domain.Position{X: 40, Y: 60}, cs.Layout().Instances[0].Position)

	resp, err = http.Post(srv.URL+"/api/instances", "application/json", bytes.NewBufferString(`{`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := get(t, srv, "/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "frontend", body)
}
