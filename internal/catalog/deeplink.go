package catalog

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"design2prompt/internal/domain"
)

// ParseDeepLink builds a working configuration for refID from a shared
// link's config blob. The blob is JSON, either URL-escaped or base64url
// encoded. Any decoding problem yields the catalog defaults; an unknown
// refID yields an empty parameter bag.
func ParseDeepLink(cat domain.Catalog, refID, blob string) domain.WorkingConfig {
	def, ok := cat.Lookup(refID)
	if !ok {
		return domain.WorkingConfig{RefID: refID, StyleParams: domain.StyleParams{}}
	}
	wc := domain.WorkingConfig{RefID: refID, StyleParams: def.DefaultStyleParams.Clone()}
	if strings.TrimSpace(blob) == "" {
		return wc
	}
	params, ok := decodeBlob(blob)
	if !ok {
		return wc
	}
	wc.StyleParams = Resolve(def, params)
	wc.FromLink = true
	return wc
}

// EncodeDeepLink is the inverse of ParseDeepLink's base64url form.
func EncodeDeepLink(params domain.StyleParams) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeBlob(blob string) (domain.StyleParams, bool) {
	blob = strings.TrimSpace(blob)
	candidates := []string{blob}
	if unescaped, err := url.QueryUnescape(blob); err == nil && unescaped != blob {
		candidates = append(candidates, unescaped)
	}
	trimmed := strings.TrimRight(blob, "=")
	if raw, err := base64.RawURLEncoding.DecodeString(trimmed); err == nil {
		candidates = append(candidates, string(raw))
	} else if raw, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil {
		candidates = append(candidates, string(raw))
	}

	for _, c := range candidates {
		var params domain.StyleParams
		if err := json.Unmarshal([]byte(c), &params); err == nil && params != nil {
			return params, true
		}
	}
	return nil, false
}
