package secret

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore map[string][]byte

func (m memStore) Set(k string, v []byte) error { m[k] = v; return nil }
func (m memStore) Get(k string) ([]byte, error) { return m[k], nil }
func (m memStore) Delete(k string) error        { delete(m, k); return nil }

func TestEnvName(t *testing.T) {
	assert.Equal(t, "DESIGN2PROMPT_SECRET_DB_PASSWORD", EnvName("db-password"))
	assert.Equal(t, "DESIGN2PROMPT_SECRET_MONGO_URI", EnvName("mongo.uri"))
}

func TestEnvStore(t *testing.T) {
	t.Setenv("DESIGN2PROMPT_SECRET_DB_PASSWORD", "hunter2")
	s := NewEnvStore()

	v, err := s.Get("db-password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(v))

	v, err = s.Get("other")
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, s.Set("x", []byte("y")))
}

func TestChainStore(t *testing.T) {
	first, last := memStore{}, memStore{}
	c := NewChainStore(first, last)

	require.NoError(t, c.Set("k", []byte("from-last")))
	assert.Equal(t, []byte("from-last"), last["k"])
	v, _ := c.Get("k")
	assert.Equal(t, "from-last", string(v))

	first["k"] = []byte("from-first")
	v, _ = c.Get("k")
	assert.Equal(t, "from-first", string(v))

	require.NoError(t, c.Delete("k"))
	v, _ = c.Get("k")
	assert.Nil(t, v)

	assert.Error(t, NewChainStore().Set("k", nil))
}

func TestKeychainStore_Commands(t *testing.T) {
	var calls []string
	k := &KeychainStore{service: "test", run: func(name string, args ...string) ([]byte, error) {
		calls = append(calls, name+" "+args[0])
		if args[0] == "find-generic-password" {
			return []byte("s3cret\n"), nil
		}
		return nil, nil
	}}

	require.NoError(t, k.Set("db", []byte("pw")))
	v, err := k.Get("db")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(v))
	assert.Equal(t, []string{
		"security delete-generic-password",
		"security add-generic-password",
		"security find-generic-password",
	}, calls)

	k.run = func(string, ...string) ([]byte, error) { return []byte("boom"), errors.New("exit status 1") }
	_, err = k.Get("db")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "boom"))
}
