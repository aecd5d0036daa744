package secret

import (
	"fmt"
	"os"
	"strings"
)

// SecretStore holds credentials for remote storage backends, e.g. the
// MySQL or Postgres password substituted into a DSN.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// EnvPrefix is prepended to the upper-cased key by EnvStore.
const EnvPrefix = "DESIGN2PROMPT_SECRET_"

// EnvStore reads secrets from the environment. It is read-only; headless
// deployments without a keychain use it.
type EnvStore struct {
	lookup func(string) (string, bool)
}

func NewEnvStore() *EnvStore {
	return &EnvStore{lookup: os.LookupEnv}
}

// EnvName maps a key like "db-password" to DESIGN2PROMPT_SECRET_DB_PASSWORD.
func EnvName(key string) string {
	r := strings.NewReplacer("-", "_", ".", "_", " ", "_")
	return EnvPrefix + strings.ToUpper(r.Replace(key))
}

func (e *EnvStore) Get(key string) ([]byte, error) {
	v, ok := e.lookup(EnvName(key))
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (e *EnvStore) Set(key string, _ []byte) error {
	return fmt.Errorf("env secret store is read-only: set %s instead", EnvName(key))
}

func (e *EnvStore) Delete(string) error { return nil }

// ChainStore reads from each store in order and writes to the last one.
type ChainStore struct {
	stores []SecretStore
}

func NewChainStore(stores ...SecretStore) *ChainStore {
	return &ChainStore{stores: stores}
}

// Default is the environment first, then the OS keychain.
func Default() *ChainStore {
	return NewChainStore(NewEnvStore(), NewKeychainStore())
}

func (c *ChainStore) Get(key string) ([]byte, error) {
	for _, s := range c.stores {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	return nil, nil
}

func (c *ChainStore) Set(key string, value []byte) error {
	if len(c.stores) == 0 {
		return fmt.Errorf("no secret store configured")
	}
	return c.stores[len(c.stores)-1].Set(key, value)
}

func (c *ChainStore) Delete(key string) error {
	for _, s := range c.stores {
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
