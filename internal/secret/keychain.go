package secret

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const keychainService = "design2prompt"

// KeychainStore implements SecretStore using the macOS Keychain
// via the `security` CLI tool.
type KeychainStore struct {
	service string
	run     func(name string, args ...string) ([]byte, error)
}

func NewKeychainStore() *KeychainStore {
	return &KeychainStore{service: keychainService, run: runCombined}
}

func runCombined(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Set stores a secret, replacing any existing value.
func (k *KeychainStore) Set(key string, value []byte) error {
	_ = k.Delete(key)

	out, err := k.run("security", "add-generic-password",
		"-a", key,
		"-s", k.service,
		"-w", string(value),
		"-U",
	)
	if err != nil {
		return fmt.Errorf("keychain set: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Get returns nil, nil when the item does not exist ("security" exits 44).
func (k *KeychainStore) Get(key string) ([]byte, error) {
	out, err := k.run("security", "find-generic-password",
		"-a", key,
		"-s", k.service,
		"-w",
	)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 44 {
			return nil, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("keychain get: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return []byte(strings.TrimSpace(string(out))), nil
}

// Delete ignores missing items.
func (k *KeychainStore) Delete(key string) error {
	_, _ = k.run("security", "delete-generic-password",
		"-a", key,
		"-s", k.service,
	)
	return nil
}
