package config

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withMockKeyring sets up an in-memory keyring for the duration of a test
func withMockKeyring(t *testing.T) *keyring.ArrayKeyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
	return ring
}

// withFailingKeyring sets up a keyring that always fails to open
func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return nil, err
	})
	t.Cleanup(restore)
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envClientID, "")
	t.Setenv(envClientSecret, "")
	t.Setenv(envBaseURL, "")
}

func TestSaveAndLoadAccount(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	account := Account{
		BaseURL:      "https://api.pluggy.ai",
		ClientID:     "my-client-id",
		ClientSecret: "my-client-secret",
	}
	require.NoError(t, SaveAccount(account))

	loaded, err := LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, account, loaded)
}

func TestLoadAccountNotConfigured(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	_, err := LoadAccount()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadAccountFromEnv(t *testing.T) {
	t.Setenv(envClientID, "env-id")
	t.Setenv(envClientSecret, "env-secret")
	t.Setenv(envBaseURL, "https://sandbox.pluggy.ai/")

	// Keyring must not be consulted when env credentials are present.
	withFailingKeyring(t, errors.New("keyring should not be opened"))

	account, err := LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "env-id", account.ClientID)
	assert.Equal(t, "env-secret", account.ClientSecret)
	assert.Equal(t, "https://sandbox.pluggy.ai", account.BaseURL, "trailing slash should be trimmed")
}

func TestLoadAccountEnvRequiresBothSecrets(t *testing.T) {
	t.Setenv(envClientID, "env-id")
	t.Setenv(envClientSecret, "")

	_, err := LoadAccount()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envClientSecret)
}

func TestLoadAccountEnvBaseURLOverridesStored(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)
	require.NoError(t, SaveAccount(Account{
		BaseURL:      "https://api.pluggy.ai",
		ClientID:     "id",
		ClientSecret: "secret",
	}))

	t.Setenv(envBaseURL, "https://staging.pluggy.ai")
	account, err := LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "https://staging.pluggy.ai", account.BaseURL)
	assert.Equal(t, "id", account.ClientID)
}

func TestDeleteAccount(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)
	require.NoError(t, SaveAccount(Account{ClientID: "id", ClientSecret: "secret"}))

	require.NoError(t, DeleteAccount())
	_, err := LoadAccount()
	assert.ErrorIs(t, err, ErrNotConfigured)

	// deleting an already-empty keyring is not an error
	assert.NoError(t, DeleteAccount())
}

func TestLoadAccountKeyringOpenFailure(t *testing.T) {
	clearEnv(t)
	withFailingKeyring(t, errors.New("no backend available"))

	_, err := LoadAccount()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open keyring")
}

func TestShouldForceFileBackend(t *testing.T) {
	assert.True(t, shouldForceFileBackend("linux", keyringBackendAuto, ""))
	assert.True(t, shouldForceFileBackend("darwin", keyringBackendFile, ""))
	assert.False(t, shouldForceFileBackend("linux", keyringBackendAuto, "unix:path=/run/user/1000/bus"))
	assert.False(t, shouldForceFileBackend("darwin", keyringBackendAuto, ""))
	assert.False(t, shouldForceFileBackend("linux", keyringBackendSystem, ""))
}

func TestKeyringBackendMode(t *testing.T) {
	cases := map[string]string{
		"":       keyringBackendAuto,
		"auto":   keyringBackendAuto,
		"file":   keyringBackendFile,
		"system": keyringBackendSystem,
		"os":     keyringBackendSystem,
		"native": keyringBackendSystem,
		"bogus":  keyringBackendAuto,
	}
	for value, expected := range cases {
		t.Setenv(envKeyringBackend, value)
		assert.Equal(t, expected, keyringBackendMode(), "backend %q", value)
	}
}
