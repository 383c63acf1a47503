// Package config stores Pluggy client credentials in the OS keychain, with
// environment-variable overrides for CI and scripting.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "pluggy-cli"
	accountKey  = "default"

	envClientID     = "PLUGGY_CLIENT_ID"
	envClientSecret = "PLUGGY_CLIENT_SECRET"
	envBaseURL      = "PLUGGY_BASE_URL"

	envKeyringBackend  = "PLUGGY_KEYRING_BACKEND"
	envKeyringPassword = "PLUGGY_KEYRING_PASSWORD"
	envCredentialsDir  = "PLUGGY_CREDENTIALS_DIR"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// openKeyring is a package-level function for opening keyrings.
// It can be replaced in tests to use a mock keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring allows replacing the keyring opener for testing.
// Returns a cleanup function that restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Account holds the Pluggy connection details.
type Account struct {
	BaseURL      string `json:"base_url"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	NonExpiring  bool   `json:"non_expiring,omitempty"`
}

// ErrNotConfigured is returned when no account is configured
var ErrNotConfigured = errors.New("pluggy not configured - run 'pluggy auth login' first")

// keyringConfig returns the keyring configuration
func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	// Always configure file backend details in auto mode so keyring.Open can
	// fall through to encrypted file storage when native backends are missing.
	configureFileBackend(&cfg)

	// Headless Linux should bypass other backends and use encrypted file storage.
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	return cfg
}

func keyringBackendMode() string {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend)))
	switch backend {
	case "", keyringBackendAuto:
		return keyringBackendAuto
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
}

func keyringFileDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		}
	}
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			base = filepath.Join(home, ".config", serviceName)
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

// SaveAccount stores the account credentials in the OS keychain
func SaveAccount(account Account) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	if err := ring.Set(keyring.Item{
		Key:  accountKey,
		Data: data,
	}); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// LoadAccount retrieves the account credentials. Environment variables take
// precedence over the keychain so scripts never touch stored state.
func LoadAccount() (Account, error) {
	if clientID := strings.TrimSpace(os.Getenv(envClientID)); clientID != "" {
		clientSecret := os.Getenv(envClientSecret)
		if strings.TrimSpace(clientSecret) == "" {
			return Account{}, fmt.Errorf("environment variables %s and %s must both be set", envClientID, envClientSecret)
		}
		account := Account{
			ClientID:     clientID,
			ClientSecret: clientSecret,
		}
		if baseURL := strings.TrimSpace(os.Getenv(envBaseURL)); baseURL != "" {
			account.BaseURL = strings.TrimSuffix(baseURL, "/")
		}
		return account, nil
	}

	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return Account{}, fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(accountKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Account{}, ErrNotConfigured
		}
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	var account Account
	if err := json.Unmarshal(item.Data, &account); err != nil {
		return Account{}, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	if baseURL := strings.TrimSpace(os.Getenv(envBaseURL)); baseURL != "" {
		account.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return account, nil
}

// DeleteAccount removes the account credentials from the OS keychain
func DeleteAccount() error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	if err := ring.Remove(accountKey); err != nil {
		if !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("failed to remove account: %w", err)
		}
	}
	return nil
}
