// Copyright (c) 2025 The mbcli Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for mbcli.
// It stores the Metabase session token and the server/account it was issued for,
// so a login survives across CLI invocations. Passwords are never stored.
//
// The package supports macOS Keychain, Windows Credential Manager and the Linux
// Secret Service, with an in-memory backend for tests and unsupported systems.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Backend defines the interface for keychain operations.
type Backend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	backend Backend
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "mbcli"

// Keys used for storing secrets in the OS keychain.
const (
	KeySessionToken = "session_token"
	KeySessionState = "session_state"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{backend: ringBackend{ring: ring}}, nil
}

// NewManagerWithBackend creates a manager over an explicit backend.
func NewManagerWithBackend(b Backend) *Manager {
	return &Manager{backend: b}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
// There is no encrypted-file fallback.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends,
		PassPrefix:              ServiceName,
		LibSecretCollectionName: ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
	}
	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	return keyring.Open(cfg)
}

// ringBackend adapts a keyring.Keyring to Backend.
type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (r ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

// SaveSession stores the session token and its serialized state.
// This method is thread-safe.
func (m *Manager) SaveSession(token string, state []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Set(KeySessionToken, token); err != nil {
		return err
	}
	return m.backend.Set(KeySessionState, string(state))
}

// LoadSessionToken retrieves the session token from the keychain.
// This method is thread-safe.
func (m *Manager) LoadSessionToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, err := m.backend.Get(KeySessionToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("empty session token")
	}
	return token, nil
}

// LoadSessionState retrieves serialized session state from the keychain.
// This method is thread-safe.
func (m *Manager) LoadSessionState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.backend.Get(KeySessionState)
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// ClearSession removes the session token and state from the keychain.
// This method is thread-safe.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.backend.Delete(KeySessionToken)
	_ = m.backend.Delete(KeySessionState)
	return nil
}

// MemoryBackend keeps secrets in process memory. It backs tests and systems
// without a usable keychain, where sessions then last for one invocation.
type MemoryBackend struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

func (b *MemoryBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items[key] = value
	return nil
}

func (b *MemoryBackend) Get(key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.items, key)
	return nil
}
