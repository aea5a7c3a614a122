package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// DefaultEnvVar is the environment variable consulted for the API key
	DefaultEnvVar = "GANDI_API_KEY"
	// DefaultKeyFile is the key file name, relative to the working directory
	DefaultKeyFile = "api.key"
	// KeyringService is the service name used in the OS keyring
	KeyringService = "livedns"
	// KeyringUser is the account name for the API key
	KeyringUser = "api-key"
)

// ErrNotFound means no resolver produced a non-empty key
var ErrNotFound = errors.New("API key not found")

// Resolver is the interface for API key sources
type Resolver interface {
	Resolve() (string, error)
}

// FileResolver reads the key from a plain-text file
type FileResolver struct {
	Path string
}

// NewFileResolver creates a resolver for the given key file
func NewFileResolver(path string) *FileResolver {
	return &FileResolver{Path: path}
}

// Resolve returns the trimmed file content
func (f *FileResolver) Resolve() (string, error) {
	if f.Path == "" {
		return "", fmt.Errorf("no key file configured: %w", ErrNotFound)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("key file %s does not exist: %w", f.Path, ErrNotFound)
		}
		return "", fmt.Errorf("failed to read key file %s: %w", f.Path, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("key file %s is empty: %w", f.Path, ErrNotFound)
	}
	return key, nil
}

// EnvResolver reads the key from an environment variable
type EnvResolver struct {
	Name string
}

// NewEnvResolver creates a new environment variable resolver
func NewEnvResolver(name string) *EnvResolver {
	return &EnvResolver{Name: name}
}

// Resolve returns the trimmed variable value
func (e *EnvResolver) Resolve() (string, error) {
	value := strings.TrimSpace(os.Getenv(e.Name))
	if value == "" {
		return "", fmt.Errorf("environment variable %s not set: %w", e.Name, ErrNotFound)
	}
	return value, nil
}

// KeyringResolver reads the key from the OS keyring
type KeyringResolver struct {
	Service string
	User    string
}

// NewKeyringResolver creates a resolver using the default service and user
func NewKeyringResolver() *KeyringResolver {
	return &KeyringResolver{Service: KeyringService, User: KeyringUser}
}

// Resolve looks the key up in the keyring. Any keyring failure counts as absent.
func (k *KeyringResolver) Resolve() (string, error) {
	value, err := keyring.Get(k.Service, k.User)
	if err != nil {
		return "", fmt.Errorf("keyring %s/%s: %v: %w", k.Service, k.User, err, ErrNotFound)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("keyring %s/%s is empty: %w", k.Service, k.User, ErrNotFound)
	}
	return value, nil
}
