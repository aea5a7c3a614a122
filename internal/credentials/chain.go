package credentials

import (
	"errors"
	"fmt"
	"strings"
)

// ChainResolver tries multiple resolvers in order until one succeeds
type ChainResolver struct {
	resolvers []Resolver
}

// NewChainResolver creates a new chain resolver with the given resolvers
// Resolvers are tried in the order they are provided
func NewChainResolver(resolvers ...Resolver) *ChainResolver {
	return &ChainResolver{
		resolvers: resolvers,
	}
}

// Default returns the standard chain: key file, environment variable, keyring
func Default(keyFile, envVar string) *ChainResolver {
	if envVar == "" {
		envVar = DefaultEnvVar
	}
	return NewChainResolver(
		NewFileResolver(keyFile),
		NewEnvResolver(envVar),
		NewKeyringResolver(),
	)
}

// Resolve tries each resolver in order.
// A real read failure (not a missing key) stops the chain.
// If every resolver reports absence, the error wraps ErrNotFound.
func (c *ChainResolver) Resolve() (string, error) {
	if len(c.resolvers) == 0 {
		return "", fmt.Errorf("no resolvers configured: %w", ErrNotFound)
	}

	var attempts []string

	for i, resolver := range c.resolvers {
		value, err := resolver.Resolve()
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}

		attempts = append(attempts, fmt.Sprintf("resolver %d: %s", i+1, err.Error()))
	}

	return "", fmt.Errorf("%w after trying %d source(s):\n  %s",
		ErrNotFound, len(c.resolvers), strings.Join(attempts, "\n  "))
}
