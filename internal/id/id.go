package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the identities minted by the annotation engine.
const (
	PrefixAnnotation = "ann"
	PrefixComment    = "cmt"
	PrefixClient     = "sse"
)

// Generator mints a fresh identity. Stores take one so tests can supply
// deterministic sequences.
type Generator func() (string, error)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "ann-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Prefixed returns a Generator producing NanoIDs under prefix.
func Prefixed(prefix string) Generator {
	return func() (string, error) {
		return Generate(prefix)
	}
}

// Sequence returns a Generator producing prefix-1, prefix-2, ... in order.
// Not safe for concurrent use.
func Sequence(prefix string) Generator {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}
