// Package idgen produces the unguessable identifiers that address
// presentation sessions. PresentationID and RequestID are generated
// independently so knowledge of one never reveals the other.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"attesta/internal/domain"
)

// DefaultByteLength yields 64 random bytes per id, matching the entropy used
// for request_uri references in the wild.
const DefaultByteLength = 64

// Generator draws ids from crypto/rand and encodes them URL-safe without
// padding, so they can appear verbatim in paths and query strings.
type Generator struct {
	byteLength int
}

func New(byteLength int) Generator {
	if byteLength <= 0 {
		byteLength = DefaultByteLength
	}
	return Generator{byteLength: byteLength}
}

func (g Generator) random() (string, error) {
	buf := make([]byte, g.byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (g Generator) PresentationID() (domain.PresentationID, error) {
	s, err := g.random()
	if err != nil {
		return "", fmt.Errorf("generate presentation id: %w", err)
	}
	return domain.PresentationID(s), nil
}

func (g Generator) RequestID() (domain.RequestID, error) {
	s, err := g.random()
	if err != nil {
		return "", fmt.Errorf("generate request id: %w", err)
	}
	return domain.RequestID(s), nil
}
