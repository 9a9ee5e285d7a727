// Package jose produces the signed request objects (JAR) the wallet retrieves,
// and exposes the verifier's public key material as a JWK set.
package jose

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"attesta/internal/domain"
)

// JARType is the JOSE typ header for request objects (RFC 9101).
const JARType = "oauth-authz-req+jwt"

const signingKeyBits = 2048

// Signer signs request objects with an RSA key generated at process start.
// A production deployment would load the key instead; either way the key is
// fixed for the lifetime of the process and published through the configured
// JWK embedding option.
type Signer struct {
	key   *rsa.PrivateKey
	keyID string
	meta  domain.ClientMetaData
	now   func() time.Time
}

// NewSigner generates a fresh signing key. Key generation failure is fatal for
// the process: without a key no request object can ever be produced.
func NewSigner(meta domain.ClientMetaData, now func() time.Time) (*Signer, error) {
	key, err := rsa.GenerateKey(rand.Reader, signingKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return NewSignerWithKey(key, uuid.NewString(), meta, now)
}

// NewSignerWithKey wraps an externally managed key.
func NewSignerWithKey(key *rsa.PrivateKey, keyID string, meta domain.ClientMetaData, now func() time.Time) (*Signer, error) {
	if key == nil {
		return nil, fmt.Errorf("signing key unavailable")
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{key: key, keyID: keyID, meta: meta, now: now}, nil
}

// requestObjectClaims is the wire form of domain.RequestObject. Multi-valued
// OAuth parameters (response_type, scope, id_token_type) are space-delimited
// strings on the wire.
type requestObjectClaims struct {
	ClientID                  string                         `json:"client_id"`
	ClientIDScheme            string                         `json:"client_id_scheme,omitempty"`
	ResponseType              string                         `json:"response_type"`
	Scope                     string                         `json:"scope,omitempty"`
	IDTokenType               string                         `json:"id_token_type,omitempty"`
	PresentationDefinition    *domain.PresentationDefinition `json:"presentation_definition,omitempty"`
	PresentationDefinitionURI string                         `json:"presentation_definition_uri,omitempty"`
	ClientMetadata            *clientMetadataClaims          `json:"client_metadata,omitempty"`
	Nonce                     string                         `json:"nonce"`
	ResponseMode              string                         `json:"response_mode"`
	ResponseURI               string                         `json:"response_uri,omitempty"`
	jwt.RegisteredClaims
}

type clientMetadataClaims struct {
	JWKS                        *jose.JSONWebKeySet `json:"jwks,omitempty"`
	JWKSURI                     string              `json:"jwks_uri,omitempty"`
	IDTokenSignedResponseAlg    string              `json:"id_token_signed_response_alg,omitempty"`
	IDTokenEncryptedResponseAlg string              `json:"id_token_encrypted_response_alg,omitempty"`
	IDTokenEncryptedResponseEnc string              `json:"id_token_encrypted_response_enc,omitempty"`
	SubjectSyntaxTypesSupported []string            `json:"subject_syntax_types_supported,omitempty"`
}

// Sign turns a request object into a compact RS256 JWS. Deterministic for a
// given key and claim set apart from iat and jti.
func (s *Signer) Sign(ro domain.RequestObject) (string, error) {
	claims := requestObjectClaims{
		ClientID:                  ro.ClientID,
		ClientIDScheme:            ro.ClientIDScheme,
		ResponseType:              strings.Join(ro.ResponseType, " "),
		Scope:                     strings.Join(ro.Scope, " "),
		IDTokenType:               joinIDTokenTypes(ro.IDTokenType),
		PresentationDefinition:    ro.PresentationDefinition,
		PresentationDefinitionURI: ro.PresentationDefinitionURI,
		ClientMetadata:            s.clientMetadata(),
		Nonce:                     ro.Nonce,
		ResponseMode:              ro.ResponseMode,
		ResponseURI:               ro.ResponseURI,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ro.ClientID,
			Audience: ro.Aud,
			IssuedAt: jwt.NewNumericDate(s.now()),
			ID:       uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["typ"] = JARType
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign request object: %w", err)
	}
	return signed, nil
}

func (s *Signer) clientMetadata() *clientMetadataClaims {
	meta := &clientMetadataClaims{
		IDTokenSignedResponseAlg:    s.meta.IDTokenSignedResponseAlg,
		IDTokenEncryptedResponseAlg: s.meta.IDTokenEncryptedResponseAlg,
		IDTokenEncryptedResponseEnc: s.meta.IDTokenEncryptedResponseEnc,
		SubjectSyntaxTypesSupported: s.meta.SubjectSyntaxTypesSupported,
	}
	switch s.meta.JWKOption {
	case domain.EmbedByValue:
		set := s.PublicJWKSet()
		meta.JWKS = &set
	case domain.EmbedByReference:
		meta.JWKSURI = s.meta.JWKSetURI
	}
	return meta
}

func joinIDTokenTypes(types []domain.IDTokenType) string {
	if len(types) == 0 {
		return ""
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}

// PublicKey exposes the verification key, used by tests and by deployments
// that pin the key out of band.
func (s *Signer) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// PublicJWKSet returns the verification keys in JWK set form.
func (s *Signer) PublicJWKSet() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{{
			Key:       &s.key.PublicKey,
			KeyID:     s.keyID,
			Use:       "sig",
			Algorithm: "RS256",
		}},
	}
}

// PublicJWKSetJSON is the payload served from the jwks_uri endpoint.
func (s *Signer) PublicJWKSetJSON() ([]byte, error) {
	raw, err := json.Marshal(s.PublicJWKSet())
	if err != nil {
		return nil, fmt.Errorf("marshal jwk set: %w", err)
	}
	return raw, nil
}
