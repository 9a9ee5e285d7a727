package domain

import "time"

// EmbedOption selects whether a piece of content travels inside the request
// object or is fetched by the wallet from a URL. It applies independently to
// the request object itself (JAR), the presentation definition, and the
// verifier's public key material.
type EmbedOption int

const (
	EmbedByValue EmbedOption = iota
	EmbedByReference
)

func (o EmbedOption) String() string {
	if o == EmbedByReference {
		return "by_reference"
	}
	return "by_value"
}

// ClientMetaData describes the verifier to the wallet inside the request
// object: key material (inline JWK set or jwks_uri) and the response
// algorithms the verifier supports.
type ClientMetaData struct {
	JWKOption                   EmbedOption
	JWKSetURI                   string
	IDTokenSignedResponseAlg    string
	IDTokenEncryptedResponseAlg string
	IDTokenEncryptedResponseEnc string
	SubjectSyntaxTypesSupported []string
}

// VerifierConfig is the process-wide, read-only configuration of the
// presentation core. Built once at startup and never mutated.
//
// The URI builders are injected pure functions; the core only requires them to
// be deterministic for a given id.
type VerifierConfig struct {
	ClientID       string
	ClientIDScheme string

	// RequestJAROption governs whether InitTransaction returns the signed
	// request object inline or a request_uri the wallet dereferences.
	RequestJAROption  EmbedOption
	RequestURIBuilder func(RequestID) string

	// PresentationDefinitionOption governs whether the definition is embedded
	// in the request object or served from PresentationDefinitionURIBuilder.
	PresentationDefinitionOption     EmbedOption
	PresentationDefinitionURIBuilder func(RequestID) string

	ResponseURIBuilder func(PresentationID) string

	// MaxAge is the deadline for a session to reach a terminal state before
	// the sweeper expires it.
	MaxAge time.Duration

	ClientMetaData ClientMetaData
}
