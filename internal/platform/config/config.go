// Package config builds process configuration from environment variables so
// main stays lean. The verifier core receives an immutable
// domain.VerifierConfig assembled here exactly once at startup.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"attesta/internal/domain"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// Redis is optional; when URL is empty the in-memory store is used.
type Redis struct {
	URL string
}

// Postgres is optional; when URL is empty the in-memory store is used.
type Postgres struct {
	URL string
}

// Verifier mirrors the environment-facing knobs of the presentation core.
type Verifier struct {
	ClientID                    string
	ClientIDScheme              string
	PublicURL                   string
	RequestJWTEmbed             domain.EmbedOption
	PresentationDefinitionEmbed domain.EmbedOption
	JWKEmbed                    domain.EmbedOption
	MaxAge                      time.Duration
	SweepInterval               time.Duration
}

type Config struct {
	Server   Server
	Redis    Redis
	Postgres Postgres
	Verifier Verifier
}

// FromEnv reads all recognized ATTESTA_*/VERIFIER_* variables, applying
// defaults for everything left unset.
func FromEnv() (Config, error) {
	cfg := Config{
		Server:   Server{Addr: getenv("ATTESTA_ADDR", ":8080")},
		Redis:    Redis{URL: os.Getenv("ATTESTA_REDIS_URL")},
		Postgres: Postgres{URL: os.Getenv("ATTESTA_POSTGRES_URL")},
		Verifier: Verifier{
			ClientID:       getenv("VERIFIER_CLIENT_ID", "verifier"),
			ClientIDScheme: getenv("VERIFIER_CLIENT_ID_SCHEME", "pre-registered"),
			PublicURL:      strings.TrimRight(getenv("VERIFIER_PUBLIC_URL", "http://localhost:8080"), "/"),
		},
	}

	var err error
	if cfg.Verifier.RequestJWTEmbed, err = embedOption("VERIFIER_REQUEST_JWT_EMBED", domain.EmbedByReference); err != nil {
		return Config{}, err
	}
	if cfg.Verifier.PresentationDefinitionEmbed, err = embedOption("VERIFIER_PRESENTATION_DEFINITION_EMBED", domain.EmbedByValue); err != nil {
		return Config{}, err
	}
	if cfg.Verifier.JWKEmbed, err = embedOption("VERIFIER_JWK_EMBED", domain.EmbedByValue); err != nil {
		return Config{}, err
	}
	if cfg.Verifier.MaxAge, err = duration("VERIFIER_MAX_AGE", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Verifier.SweepInterval, err = duration("VERIFIER_SWEEP_INTERVAL", 15*time.Second); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// VerifierConfig wires the URI builders off the public URL and freezes the
// result. The response URI builder is a deployment concern; the default posts
// every wallet back to the shared direct_post endpoint.
func (v Verifier) VerifierConfig() domain.VerifierConfig {
	publicURL := v.PublicURL
	return domain.VerifierConfig{
		ClientID:         v.ClientID,
		ClientIDScheme:   v.ClientIDScheme,
		RequestJAROption: v.RequestJWTEmbed,
		RequestURIBuilder: func(id domain.RequestID) string {
			return publicURL + "/wallet/request.jwt/" + string(id)
		},
		PresentationDefinitionOption: v.PresentationDefinitionEmbed,
		PresentationDefinitionURIBuilder: func(id domain.RequestID) string {
			return publicURL + "/wallet/pd/" + string(id)
		},
		ResponseURIBuilder: func(domain.PresentationID) string {
			return publicURL + "/wallet/direct_post"
		},
		MaxAge: v.MaxAge,
		ClientMetaData: domain.ClientMetaData{
			JWKOption:                   v.JWKEmbed,
			JWKSetURI:                   publicURL + "/wallet/public-keys.json",
			IDTokenSignedResponseAlg:    "RS256",
			IDTokenEncryptedResponseAlg: "RS256",
			IDTokenEncryptedResponseEnc: "A128CBC-HS256",
			SubjectSyntaxTypesSupported: []string{
				"urn:ietf:params:oauth:jwk-thumbprint",
				"did:example",
				"did:key",
			},
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func embedOption(key string, fallback domain.EmbedOption) (domain.EmbedOption, error) {
	switch os.Getenv(key) {
	case "":
		return fallback, nil
	case "by_value":
		return domain.EmbedByValue, nil
	case "by_reference":
		return domain.EmbedByReference, nil
	default:
		return 0, fmt.Errorf("%s: unrecognized embed option %q (want by_value or by_reference)", key, os.Getenv(key))
	}
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
