package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attesta/internal/domain"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "verifier", cfg.Verifier.ClientID)
	assert.Equal(t, "pre-registered", cfg.Verifier.ClientIDScheme)
	assert.Equal(t, domain.EmbedByReference, cfg.Verifier.RequestJWTEmbed)
	assert.Equal(t, domain.EmbedByValue, cfg.Verifier.PresentationDefinitionEmbed)
	assert.Equal(t, domain.EmbedByValue, cfg.Verifier.JWKEmbed)
	assert.Equal(t, 60*time.Second, cfg.Verifier.MaxAge)
	assert.Equal(t, 15*time.Second, cfg.Verifier.SweepInterval)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("VERIFIER_CLIENT_ID", "acme-verifier")
	t.Setenv("VERIFIER_REQUEST_JWT_EMBED", "by_value")
	t.Setenv("VERIFIER_PRESENTATION_DEFINITION_EMBED", "by_reference")
	t.Setenv("VERIFIER_MAX_AGE", "2m")
	t.Setenv("VERIFIER_PUBLIC_URL", "https://verifier.example.com/")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "acme-verifier", cfg.Verifier.ClientID)
	assert.Equal(t, domain.EmbedByValue, cfg.Verifier.RequestJWTEmbed)
	assert.Equal(t, domain.EmbedByReference, cfg.Verifier.PresentationDefinitionEmbed)
	assert.Equal(t, 2*time.Minute, cfg.Verifier.MaxAge)
	assert.Equal(t, "https://verifier.example.com", cfg.Verifier.PublicURL, "trailing slash is trimmed")
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("unknown embed option", func(t *testing.T) {
		t.Setenv("VERIFIER_JWK_EMBED", "inline")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("unparsable duration", func(t *testing.T) {
		t.Setenv("VERIFIER_MAX_AGE", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestVerifierConfigBuilders(t *testing.T) {
	v := Verifier{
		ClientID:                    "verifier",
		ClientIDScheme:              "pre-registered",
		PublicURL:                   "https://verifier.example.com",
		RequestJWTEmbed:             domain.EmbedByReference,
		PresentationDefinitionEmbed: domain.EmbedByReference,
		JWKEmbed:                    domain.EmbedByReference,
		MaxAge:                      time.Minute,
	}
	cfg := v.VerifierConfig()

	assert.Equal(t, "https://verifier.example.com/wallet/request.jwt/rid", cfg.RequestURIBuilder("rid"))
	assert.Equal(t, "https://verifier.example.com/wallet/pd/rid", cfg.PresentationDefinitionURIBuilder("rid"))
	assert.Equal(t, "https://verifier.example.com/wallet/direct_post", cfg.ResponseURIBuilder("pid"))
	assert.Equal(t, "https://verifier.example.com/wallet/public-keys.json", cfg.ClientMetaData.JWKSetURI)
	assert.Equal(t, time.Minute, cfg.MaxAge)
}
