package domain

// SelfIssuedV2 is the audience wallets expect on cross-device vp_token
// requests.
const SelfIssuedV2 = "https://self-issued.me/v2"

// ResponseModeDirectPostJWT is the only response mode the verifier issues.
const ResponseModeDirectPostJWT = "direct_post.jwt"

// RequestObject is the structured claim set the signer turns into a JAR. It is
// derived purely from a Requested presentation and the VerifierConfig.
type RequestObject struct {
	ClientID                  string
	ClientIDScheme            string
	ResponseType              []string
	Scope                     []string
	IDTokenType               []IDTokenType
	PresentationDefinition    *PresentationDefinition
	PresentationDefinitionURI string
	Nonce                     string
	ResponseMode              string
	ResponseURI               string
	Aud                       []string
}

// RequestObjectOf assembles the claim set for a presentation. The nonce is the
// PresentationID, so a wallet response can later be correlated with the
// session that requested it.
func RequestObjectOf(cfg VerifierConfig, p Presentation) RequestObject {
	ro := RequestObject{
		ClientID:       cfg.ClientID,
		ClientIDScheme: cfg.ClientIDScheme,
		Nonce:          string(p.ID),
		ResponseMode:   ResponseModeDirectPostJWT,
		ResponseURI:    cfg.ResponseURIBuilder(p.ID),
	}

	switch p.Type.Kind {
	case RequestIDToken:
		ro.ResponseType = []string{"id_token"}
		ro.Scope = []string{"openid"}
		ro.IDTokenType = p.Type.IDTokenTypes
	case RequestVPToken:
		ro.ResponseType = []string{"vp_token"}
		ro.Aud = []string{SelfIssuedV2}
	case RequestIDAndVPToken:
		ro.ResponseType = []string{"vp_token", "id_token"}
		ro.Scope = []string{"openid"}
		ro.IDTokenType = p.Type.IDTokenTypes
		ro.Aud = []string{SelfIssuedV2}
	}

	if p.Type.WantsVPToken() {
		switch cfg.PresentationDefinitionOption {
		case EmbedByValue:
			ro.PresentationDefinition = p.Type.PresentationDefinition
		case EmbedByReference:
			ro.PresentationDefinitionURI = cfg.PresentationDefinitionURIBuilder(p.RequestID)
		}
	}

	return ro
}
