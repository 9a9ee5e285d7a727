package domain

import (
	"encoding/json"
	"fmt"
)

// WalletResponse is the payload the wallet posts back via direct_post. Which
// parts must be present depends on the session's PresentationType. A response
// carrying the OAuth error fields means the wallet declined or failed.
type WalletResponse struct {
	IDToken                string          `json:"id_token,omitempty"`
	VPToken                string          `json:"vp_token,omitempty"`
	PresentationSubmission json.RawMessage `json:"presentation_submission,omitempty"`
	Error                  string          `json:"error,omitempty"`
	ErrorDescription       string          `json:"error_description,omitempty"`
}

// Validate checks that the response shape matches what the session asked for.
// The returned error is the cause recorded into the Errored state; it is a
// validation outcome, not an infrastructure failure.
func (r WalletResponse) Validate(typ PresentationType) error {
	if r.Error != "" {
		if r.ErrorDescription != "" {
			return fmt.Errorf("wallet returned error %q: %s", r.Error, r.ErrorDescription)
		}
		return fmt.Errorf("wallet returned error %q", r.Error)
	}
	if typ.WantsIDToken() && r.IDToken == "" {
		return fmt.Errorf("missing id_token for %s request", typ.Kind)
	}
	if typ.WantsVPToken() && r.VPToken == "" {
		return fmt.Errorf("missing vp_token for %s request", typ.Kind)
	}
	if !typ.WantsIDToken() && r.IDToken != "" {
		return fmt.Errorf("unexpected id_token for %s request", typ.Kind)
	}
	if !typ.WantsVPToken() && (r.VPToken != "" || len(r.PresentationSubmission) > 0) {
		return fmt.Errorf("unexpected vp_token for %s request", typ.Kind)
	}
	return nil
}
