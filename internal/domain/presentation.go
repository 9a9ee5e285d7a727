package domain

import (
	"fmt"
	"time"

	"attesta/pkg/platform/sentinel"
)

// PresentationID is the opaque, unguessable identifier the verifier-facing API
// uses to address a presentation session. Generated once at creation, never
// changes.
type PresentationID string

// RequestID is the separate opaque identifier the wallet-facing API uses.
// Knowing one of the two ids must not reveal the other, so they are generated
// independently.
type RequestID string

func (id PresentationID) String() string { return string(id) }
func (id RequestID) String() string      { return string(id) }

// IDTokenType enumerates the SIOPv2 id token flavours a verifier may request.
type IDTokenType string

const (
	IDTokenSubjectSigned  IDTokenType = "subject_signed_id_token"
	IDTokenAttesterSigned IDTokenType = "attester_signed_id_token"
)

// RequestKind tags the variant of PresentationType.
type RequestKind int

const (
	// RequestIDToken asks the wallet for an id token only.
	RequestIDToken RequestKind = iota
	// RequestVPToken asks the wallet for a vp token against a presentation definition.
	RequestVPToken
	// RequestIDAndVPToken asks for both.
	RequestIDAndVPToken
)

func (k RequestKind) String() string {
	switch k {
	case RequestIDToken:
		return "id_token"
	case RequestVPToken:
		return "vp_token"
	case RequestIDAndVPToken:
		return "vp_token id_token"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// PresentationType is chosen by the relying party at InitTransaction and never
// changes afterwards. IDTokenTypes is populated for the id-token variants,
// PresentationDefinition for the vp-token variants.
type PresentationType struct {
	Kind                   RequestKind
	IDTokenTypes           []IDTokenType
	PresentationDefinition *PresentationDefinition
}

func IDTokenRequest(idTokenTypes ...IDTokenType) PresentationType {
	return PresentationType{Kind: RequestIDToken, IDTokenTypes: idTokenTypes}
}

func VPTokenRequest(pd *PresentationDefinition) PresentationType {
	return PresentationType{Kind: RequestVPToken, PresentationDefinition: pd}
}

func IDAndVPTokenRequest(pd *PresentationDefinition, idTokenTypes ...IDTokenType) PresentationType {
	return PresentationType{Kind: RequestIDAndVPToken, IDTokenTypes: idTokenTypes, PresentationDefinition: pd}
}

// WantsIDToken reports whether the wallet must return an id token.
func (t PresentationType) WantsIDToken() bool {
	return t.Kind == RequestIDToken || t.Kind == RequestIDAndVPToken
}

// WantsVPToken reports whether the wallet must return a vp token.
func (t PresentationType) WantsVPToken() bool {
	return t.Kind == RequestVPToken || t.Kind == RequestIDAndVPToken
}

// State is the lifecycle tag of a presentation session.
type State int

const (
	StateRequested State = iota
	StateRequestObjectRetrieved
	StateSubmitted
	StateErrored
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateRequestObjectRetrieved:
		return "request_object_retrieved"
	case StateSubmitted:
		return "submitted"
	case StateErrored:
		return "errored"
	case StateTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Terminal reports whether no further transition is permitted out of s.
func (s State) Terminal() bool {
	return s == StateSubmitted || s == StateErrored || s == StateTimedOut
}

// Presentation is one instance of the request/response exchange. The store owns
// the authoritative copy; use cases work on value snapshots and persist new
// snapshots, so no mutable reference crosses use-case boundaries.
//
// State-specific fields are populated only by the transition that enters the
// corresponding state: RetrievedAt by RetrieveRequestObject, Response and
// SubmittedAt by Submit, ErrorCause by Reject, TimedOutAt by Timeout.
type Presentation struct {
	ID          PresentationID
	RequestID   RequestID
	Type        PresentationType
	InitiatedAt time.Time
	State       State

	RetrievedAt time.Time
	SubmittedAt time.Time
	Response    *WalletResponse
	ErrorCause  string
	TimedOutAt  time.Time
}

// NewPresentation creates a session in the Requested state.
func NewPresentation(id PresentationID, requestID RequestID, typ PresentationType, at time.Time) Presentation {
	return Presentation{
		ID:          id,
		RequestID:   requestID,
		Type:        typ,
		InitiatedAt: at,
		State:       StateRequested,
	}
}

func (p Presentation) invalidTransition(to State) error {
	return fmt.Errorf("presentation %s: cannot move %s -> %s: %w", p.ID, p.State, to, sentinel.ErrInvalidState)
}

// RetrieveRequestObject marks the request object as signed and delivered to the
// wallet. Permitted only from Requested, which makes the request object
// retrievable exactly once.
func (p Presentation) RetrieveRequestObject(at time.Time) (Presentation, error) {
	if p.State != StateRequested {
		return Presentation{}, p.invalidTransition(StateRequestObjectRetrieved)
	}
	p.State = StateRequestObjectRetrieved
	p.RetrievedAt = at
	return p, nil
}

// Submit records a wallet response that matched the requested type. Terminal.
func (p Presentation) Submit(response WalletResponse, at time.Time) (Presentation, error) {
	if p.State != StateRequestObjectRetrieved {
		return Presentation{}, p.invalidTransition(StateSubmitted)
	}
	p.State = StateSubmitted
	p.SubmittedAt = at
	p.Response = &response
	return p, nil
}

// Reject records a wallet response that failed validation. Terminal.
func (p Presentation) Reject(cause string, at time.Time) (Presentation, error) {
	if p.State != StateRequestObjectRetrieved {
		return Presentation{}, p.invalidTransition(StateErrored)
	}
	p.State = StateErrored
	p.ErrorCause = cause
	p.SubmittedAt = at
	return p, nil
}

// Timeout expires a session stuck in a non-terminal state. Terminal.
func (p Presentation) Timeout(at time.Time) (Presentation, error) {
	if p.State.Terminal() {
		return Presentation{}, p.invalidTransition(StateTimedOut)
	}
	p.State = StateTimedOut
	p.TimedOutAt = at
	return p, nil
}
