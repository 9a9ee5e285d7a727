package audit

import (
	"time"

	"attesta/internal/domain"
)

// Action names a lifecycle fact about a presentation session.
type Action string

const (
	ActionTransactionInitialized  Action = "transaction_initialized"
	ActionRequestObjectRetrieved  Action = "request_object_retrieved"
	ActionWalletResponseSubmitted Action = "wallet_response_submitted"
	ActionWalletResponseRejected  Action = "wallet_response_rejected"
	ActionPresentationTimedOut    Action = "presentation_timed_out"
)

// Event is emitted from the presentation use cases to capture state
// transitions. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp      time.Time
	PresentationID domain.PresentationID
	RequestID      domain.RequestID
	Action         Action
	Detail         string
}
