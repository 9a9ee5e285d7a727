package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into protocol outcomes.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: presentation does not exist in the store
// - ErrConflict: a presentation with the same id already exists
// - ErrInvalidState: presentation is in the wrong state for the requested transition
// - ErrUnavailable: backing store temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
