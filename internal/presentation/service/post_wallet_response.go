package service

import (
	"context"
	"fmt"

	"attesta/internal/audit"
	"attesta/internal/domain"
	"attesta/pkg/platform/sentinel"
)

// PostResponseResult distinguishes accepted from rejected so the wallet-facing
// adapter can pick an HTTP status. Both outcomes are terminal, persisted state
// changes.
type PostResponseResult struct {
	Accepted       bool
	RejectedReason string
}

// PostWalletResponse records the wallet's answer for the session addressed by
// the request id. A payload whose shape matches the session's type moves the
// session to Submitted; anything else (including an explicit wallet error)
// moves it to Errored with the cause. A repeat call finds a terminal state and
// gets ErrInvalidState.
func (s *Service) PostWalletResponse(ctx context.Context, id domain.RequestID, response domain.WalletResponse) (PostResponseResult, error) {
	p, err := s.store.FindByRequestID(ctx, id)
	if err != nil {
		return PostResponseResult{}, err
	}
	if p.State != domain.StateRequestObjectRetrieved {
		return PostResponseResult{}, fmt.Errorf("presentation %s is %s: %w", p.ID, p.State, sentinel.ErrInvalidState)
	}

	now := s.now()
	if cause := response.Validate(p.Type); cause != nil {
		errored, err := p.Reject(cause.Error(), now)
		if err != nil {
			return PostResponseResult{}, err
		}
		if err := s.store.Update(ctx, errored, domain.StateRequestObjectRetrieved); err != nil {
			return PostResponseResult{}, fmt.Errorf("persist rejection: %w", err)
		}
		if s.metrics != nil {
			s.metrics.IncWalletResponses("rejected")
		}
		s.emit(ctx, errored, audit.ActionWalletResponseRejected, cause.Error())
		s.logger.Info("wallet response rejected", "presentation_id", string(p.ID), "cause", cause.Error())
		return PostResponseResult{RejectedReason: cause.Error()}, nil
	}

	submitted, err := p.Submit(response, now)
	if err != nil {
		return PostResponseResult{}, err
	}
	if err := s.store.Update(ctx, submitted, domain.StateRequestObjectRetrieved); err != nil {
		return PostResponseResult{}, fmt.Errorf("persist submission: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncWalletResponses("accepted")
	}
	s.emit(ctx, submitted, audit.ActionWalletResponseSubmitted, "")
	s.logger.Info("wallet response submitted", "presentation_id", string(p.ID))
	return PostResponseResult{Accepted: true}, nil
}
