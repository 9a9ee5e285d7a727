package service

import (
	"context"
	"fmt"

	"attesta/internal/domain"
	"attesta/pkg/platform/sentinel"
)

// GetWalletResponse returns the submitted response to the relying party. Pure
// read: valid only once the session is Submitted.
func (s *Service) GetWalletResponse(ctx context.Context, id domain.PresentationID) (domain.WalletResponse, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.WalletResponse{}, err
	}
	if p.State != domain.StateSubmitted || p.Response == nil {
		return domain.WalletResponse{}, fmt.Errorf("presentation %s is %s: %w", p.ID, p.State, sentinel.ErrInvalidState)
	}
	return *p.Response, nil
}
