package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"attesta/internal/domain"
	"attesta/internal/presentation/service"
)

// VerifierService defines the relying-party-facing operations.
type VerifierService interface {
	InitTransaction(ctx context.Context, typ domain.PresentationType) (service.InitTransactionResult, error)
	GetWalletResponse(ctx context.Context, id domain.PresentationID) (domain.WalletResponse, error)
}

// VerifierHandler handles the verifier-side endpoints under /ui.
type VerifierHandler struct {
	svc    VerifierService
	logger *slog.Logger
}

func NewVerifierHandler(svc VerifierService, logger *slog.Logger) *VerifierHandler {
	return &VerifierHandler{svc: svc, logger: logger}
}

// Register mounts the verifier routes on r.
func (h *VerifierHandler) Register(r chi.Router) {
	r.Post("/ui/presentations", h.handleInitTransaction)
	r.Get("/ui/presentations/{presentationId}", h.handleGetWalletResponse)
}

// initTransactionRequest is the relying party's request body. The type field
// selects what the wallet is asked for; the remaining fields apply per type.
type initTransactionRequest struct {
	Type                   string                         `json:"type"`
	IDTokenType            []string                       `json:"id_token_type,omitempty"`
	PresentationDefinition *domain.PresentationDefinition `json:"presentation_definition,omitempty"`
}

func (r initTransactionRequest) toPresentationType() (domain.PresentationType, bool) {
	types := make([]domain.IDTokenType, len(r.IDTokenType))
	for i, t := range r.IDTokenType {
		switch domain.IDTokenType(t) {
		case domain.IDTokenSubjectSigned, domain.IDTokenAttesterSigned:
			types[i] = domain.IDTokenType(t)
		default:
			return domain.PresentationType{}, false
		}
	}

	switch r.Type {
	case "id_token":
		if len(types) == 0 {
			types = []domain.IDTokenType{domain.IDTokenSubjectSigned}
		}
		return domain.IDTokenRequest(types...), true
	case "vp_token":
		if r.PresentationDefinition == nil {
			return domain.PresentationType{}, false
		}
		return domain.VPTokenRequest(r.PresentationDefinition), true
	case "vp_token id_token":
		if r.PresentationDefinition == nil {
			return domain.PresentationType{}, false
		}
		if len(types) == 0 {
			types = []domain.IDTokenType{domain.IDTokenSubjectSigned}
		}
		return domain.IDAndVPTokenRequest(r.PresentationDefinition, types...), true
	default:
		return domain.PresentationType{}, false
	}
}

func (h *VerifierHandler) handleInitTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req initTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid init transaction body", "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	typ, ok := req.toPresentationType()
	if !ok {
		h.logger.WarnContext(ctx, "invalid presentation type", "type", req.Type)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	result, err := h.svc.InitTransaction(ctx, typ)
	if err != nil {
		h.logger.ErrorContext(ctx, "init transaction failed", "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *VerifierHandler) handleGetWalletResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := domain.PresentationID(chi.URLParam(r, "presentationId"))

	response, err := h.svc.GetWalletResponse(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
