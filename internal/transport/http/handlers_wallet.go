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

// JARContentType is the media type for a signed request object (RFC 9101).
const JARContentType = "application/oauth-authz-req+jwt"

// WalletService defines the wallet-facing operations.
type WalletService interface {
	GetRequestObject(ctx context.Context, id domain.RequestID) (string, error)
	GetPresentationDefinition(ctx context.Context, id domain.RequestID) (*domain.PresentationDefinition, error)
	PostWalletResponse(ctx context.Context, id domain.RequestID, response domain.WalletResponse) (service.PostResponseResult, error)
}

// KeySetSource serves the verifier's public signing keys as a JWK set.
type KeySetSource interface {
	PublicJWKSetJSON() ([]byte, error)
}

// WalletHandler handles the wallet-facing endpoints under /wallet.
type WalletHandler struct {
	svc    WalletService
	keys   KeySetSource
	logger *slog.Logger
}

func NewWalletHandler(svc WalletService, keys KeySetSource, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{svc: svc, keys: keys, logger: logger}
}

// Register mounts the wallet routes on r.
func (h *WalletHandler) Register(r chi.Router) {
	r.Get("/wallet/request.jwt/{requestId}", h.handleGetRequestObject)
	r.Get("/wallet/pd/{requestId}", h.handleGetPresentationDefinition)
	r.Post("/wallet/direct_post", h.handleDirectPost)
	r.Get("/wallet/public-keys.json", h.handleKeySet)
}

func (h *WalletHandler) handleGetRequestObject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := domain.RequestID(chi.URLParam(r, "requestId"))

	jar, err := h.svc.GetRequestObject(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", JARContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(jar))
}

func (h *WalletHandler) handleGetPresentationDefinition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := domain.RequestID(chi.URLParam(r, "requestId"))

	pd, err := h.svc.GetPresentationDefinition(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pd)
}

// handleDirectPost receives the wallet's authorization response. The form's
// state field carries the request id that routes the payload to its session.
func (h *WalletHandler) handleDirectPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	state := r.PostFormValue("state")
	if state == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	response := domain.WalletResponse{
		IDToken:          r.PostFormValue("id_token"),
		VPToken:          r.PostFormValue("vp_token"),
		Error:            r.PostFormValue("error"),
		ErrorDescription: r.PostFormValue("error_description"),
	}
	if submission := r.PostFormValue("presentation_submission"); submission != "" {
		response.PresentationSubmission = json.RawMessage(submission)
	}

	result, err := h.svc.PostWalletResponse(ctx, domain.RequestID(state), response)
	if err != nil {
		h.logger.WarnContext(ctx, "direct_post rejected", "err", err)
		writeError(w, err)
		return
	}
	if !result.Accepted {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_request",
			"error_description": result.RejectedReason,
		})
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *WalletHandler) handleKeySet(w http.ResponseWriter, r *http.Request) {
	keySet, err := h.keys.PublicJWKSetJSON()
	if err != nil {
		h.logger.Error("marshal public key set", "err", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(keySet)
}
