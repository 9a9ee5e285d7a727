package httptransport

//go:generate mockgen -source=handlers_wallet.go -destination=mocks/wallet-mocks.go -package=mocks WalletService,KeySetSource

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"attesta/internal/domain"
	"attesta/internal/presentation/service"
	"attesta/internal/transport/http/mocks"
	"attesta/pkg/platform/sentinel"
	"attesta/pkg/testutil"
)

type WalletHandlerSuite struct {
	suite.Suite
}

func TestWalletHandlerSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerSuite))
}

func (s *WalletHandlerSuite) newHandler() (http.Handler, *mocks.MockWalletService, *mocks.MockKeySetSource) {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	svc := mocks.NewMockWalletService(ctrl)
	keys := mocks.NewMockKeySetSource(ctrl)

	logger := slog.New(slog.DiscardHandler)
	verifier := NewVerifierHandler(mocks.NewMockVerifierService(ctrl), logger)
	wallet := NewWalletHandler(svc, keys, logger)
	return NewRouter(verifier, wallet, logger), svc, keys
}

func (s *WalletHandlerSuite) TestGetRequestObject() {
	router, svc, _ := s.newHandler()

	svc.EXPECT().
		GetRequestObject(gomock.Any(), domain.RequestID("rid-1")).
		Return("header.payload.signature", nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/wallet/request.jwt/rid-1")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal(JARContentType, rr.Header().Get("Content-Type"))
	s.Equal("header.payload.signature", rr.Body.String())
}

func (s *WalletHandlerSuite) TestGetRequestObjectReplay() {
	router, svc, _ := s.newHandler()

	svc.EXPECT().
		GetRequestObject(gomock.Any(), domain.RequestID("rid-1")).
		Return("", fmt.Errorf("request object for pid-1 already delivered: %w", sentinel.ErrInvalidState))

	req := testutil.NewRequest(s.T(), http.MethodGet, "/wallet/request.jwt/rid-1")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
}

func (s *WalletHandlerSuite) TestGetPresentationDefinition() {
	router, svc, _ := s.newHandler()

	svc.EXPECT().
		GetPresentationDefinition(gomock.Any(), domain.RequestID("rid-1")).
		Return(&domain.PresentationDefinition{
			ID:               "pd-1",
			InputDescriptors: []domain.InputDescriptor{{ID: "in-1"}},
		}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/wallet/pd/rid-1")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "id", "pd-1")
}

func (s *WalletHandlerSuite) TestDirectPostAccepted() {
	router, svc, _ := s.newHandler()

	svc.EXPECT().
		PostWalletResponse(gomock.Any(), domain.RequestID("rid-1"), domain.WalletResponse{
			VPToken:                "vp.token",
			PresentationSubmission: json.RawMessage(`{"id":"sub-1"}`),
		}).
		Return(service.PostResponseResult{Accepted: true}, nil)

	form := url.Values{}
	form.Set("state", "rid-1")
	form.Set("vp_token", "vp.token")
	form.Set("presentation_submission", `{"id":"sub-1"}`)
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/wallet/direct_post", form)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *WalletHandlerSuite) TestDirectPostRejectedPayload() {
	router, svc, _ := s.newHandler()

	svc.EXPECT().
		PostWalletResponse(gomock.Any(), domain.RequestID("rid-1"), domain.WalletResponse{IDToken: "id.token"}).
		Return(service.PostResponseResult{RejectedReason: "missing vp_token"}, nil)

	form := url.Values{}
	form.Set("state", "rid-1")
	form.Set("id_token", "id.token")
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/wallet/direct_post", form)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
	testutil.AssertJSONContains(s.T(), rr, "error_description", "missing vp_token")
}

func (s *WalletHandlerSuite) TestDirectPostMissingState() {
	router, _, _ := s.newHandler()

	form := url.Values{}
	form.Set("vp_token", "vp.token")
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/wallet/direct_post", form)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
}

func (s *WalletHandlerSuite) TestDirectPostRepeat() {
	router, svc, _ := s.newHandler()

	svc.EXPECT().
		PostWalletResponse(gomock.Any(), domain.RequestID("rid-1"), gomock.Any()).
		Return(service.PostResponseResult{}, fmt.Errorf("presentation pid-1 is Submitted: %w", sentinel.ErrInvalidState))

	form := url.Values{}
	form.Set("state", "rid-1")
	form.Set("vp_token", "vp.token")
	req := testutil.NewFormRequest(s.T(), http.MethodPost, "/wallet/direct_post", form)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
}

func (s *WalletHandlerSuite) TestKeySet() {
	router, _, keys := s.newHandler()

	keys.EXPECT().
		PublicJWKSetJSON().
		Return([]byte(`{"keys":[{"kty":"RSA","use":"sig","alg":"RS256","kid":"k1"}]}`), nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/wallet/public-keys.json")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("application/json", rr.Header().Get("Content-Type"))
	s.JSONEq(`{"keys":[{"kty":"RSA","use":"sig","alg":"RS256","kid":"k1"}]}`, rr.Body.String())
}
