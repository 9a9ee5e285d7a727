package httptransport

//go:generate mockgen -source=handlers_verifier.go -destination=mocks/verifier-mocks.go -package=mocks VerifierService

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"attesta/internal/domain"
	"attesta/internal/presentation/service"
	"attesta/internal/transport/http/mocks"
	"attesta/pkg/platform/sentinel"
	"attesta/pkg/testutil"
)

type VerifierHandlerSuite struct {
	suite.Suite
}

func TestVerifierHandlerSuite(t *testing.T) {
	suite.Run(t, new(VerifierHandlerSuite))
}

func (s *VerifierHandlerSuite) newHandler() (http.Handler, *mocks.MockVerifierService) {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	svc := mocks.NewMockVerifierService(ctrl)

	logger := slog.New(slog.DiscardHandler)
	verifier := NewVerifierHandler(svc, logger)
	wallet := NewWalletHandler(mocks.NewMockWalletService(ctrl), mocks.NewMockKeySetSource(ctrl), logger)
	return NewRouter(verifier, wallet, logger), svc
}

func (s *VerifierHandlerSuite) TestInitTransactionIDToken() {
	router, svc := s.newHandler()

	svc.EXPECT().
		InitTransaction(gomock.Any(), domain.IDTokenRequest(domain.IDTokenSubjectSigned)).
		Return(service.InitTransactionResult{
			PresentationID: "pid-1",
			RequestURI:     "https://verifier.example/wallet/request.jwt/rid-1",
		}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/ui/presentations", map[string]any{
		"type": "id_token",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "presentation_id", "pid-1")
	testutil.AssertJSONContains(s.T(), rr, "request_uri", "https://verifier.example/wallet/request.jwt/rid-1")
}

func (s *VerifierHandlerSuite) TestInitTransactionVPToken() {
	router, svc := s.newHandler()

	pd := &domain.PresentationDefinition{
		ID:               "pd-1",
		InputDescriptors: []domain.InputDescriptor{{ID: "in-1"}},
	}
	svc.EXPECT().
		InitTransaction(gomock.Any(), domain.VPTokenRequest(pd)).
		Return(service.InitTransactionResult{PresentationID: "pid-2", RequestObject: "jar.token"}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/ui/presentations", map[string]any{
		"type":                    "vp_token",
		"presentation_definition": pd,
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	result := testutil.UnmarshalResponse[service.InitTransactionResult](s.T(), rr)
	s.Equal(domain.PresentationID("pid-2"), result.PresentationID)
	s.Equal("jar.token", result.RequestObject)
	s.Empty(result.RequestURI)
}

func (s *VerifierHandlerSuite) TestInitTransactionRejectsUnknownType() {
	router, _ := s.newHandler()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/ui/presentations", map[string]any{
		"type": "saml_assertion",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
}

func (s *VerifierHandlerSuite) TestInitTransactionRejectsVPTokenWithoutDefinition() {
	router, _ := s.newHandler()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/ui/presentations", map[string]any{
		"type": "vp_token",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
}

func (s *VerifierHandlerSuite) TestGetWalletResponse() {
	router, svc := s.newHandler()

	svc.EXPECT().
		GetWalletResponse(gomock.Any(), domain.PresentationID("pid-1")).
		Return(domain.WalletResponse{
			IDToken:                "id.token",
			VPToken:                "vp.token",
			PresentationSubmission: json.RawMessage(`{"id":"sub-1"}`),
		}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/ui/presentations/pid-1")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	response := testutil.UnmarshalResponse[domain.WalletResponse](s.T(), rr)
	s.Equal("id.token", response.IDToken)
	s.Equal("vp.token", response.VPToken)
	s.JSONEq(`{"id":"sub-1"}`, string(response.PresentationSubmission))
}

func (s *VerifierHandlerSuite) TestGetWalletResponseErrorMapping() {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown presentation", fmt.Errorf("presentation pid-x: %w", sentinel.ErrNotFound), http.StatusNotFound, "not_found"},
		{"not yet submitted", fmt.Errorf("presentation pid-x is Requested: %w", sentinel.ErrInvalidState), http.StatusBadRequest, "invalid_request"},
		{"store down", fmt.Errorf("load: %w", sentinel.ErrUnavailable), http.StatusServiceUnavailable, "temporarily_unavailable"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			router, svc := s.newHandler()
			svc.EXPECT().
				GetWalletResponse(gomock.Any(), domain.PresentationID("pid-x")).
				Return(domain.WalletResponse{}, tc.err)

			req := testutil.NewRequest(s.T(), http.MethodGet, "/ui/presentations/pid-x")
			rr := testutil.DoRequest(router, req)

			testutil.AssertStatusAndError(s.T(), rr, tc.status, tc.code)
		})
	}
}
