package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"claimdocs/internal/claims/handler/mocks"
	"claimdocs/internal/claims/models"
	"claimdocs/internal/claims/service"
	"claimdocs/internal/completeness"
	"claimdocs/internal/export/queue"
	"claimdocs/internal/platform/metrics"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
	"claimdocs/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/claims-mocks.go -package=mocks Service
type ClaimsHandlerSuite struct {
	suite.Suite
	ctx     context.Context
	service *mocks.MockService
	metrics *metrics.Metrics
	router  chi.Router
}

func TestClaimsHandlerSuite(t *testing.T) {
	suite.Run(t, new(ClaimsHandlerSuite))
}

func (s *ClaimsHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, logger, s.metrics, time.Second).Register(s.router)
}

func (s *ClaimsHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	switch b := body.(type) {
	case nil:
		return testutil.DoRequest(s.router, testutil.NewRequest(s.T(), method, path))
	case string:
		return testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), method, path, b))
	default:
		return testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), method, path, b))
	}
}

func (s *ClaimsHandlerSuite) TestCreate() {
	s.Run("created claim is returned with 201", func() {
		claimID := id.NewClaimID()
		s.service.EXPECT().Create(gomock.Any(), service.CreateRequest{
			InsuranceCompanyID:  7,
			ClaimTypeID:         2,
			ItemsQuantity:       3,
			ExternalOrderNumber: "ORD-1",
		}).Return(&models.Claim{ID: claimID, Status: models.ClaimStatusInProgress, ItemsQuantity: 3}, nil)

		w := s.do(http.MethodPost, "/claims", map[string]any{
			"insurance_company_id":  7,
			"claim_type_id":         2,
			"items_quantity":        3,
			"external_order_number": "ORD-1",
		})

		s.Equal(http.StatusCreated, w.Code)
		got := testutil.UnmarshalResponse[models.Claim](s.T(), w)
		s.Equal(claimID, got.ID)
		s.Equal(3, got.ItemsQuantity)
		s.NotEmpty(w.Header().Get("X-Request-Id"))
	})

	s.Run("unknown fields are rejected before the service is called", func() {
		w := s.do(http.MethodPost, "/claims", `{"items_quantity": 1, "bogus": true}`)
		testutil.AssertStatusAndError(s.T(), w, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("duplicate order number maps to conflict", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "external order number already in use"))

		w := s.do(http.MethodPost, "/claims", map[string]any{"items_quantity": 1})
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("internal errors hide their description", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "db exploded"))

		w := s.do(http.MethodPost, "/claims", map[string]any{"items_quantity": 1})
		s.Equal(http.StatusInternalServerError, w.Code)
		s.NotContains(w.Body.String(), "db exploded")
	})
}

func (s *ClaimsHandlerSuite) TestGet() {
	s.Run("malformed id is a bad request", func() {
		w := s.do(http.MethodGet, "/claims/not-a-uuid", nil)
		testutil.AssertStatusAndError(s.T(), w, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("missing claim is not found", func() {
		claimID := id.NewClaimID()
		s.service.EXPECT().Get(gomock.Any(), claimID).Return(nil, dErrors.New(dErrors.CodeNotFound, "claim not found"))

		w := s.do(http.MethodGet, "/claims/"+claimID.String(), nil)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("request latency is recorded by route pattern", func() {
		claimID := id.NewClaimID()
		s.service.EXPECT().Get(gomock.Any(), claimID).Return(&models.Claim{ID: claimID}, nil)

		w := s.do(http.MethodGet, "/claims/"+claimID.String(), nil)
		s.Equal(http.StatusOK, w.Code)
		s.GreaterOrEqual(promtest.CollectAndCount(s.metrics.RequestDuration), 1)
	})
}

func (s *ClaimsHandlerSuite) TestUpdate() {
	claimID := id.NewClaimID()
	qty := 5
	s.service.EXPECT().Update(gomock.Any(), claimID, service.UpdateRequest{ItemsQuantity: &qty}).
		Return(&models.Claim{ID: claimID, ItemsQuantity: 5}, nil)

	w := s.do(http.MethodPatch, "/claims/"+claimID.String(), map[string]any{"items_quantity": 5})

	s.Equal(http.StatusOK, w.Code)
	got := testutil.UnmarshalResponse[models.Claim](s.T(), w)
	s.Equal(5, got.ItemsQuantity)
}

func (s *ClaimsHandlerSuite) TestChangeStatus() {
	claimID := id.NewClaimID()

	s.Run("unknown status is rejected", func() {
		w := s.do(http.MethodPost, "/claims/"+claimID.String()+"/status", map[string]any{"status": "teleported"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing documents block the transition", func() {
		s.service.EXPECT().ChangeStatus(gomock.Any(), claimID, models.ClaimStatusCompleted).
			Return(nil, dErrors.New(dErrors.CodePreconditionFailed, "claim is missing: receipt"))

		w := s.do(http.MethodPost, "/claims/"+claimID.String()+"/status", map[string]any{"status": "completed"})
		testutil.AssertStatusAndError(s.T(), w, http.StatusUnprocessableEntity, string(dErrors.CodePreconditionFailed))
	})

	s.Run("allowed transition returns the claim", func() {
		s.service.EXPECT().ChangeStatus(gomock.Any(), claimID, models.ClaimStatusCompleted).
			Return(&models.Claim{ID: claimID, Status: models.ClaimStatusCompleted}, nil)

		w := s.do(http.MethodPost, "/claims/"+claimID.String()+"/status", map[string]any{"status": "completed"})
		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *ClaimsHandlerSuite) TestCompleteness() {
	claimID := id.NewClaimID()
	s.service.EXPECT().Completeness(gomock.Any(), claimID).
		Return(completeness.Report{Receipt: true, MissingDocuments: 2}, nil)

	w := s.do(http.MethodGet, "/claims/"+claimID.String()+"/completeness", nil)

	s.Equal(http.StatusOK, w.Code)
	got := testutil.UnmarshalResponse[completeness.Report](s.T(), w)
	s.True(got.Receipt)
	s.Equal(2, got.MissingDocuments)
}

func (s *ClaimsHandlerSuite) TestMedia() {
	claimID := id.NewClaimID()
	requirementID := id.NewRequirementID()
	path := "/claims/" + claimID.String() + "/probatory-documents/" + requirementID.String() + "/media"

	s.Run("attach", func() {
		in := service.MediaInput{FileName: "front.jpg", StorageKey: "claims/a/front.jpg", ContentType: "image/jpeg"}
		s.service.EXPECT().AttachMedia(gomock.Any(), claimID, requirementID, in).
			Return(&models.ClaimProbatoryDocument{ID: requirementID, ClaimID: claimID}, nil)

		w := s.do(http.MethodPut, path, in)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("detach", func() {
		s.service.EXPECT().DetachMedia(gomock.Any(), claimID, requirementID).Return(nil)

		w := s.do(http.MethodDelete, path, nil)
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("non json content type is rejected", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, path, "x")
		req.Header.Set("Content-Type", "text/plain")
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest)
	})
}

func (s *ClaimsHandlerSuite) TestCompleteDocument() {
	claimID := id.NewClaimID()

	s.Run("unknown document type", func() {
		w := s.do(http.MethodPut, "/claims/"+claimID.String()+"/documents/passport", map[string]any{
			"file_name": "x.jpg", "storage_key": "k",
		})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("receipt upload", func() {
		in := service.MediaInput{FileName: "receipt.pdf", StorageKey: "claims/a/receipt.pdf"}
		s.service.EXPECT().CompleteDocument(gomock.Any(), claimID, models.DocumentTypeReceipt, in).
			Return(&models.ClaimDocument{ClaimID: claimID, DocumentType: models.DocumentTypeReceipt, Status: models.ClaimDocumentCompleted}, nil)

		w := s.do(http.MethodPut, "/claims/"+claimID.String()+"/documents/receipt", in)
		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *ClaimsHandlerSuite) TestRequestExport() {
	claimID := id.NewClaimID()

	s.Run("unknown kind never reaches the queue", func() {
		w := s.do(http.MethodPost, "/claims/"+claimID.String()+"/exports", map[string]any{"kind": "tarball"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("accepted request echoes the message", func() {
		s.service.EXPECT().RequestExport(gomock.Any(), claimID, service.ExportRequest{Kind: queue.KindZip, GroupID: models.GroupPictures}).
			Return(queue.Message{Kind: queue.KindZip, ClaimID: claimID, ArtifactDocumentTypeID: models.DocumentTypeZip, GroupID: models.GroupPictures}, nil)

		w := s.do(http.MethodPost, "/claims/"+claimID.String()+"/exports", map[string]any{"kind": "ZIP", "group_id": int(models.GroupPictures)})
		s.Equal(http.StatusAccepted, w.Code)
		got := testutil.UnmarshalResponse[queue.Message](s.T(), w)
		s.Equal(queue.KindZip, got.Kind)
		s.Equal(claimID, got.ClaimID)
	})

	s.Run("unconfigured queue is unavailable", func() {
		s.service.EXPECT().RequestExport(gomock.Any(), claimID, gomock.Any()).
			Return(queue.Message{}, dErrors.New(dErrors.CodeUnavailable, "export queue is not configured"))

		w := s.do(http.MethodPost, "/claims/"+claimID.String()+"/exports", map[string]any{"kind": "pdf"})
		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}
