package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/dto"
	"github.com/articletrack/articletrack_app/internal/handlers"
	"github.com/articletrack/articletrack_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CheckinService ---
type MockCheckinService struct {
	mock.Mock
}

func (m *MockCheckinService) GetCheckinByID(ctx context.Context, collectionID string, checkinID string, requestingUserID string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, checkinID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) ListCheckins(ctx context.Context, collectionID string, requestingUserID string, params dto.ListCheckinsParams) (*dto.ListCheckinsResponse, error) {
	args := m.Called(ctx, collectionID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListCheckinsResponse), args.Error(1)
}

func (m *MockCheckinService) ListCheckinsByArticle(ctx context.Context, collectionID string, articleID string, requestingUserID string) ([]domain.Checkin, error) {
	args := m.Called(ctx, collectionID, articleID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) GetCheckinErrorLevel(ctx context.Context, collectionID string, checkinID string, requestingUserID string) (domain.ErrorLevel, error) {
	args := m.Called(ctx, collectionID, checkinID, requestingUserID)
	return args.Get(0).(domain.ErrorLevel), args.Error(1)
}

func (m *MockCheckinService) ListWorkflowHistory(ctx context.Context, collectionID string, checkinID string, requestingUserID string) ([]domain.CheckinWorkflowLog, error) {
	args := m.Called(ctx, collectionID, checkinID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CheckinWorkflowLog), args.Error(1)
}

func (m *MockCheckinService) SendToPending(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, checkinID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) SendToReview(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, checkinID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) DoReview(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, checkinID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) Accept(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, checkinID, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) Reject(ctx context.Context, collectionID string, checkinID string, actorUserID string, cause string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, checkinID, actorUserID, cause)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) CreateCheckin(ctx context.Context, collectionID string, req dto.CreateCheckinRequest, creatorUserID string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinService) AddNotice(ctx context.Context, collectionID string, checkinID string, req dto.CreateNoticeRequest) (*domain.Notice, error) {
	args := m.Called(ctx, collectionID, checkinID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

func (m *MockCheckinService) ListNotices(ctx context.Context, collectionID string, checkinID string, includeServiceMarkers bool) ([]domain.Notice, error) {
	args := m.Called(ctx, collectionID, checkinID, includeServiceMarkers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.CheckinSvcFacade = (*MockCheckinService)(nil)

// --- Test Suite ---
type CheckinHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockCheckinService *MockCheckinService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *CheckinHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "articletrack-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *CheckinHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockCheckinService = new(MockCheckinService)

	v1 := suite.router.Group("/api/v1/collections/:collection_id")
	handlers.RegisterCheckinRoutes(v1, suite.mockCheckinService)
}

func (suite *CheckinHandlerTestSuite) authedRequest(method, url string, body []byte, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *CheckinHandlerTestSuite) TestListCheckins_Success() {
	collectionID := uuid.NewString()
	requestingUserID := uuid.NewString()
	limit := 10

	expectedCheckins := []dto.CheckinResponse{
		{
			CheckinID:    uuid.NewString(),
			CollectionID: collectionID,
			ArticleID:    uuid.NewString(),
			AttemptRef:   "upload_2026_0001",
			PackageName:  "abc_v55n3_0042.zip",
			UploadedAt:   time.Now(),
			Status:       domain.CheckinPending,
			CreatedAt:    time.Now(),
		},
		{
			CheckinID:    uuid.NewString(),
			CollectionID: collectionID,
			ArticleID:    uuid.NewString(),
			AttemptRef:   "upload_2026_0002",
			PackageName:  "abc_v55n3_0043.zip",
			UploadedAt:   time.Now().Add(-time.Hour),
			Status:       domain.CheckinReview,
			CreatedAt:    time.Now().Add(-time.Hour),
		},
	}
	expectedResponse := &dto.ListCheckinsResponse{
		Checkins:  expectedCheckins,
		NextToken: nil,
	}

	suite.mockCheckinService.On("ListCheckins",
		mock.AnythingOfType("*context.valueCtx"),
		collectionID,
		requestingUserID,
		mock.MatchedBy(func(p dto.ListCheckinsParams) bool {
			return p.Limit == limit && p.Status == nil
		}),
	).Return(expectedResponse, nil).Once()

	url := fmt.Sprintf("/api/v1/collections/%s/checkins?limit=%d", collectionID, limit)
	w := suite.authedRequest(http.MethodGet, url, nil, requestingUserID)

	suite.Equal(http.StatusOK, w.Code, "Expected status OK")

	var responseBody dto.ListCheckinsResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(responseBody.Checkins, len(expectedCheckins))
	if len(responseBody.Checkins) == len(expectedCheckins) {
		suite.Equal(expectedCheckins[0].CheckinID, responseBody.Checkins[0].CheckinID)
		suite.Equal(expectedCheckins[1].CheckinID, responseBody.Checkins[1].CheckinID)
	}

	suite.mockCheckinService.AssertExpectations(suite.T())
}

func (suite *CheckinHandlerTestSuite) TestAccept_Success() {
	collectionID := uuid.NewString()
	checkinID := uuid.NewString()
	actorUserID := uuid.NewString()

	now := time.Now()
	accepted := &domain.Checkin{
		CheckinID:    checkinID,
		CollectionID: collectionID,
		ArticleID:    uuid.NewString(),
		Status:       domain.CheckinAccepted,
		AcceptedBy:   &actorUserID,
		AcceptedAt:   &now,
	}

	suite.mockCheckinService.On("Accept",
		mock.AnythingOfType("*context.valueCtx"),
		collectionID,
		checkinID,
		actorUserID,
	).Return(accepted, nil).Once()

	url := fmt.Sprintf("/api/v1/collections/%s/checkins/%s/accept", collectionID, checkinID)
	w := suite.authedRequest(http.MethodPost, url, nil, actorUserID)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.CheckinResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(domain.CheckinAccepted, responseBody.Status)
	suite.NotNil(responseBody.AcceptedBy)

	suite.mockCheckinService.AssertExpectations(suite.T())
}

func (suite *CheckinHandlerTestSuite) TestAccept_ArticleAlreadyAccepted() {
	collectionID := uuid.NewString()
	checkinID := uuid.NewString()
	actorUserID := uuid.NewString()

	suite.mockCheckinService.On("Accept",
		mock.AnythingOfType("*context.valueCtx"),
		collectionID,
		checkinID,
		actorUserID,
	).Return(nil, apperrors.ErrConflict).Once()

	url := fmt.Sprintf("/api/v1/collections/%s/checkins/%s/accept", collectionID, checkinID)
	w := suite.authedRequest(http.MethodPost, url, nil, actorUserID)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockCheckinService.AssertExpectations(suite.T())
}

func (suite *CheckinHandlerTestSuite) TestReject_Success() {
	collectionID := uuid.NewString()
	checkinID := uuid.NewString()
	actorUserID := uuid.NewString()
	cause := "package fails XML validation on stage packtrack"

	now := time.Now()
	rejected := &domain.Checkin{
		CheckinID:     checkinID,
		CollectionID:  collectionID,
		ArticleID:     uuid.NewString(),
		Status:        domain.CheckinRejected,
		RejectedBy:    &actorUserID,
		RejectedAt:    &now,
		RejectedCause: &cause,
	}

	suite.mockCheckinService.On("Reject",
		mock.AnythingOfType("*context.valueCtx"),
		collectionID,
		checkinID,
		actorUserID,
		cause,
	).Return(rejected, nil).Once()

	body, _ := json.Marshal(dto.RejectCheckinRequest{RejectedCause: cause})
	url := fmt.Sprintf("/api/v1/collections/%s/checkins/%s/reject", collectionID, checkinID)
	w := suite.authedRequest(http.MethodPost, url, body, actorUserID)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.CheckinResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(domain.CheckinRejected, responseBody.Status)
	if suite.NotNil(responseBody.RejectedCause) {
		suite.Equal(cause, *responseBody.RejectedCause)
	}

	suite.mockCheckinService.AssertExpectations(suite.T())
}

func (suite *CheckinHandlerTestSuite) TestReject_MissingCause() {
	collectionID := uuid.NewString()
	checkinID := uuid.NewString()
	actorUserID := uuid.NewString()

	body, _ := json.Marshal(map[string]string{})
	url := fmt.Sprintf("/api/v1/collections/%s/checkins/%s/reject", collectionID, checkinID)
	w := suite.authedRequest(http.MethodPost, url, body, actorUserID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCheckinService.AssertNotCalled(suite.T(), "Reject")
}

func (suite *CheckinHandlerTestSuite) TestSendToReview_GuardRejected() {
	collectionID := uuid.NewString()
	checkinID := uuid.NewString()
	actorUserID := uuid.NewString()

	suite.mockCheckinService.On("SendToReview",
		mock.AnythingOfType("*context.valueCtx"),
		collectionID,
		checkinID,
		actorUserID,
	).Return(nil, fmt.Errorf("checkin has error notices: %w", apperrors.ErrValidation)).Once()

	url := fmt.Sprintf("/api/v1/collections/%s/checkins/%s/send-to-review", collectionID, checkinID)
	w := suite.authedRequest(http.MethodPost, url, nil, actorUserID)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockCheckinService.AssertExpectations(suite.T())
}

func (suite *CheckinHandlerTestSuite) TestGetCheckin_Unauthorized() {
	collectionID := uuid.NewString()
	checkinID := uuid.NewString()

	url := fmt.Sprintf("/api/v1/collections/%s/checkins/%s", collectionID, checkinID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockCheckinService.AssertNotCalled(suite.T(), "GetCheckinByID")
}

// --- Run Test Suite ---
func TestCheckinHandler(t *testing.T) {
	suite.Run(t, new(CheckinHandlerTestSuite))
}
