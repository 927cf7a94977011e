package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/core/services"
	"github.com/articletrack/articletrack_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CheckinRepository ---
type MockCheckinRepository struct {
	mock.Mock
}

// Ensure MockCheckinRepository implements portsrepo.CheckinRepositoryWithTx
var _ portsrepo.CheckinRepositoryWithTx = (*MockCheckinRepository)(nil)

func (m *MockCheckinRepository) FindCheckinByID(ctx context.Context, collectionID, checkinID string) (*domain.Checkin, error) {
	args := m.Called(ctx, collectionID, checkinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinRepository) ListCheckinsByCollection(ctx context.Context, collectionID string, status *domain.CheckinStatus, limit int, nextToken *string) ([]domain.Checkin, *string, error) {
	args := m.Called(ctx, collectionID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Checkin), returnedNextToken, args.Error(2)
}

func (m *MockCheckinRepository) ListCheckinsByArticle(ctx context.Context, collectionID, articleID string) ([]domain.Checkin, error) {
	args := m.Called(ctx, collectionID, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Checkin), args.Error(1)
}

func (m *MockCheckinRepository) SaveCheckin(ctx context.Context, checkin domain.Checkin) error {
	args := m.Called(ctx, checkin)
	return args.Error(0)
}

func (m *MockCheckinRepository) MarkCheckoutStarted(ctx context.Context, collectionID, checkinID string, at time.Time) error {
	args := m.Called(ctx, collectionID, checkinID, at)
	return args.Error(0)
}

func (m *MockCheckinRepository) LockArticleCheckins(ctx context.Context, tx pgx.Tx, articleID string) error {
	args := m.Called(ctx, tx, articleID)
	return args.Error(0)
}

func (m *MockCheckinRepository) FindCheckinByIDForUpdate(ctx context.Context, tx pgx.Tx, collectionID, checkinID string) (*domain.Checkin, error) {
	args := m.Called(ctx, tx, collectionID, checkinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockCheckinRepository) ArticleHasAcceptedCheckinInTx(ctx context.Context, tx pgx.Tx, articleID string) (bool, error) {
	args := m.Called(ctx, tx, articleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCheckinRepository) FindNoticesByCheckinIDInTx(ctx context.Context, tx pgx.Tx, checkinID string) ([]domain.Notice, error) {
	args := m.Called(ctx, tx, checkinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

func (m *MockCheckinRepository) ApplyTransition(ctx context.Context, tx pgx.Tx, checkin domain.Checkin, log domain.CheckinWorkflowLog) error {
	args := m.Called(ctx, tx, checkin, log)
	return args.Error(0)
}

func (m *MockCheckinRepository) ListWorkflowLogsByCheckinID(ctx context.Context, checkinID string) ([]domain.CheckinWorkflowLog, error) {
	args := m.Called(ctx, checkinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CheckinWorkflowLog), args.Error(1)
}

func (m *MockCheckinRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockCheckinRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCheckinRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock NoticeRepository ---
type MockNoticeRepository struct {
	mock.Mock
}

var _ portsrepo.NoticeRepositoryFacade = (*MockNoticeRepository)(nil)

func (m *MockNoticeRepository) FindNoticesByCheckinID(ctx context.Context, checkinID string, includeServiceMarkers bool) ([]domain.Notice, error) {
	args := m.Called(ctx, checkinID, includeServiceMarkers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

func (m *MockNoticeRepository) SaveNotice(ctx context.Context, notice domain.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

// --- Mock ArticleRepository ---
type MockArticleRepository struct {
	mock.Mock
}

var _ portsrepo.ArticleRepositoryFacade = (*MockArticleRepository)(nil)

func (m *MockArticleRepository) FindArticleByID(ctx context.Context, collectionID, articleID string) (*domain.Article, error) {
	args := m.Called(ctx, collectionID, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) ListArticlesByCollection(ctx context.Context, collectionID string, limit int, nextToken *string) ([]domain.Article, *string, error) {
	args := m.Called(ctx, collectionID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Article), returnedNextToken, args.Error(2)
}

func (m *MockArticleRepository) ArticleHasAcceptedCheckin(ctx context.Context, articleID string) (bool, error) {
	args := m.Called(ctx, articleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) FindNewestCheckinByArticle(ctx context.Context, articleID string) (*domain.Checkin, error) {
	args := m.Called(ctx, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkin), args.Error(1)
}

func (m *MockArticleRepository) SaveArticle(ctx context.Context, article domain.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

// --- Mock UserReaderSvc ---
type MockUserReaderSvc struct {
	mock.Mock
}

var _ portssvc.UserReaderSvc = (*MockUserReaderSvc)(nil)

func (m *MockUserReaderSvc) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReaderSvc) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReaderSvc) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Mock CollectionService ---
type MockCollectionService struct {
	mock.Mock
}

var _ portssvc.CollectionSvcFacade = (*MockCollectionService)(nil)

func (m *MockCollectionService) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionService) ListUserCollections(ctx context.Context, userID string) ([]domain.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collection), args.Error(1)
}

func (m *MockCollectionService) ListCollectionUsers(ctx context.Context, collectionID string, requestingUserID string) ([]domain.UserCollection, error) {
	args := m.Called(ctx, collectionID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserCollection), args.Error(1)
}

func (m *MockCollectionService) CreateCollection(ctx context.Context, name, acronym, description, creatorUserID string) (*domain.Collection, error) {
	args := m.Called(ctx, name, acronym, description, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionService) AddUserToCollection(ctx context.Context, addingUserID, targetUserID, collectionID string, role domain.UserCollectionRole) error {
	args := m.Called(ctx, addingUserID, targetUserID, collectionID, role)
	return args.Error(0)
}

func (m *MockCollectionService) AuthorizeUserAction(ctx context.Context, userID, collectionID string, requiredRole domain.UserCollectionRole) error {
	args := m.Called(ctx, userID, collectionID, requiredRole)
	return args.Error(0)
}

// --- Test Suite ---

type CheckinServiceTestSuite struct {
	suite.Suite
	mockCheckinRepo   *MockCheckinRepository
	mockNoticeRepo    *MockNoticeRepository
	mockArticleRepo   *MockArticleRepository
	mockUserSvc       *MockUserReaderSvc
	mockCollectionSvc *MockCollectionService
	service           portssvc.CheckinSvcFacade

	collectionID string
	articleID    string
	actorID      string
	actor        domain.User
}

func (suite *CheckinServiceTestSuite) SetupTest() {
	suite.mockCheckinRepo = new(MockCheckinRepository)
	suite.mockNoticeRepo = new(MockNoticeRepository)
	suite.mockArticleRepo = new(MockArticleRepository)
	suite.mockUserSvc = new(MockUserReaderSvc)
	suite.mockCollectionSvc = new(MockCollectionService)
	suite.service = services.NewCheckinService(
		suite.mockCheckinRepo,
		suite.mockNoticeRepo,
		suite.mockArticleRepo,
		suite.mockUserSvc,
		suite.mockCollectionSvc,
		nil, // notifier
		nil, // checkout
	)

	suite.collectionID = uuid.NewString()
	suite.articleID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.actor = domain.User{
		UserID:   suite.actorID,
		Name:     "Editor",
		Email:    "editor@example.org",
		IsActive: true,
	}
}

// newCheckin builds a checkin in the given status with clearance fields
// matching the status.
func (suite *CheckinServiceTestSuite) newCheckin(status domain.CheckinStatus) *domain.Checkin {
	c := &domain.Checkin{
		CheckinID:    uuid.NewString(),
		CollectionID: suite.collectionID,
		ArticleID:    suite.articleID,
		AttemptRef:   "1",
		PackageName:  "0042-9686-bwho-91-08.zip",
		UploadedAt:   time.Now().UTC().Add(-time.Hour),
		Status:       status,
	}
	now := time.Now().UTC()
	switch status {
	case domain.CheckinAccepted:
		c.ReviewedBy, c.ReviewedAt = &suite.actorID, &now
		c.AcceptedBy, c.AcceptedAt = &suite.actorID, &now
	case domain.CheckinRejected:
		cause := "broken package"
		c.RejectedBy, c.RejectedAt, c.RejectedCause = &suite.actorID, &now, &cause
	}
	return c
}

// expectTransitionPlumbing wires the mocks every successful (or guard-refused)
// transition walks through: auth, actor lookup and the transaction scaffolding.
func (suite *CheckinServiceTestSuite) expectTransitionPlumbing(ctx context.Context, checkin *domain.Checkin, articleAccepted bool, notices []domain.Notice) {
	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.actorID, suite.collectionID, domain.RoleMember).Return(nil).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.actorID).Return(&suite.actor, nil).Once()
	suite.mockCheckinRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockCheckinRepo.On("FindCheckinByIDForUpdate", ctx, mock.Anything, suite.collectionID, checkin.CheckinID).Return(checkin, nil).Once()
	suite.mockCheckinRepo.On("LockArticleCheckins", ctx, mock.Anything, suite.articleID).Return(nil).Once()
	suite.mockCheckinRepo.On("ArticleHasAcceptedCheckinInTx", ctx, mock.Anything, suite.articleID).Return(articleAccepted, nil).Once()
	suite.mockCheckinRepo.On("FindNoticesByCheckinIDInTx", ctx, mock.Anything, checkin.CheckinID).Return(notices, nil).Once()
	suite.mockCheckinRepo.On("Rollback", ctx, mock.Anything).Return(nil)
}

func (suite *CheckinServiceTestSuite) assertAll() {
	suite.mockCollectionSvc.AssertExpectations(suite.T())
	suite.mockUserSvc.AssertExpectations(suite.T())
	suite.mockCheckinRepo.AssertExpectations(suite.T())
}

// --- Transition tests ---

func (suite *CheckinServiceTestSuite) TestSendToReview_Success() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinPending)

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})
	suite.mockCheckinRepo.On("ApplyTransition", ctx, mock.Anything, mock.AnythingOfType("domain.Checkin"), mock.AnythingOfType("domain.CheckinWorkflowLog")).Return(nil).Once()
	suite.mockCheckinRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.SendToReview(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.CheckinReview, result.Status)
	suite.Nil(result.ReviewedBy)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestSendToReview_BlockedByErrorNotices() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinPending)
	notices := []domain.Notice{{NoticeID: uuid.NewString(), CheckinID: checkin.CheckinID, Status: "error"}}

	suite.expectTransitionPlumbing(ctx, checkin, false, notices)

	_, err := suite.service.SendToReview(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(domain.CheckinPending, checkin.Status)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestDoReview_Success() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinReview)

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})
	var appliedLog domain.CheckinWorkflowLog
	suite.mockCheckinRepo.On("ApplyTransition", ctx, mock.Anything, mock.AnythingOfType("domain.Checkin"), mock.AnythingOfType("domain.CheckinWorkflowLog")).
		Run(func(args mock.Arguments) {
			appliedLog = args.Get(3).(domain.CheckinWorkflowLog)
		}).Return(nil).Once()
	suite.mockCheckinRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.DoReview(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.CheckinReview, result.Status)
	suite.Require().NotNil(result.ReviewedBy)
	suite.Equal(suite.actorID, *result.ReviewedBy)
	suite.NotEmpty(appliedLog.LogID)
	suite.Equal(domain.MsgWorkflowReviewed, appliedLog.Description)
	suite.Require().NotNil(appliedLog.UserID)
	suite.Equal(suite.actorID, *appliedLog.UserID)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestAccept_Success() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinReview)
	now := time.Now().UTC()
	checkin.ReviewedBy, checkin.ReviewedAt = &suite.actorID, &now

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})
	suite.mockCheckinRepo.On("ApplyTransition", ctx, mock.Anything, mock.AnythingOfType("domain.Checkin"), mock.AnythingOfType("domain.CheckinWorkflowLog")).Return(nil).Once()
	suite.mockCheckinRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.Accept(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.CheckinAccepted, result.Status)
	suite.Require().NotNil(result.AcceptedBy)
	suite.Equal(suite.actorID, *result.AcceptedBy)
	suite.NotNil(result.ReviewedBy) // acceptance keeps the review record
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestAccept_NotReviewed() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinReview)

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})

	_, err := suite.service.Accept(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestAccept_ArticleAlreadyAccepted() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinReview)
	now := time.Now().UTC()
	checkin.ReviewedBy, checkin.ReviewedAt = &suite.actorID, &now

	suite.expectTransitionPlumbing(ctx, checkin, true, []domain.Notice{})

	_, err := suite.service.Accept(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(domain.CheckinReview, checkin.Status)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.assertAll()
}

// Two actors racing to accept checkins of the same article: the loser's
// write trips the store's accepted-checkin unique index, which the
// repository reports as a conflict. The caller must see 409, not 500.
func (suite *CheckinServiceTestSuite) TestAccept_RacingAcceptConflict() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinReview)
	now := time.Now().UTC()
	checkin.ReviewedBy, checkin.ReviewedAt = &suite.actorID, &now

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})
	suite.mockCheckinRepo.On("ApplyTransition", ctx, mock.Anything, mock.AnythingOfType("domain.Checkin"), mock.AnythingOfType("domain.CheckinWorkflowLog")).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.Accept(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestReject_Success() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinReview)
	cause := "package fails XML validation"

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})
	var appliedLog domain.CheckinWorkflowLog
	suite.mockCheckinRepo.On("ApplyTransition", ctx, mock.Anything, mock.AnythingOfType("domain.Checkin"), mock.AnythingOfType("domain.CheckinWorkflowLog")).
		Run(func(args mock.Arguments) {
			appliedLog = args.Get(3).(domain.CheckinWorkflowLog)
		}).Return(nil).Once()
	suite.mockCheckinRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.Reject(ctx, suite.collectionID, checkin.CheckinID, suite.actorID, cause)

	suite.Require().NoError(err)
	suite.Equal(domain.CheckinRejected, result.Status)
	suite.Require().NotNil(result.RejectedCause)
	suite.Equal(cause, *result.RejectedCause)
	suite.Contains(appliedLog.Description, cause)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestReject_MissingCause() {
	ctx := context.Background()

	_, err := suite.service.Reject(ctx, suite.collectionID, uuid.NewString(), suite.actorID, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CheckinServiceTestSuite) TestSendToPending_Success() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinRejected)

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})
	var applied domain.Checkin
	suite.mockCheckinRepo.On("ApplyTransition", ctx, mock.Anything, mock.AnythingOfType("domain.Checkin"), mock.AnythingOfType("domain.CheckinWorkflowLog")).
		Run(func(args mock.Arguments) {
			applied = args.Get(2).(domain.Checkin)
		}).Return(nil).Once()
	suite.mockCheckinRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.SendToPending(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.CheckinPending, result.Status)
	// Returning to pending clears the rejection record.
	suite.Nil(applied.RejectedBy)
	suite.Nil(applied.RejectedCause)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestTransition_InactiveActor() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinPending)
	inactive := suite.actor
	inactive.IsActive = false

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.actorID, suite.collectionID, domain.RoleMember).Return(nil).Once()
	suite.mockUserSvc.On("GetUserByID", ctx, suite.actorID).Return(&inactive, nil).Once()
	suite.mockCheckinRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockCheckinRepo.On("FindCheckinByIDForUpdate", ctx, mock.Anything, suite.collectionID, checkin.CheckinID).Return(checkin, nil).Once()
	suite.mockCheckinRepo.On("LockArticleCheckins", ctx, mock.Anything, suite.articleID).Return(nil).Once()
	suite.mockCheckinRepo.On("ArticleHasAcceptedCheckinInTx", ctx, mock.Anything, suite.articleID).Return(false, nil).Once()
	suite.mockCheckinRepo.On("FindNoticesByCheckinIDInTx", ctx, mock.Anything, checkin.CheckinID).Return([]domain.Notice{}, nil).Once()
	suite.mockCheckinRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	_, err := suite.service.SendToReview(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.assertAll()
}

func (suite *CheckinServiceTestSuite) TestTransition_AuthorizationFail() {
	ctx := context.Background()

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.actorID, suite.collectionID, domain.RoleMember).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.SendToReview(ctx, suite.collectionID, uuid.NewString(), suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockCollectionSvc.AssertExpectations(suite.T())
}

func (suite *CheckinServiceTestSuite) TestTransition_CommitConflict() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinPending)

	suite.expectTransitionPlumbing(ctx, checkin, false, []domain.Notice{})
	suite.mockCheckinRepo.On("ApplyTransition", ctx, mock.Anything, mock.AnythingOfType("domain.Checkin"), mock.AnythingOfType("domain.CheckinWorkflowLog")).Return(nil).Once()
	suite.mockCheckinRepo.On("Commit", ctx, mock.Anything).Return(errors.New("serialization failure")).Once()

	_, err := suite.service.SendToReview(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.assertAll()
}

// --- Ingestion tests ---

func (suite *CheckinServiceTestSuite) TestCreateCheckin_Success() {
	ctx := context.Background()
	req := dto.CreateCheckinRequest{
		ArticleID:   suite.articleID,
		AttemptRef:  "1",
		PackageName: "0042-9686-bwho-91-08.zip",
		UploadedAt:  time.Now().UTC(),
	}
	article := &domain.Article{ArticleID: suite.articleID, CollectionID: suite.collectionID}

	suite.mockArticleRepo.On("FindArticleByID", ctx, suite.collectionID, suite.articleID).Return(article, nil).Once()
	suite.mockCheckinRepo.On("SaveCheckin", ctx, mock.AnythingOfType("domain.Checkin")).Return(nil).Once()

	created, err := suite.service.CreateCheckin(ctx, suite.collectionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.CheckinID)
	suite.Equal(domain.CheckinPending, created.Status)
	suite.Equal(suite.collectionID, created.CollectionID)
	suite.mockArticleRepo.AssertExpectations(suite.T())
	suite.mockCheckinRepo.AssertExpectations(suite.T())
}

// A fresh checkin must start with an empty audit trail. Only transitions
// append workflow log rows, so creation must not touch the log writers.
func (suite *CheckinServiceTestSuite) TestCreateCheckin_WritesNoWorkflowLog() {
	ctx := context.Background()
	req := dto.CreateCheckinRequest{
		ArticleID:   suite.articleID,
		AttemptRef:  "1",
		PackageName: "0042-9686-bwho-91-08.zip",
		UploadedAt:  time.Now().UTC(),
	}
	article := &domain.Article{ArticleID: suite.articleID, CollectionID: suite.collectionID}

	suite.mockArticleRepo.On("FindArticleByID", ctx, suite.collectionID, suite.articleID).Return(article, nil).Once()
	suite.mockCheckinRepo.On("SaveCheckin", ctx, mock.AnythingOfType("domain.Checkin")).Return(nil).Once()

	created, err := suite.service.CreateCheckin(ctx, suite.collectionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockCheckinRepo.AssertNumberOfCalls(suite.T(), "SaveCheckin", 1)
}

func (suite *CheckinServiceTestSuite) TestCreateCheckin_UnknownArticle() {
	ctx := context.Background()
	req := dto.CreateCheckinRequest{ArticleID: suite.articleID, AttemptRef: "1", PackageName: "pkg.zip", UploadedAt: time.Now().UTC()}

	suite.mockArticleRepo.On("FindArticleByID", ctx, suite.collectionID, suite.articleID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateCheckin(ctx, suite.collectionID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCheckinRepo.AssertNotCalled(suite.T(), "SaveCheckin", mock.Anything, mock.Anything)
}

func (suite *CheckinServiceTestSuite) TestGetCheckinErrorLevel() {
	ctx := context.Background()
	checkin := suite.newCheckin(domain.CheckinPending)
	notices := []domain.Notice{
		{NoticeID: uuid.NewString(), CheckinID: checkin.CheckinID, Status: "ok"},
		{NoticeID: uuid.NewString(), CheckinID: checkin.CheckinID, Status: "WARNING"},
	}

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.actorID, suite.collectionID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockCheckinRepo.On("FindCheckinByID", ctx, suite.collectionID, checkin.CheckinID).Return(checkin, nil).Once()
	suite.mockNoticeRepo.On("FindNoticesByCheckinID", ctx, checkin.CheckinID, true).Return(notices, nil).Once()

	level, err := suite.service.GetCheckinErrorLevel(ctx, suite.collectionID, checkin.CheckinID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ErrorLevelWarning, level)
	suite.mockNoticeRepo.AssertExpectations(suite.T())
}

func (suite *CheckinServiceTestSuite) TestListCheckins_InvalidStatusFilter() {
	ctx := context.Background()
	bad := "published"
	params := dto.ListCheckinsParams{Limit: 10, Status: &bad}

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.actorID, suite.collectionID, domain.RoleReadOnly).Return(nil).Once()

	_, err := suite.service.ListCheckins(ctx, suite.collectionID, suite.actorID, params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCheckinServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckinServiceTestSuite))
}
