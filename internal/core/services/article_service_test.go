package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/core/services"
	"github.com/articletrack/articletrack_app/internal/dto"
)

type ArticleServiceTestSuite struct {
	suite.Suite
	mockArticleRepo   *MockArticleRepository
	mockCollectionSvc *MockCollectionService
	service           portssvc.ArticleSvcFacade

	collectionID string
	articleID    string
	userID       string
}

func (suite *ArticleServiceTestSuite) SetupTest() {
	suite.mockArticleRepo = new(MockArticleRepository)
	suite.mockCollectionSvc = new(MockCollectionService)
	suite.service = services.NewArticleService(suite.mockArticleRepo, suite.mockCollectionSvc)

	suite.collectionID = uuid.NewString()
	suite.articleID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func TestArticleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceTestSuite))
}

func (suite *ArticleServiceTestSuite) newArticle() *domain.Article {
	return &domain.Article{
		ArticleID:     suite.articleID,
		CollectionID:  suite.collectionID,
		ArticleTitle:  "On the Care of Scholarly Packages",
		ArticlePkgRef: "0042-9686-bwho-91-08",
		JournalTitle:  "Bulletin of Package Health",
	}
}

func (suite *ArticleServiceTestSuite) TestGetArticleByID_IncludesAcceptanceAndNewestCheckin() {
	ctx := context.Background()
	article := suite.newArticle()
	newest := &domain.Checkin{
		CheckinID:    uuid.NewString(),
		CollectionID: suite.collectionID,
		ArticleID:    suite.articleID,
		AttemptRef:   "2",
		PackageName:  "0042-9686-bwho-91-08.zip",
		UploadedAt:   time.Now().UTC(),
		Status:       domain.CheckinAccepted,
	}

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.collectionID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockArticleRepo.On("FindArticleByID", ctx, suite.collectionID, suite.articleID).Return(article, nil).Once()
	suite.mockArticleRepo.On("ArticleHasAcceptedCheckin", ctx, suite.articleID).Return(true, nil).Once()
	suite.mockArticleRepo.On("FindNewestCheckinByArticle", ctx, suite.articleID).Return(newest, nil).Once()

	resp, err := suite.service.GetArticleByID(ctx, suite.collectionID, suite.articleID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(resp.IsAccepted)
	suite.Require().NotNil(resp.NewestCheckin)
	suite.Equal(newest.CheckinID, resp.NewestCheckin.CheckinID)
	suite.mockArticleRepo.AssertExpectations(suite.T())
	suite.mockCollectionSvc.AssertExpectations(suite.T())
}

func (suite *ArticleServiceTestSuite) TestGetArticleByID_NoCheckinsYet() {
	ctx := context.Background()
	article := suite.newArticle()

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.collectionID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockArticleRepo.On("FindArticleByID", ctx, suite.collectionID, suite.articleID).Return(article, nil).Once()
	suite.mockArticleRepo.On("ArticleHasAcceptedCheckin", ctx, suite.articleID).Return(false, nil).Once()
	suite.mockArticleRepo.On("FindNewestCheckinByArticle", ctx, suite.articleID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetArticleByID(ctx, suite.collectionID, suite.articleID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.False(resp.IsAccepted)
	suite.Nil(resp.NewestCheckin)
}

func (suite *ArticleServiceTestSuite) TestGetArticleByID_Forbidden() {
	ctx := context.Background()

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.collectionID, domain.RoleReadOnly).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.GetArticleByID(ctx, suite.collectionID, suite.articleID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockArticleRepo.AssertNotCalled(suite.T(), "FindArticleByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ArticleServiceTestSuite) TestListArticles_CarriesAcceptanceFlags() {
	ctx := context.Background()
	acceptedID := uuid.NewString()
	pendingID := uuid.NewString()
	articles := []domain.Article{
		{ArticleID: acceptedID, CollectionID: suite.collectionID, ArticleTitle: "Accepted one"},
		{ArticleID: pendingID, CollectionID: suite.collectionID, ArticleTitle: "Still pending"},
	}

	suite.mockCollectionSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.collectionID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockArticleRepo.On("ListArticlesByCollection", ctx, suite.collectionID, 20, (*string)(nil)).Return(articles, nil, nil).Once()
	suite.mockArticleRepo.On("ArticleHasAcceptedCheckin", ctx, acceptedID).Return(true, nil).Once()
	suite.mockArticleRepo.On("ArticleHasAcceptedCheckin", ctx, pendingID).Return(false, nil).Once()

	resp, err := suite.service.ListArticles(ctx, suite.collectionID, suite.userID, dto.ListArticlesParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Articles, 2)
	suite.True(resp.Articles[0].IsAccepted)
	suite.False(resp.Articles[1].IsAccepted)
	suite.mockArticleRepo.AssertExpectations(suite.T())
}
