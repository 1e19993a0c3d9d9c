package service_test

import (
	"path/filepath"
	"testing"

	"github.com/docuscan/docuscan/internal/corpus"
	"github.com/docuscan/docuscan/internal/models"
	"github.com/docuscan/docuscan/internal/repository"
	"github.com/docuscan/docuscan/internal/service"
	"github.com/docuscan/docuscan/internal/similarity"
	"github.com/docuscan/docuscan/internal/testutil"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ScanServiceIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userRepo    *repository.UserRepository
	scanService *service.ScanService
	testUser    *models.User
}

func (s *ScanServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)
	s.testDB = testutil.SetupTestDatabase(s.T())
}

func (s *ScanServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

// SetupTest runs before each test: clean database, fresh corpus mirror,
// fresh user with the full daily allotment.
func (s *ScanServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	store, err := corpus.NewStore(filepath.Join(s.T().TempDir(), "uploads"))
	assert.NoError(s.T(), err)

	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	docRepo := repository.NewDocumentRepository(s.testDB.DB)
	scanRepo := repository.NewScanRepository(s.testDB.DB)
	s.scanService = service.NewScanService(docRepo, scanRepo, s.userRepo, store, nil)

	s.testUser, _ = testutil.CreateTestUser("alice", "pw1", models.RoleUser)
	assert.NoError(s.T(), s.testDB.DB.Create(s.testUser).Error)
}

// reload fetches the user's current persisted state
func (s *ScanServiceIntegrationTestSuite) reload() *models.User {
	user, err := s.userRepo.GetUserByID(s.testUser.ID)
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), user)
	return user
}

func (s *ScanServiceIntegrationTestSuite) TestFirstScanEmptyCorpus() {
	result, err := s.scanService.ScanUpload(s.testUser, "a.txt", "the cat sat")

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), result.DocumentID)
	assert.Empty(s.T(), result.Matches, "a document never matches itself")
	assert.Equal(s.T(), 19, result.Credits)
	assert.Equal(s.T(), 19, s.reload().Credits)
}

func (s *ScanServiceIntegrationTestSuite) TestSecondScanFindsMatch() {
	_, err := s.scanService.ScanUpload(s.testUser, "a.txt", "the cat sat")
	assert.NoError(s.T(), err)

	result, err := s.scanService.ScanUpload(s.testUser, "b.txt", "the cat ran")
	assert.NoError(s.T(), err)

	// Jaccard({the,cat,sat},{the,cat,ran}) = 2/4 = 0.5
	assert.Len(s.T(), result.Matches, 1)
	assert.Equal(s.T(), "a.txt", result.Matches[0].Filename)
	assert.Equal(s.T(), 0.5, result.Matches[0].Score)
	assert.Equal(s.T(), 18, result.Credits)
	assert.Equal(s.T(), 18, s.reload().Credits)
}

func (s *ScanServiceIntegrationTestSuite) TestBelowThresholdDropped() {
	_, err := s.scanService.ScanUpload(s.testUser, "a.txt", "completely different words entirely here")
	assert.NoError(s.T(), err)

	result, err := s.scanService.ScanUpload(s.testUser, "b.txt", "the cat ran")
	assert.NoError(s.T(), err)

	assert.Empty(s.T(), result.Matches)
}

func (s *ScanServiceIntegrationTestSuite) TestInsufficientCreditsLeavesBalance() {
	assert.NoError(s.T(), s.testDB.DB.Model(s.testUser).Update("credits", 0).Error)
	s.testUser.Credits = 0

	result, err := s.scanService.ScanUpload(s.testUser, "a.txt", "the cat sat")

	assert.ErrorIs(s.T(), err, service.ErrInsufficientCredits)
	assert.Nil(s.T(), result)
	assert.Equal(s.T(), 0, s.reload().Credits)

	// Nothing was persisted
	var docCount int64
	s.testDB.DB.Model(&models.Document{}).Count(&docCount)
	assert.Zero(s.T(), docCount)
}

func (s *ScanServiceIntegrationTestSuite) TestMissingFieldsRejected() {
	_, err := s.scanService.ScanUpload(s.testUser, "", "the cat sat")
	assert.ErrorIs(s.T(), err, service.ErrMissingFields)

	_, err = s.scanService.ScanUpload(s.testUser, "a.txt", "")
	assert.ErrorIs(s.T(), err, service.ErrMissingFields)

	// Failed validation must not debit
	assert.Equal(s.T(), 20, s.reload().Credits)
}

func (s *ScanServiceIntegrationTestSuite) TestScanEventLogged() {
	result, err := s.scanService.ScanUpload(s.testUser, "a.txt", "the cat sat")
	assert.NoError(s.T(), err)

	var events []models.ScanEvent
	assert.NoError(s.T(), s.testDB.DB.Find(&events).Error)
	assert.Len(s.T(), events, 1)
	assert.Equal(s.T(), s.testUser.ID, events[0].UserID)
	assert.Equal(s.T(), result.DocumentID, events[0].DocumentID)
}

func (s *ScanServiceIntegrationTestSuite) TestMatchesForExcludesSelf() {
	first, err := s.scanService.ScanUpload(s.testUser, "a.txt", "the cat sat")
	assert.NoError(s.T(), err)
	second, err := s.scanService.ScanUpload(s.testUser, "b.txt", "the cat ran")
	assert.NoError(s.T(), err)

	matches, err := s.scanService.MatchesFor(first.DocumentID)
	assert.NoError(s.T(), err)

	assert.Len(s.T(), matches, 1)
	assert.Equal(s.T(), second.DocumentID, matches[0].ID)
	assert.Equal(s.T(), "b.txt", matches[0].Filename)
	assert.Equal(s.T(), 0.5, matches[0].Score)
}

func (s *ScanServiceIntegrationTestSuite) TestMatchesForUnknownDocument() {
	_, err := s.scanService.MatchesFor(12345)
	assert.ErrorIs(s.T(), err, service.ErrDocumentNotFound)
}

func (s *ScanServiceIntegrationTestSuite) TestUploadMatchesOmitIDs() {
	_, err := s.scanService.ScanUpload(s.testUser, "a.txt", "the cat sat")
	assert.NoError(s.T(), err)

	result, err := s.scanService.ScanUpload(s.testUser, "b.txt", "the cat ran")
	assert.NoError(s.T(), err)

	assert.Len(s.T(), result.Matches, 1)
	assert.Zero(s.T(), result.Matches[0].ID, "upload responses identify matches by filename only")
}

func (s *ScanServiceIntegrationTestSuite) TestMatchesAreUnranked() {
	// Corpus order, not score order
	_, err := s.scanService.ScanUpload(s.testUser, "weak.txt", "the cat sat on a mat near the door")
	assert.NoError(s.T(), err)
	_, err = s.scanService.ScanUpload(s.testUser, "strong.txt", "the cat sat")
	assert.NoError(s.T(), err)

	result, err := s.scanService.ScanUpload(s.testUser, "c.txt", "the cat sat")
	assert.NoError(s.T(), err)

	assert.Len(s.T(), result.Matches, 2)
	assert.Equal(s.T(), "weak.txt", result.Matches[0].Filename)
	assert.Equal(s.T(), "strong.txt", result.Matches[1].Filename)
	assert.True(s.T(), result.Matches[0].Score < result.Matches[1].Score)
}

func TestScanServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ScanServiceIntegrationTestSuite))
}

// sanity check that the service and the pure scanner agree on the threshold
func TestServiceUsesInclusiveThreshold(t *testing.T) {
	assert.Equal(t, 0.2, similarity.MatchThreshold)
}
