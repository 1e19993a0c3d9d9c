package service

import (
	"errors"
	"time"

	"github.com/docuscan/docuscan/internal/broker"
	"github.com/docuscan/docuscan/internal/corpus"
	"github.com/docuscan/docuscan/internal/models"
	"github.com/docuscan/docuscan/internal/repository"
	"github.com/docuscan/docuscan/internal/similarity"
	"github.com/docuscan/docuscan/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrMissingFields       = errors.New("filename and document content required")
	ErrDocumentNotFound    = errors.New("document not found")
)

// ScanResult is the outcome of a successful upload/scan.
type ScanResult struct {
	DocumentID uint
	Credits    int
	Matches    []similarity.Match
}

type ScanService struct {
	docRepo     *repository.DocumentRepository
	scanRepo    *repository.ScanRepository
	userRepo    *repository.UserRepository
	corpusStore *corpus.Store
	activity    broker.ActivityBroker // optional, nil disables the live feed
}

func NewScanService(
	docRepo *repository.DocumentRepository,
	scanRepo *repository.ScanRepository,
	userRepo *repository.UserRepository,
	corpusStore *corpus.Store,
	activity broker.ActivityBroker,
) *ScanService {
	return &ScanService{
		docRepo:     docRepo,
		scanRepo:    scanRepo,
		userRepo:    userRepo,
		corpusStore: corpusStore,
		activity:    activity,
	}
}

// ScanUpload runs the full upload workflow: credit check, mirror write,
// document persist, scan event, debit of exactly one credit, then the
// corpus comparison. Steps already committed are not rolled back if a later
// step fails.
func (s *ScanService) ScanUpload(user *models.User, filename, content string) (*ScanResult, error) {
	start := time.Now()

	logger.Log.Debug("Processing document scan upload",
		zap.String("user_id", user.ID.String()),
		zap.String("filename", filename),
	)

	if user.Credits < 1 {
		logger.Log.Warn("Scan rejected: insufficient credits",
			zap.String("user_id", user.ID.String()),
			zap.Int("credits", user.Credits),
		)
		return nil, ErrInsufficientCredits
	}

	if filename == "" || content == "" {
		return nil, ErrMissingFields
	}

	now := time.Now()

	// Mirror the raw upload to disk before touching the database
	if err := s.corpusStore.Write(filename, content); err != nil {
		logger.Log.Error("Failed to write corpus mirror file",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, err
	}

	doc := &models.Document{
		UserID:    user.ID,
		Filename:  filename,
		Content:   content,
		CreatedAt: now,
	}
	if err := s.docRepo.CreateDocument(doc); err != nil {
		logger.Log.Error("Failed to store document",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, err
	}

	event := &models.ScanEvent{
		UserID:     user.ID,
		DocumentID: doc.ID,
		CreatedAt:  now,
	}
	if err := s.scanRepo.CreateScanEvent(event); err != nil {
		logger.Log.Error("Failed to log scan event",
			zap.Uint("document_id", doc.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.userRepo.AddCredits(user.ID, -1); err != nil {
		logger.Log.Error("Failed to debit credit",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	user.Credits--

	matches, err := s.matchesAgainst(doc.ID, content, false)
	if err != nil {
		return nil, err
	}

	s.publishActivity(user.Username, filename, doc.ID, len(matches))

	logger.Log.Info("Document scanned successfully",
		zap.String("user_id", user.ID.String()),
		zap.Uint("document_id", doc.ID),
		zap.Int("match_count", len(matches)),
		zap.Int("credits_remaining", user.Credits),
		zap.Duration("total_duration", time.Since(start)),
	)

	return &ScanResult{
		DocumentID: doc.ID,
		Credits:    user.Credits,
		Matches:    matches,
	}, nil
}

// MatchesFor recomputes the match set for an already-stored document against
// every other document.
func (s *ScanService) MatchesFor(docID uint) ([]similarity.Match, error) {
	doc, err := s.docRepo.GetDocumentByID(docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	return s.matchesAgainst(doc.ID, doc.Content, true)
}

// matchesAgainst scans text against every document except excludeID.
// Document IDs are only reported for on-demand match queries; upload
// responses identify matches by filename alone.
func (s *ScanService) matchesAgainst(excludeID uint, text string, withIDs bool) ([]similarity.Match, error) {
	docs, err := s.docRepo.GetCorpusExcept(excludeID)
	if err != nil {
		logger.Log.Error("Failed to load comparison corpus",
			zap.Uint("exclude_id", excludeID),
			zap.Error(err),
		)
		return nil, err
	}

	entries := make([]similarity.Entry, 0, len(docs))
	for _, d := range docs {
		entry := similarity.Entry{Filename: d.Filename, Content: d.Content}
		if withIDs {
			entry.ID = d.ID
		}
		entries = append(entries, entry)
	}

	return similarity.Scan(text, entries), nil
}

// publishActivity is best-effort: a broken feed never fails a scan.
func (s *ScanService) publishActivity(username, filename string, docID uint, matchCount int) {
	if s.activity == nil {
		return
	}

	event := broker.ScanActivity{
		Username:   username,
		Filename:   filename,
		DocumentID: docID,
		MatchCount: matchCount,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if err := s.activity.Publish(event); err != nil {
		logger.Log.Warn("Failed to publish scan activity",
			zap.Uint("document_id", docID),
			zap.Error(err),
		)
	}
}
