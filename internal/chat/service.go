package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/ai"
	rediscache "github.com/site-scout/backend/internal/cache/redis"
	"github.com/site-scout/backend/internal/crawler"
	"github.com/site-scout/backend/internal/metrics"
	"github.com/site-scout/backend/internal/storage/models"
	"github.com/site-scout/backend/internal/storage/sqlite"
	"github.com/site-scout/backend/pkg/logger"
)

// FallbackAnswer is the only text callers ever see when the provider
// fails or returns nothing; raw provider errors never leave this
// package.
const FallbackAnswer = "Currently unavailable. Please try again later."

// ErrWebsiteUnresolved means neither the id nor a crawlable URL
// produced a website record.
var ErrWebsiteUnresolved = errors.New("website not found, please provide a valid website URL")

// Service orchestrates question answering: resolve the website, log
// the question, build a bounded context and generate the answer.
type Service struct {
	db        *sqlite.Client
	crawler   *crawler.Crawler
	generator ai.Generator
	cache     *rediscache.Client

	contextChars int
}

func NewService(db *sqlite.Client, cr *crawler.Crawler, generator ai.Generator, cache *rediscache.Client, contextChars int) *Service {
	return &Service{
		db:           db,
		crawler:      cr,
		generator:    generator,
		cache:        cache,
		contextChars: contextChars,
	}
}

type AskRequest struct {
	Question   string
	UserID     int64
	WebsiteID  int64
	WebsiteURL string
}

type AskResult struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	WebsiteID int64  `json:"websiteId"`
	UserID    int64  `json:"userId"`
}

// Ask answers a question about a website. The question row is written
// before generation and the final text (answer, mock answer or
// fallback) is written back to the same row afterwards, so the
// question survives even when answering fails.
func (s *Service) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	start := time.Now()
	askID := uuid.New().String()

	website, err := s.resolveWebsite(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("Answering question",
		zap.String("ask_id", askID),
		zap.Int64("user_id", req.UserID),
		zap.Int64("website_id", website.ID),
	)

	// Best-effort audit trail: answering continues even when the
	// provisional row cannot be written.
	message, err := s.db.SaveMessage(req.Question, "", req.UserID, website.ID)
	if err != nil {
		logger.Warn("Failed to save chat message", zap.String("ask_id", askID), zap.Error(err))
		message = nil
	}

	answer, mode := s.generate(ctx, askID, website, req.Question)

	if message != nil && answer != "" {
		if err := s.db.UpdateAnswer(message.ID, answer); err != nil {
			logger.Warn("Failed to update chat message", zap.String("ask_id", askID), zap.Error(err))
		}
	}

	metrics.QuestionsTotal.WithLabelValues(mode).Inc()
	metrics.AnswerDuration.Observe(time.Since(start).Seconds())

	logger.Info("Question answered",
		zap.String("ask_id", askID),
		zap.String("mode", mode),
		zap.Int("answer_length", len(answer)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &AskResult{
		Question:  req.Question,
		Answer:    answer,
		WebsiteID: website.ID,
		UserID:    req.UserID,
	}, nil
}

func (s *Service) resolveWebsite(ctx context.Context, req AskRequest) (*models.Website, error) {
	if req.WebsiteID != 0 {
		website, err := s.db.GetWebsiteByID(req.WebsiteID)
		if err == nil {
			return website, nil
		}
		if !errors.Is(err, sqlite.ErrNotFound) {
			return nil, err
		}
	}

	if req.WebsiteURL != "" {
		return s.crawler.Crawl(ctx, req.WebsiteURL)
	}

	return nil, ErrWebsiteUnresolved
}

// generate returns the answer text and the mode it was produced in
// (llm, mock, cached or fallback). It never returns an error: provider
// failures collapse into the fixed fallback string.
func (s *Service) generate(ctx context.Context, askID string, website *models.Website, question string) (string, string) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetAnswer(ctx, website.ID, question)
		if err != nil {
			logger.Warn("Answer cache lookup failed", zap.String("ask_id", askID), zap.Error(err))
		} else if ok {
			return cached, "cached"
		}
	}

	pageContext := website.Content
	if len(pageContext) > s.contextChars {
		pageContext = pageContext[:s.contextChars]
	}

	answer, err := s.generator.Answer(ctx, question, pageContext)
	if err != nil {
		logger.Error("AI generation failed", zap.String("ask_id", askID), zap.Error(err))
		return FallbackAnswer, "fallback"
	}

	if s.generator.Name() == "mock" {
		return answer, "mock"
	}

	if answer == "" {
		return FallbackAnswer, "fallback"
	}

	if s.cache != nil {
		if err := s.cache.SetAnswer(ctx, website.ID, question, answer); err != nil {
			logger.Warn("Failed to cache answer", zap.String("ask_id", askID), zap.Error(err))
		}
	}

	return answer, "llm"
}

// Health reports the inference path status: ERROR when no generator is
// wired, otherwise whatever the generator's probe says.
func (s *Service) Health(ctx context.Context) ai.Status {
	if s.generator == nil {
		return ai.Status{
			Status:  ai.StatusError,
			Details: "AI client not initialized",
		}
	}
	return s.generator.Probe(ctx)
}
