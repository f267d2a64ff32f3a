package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/site-scout/backend/internal/ai"
	rediscache "github.com/site-scout/backend/internal/cache/redis"
	"github.com/site-scout/backend/internal/crawler"
	"github.com/site-scout/backend/internal/storage/models"
	"github.com/site-scout/backend/internal/storage/sqlite"
	"github.com/site-scout/backend/pkg/config"
)

// stubGenerator records what it was asked and returns canned output.
type stubGenerator struct {
	answer     string
	err        error
	calls      int
	gotContext string
}

func (s *stubGenerator) Answer(_ context.Context, _, pageContext string) (string, error) {
	s.calls++
	s.gotContext = pageContext
	return s.answer, s.err
}

func (s *stubGenerator) Probe(context.Context) ai.Status {
	return ai.Status{Status: ai.StatusOK}
}

func (s *stubGenerator) Name() string { return "stub" }

func newTestDB(t *testing.T) *sqlite.Client {
	t.Helper()

	db, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}

func seedWebsite(t *testing.T, db *sqlite.Client, content string) *models.Website {
	t.Helper()

	website, err := db.UpsertWebsite("http://example.com", "Example", content, models.WebsiteMetadata{})
	if err != nil {
		t.Fatalf("seed website: %v", err)
	}
	return website
}

func seedUser(t *testing.T, db *sqlite.Client) *models.User {
	t.Helper()

	user, err := db.GetOrCreateUser("Ada", "Lovelace", "ada@example.com", "")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAskReturnsGeneratedAnswer(t *testing.T) {
	db := newTestDB(t)
	website := seedWebsite(t, db, "page about cats")
	user := seedUser(t, db)

	gen := &stubGenerator{answer: "it is about cats"}
	svc := NewService(db, nil, gen, nil, 2000)

	result, err := svc.Ask(context.Background(), AskRequest{
		Question:  "what is this page about?",
		UserID:    user.ID,
		WebsiteID: website.ID,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	if result.Answer != "it is about cats" {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
	if result.WebsiteID != website.ID || result.UserID != user.ID {
		t.Fatalf("identities not echoed: %+v", result)
	}

	history, err := db.HistoryForWebsite(website.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one message row, got %d", len(history))
	}
	if history[0].Answer != "it is about cats" {
		t.Fatalf("answer not written back to the message row: %+v", history[0])
	}
}

func TestAskFallbackOnGeneratorError(t *testing.T) {
	db := newTestDB(t)
	website := seedWebsite(t, db, "content")
	user := seedUser(t, db)

	gen := &stubGenerator{err: errors.New("provider exploded")}
	svc := NewService(db, nil, gen, nil, 2000)

	result, err := svc.Ask(context.Background(), AskRequest{
		Question:  "q",
		UserID:    user.ID,
		WebsiteID: website.ID,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	if result.Answer != FallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", result.Answer)
	}
	if strings.Contains(result.Answer, "exploded") {
		t.Fatal("provider error leaked to the caller")
	}

	history, _ := db.HistoryForWebsite(website.ID)
	if len(history) != 1 || history[0].Answer != FallbackAnswer {
		t.Fatalf("fallback not persisted: %+v", history)
	}
}

func TestAskFallbackOnEmptyAnswer(t *testing.T) {
	db := newTestDB(t)
	website := seedWebsite(t, db, "content")
	user := seedUser(t, db)

	gen := &stubGenerator{answer: ""}
	svc := NewService(db, nil, gen, nil, 2000)

	result, err := svc.Ask(context.Background(), AskRequest{
		Question:  "q",
		UserID:    user.ID,
		WebsiteID: website.ID,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if result.Answer != FallbackAnswer {
		t.Fatalf("expected fallback for empty non-mock answer, got %q", result.Answer)
	}
}

func TestAskMockKeepsEmptyAnswer(t *testing.T) {
	db := newTestDB(t)
	website := seedWebsite(t, db, "content")
	user := seedUser(t, db)

	svc := NewService(db, nil, ai.NewMock(), nil, 2000)

	result, err := svc.Ask(context.Background(), AskRequest{
		Question:  "q",
		UserID:    user.ID,
		WebsiteID: website.ID,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	if result.Answer != "" {
		t.Fatalf("mock mode must return the empty answer, got %q", result.Answer)
	}

	// The provisional row still exists with its empty answer.
	history, _ := db.HistoryForWebsite(website.ID)
	if len(history) != 1 || history[0].Answer != "" {
		t.Fatalf("expected one provisional row, got %+v", history)
	}
}

func TestAskTruncatesContext(t *testing.T) {
	db := newTestDB(t)
	website := seedWebsite(t, db, strings.Repeat("x", 5000))
	user := seedUser(t, db)

	gen := &stubGenerator{answer: "a"}
	svc := NewService(db, nil, gen, nil, 2000)

	if _, err := svc.Ask(context.Background(), AskRequest{
		Question:  "q",
		UserID:    user.ID,
		WebsiteID: website.ID,
	}); err != nil {
		t.Fatalf("ask: %v", err)
	}

	if len(gen.gotContext) != 2000 {
		t.Fatalf("expected context truncated to 2000 chars, got %d", len(gen.gotContext))
	}
}

func TestAskShortContextPassedWhole(t *testing.T) {
	db := newTestDB(t)
	website := seedWebsite(t, db, "short page")
	user := seedUser(t, db)

	gen := &stubGenerator{answer: "a"}
	svc := NewService(db, nil, gen, nil, 2000)

	if _, err := svc.Ask(context.Background(), AskRequest{
		Question:  "q",
		UserID:    user.ID,
		WebsiteID: website.ID,
	}); err != nil {
		t.Fatalf("ask: %v", err)
	}

	if gen.gotContext != "short page" {
		t.Fatalf("short content must pass through untouched, got %q", gen.gotContext)
	}
}

func TestAskUnresolvedWebsite(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	svc := NewService(db, nil, &stubGenerator{answer: "a"}, nil, 2000)

	_, err := svc.Ask(context.Background(), AskRequest{
		Question:  "q",
		UserID:    user.ID,
		WebsiteID: 999,
	})
	if !errors.Is(err, ErrWebsiteUnresolved) {
		t.Fatalf("expected ErrWebsiteUnresolved, got %v", err)
	}
}

func TestAskAnswerCache(t *testing.T) {
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	cache, err := rediscache.NewClient(mr.Host(), port, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer cache.Close()

	db := newTestDB(t)
	website := seedWebsite(t, db, "content")
	user := seedUser(t, db)

	gen := &stubGenerator{answer: "cached later"}
	svc := NewService(db, nil, gen, cache, 2000)

	req := AskRequest{Question: "same question", UserID: user.ID, WebsiteID: website.ID}

	first, err := svc.Ask(context.Background(), req)
	if err != nil {
		t.Fatalf("first ask: %v", err)
	}
	second, err := svc.Ask(context.Background(), req)
	if err != nil {
		t.Fatalf("second ask: %v", err)
	}

	if first.Answer != second.Answer {
		t.Fatalf("cached answer diverged: %q vs %q", first.Answer, second.Answer)
	}
	if gen.calls != 1 {
		t.Fatalf("expected a single provider call, got %d", gen.calls)
	}
}

func TestHealth(t *testing.T) {
	db := newTestDB(t)

	svc := NewService(db, nil, nil, nil, 2000)
	status := svc.Health(context.Background())
	if status.Status != ai.StatusError {
		t.Fatalf("expected ERROR with no generator, got %+v", status)
	}

	svc = NewService(db, nil, ai.NewMock(), nil, 2000)
	status = svc.Health(context.Background())
	if status.Status != ai.StatusWarning {
		t.Fatalf("expected WARNING from mock, got %+v", status)
	}
}

func newHTMLServer(t *testing.T, html string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAskCrawlsURLWhenIDMissing(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	srv := newHTMLServer(t, `<html><head><title>Fresh</title></head><body>fresh page</body></html>`)

	cr := crawler.New(db, config.CrawlerConfig{
		TimeoutSec:      5,
		UserAgent:       "test",
		MaxContentChars: 10000,
		MaxLinks:        50,
		MaxImages:       20,
	})

	gen := &stubGenerator{answer: "about fresh things"}
	svc := NewService(db, cr, gen, nil, 2000)

	result, err := svc.Ask(context.Background(), AskRequest{
		Question:   "q",
		UserID:     user.ID,
		WebsiteID:  999,
		WebsiteURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	website, err := db.GetWebsiteByURL(srv.URL)
	if err != nil {
		t.Fatalf("crawled website not stored: %v", err)
	}
	if result.WebsiteID != website.ID {
		t.Fatalf("result not bound to the crawled website: %+v", result)
	}
	if gen.gotContext != "fresh page" {
		t.Fatalf("crawled content not used as context: %q", gen.gotContext)
	}
}
