package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/site-scout/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	if err := c.InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return c
}

func testMetadata() models.WebsiteMetadata {
	return models.WebsiteMetadata{
		Links:  []string{"https://example.com/a"},
		Images: []string{"/logo.png"},
	}
}

func TestUpsertWebsiteIdempotent(t *testing.T) {
	c := newTestClient(t)

	first, err := c.UpsertWebsite("http://example.com", "Example Domain", "first body", testMetadata())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := c.UpsertWebsite("http://example.com", "Example Domain v2", "second body", testMetadata())
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Title != "Example Domain v2" || second.Content != "second body" {
		t.Fatalf("second crawl values not stored: %+v", second)
	}
	if second.CrawledAt.Before(first.CrawledAt) {
		t.Fatalf("crawledAt went backwards: %v -> %v", first.CrawledAt, second.CrawledAt)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("createdAt changed on re-crawl: %v -> %v", first.CreatedAt, second.CreatedAt)
	}

	websites, err := c.ListWebsites()
	if err != nil {
		t.Fatalf("list websites: %v", err)
	}
	if len(websites) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(websites))
	}
}

func TestGetWebsiteByIDNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetWebsiteByID(42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetWebsiteByURLRoundTrip(t *testing.T) {
	c := newTestClient(t)

	md := models.WebsiteMetadata{
		Links:  []string{"https://example.com/about"},
		Images: []string{"/a.png", "/b.png"},
		Topics: []string{"Example"},
	}
	if _, err := c.UpsertWebsite("http://example.com", "Example", "body", md); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := c.GetWebsiteByURL("http://example.com")
	if err != nil {
		t.Fatalf("get by url: %v", err)
	}
	if len(got.Metadata.Links) != 1 || len(got.Metadata.Images) != 2 || len(got.Metadata.Topics) != 1 {
		t.Fatalf("metadata did not round-trip: %+v", got.Metadata)
	}
}

func TestGetOrCreateUserIdempotent(t *testing.T) {
	c := newTestClient(t)

	first, err := c.GetOrCreateUser("Ada", "Lovelace", "ada@example.com", "")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	second, err := c.GetOrCreateUser("Different", "Name", "ada@example.com", "")
	if err != nil {
		t.Fatalf("second register: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same user, got ids %d and %d", first.ID, second.ID)
	}
	if second.FirstName != "Ada" {
		t.Fatalf("existing record was modified: %+v", second)
	}

	users, err := c.ListUsers()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one user row, got %d", len(users))
	}
}

func TestUpdateAnswer(t *testing.T) {
	c := newTestClient(t)

	user, err := c.GetOrCreateUser("Ada", "Lovelace", "ada@example.com", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	website, err := c.UpsertWebsite("http://example.com", "Example", "body", testMetadata())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	msg, err := c.SaveMessage("what is this?", "", user.ID, website.ID)
	if err != nil {
		t.Fatalf("save message: %v", err)
	}
	if msg.Answer != "" {
		t.Fatalf("expected provisional empty answer, got %q", msg.Answer)
	}

	if err := c.UpdateAnswer(msg.ID, "a crawled page"); err != nil {
		t.Fatalf("update answer: %v", err)
	}

	history, err := c.HistoryForWebsite(website.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Answer != "a crawled page" {
		t.Fatalf("answer not written back: %+v", history)
	}

	if err := c.UpdateAnswer(9999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing message, got %v", err)
	}
}

func TestHistoryOrderingAndJoins(t *testing.T) {
	c := newTestClient(t)

	user, _ := c.GetOrCreateUser("Ada", "Lovelace", "ada@example.com", "")
	website, _ := c.UpsertWebsite("http://example.com", "Example", "body", testMetadata())

	for _, q := range []string{"q1", "q2", "q3"} {
		if _, err := c.SaveMessage(q, "a", user.ID, website.ID); err != nil {
			t.Fatalf("save %s: %v", q, err)
		}
	}

	byWebsite, err := c.HistoryForWebsite(website.ID)
	if err != nil {
		t.Fatalf("history for website: %v", err)
	}
	if len(byWebsite) != 3 || byWebsite[0].Question != "q1" || byWebsite[2].Question != "q3" {
		t.Fatalf("website history not ascending: %+v", byWebsite)
	}
	if byWebsite[0].User == nil || byWebsite[0].User.FirstName != "Ada" {
		t.Fatalf("user identity not joined: %+v", byWebsite[0].User)
	}

	byUser, err := c.HistoryForUser(user.ID)
	if err != nil {
		t.Fatalf("history for user: %v", err)
	}
	if len(byUser) != 3 || byUser[0].Question != "q3" || byUser[2].Question != "q1" {
		t.Fatalf("user history not descending: %+v", byUser)
	}
	if byUser[0].Website == nil || byUser[0].Website.URL != "http://example.com" {
		t.Fatalf("website identity not joined: %+v", byUser[0].Website)
	}
}

func TestRecentMessagesLimit(t *testing.T) {
	c := newTestClient(t)

	user, _ := c.GetOrCreateUser("Ada", "Lovelace", "ada@example.com", "")
	website, _ := c.UpsertWebsite("http://example.com", "Example", "body", testMetadata())

	for _, q := range []string{"q1", "q2", "q3"} {
		if _, err := c.SaveMessage(q, "a", user.ID, website.ID); err != nil {
			t.Fatalf("save %s: %v", q, err)
		}
	}

	recent, err := c.RecentMessages(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Question != "q3" {
		t.Fatalf("unexpected recent messages: %+v", recent)
	}
	if recent[0].User == nil || recent[0].Website == nil {
		t.Fatal("recent messages missing joined identities")
	}
}

func TestGetUserByIDIncludesRecentMessages(t *testing.T) {
	c := newTestClient(t)

	user, _ := c.GetOrCreateUser("Ada", "Lovelace", "ada@example.com", "")
	website, _ := c.UpsertWebsite("http://example.com", "Example", "body", testMetadata())

	for i := 0; i < 12; i++ {
		if _, err := c.SaveMessage("q", "a", user.ID, website.ID); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := c.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.MessageCount != 12 {
		t.Fatalf("expected message count 12, got %d", got.MessageCount)
	}
	if len(got.Messages) != 10 {
		t.Fatalf("expected 10 embedded messages, got %d", len(got.Messages))
	}
}
