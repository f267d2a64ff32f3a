package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/site-scout/backend/internal/storage/models"
	"github.com/site-scout/backend/internal/storage/sqlite"
)

// Aggregator answers read-only usage questions over the chat log
// joined with the website store, always scoped to one user.
type Aggregator struct {
	db *sqlite.Client
}

func NewAggregator(db *sqlite.Client) *Aggregator {
	return &Aggregator{db: db}
}

func (a *Aggregator) VisitedWebsiteCount(userID int64) (*models.VisitedWebsiteCount, error) {
	interactions, err := a.db.CountVisitedWebsites(userID)
	if err != nil {
		return nil, err
	}

	return &models.VisitedWebsiteCount{
		TotalVisitedWebsites: len(interactions),
		Websites:             interactions,
	}, nil
}

func (a *Aggregator) WebsiteVisits(userID int64) (*models.WebsiteVisits, error) {
	details, err := a.db.WebsiteVisitDetails(userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, d := range details {
		total += d.VisitCount
	}

	return &models.WebsiteVisits{
		TotalInteractions: total,
		Websites:          details,
	}, nil
}

func (a *Aggregator) ChatStats(userID int64) (*models.ChatStats, error) {
	return a.db.ChatStatsForUser(userID)
}

type SummaryUser struct {
	ID int64 `json:"id"`
}

type SummaryTotals struct {
	TotalWebsitesVisited  int        `json:"totalWebsitesVisited"`
	TotalChatInteractions int        `json:"totalChatInteractions"`
	FirstActivity         *time.Time `json:"firstActivity"`
	LastActivity          *time.Time `json:"lastActivity"`
}

type Summary struct {
	User         SummaryUser           `json:"user"`
	Summary      SummaryTotals         `json:"summary"`
	WebsiteStats *models.WebsiteVisits `json:"websiteStats"`
	ChatStats    *models.ChatStats     `json:"chatStats"`
}

// UserSummary runs the three aggregations concurrently and merges
// them. Any constituent failure fails the whole summary.
func (a *Aggregator) UserSummary(ctx context.Context, userID int64) (*Summary, error) {
	var (
		visited *models.VisitedWebsiteCount
		visits  *models.WebsiteVisits
		stats   *models.ChatStats
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		visited, err = a.VisitedWebsiteCount(userID)
		return err
	})
	g.Go(func() error {
		var err error
		visits, err = a.WebsiteVisits(userID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = a.ChatStats(userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		User: SummaryUser{ID: userID},
		Summary: SummaryTotals{
			TotalWebsitesVisited:  visited.TotalVisitedWebsites,
			TotalChatInteractions: stats.TotalMessages,
			FirstActivity:         stats.FirstInteraction,
			LastActivity:          stats.LastInteraction,
		},
		WebsiteStats: visits,
		ChatStats:    stats,
	}, nil
}
