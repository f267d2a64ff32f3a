package models

import "time"

// WebsiteMetadata is stored as a JSON column and mirrors the shape the
// dashboard consumes: outbound links, image sources, extracted topics
// and the instant of the last crawl.
type WebsiteMetadata struct {
	Links       []string  `json:"links"`
	Images      []string  `json:"images"`
	Topics      []string  `json:"topics,omitempty"`
	LastCrawled time.Time `json:"lastCrawled"`
}

type Website struct {
	ID        int64           `json:"id"`
	URL       string          `json:"url"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Metadata  WebsiteMetadata `json:"metadata"`
	CreatedAt time.Time       `json:"createdAt"`
	CrawledAt time.Time       `json:"crawledAt"`
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`

	// Populated only by GetUserByID: the user's most recent messages.
	Messages []ChatMessage `json:"messages,omitempty"`
}

// UserRef and WebsiteRef carry the minimal identity joined onto chat
// history rows.
type UserRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type WebsiteRef struct {
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type ChatMessage struct {
	ID        int64       `json:"id"`
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	UserID    int64       `json:"userId"`
	WebsiteID int64       `json:"websiteId"`
	CreatedAt time.Time   `json:"createdAt"`
	User      *UserRef    `json:"user,omitempty"`
	Website   *WebsiteRef `json:"website,omitempty"`
}

type WebsiteInteraction struct {
	WebsiteID        int64 `json:"websiteId"`
	InteractionCount int   `json:"interactionCount"`
}

type VisitedWebsiteCount struct {
	TotalVisitedWebsites int                  `json:"totalVisitedWebsites"`
	Websites             []WebsiteInteraction `json:"websites"`
}

type WebsiteVisitDetail struct {
	WebsiteID    int64      `json:"websiteId"`
	WebsiteURL   string     `json:"websiteUrl"`
	WebsiteTitle string     `json:"websiteTitle"`
	VisitCount   int        `json:"visitCount"`
	LastVisited  time.Time  `json:"lastVisited"`
	FirstCrawled *time.Time `json:"firstCrawled"`
}

type WebsiteVisits struct {
	TotalInteractions int                  `json:"totalInteractions"`
	Websites          []WebsiteVisitDetail `json:"websites"`
}

type ChatStats struct {
	TotalMessages    int        `json:"totalMessages"`
	FirstInteraction *time.Time `json:"firstInteraction"`
	LastInteraction  *time.Time `json:"lastInteraction"`
}
