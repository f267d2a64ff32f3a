package crawler

import (
	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/pkg/logger"
)

// extractTopics pulls named entities out of the page text to use as
// dashboard topics. Extraction is best-effort; a page without
// recognizable entities just gets no topics.
func (c *Crawler) extractTopics(content string) []string {
	if content == "" || c.maxTopics <= 0 {
		return nil
	}

	doc, err := prose.NewDocument(content)
	if err != nil {
		logger.Warn("Topic extraction failed", zap.Error(err))
		return nil
	}

	seen := make(map[string]bool)
	var topics []string
	for _, ent := range doc.Entities() {
		if seen[ent.Text] {
			continue
		}
		seen[ent.Text] = true
		topics = append(topics, ent.Text)
		if len(topics) >= c.maxTopics {
			break
		}
	}

	return topics
}
