package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected default port: %d", cfg.Server.Port)
	}
	if cfg.Crawler.MaxContentChars != 10000 || cfg.Crawler.MaxLinks != 50 || cfg.Crawler.MaxImages != 20 {
		t.Fatalf("unexpected crawler caps: %+v", cfg.Crawler)
	}
	if cfg.Crawler.UserAgent != "Mozilla/5.0 (compatible; CrawlerBot/1.0)" {
		t.Fatalf("unexpected user agent: %q", cfg.Crawler.UserAgent)
	}
	if cfg.LLM.ContextChars != 2000 || cfg.LLM.MaxTokens != 500 {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("api key must default to empty, got %q", cfg.LLM.APIKey)
	}
	if cfg.Redis.Enabled {
		t.Fatal("redis must be disabled by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SITESCOUT_SERVER_PORT", "9999")
	t.Setenv("SITESCOUT_CRAWLER_MAXLINKS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Fatalf("env override ignored for port: %d", cfg.Server.Port)
	}
	if cfg.Crawler.MaxLinks != 5 {
		t.Fatalf("env override ignored for maxLinks: %d", cfg.Crawler.MaxLinks)
	}
}
