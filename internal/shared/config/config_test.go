package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("ALERT_SINK", "")
	t.Setenv("SCORING_STRICT", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")

	cfg := Load()

	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %q", cfg.Port)
	}
	if cfg.AlertSink != "log" {
		t.Fatalf("expected alert sink log, got %q", cfg.AlertSink)
	}
	if !cfg.ScoringStrict {
		t.Fatalf("expected strict scoring by default")
	}
	if cfg.RateLimitWindow != 15*time.Minute {
		t.Fatalf("expected 15m window, got %s", cfg.RateLimitWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("ALERT_SINK", "KAFKA")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("SCORING_STRICT", "false")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "not-a-number")
	t.Setenv("DATABASE_URL", "postgres://localhost/harbor")

	cfg := Load()

	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.AlertSink != "kafka" {
		t.Fatalf("expected kafka sink, got %q", cfg.AlertSink)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.ScoringStrict {
		t.Fatalf("expected lenient scoring")
	}
	if cfg.RateLimitMaxRequests != 100 {
		t.Fatalf("expected fallback to 100, got %d", cfg.RateLimitMaxRequests)
	}
}
