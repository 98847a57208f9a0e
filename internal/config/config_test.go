package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.StoreBackend != "file" {
		t.Fatalf("expected file backend by default, got %q", cfg.StoreBackend)
	}
	if cfg.StoreKey != "workouts" {
		t.Fatalf("expected default store key")
	}
	if cfg.DiscardCorrupt {
		t.Fatalf("expected corrupt blobs to fail startup by default")
	}
	if cfg.RateLimitPerMinute <= 0 || cfg.RateLimitBurst <= 0 {
		t.Fatalf("expected default rate limits")
	}
	if len(cfg.Brokers()) != 0 {
		t.Fatalf("expected kafka disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("RESTORE_DISCARD_CORRUPT", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.StoreBackend != "redis" {
		t.Fatalf("expected override backend")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected override redis db")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if !cfg.DiscardCorrupt {
		t.Fatalf("expected discard override")
	}
	if cfg.RateLimitPerMinute != 10 {
		t.Fatalf("expected rate limit override")
	}
	brokers := cfg.Brokers()
	if len(brokers) != 2 || brokers[0] != "k1:9092" || brokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers: %v", brokers)
	}
}
