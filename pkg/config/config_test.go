//go:build !integration

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Cluster.CacheStore != CacheStoreFile {
		t.Errorf("cache store = %q, want file", cfg.Cluster.CacheStore)
	}
	if cfg.Cluster.Mode != "predict" {
		t.Errorf("mode = %q, want predict", cfg.Cluster.Mode)
	}
	if cfg.Cluster.RecommendLimit != 12 {
		t.Errorf("recommend limit = %d, want 12", cfg.Cluster.RecommendLimit)
	}
	if cfg.Cluster.ExcludedCategory != "Tugas Akhir" {
		t.Errorf("excluded category = %q", cfg.Cluster.ExcludedCategory)
	}
	if cfg.Cluster.RecomputeTimeout != 2*time.Minute || cfg.Cluster.MissCooldown != 30*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.Cluster.RecomputeTimeout, cfg.Cluster.MissCooldown)
	}
	if cfg.JWT.TTL != time.Hour {
		t.Errorf("jwt ttl = %v, want 1h", cfg.JWT.TTL)
	}
}

func TestLoadRejectsRedisStoreWithoutRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CLUSTER_CACHE_STORE", "redis")
	t.Setenv("REDIS_ENABLED", "false")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for redis cache store without redis")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing jwt secret error")
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CLUSTER_MODE", "refit_always")

	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported mode error")
	}
}
