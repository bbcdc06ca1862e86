package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Cluster  ClusterConfig
	Log      LogConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// ClusterConfig drives the cluster cache pipeline.
type ClusterConfig struct {
	ModelPath        string
	CacheStore       string // file, redis or sql
	CacheFile        string
	CacheRedisKey    string
	ExcludedCategory string
	Mode             string // predict or fit_predict
	FitK             int
	FitSeed          int64
	MissCooldown     time.Duration
	RecomputeTimeout time.Duration
	RecommendLimit   int
}

type LogConfig struct {
	Level string
}

const (
	CacheStoreFile  = "file"
	CacheStoreRedis = "redis"
	CacheStoreSQL   = "sql"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "1h"))
	if err != nil {
		return nil, errors.New("invalid jwt ttl")
	}

	fitK, err := strconv.Atoi(getEnv("CLUSTER_FIT_K", "3"))
	if err != nil {
		return nil, errors.New("invalid cluster fit k")
	}

	fitSeed, err := strconv.ParseInt(getEnv("CLUSTER_FIT_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid cluster fit seed")
	}

	missCooldown, err := time.ParseDuration(getEnv("CLUSTER_MISS_COOLDOWN", "30s"))
	if err != nil {
		return nil, errors.New("invalid cluster miss cooldown")
	}

	recomputeTimeout, err := time.ParseDuration(getEnv("CLUSTER_RECOMPUTE_TIMEOUT", "2m"))
	if err != nil {
		return nil, errors.New("invalid cluster recompute timeout")
	}

	recommendLimit, err := strconv.Atoi(getEnv("RECOMMEND_LIMIT", "12"))
	if err != nil || recommendLimit <= 0 {
		return nil, errors.New("invalid recommend limit")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "SisRekomAct API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "sisrekomact"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       jwtTTL,
		},
		Redis: RedisConfig{
			Enabled:       getEnv("REDIS_ENABLED", "false") == "true",
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Cluster: ClusterConfig{
			ModelPath:        getEnv("CLUSTER_MODEL_PATH", "kmeans_model.json"),
			CacheStore:       getEnv("CLUSTER_CACHE_STORE", CacheStoreFile),
			CacheFile:        getEnv("CLUSTER_CACHE_FILE", "cluster_cache.json"),
			CacheRedisKey:    getEnv("CLUSTER_CACHE_REDIS_KEY", "cluster_cache:snapshot"),
			ExcludedCategory: getEnv("CLUSTER_EXCLUDED_CATEGORY", "Tugas Akhir"),
			Mode:             getEnv("CLUSTER_MODE", "predict"),
			FitK:             fitK,
			FitSeed:          fitSeed,
			MissCooldown:     missCooldown,
			RecomputeTimeout: recomputeTimeout,
			RecommendLimit:   recommendLimit,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "mysql" {
		return nil, errors.New("unsupported database driver")
	}

	switch cfg.Cluster.CacheStore {
	case CacheStoreFile, CacheStoreSQL:
	case CacheStoreRedis:
		if !cfg.Redis.Enabled {
			return nil, errors.New("redis cache store requires REDIS_ENABLED=true")
		}
	default:
		return nil, errors.New("unsupported cluster cache store")
	}

	if cfg.Cluster.Mode != "predict" && cfg.Cluster.Mode != "fit_predict" {
		return nil, errors.New("unsupported cluster mode")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
