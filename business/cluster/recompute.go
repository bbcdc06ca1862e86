package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sisrekomact/domain"
	"sisrekomact/pkg/logger"
	"sisrekomact/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

type GradeRepository interface {
	FetchAllGrades(ctx context.Context) ([]domain.GradeRecord, error)
}

type RecomputeResult struct {
	Students   int           `json:"students"`
	Columns    []string      `json:"columns"`
	Mode       Mode          `json:"mode"`
	Duration   time.Duration `json:"duration"`
	ComputedAt time.Time     `json:"computed_at"`
	Shared     bool          `json:"shared"`
}

const (
	recomputeKey            = "cohort"
	defaultRecomputeTimeout = 2 * time.Minute
)

// Engine owns the cohort recompute: aggregate every student's grades,
// classify, persist, then swap the cache. Only one recompute runs at a time;
// concurrent callers wait for and share the in-flight result.
type Engine struct {
	grades     GradeRepository
	classifier *Classifier
	cache      *Cache
	store      SnapshotStore
	excluded   string
	timeout    time.Duration

	group singleflight.Group
	mu    sync.Mutex

	lastMu  sync.RWMutex
	lastRun time.Time
}

type EngineConfig struct {
	ExcludedCategory string
	Timeout          time.Duration
}

// NewEngine wires the recompute pipeline. classifier may be nil when the
// model could not be loaded; recomputes then fail with ErrModelUnavailable
// while cached entries keep being served.
func NewEngine(
	grades GradeRepository,
	classifier *Classifier,
	cache *Cache,
	store SnapshotStore,
	cfg EngineConfig,
) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRecomputeTimeout
	}
	return &Engine{
		grades:     grades,
		classifier: classifier,
		cache:      cache,
		store:      store,
		excluded:   cfg.ExcludedCategory,
		timeout:    cfg.Timeout,
	}
}

func (e *Engine) Cache() *Cache {
	return e.cache
}

// LastRecompute is the finish time of the last successful recompute.
func (e *Engine) LastRecompute() time.Time {
	e.lastMu.RLock()
	defer e.lastMu.RUnlock()
	return e.lastRun
}

// RecomputeAll rebuilds the cache for the whole cohort. On any failure the
// previous snapshot stays in place.
func (e *Engine) RecomputeAll(ctx context.Context) (RecomputeResult, error) {
	ch := e.group.DoChan(recomputeKey, func() (any, error) {
		// detached so one caller giving up does not fail the shared run
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()
		return e.recompute(runCtx)
	})

	select {
	case <-ctx.Done():
		return RecomputeResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return RecomputeResult{}, res.Err
		}
		out := res.Val.(RecomputeResult)
		out.Shared = res.Shared
		return out, nil
	}
}

func (e *Engine) recompute(ctx context.Context) (RecomputeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.ClusterRecomputeDuration.Observe(time.Since(start).Seconds())
	}()

	result, entries, err := e.build(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPopulation) {
			metrics.ClusterRecomputeTotal.WithLabelValues("empty").Inc()
			logger.Warn("Cluster recompute found no grade data")
			return RecomputeResult{}, err
		}
		metrics.ClusterRecomputeTotal.WithLabelValues("failed").Inc()
		logger.Error("Cluster recompute failed", err)
		return RecomputeResult{}, fmt.Errorf("%w: %w", domain.ErrRecomputeFailed, err)
	}

	if err := e.store.Save(ctx, entries); err != nil {
		metrics.ClusterRecomputeTotal.WithLabelValues("failed").Inc()
		logger.Error("Failed to persist cluster cache", err)
		return RecomputeResult{}, fmt.Errorf("%w: persist snapshot: %w", domain.ErrRecomputeFailed, err)
	}

	now := time.Now()
	e.cache.Replace(entries, now)

	e.lastMu.Lock()
	e.lastRun = now
	e.lastMu.Unlock()

	result.Duration = time.Since(start)
	result.ComputedAt = now

	metrics.ClusterRecomputeTotal.WithLabelValues("ok").Inc()
	logger.Info("Cluster recompute finished",
		"students", result.Students,
		"columns", len(result.Columns),
		"mode", string(result.Mode),
		"duration", result.Duration,
	)

	return result, nil
}

func (e *Engine) build(ctx context.Context) (RecomputeResult, map[string]domain.CacheEntry, error) {
	if e.classifier == nil {
		return RecomputeResult{}, nil, domain.ErrModelUnavailable
	}

	records, err := e.grades.FetchAllGrades(ctx)
	if err != nil {
		return RecomputeResult{}, nil, fmt.Errorf("fetch grades: %w", err)
	}

	table, err := Aggregate(records, AggregateOptions{
		ExcludedCategory: e.excluded,
		Schema:           e.classifier.Columns(),
	})
	if err != nil {
		return RecomputeResult{}, nil, err
	}
	if table.Len() == 0 {
		return RecomputeResult{}, nil, domain.ErrEmptyPopulation
	}

	ids, err := e.classifier.Classify(table.Normalized)
	if err != nil {
		return RecomputeResult{}, nil, fmt.Errorf("classify cohort: %w", err)
	}

	entries := make(map[string]domain.CacheEntry, table.Len())
	for i, sid := range table.Students {
		entries[sid] = domain.CacheEntry{
			StudentID:     sid,
			ClusterID:     ids[i],
			FeatureVector: table.Vector(i),
		}
	}

	return RecomputeResult{
		Students: table.Len(),
		Columns:  table.Columns,
		Mode:     e.classifier.Mode(),
	}, entries, nil
}
