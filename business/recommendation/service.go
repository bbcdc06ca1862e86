package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sisrekomact/business/cluster"
	"sisrekomact/domain"
	"sisrekomact/pkg/logger"
	"sisrekomact/pkg/metrics"
)

type ServiceConfig struct {
	// MissCooldown is how long after a recompute a cache miss is answered
	// with NotFound instead of triggering another recompute.
	MissCooldown time.Duration
}

// Service is the recommendation core: cache lookup, recompute on miss, then
// activity selection for the student's cluster.
type Service struct {
	engine       *cluster.Engine
	selector     *Selector
	missCooldown time.Duration
	now          func() time.Time
}

func NewService(engine *cluster.Engine, selector *Selector, cfg ServiceConfig) *Service {
	return &Service{
		engine:       engine,
		selector:     selector,
		missCooldown: cfg.MissCooldown,
		now:          time.Now,
	}
}

func (s *Service) GetRecommendation(ctx context.Context, studentID string) (domain.Recommendation, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	}()

	entry, err := s.clusterOf(ctx, studentID)
	if err != nil {
		return domain.Recommendation{}, err
	}

	sel, err := s.selector.Select(ctx, studentID, entry.ClusterID)
	metrics.RecommendTotal.WithLabelValues(sel.Category).Inc()
	if err != nil {
		if !errors.Is(err, domain.ErrNoRecommendations) {
			logger.Error("Failed to select activities", err, "student_id", studentID)
		}
		return domain.Recommendation{}, err
	}

	return domain.Recommendation{
		StudentID:     studentID,
		ClusterID:     entry.ClusterID,
		Category:      sel.Category,
		FeatureVector: entry.FeatureVector,
		Activities:    sel.Activities,
	}, nil
}

// ClusterEntry returns the cached assignment without triggering a recompute.
func (s *Service) ClusterEntry(studentID string) (domain.CacheEntry, error) {
	entry, ok := s.engine.Cache().Lookup(studentID)
	if !ok {
		return domain.CacheEntry{}, fmt.Errorf("%w: student %s is not in the cluster cache", domain.ErrNotFound, studentID)
	}
	return entry, nil
}

func (s *Service) ForceRecompute(ctx context.Context) (cluster.RecomputeResult, error) {
	return s.engine.RecomputeAll(ctx)
}

func (s *Service) clusterOf(ctx context.Context, studentID string) (domain.CacheEntry, error) {
	if entry, ok := s.engine.Cache().Lookup(studentID); ok {
		return entry, nil
	}

	if last := s.engine.LastRecompute(); !last.IsZero() && s.now().Sub(last) < s.missCooldown {
		return domain.CacheEntry{}, fmt.Errorf("%w: student %s has no grade data", domain.ErrNotFound, studentID)
	}

	logger.Info("Cluster cache miss, recomputing cohort", "student_id", studentID)
	if _, err := s.engine.RecomputeAll(ctx); err != nil {
		if errors.Is(err, domain.ErrEmptyPopulation) {
			return domain.CacheEntry{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
		return domain.CacheEntry{}, err
	}

	entry, ok := s.engine.Cache().Lookup(studentID)
	if !ok {
		return domain.CacheEntry{}, fmt.Errorf("%w: student %s has no grade data", domain.ErrNotFound, studentID)
	}
	return entry, nil
}
