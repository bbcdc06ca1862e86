package recommendation

import (
	"context"
	"fmt"
	"regexp"

	"sisrekomact/domain"
)

// ActivityRepository contract interface
type ActivityRepository interface {
	FetchActivities(ctx context.Context, category string, excludeNames []string, limit int) ([]domain.Activity, error)
	FetchStudentHistory(ctx context.Context, studentID string) ([]string, error)
}

const DefaultLimit = 12

// yearToken marks recurring activities whose name embeds the edition year.
var yearToken = regexp.MustCompile(`[0-9]{4}`)

type Selection struct {
	Category   string
	Activities []domain.Activity
}

type Selector struct {
	activities ActivityRepository
	limit      int
}

func NewSelector(activities ActivityRepository, limit int) *Selector {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Selector{activities: activities, limit: limit}
}

func (s *Selector) Limit() int {
	return s.limit
}

// Select picks up to limit activities of the cluster's category that the
// student has not attended yet. An empty result is ErrNoRecommendations.
func (s *Selector) Select(ctx context.Context, studentID string, clusterID int) (Selection, error) {
	category := CategoryFor(clusterID)
	sel := Selection{Category: category}

	if category == UnknownCategory {
		return sel, noActivities(category)
	}

	history, err := s.activities.FetchStudentHistory(ctx, studentID)
	if err != nil {
		return sel, fmt.Errorf("failed to fetch activity history: %w", err)
	}

	candidates, err := s.activities.FetchActivities(ctx, category, history, s.limit)
	if err != nil {
		return sel, fmt.Errorf("failed to fetch activities: %w", err)
	}

	sel.Activities = filterActivities(candidates, history, s.limit)
	if len(sel.Activities) == 0 {
		return sel, noActivities(category)
	}

	return sel, nil
}

// filterActivities drops attended and year-stamped names, keeps the first
// occurrence of each (name, category) and caps the result at limit.
func filterActivities(candidates []domain.Activity, history []string, limit int) []domain.Activity {
	attended := make(map[string]struct{}, len(history))
	for _, name := range history {
		attended[name] = struct{}{}
	}

	seen := make(map[domain.Activity]struct{}, len(candidates))
	out := make([]domain.Activity, 0, min(len(candidates), limit))
	for _, a := range candidates {
		if len(out) == limit {
			break
		}
		if _, ok := attended[a.Name]; ok {
			continue
		}
		if yearToken.MatchString(a.Name) {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func noActivities(category string) error {
	return fmt.Errorf("%w: no activities found for category %s", domain.ErrNoRecommendations, category)
}
