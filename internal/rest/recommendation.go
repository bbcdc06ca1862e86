package rest

import (
	"context"
	"net/http"

	"sisrekomact/business/cluster"
	"sisrekomact/business/recommendation"
	"sisrekomact/domain"
	"sisrekomact/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type RecommendationService interface {
	GetRecommendation(ctx context.Context, studentID string) (domain.Recommendation, error)
	ClusterEntry(studentID string) (domain.CacheEntry, error)
	ForceRecompute(ctx context.Context) (cluster.RecomputeResult, error)
}

type RecommendationHandler struct {
	service RecommendationService
}

func NewRecommendationHandler(service RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// GET /api/v1/recommendations
// A cache miss may run a full cohort recompute, so no handler timeout here;
// the engine bounds the recompute itself.
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	studentID := c.Get(middleware.ContextStudentID).(string)

	rec, err := h.service.GetRecommendation(c.Request().Context(), studentID)
	if err != nil {
		return err
	}
	rec.StudentName, _ = c.Get(middleware.ContextStudentName).(string)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rec))
}

type clusterEntryResponse struct {
	StudentID     string               `json:"npm_mahasiswa"`
	ClusterID     int                  `json:"cluster_id"`
	Category      string               `json:"category"`
	FeatureVector domain.FeatureVector `json:"feature_vector"`
}

// GET /api/v1/clusters/:student_id
func (h *RecommendationHandler) GetClusterEntry(c echo.Context) error {
	entry, err := h.service.ClusterEntry(c.Param("student_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(clusterEntryResponse{
		StudentID:     entry.StudentID,
		ClusterID:     entry.ClusterID,
		Category:      recommendation.CategoryFor(entry.ClusterID),
		FeatureVector: entry.FeatureVector,
	}))
}

// POST /api/v1/admin/clusters/recompute
func (h *RecommendationHandler) Recompute(c echo.Context) error {
	res, err := h.service.ForceRecompute(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}
