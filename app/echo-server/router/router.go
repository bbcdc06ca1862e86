package router

import (
	"net/http"

	"sisrekomact/internal/middleware"
	"sisrekomact/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.StudentHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout, authRequired)
}

func SetupStudentRoutes(api *echo.Group, handler *rest.StudentHandler, authRequired echo.MiddlewareFunc) {
	students := api.Group("/students", authRequired)

	students.GET("/me", handler.Me)
	students.GET("/me/activities", handler.Activities)
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc) {
	api.GET("/recommendations", handler.Recommend, authRequired)
	api.GET("/clusters/:student_id", handler.GetClusterEntry, authRequired, middleware.SelfOrAdmin())

	admin := api.Group("/admin/clusters", authRequired, middleware.AdminOnly())
	admin.POST("/recompute", handler.Recompute)
}

func SetupOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
