package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"sisrekomact/pkg/logger"
	jsonres "sisrekomact/pkg/response"
	"sisrekomact/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Context keys set by AuthMiddleware.
const (
	ContextStudentID   = "student_id"
	ContextStudentName = "student_name"
	ContextRole        = "role"
	ContextToken       = "token"
)

// TokenValidator checks that a token still has a live session.
type TokenValidator interface {
	ValidateTokenFromRedis(ctx context.Context, token string) (string, error)
}

// AuthMiddleware verifies the bearer JWT. When validator is non-nil the token
// must also have a live session, so logged-out tokens are rejected.
func AuthMiddleware(jwt *utils.JWTManager, validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Token is missing", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			claims, err := jwt.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("Rejected token", "error", err.Error())
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid or expired token", nil,
				))
			}

			if validator != nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()

				studentID, err := validator.ValidateTokenFromRedis(ctx, tokenString)
				if err != nil {
					logger.Warn("Token has no live session", "student_id", claims.StudentID)
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Token expired or invalid", nil,
					))
				}

				if studentID != claims.StudentID {
					logger.Error("Student ID mismatch between JWT and session")
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"UNAUTHORIZED", "Invalid token", nil,
					))
				}
			}

			c.Set(ContextStudentID, claims.StudentID)
			c.Set(ContextStudentName, claims.StudentName)
			c.Set(ContextRole, claims.Role)
			c.Set(ContextToken, tokenString)

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleStr, ok := c.Get(ContextRole).(string)
			if !ok || strings.ToUpper(roleStr) != "ADMIN" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}

// SelfOrAdmin lets a student reach only resources under their own
// :student_id path parameter; admins reach all of them.
func SelfOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			loggedInID, ok := c.Get(ContextStudentID).(string)
			if !ok || loggedInID == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Student not authenticated", nil,
				))
			}

			roleStr, _ := c.Get(ContextRole).(string)
			if strings.ToUpper(roleStr) == "ADMIN" {
				return next(c)
			}

			if c.Param("student_id") != loggedInID {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "You can only access your own data", nil,
				))
			}

			return next(c)
		}
	}
}
