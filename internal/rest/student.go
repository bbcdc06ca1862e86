package rest

import (
	"context"
	"net/http"
	"time"

	"sisrekomact/domain"
	"sisrekomact/internal/middleware"
	"sisrekomact/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type StudentService interface {
	Login(ctx context.Context, studentID, password, ipAddress, userAgent string) (string, domain.Student, error)
	Logout(ctx context.Context, studentID, token string) error
	GetStudent(ctx context.Context, studentID string) (domain.Student, error)
	GetActivityHistory(ctx context.Context, studentID string) ([]domain.ActivityRecord, error)
}

type StudentHandler struct {
	studentService StudentService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewStudentHandler(studentService StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type LoginRequest struct {
	StudentID string `json:"npm_mahasiswa" validate:"required,max=20"`
	Password  string `json:"password" validate:"required"`
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func (h *StudentHandler) Login(c echo.Context) error {
	var req LoginRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate student login", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, student, err := h.studentService.Login(ctx, req.StudentID, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"student": student,
	})
}

// Logout revokes the session of the current token
func (h *StudentHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	studentID, _ := c.Get(middleware.ContextStudentID).(string)
	token, ok := c.Get(middleware.ContextToken).(string)
	if studentID == "" || !ok {
		logger.Error("Failed to get session from context")
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.studentService.Logout(ctx, studentID, token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Logout successful"))
}

func (h *StudentHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	student, err := h.studentService.GetStudent(ctx, c.Get(middleware.ContextStudentID).(string))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(student))
}

func (h *StudentHandler) Activities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	history, err := h.studentService.GetActivityHistory(ctx, c.Get(middleware.ContextStudentID).(string))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(history))
}
