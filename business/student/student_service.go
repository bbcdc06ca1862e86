package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sisrekomact/domain"
	"sisrekomact/pkg/logger"
	"sisrekomact/pkg/utils"
)

// StudentRepository contract interface
type StudentRepository interface {
	FindByID(ctx context.Context, studentID string) (domain.Student, error)
}

// HistoryRepository contract interface
type HistoryRepository interface {
	FindHistory(ctx context.Context, studentID string) ([]domain.ActivityRecord, error)
}

// TokenStore keeps issued tokens so they can be revoked on logout.
type TokenStore interface {
	StoreToken(ctx context.Context, session domain.TokenSession, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	DeleteToken(ctx context.Context, studentID, token string) error
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type studentService struct {
	studentRepo StudentRepository
	historyRepo HistoryRepository
	tokens      TokenStore
	jwt         *utils.JWTManager
}

// NewStudentService wires the auth and profile use cases. tokens may be nil,
// in which case sessions are stateless and logout only acknowledges.
func NewStudentService(
	studentRepo StudentRepository,
	historyRepo HistoryRepository,
	tokens TokenStore,
	jwt *utils.JWTManager,
) *studentService {
	return &studentService{
		studentRepo: studentRepo,
		historyRepo: historyRepo,
		tokens:      tokens,
		jwt:         jwt,
	}
}

func (s *studentService) Login(ctx context.Context, studentID, password, ipAddress, userAgent string) (string, domain.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Login for unknown student", "student_id", studentID)
			return "", domain.Student{}, domain.ErrInvalidCredentials
		}
		logger.Error("Failed to get student", err)
		return "", domain.Student{}, err
	}

	if student.PasswordHash == "" || !utils.CheckPassword(password, student.PasswordHash) {
		logger.Warn("Student password incorrect", "student_id", studentID)
		return "", domain.Student{}, domain.ErrInvalidCredentials
	}

	role := student.Role
	if role == "" {
		role = RoleStudent
	}

	token, err := s.jwt.GenerateJWT(student.StudentID, student.Name, role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.Student{}, errors.New("failed to generate token")
	}

	if s.tokens != nil {
		now := time.Now()
		session := domain.TokenSession{
			StudentID: student.StudentID,
			Role:      role,
			Token:     token,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.jwt.TTL()),
			IPAddress: ipAddress,
			UserAgent: userAgent,
		}
		if err := s.tokens.StoreToken(ctx, session, s.jwt.TTL()); err != nil {
			logger.Error("Failed to store token session", err)
			return "", domain.Student{}, errors.New("failed to create session")
		}
	}

	student.PasswordHash = ""
	return token, student, nil
}

// ValidateTokenFromRedis returns the student id the token was issued to.
func (s *studentService) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	if s.tokens == nil {
		return "", errors.New("session store disabled")
	}
	return s.tokens.ValidateToken(ctx, token)
}

func (s *studentService) Logout(ctx context.Context, studentID, token string) error {
	if s.tokens == nil {
		return nil
	}
	if err := s.tokens.DeleteToken(ctx, studentID, token); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}
	return nil
}

func (s *studentService) GetStudent(ctx context.Context, studentID string) (domain.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		logger.Error("Failed to get student by ID", err)
		return domain.Student{}, err
	}

	student.PasswordHash = ""
	return student, nil
}

func (s *studentService) GetActivityHistory(ctx context.Context, studentID string) ([]domain.ActivityRecord, error) {
	history, err := s.historyRepo.FindHistory(ctx, studentID)
	if err != nil {
		logger.Error("Failed to get activity history", err)
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: no activities recorded for student %s", domain.ErrNotFound, studentID)
	}
	return history, nil
}
