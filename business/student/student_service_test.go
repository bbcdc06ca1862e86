//go:build !integration

package student

import (
	"context"
	"errors"
	"testing"
	"time"

	"sisrekomact/domain"
	"sisrekomact/pkg/utils"
)

type fakeStudents map[string]domain.Student

func (f fakeStudents) FindByID(ctx context.Context, studentID string) (domain.Student, error) {
	s, ok := f[studentID]
	if !ok {
		return domain.Student{}, domain.ErrNotFound
	}
	return s, nil
}

type fakeHistory map[string][]domain.ActivityRecord

func (f fakeHistory) FindHistory(ctx context.Context, studentID string) ([]domain.ActivityRecord, error) {
	return f[studentID], nil
}

type memoryTokens struct {
	byToken map[string]string
}

func (m *memoryTokens) StoreToken(ctx context.Context, session domain.TokenSession, ttl time.Duration) error {
	m.byToken[session.Token] = session.StudentID
	return nil
}

func (m *memoryTokens) ValidateToken(ctx context.Context, token string) (string, error) {
	id, ok := m.byToken[token]
	if !ok {
		return "", errors.New("token not found or expired")
	}
	return id, nil
}

func (m *memoryTokens) DeleteToken(ctx context.Context, studentID, token string) error {
	delete(m.byToken, token)
	return nil
}

func newFixture(t *testing.T) (fakeStudents, *utils.JWTManager) {
	t.Helper()
	hash, err := utils.HashPassword("rahasia")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	students := fakeStudents{
		"2110511001": {StudentID: "2110511001", Name: "Budi", PasswordHash: string(hash)},
		"2110511002": {StudentID: "2110511002", Name: "Sari"},
	}
	return students, utils.NewJWTManager("test-secret", time.Hour)
}

func TestLogin(t *testing.T) {
	students, jwt := newFixture(t)
	svc := NewStudentService(students, fakeHistory{}, nil, jwt)

	token, student, err := svc.Login(context.Background(), "2110511001", "rahasia", "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if student.PasswordHash != "" {
		t.Fatal("password hash leaked")
	}

	claims, err := jwt.ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.StudentID != "2110511001" || claims.StudentName != "Budi" || claims.Role != RoleStudent {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLogin_Rejects(t *testing.T) {
	students, jwt := newFixture(t)
	svc := NewStudentService(students, fakeHistory{}, nil, jwt)

	tests := []struct {
		name      string
		studentID string
		password  string
	}{
		{"wrong password", "2110511001", "salah"},
		{"password equal to id", "2110511001", "2110511001"},
		{"unknown student", "9999", "rahasia"},
		{"no password set", "2110511002", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.studentID, tt.password, "", "")
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	students, jwt := newFixture(t)
	tokens := &memoryTokens{byToken: map[string]string{}}
	svc := NewStudentService(students, fakeHistory{}, tokens, jwt)

	token, _, err := svc.Login(context.Background(), "2110511001", "rahasia", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	id, err := svc.ValidateTokenFromRedis(context.Background(), token)
	if err != nil || id != "2110511001" {
		t.Fatalf("ValidateTokenFromRedis = %q, %v", id, err)
	}

	if err := svc.Logout(context.Background(), "2110511001", token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ValidateTokenFromRedis(context.Background(), token); err == nil {
		t.Fatal("token still valid after logout")
	}
}

func TestGetActivityHistory(t *testing.T) {
	students, jwt := newFixture(t)
	history := fakeHistory{"2110511001": {{StudentID: "2110511001", Name: "Workshop", Category: "DKV"}}}
	svc := NewStudentService(students, history, nil, jwt)

	got, err := svc.GetActivityHistory(context.Background(), "2110511001")
	if err != nil || len(got) != 1 {
		t.Fatalf("GetActivityHistory = %v, %v", got, err)
	}

	if _, err := svc.GetActivityHistory(context.Background(), "2110511002"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetStudent(t *testing.T) {
	students, jwt := newFixture(t)
	svc := NewStudentService(students, fakeHistory{}, nil, jwt)

	s, err := svc.GetStudent(context.Background(), "2110511001")
	if err != nil || s.Name != "Budi" || s.PasswordHash != "" {
		t.Fatalf("GetStudent = %+v, %v", s, err)
	}
	if _, err := svc.GetStudent(context.Background(), "0"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
