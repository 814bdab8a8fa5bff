package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
)

type mockRepo struct {
	accounts map[string]*Account
}

func (m *mockRepo) FindByCURP(_ context.Context, curp string) (*Account, error) {
	a, ok := m.accounts[curp]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

const doctorCURP = "RASL850505HDFMRS02"

func setup(t *testing.T) (*Service, auth.JWTConfig) {
	t.Helper()
	hash, err := auth.HashPassword("secreta123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &mockRepo{accounts: map[string]*Account{
		doctorCURP: {
			ID:           uuid.New(),
			Role:         auth.RoleDoctor,
			FirstName:    "Luis",
			LastName:     "Ramirez Soto",
			PasswordHash: hash,
		},
	}}
	cfg := auth.JWTConfig{SigningKey: []byte("test-secret"), TTL: time.Hour}
	return NewService(repo, cfg, zerolog.Nop()), cfg
}

func TestLoginIssuesTokenWithRole(t *testing.T) {
	svc, cfg := setup(t)

	result, err := svc.Login(context.Background(), Credentials{
		CURP:     doctorCURP,
		Password: "secreta123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.Role != auth.RoleDoctor {
		t.Errorf("expected role medico, got %q", result.User.Role)
	}
	if result.User.FirstName != "Luis" {
		t.Errorf("expected user name in result, got %q", result.User.FirstName)
	}

	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return cfg.SigningKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Role != auth.RoleDoctor {
		t.Errorf("expected token role medico, got %q", claims.Role)
	}
	if claims.Subject != result.User.ID.String() {
		t.Errorf("token subject %q does not match user id %q", claims.Subject, result.User.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Login(context.Background(), Credentials{
		CURP:     doctorCURP,
		Password: "incorrecta",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginUnknownCURPSameError(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Login(context.Background(), Credentials{
		CURP:     "XXXX000000XXXXXX00",
		Password: "secreta123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginMissingFields(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Login(context.Background(), Credentials{CURP: doctorCURP})
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
