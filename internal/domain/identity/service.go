package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
)

// ErrInvalidCredentials covers both unknown email and wrong password. The
// two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("credenciales inválidas")

// Service resolves credentials into a signed token.
type Service struct {
	repo   Repository
	jwt    auth.JWTConfig
	logger zerolog.Logger
}

func NewService(repo Repository, jwt auth.JWTConfig, logger zerolog.Logger) *Service {
	return &Service{repo: repo, jwt: jwt, logger: logger}
}

// Login verifies the credentials against the stored hash and issues a token
// carrying the account's role.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if creds.CURP == "" || creds.Password == "" {
		return nil, apperr.Validationf("curp y contrasena son obligatorios")
	}

	account, err := s.repo.FindByCURP(ctx, creds.CURP)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Storef(err, "error al iniciar sesión")
	}

	if !auth.CheckPassword(account.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.Issue(s.jwt, account.ID, account.Role)
	if err != nil {
		return nil, apperr.Storef(err, "error al iniciar sesión")
	}

	s.logger.Info().
		Str("user_id", account.ID.String()).
		Str("rol", account.Role).
		Msg("login")
	return &LoginResult{
		Token: token,
		User: User{
			ID:        account.ID,
			FirstName: account.FirstName,
			LastName:  account.LastName,
			Role:      account.Role,
		},
	}, nil
}
