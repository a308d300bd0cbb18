package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/internal/customers"
	"github.com/velomarket/velomarket-backend/internal/users"
	"github.com/velomarket/velomarket-backend/pkg/config"
	"github.com/velomarket/velomarket-backend/pkg/db"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/security"
)

// RegisterService handles the signup transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          txRunner
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user account and its customer profile atomically. A
// taken username fails the whole transaction; no user row survives.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Password != req.ConfirmPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match").
			WithDetails(map[string]string{"field": "confirm_password"})
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		customerRepo := customers.NewRepository(tx)

		taken, err := userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken").
				WithDetails(map[string]string{"field": "username"})
		}

		user, err := userRepo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken").
					WithDetails(map[string]string{"field": "username"})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		phone := strings.TrimSpace(req.Phone)
		address := strings.TrimSpace(req.Address)
		if _, err := customerRepo.Create(ctx, &models.Customer{
			UserID:  user.ID,
			Phone:   &phone,
			Address: &address,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer profile")
		}
		return nil
	})
}
