// Package services contains server-side business logic. This file implements
// UserService: validated creation, lookup by id and listing of users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userservice/internal/common"
	"github.com/dmitrijs2005/userservice/internal/dbx"
	"github.com/dmitrijs2005/userservice/internal/server/models"
	"github.com/dmitrijs2005/userservice/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// CreateUserRequest is the payload accepted by Create, from either a JSON body
// or a submitted HTML form.
type CreateUserRequest struct {
	UserName string `json:"username" form:"username" validate:"required,max=128"`
	Email    string `json:"email" form:"email" validate:"required,max=128"`
}

// UserService provides the user operations exposed over HTTP.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
}

// NewUserService constructs a UserService on top of db and the repositories vended by m.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks req and returns an error wrapping common.ErrorValidation
// when a field is missing or too long.
func (s *UserService) Validate(ctx context.Context, req CreateUserRequest) error {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

// Create validates req and inserts the user in a transaction. A duplicate
// email yields common.ErrorAlreadyExists; other store failures wrap
// common.ErrorInternal.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.Validate(ctx, req); err != nil {
		return nil, err
	}

	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{UserName: req.UserName, Email: req.Email})
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: error creating user: %w", common.ErrorInternal, err)
	}

	return created, nil
}

// Get returns the user with the given id or common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, common.ErrorNotFound
	}

	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: error getting user: %w", common.ErrorInternal, err)
	}
	return u, nil
}

// List returns every user in insertion order.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: error listing users: %w", common.ErrorInternal, err)
	}
	return users, nil
}
