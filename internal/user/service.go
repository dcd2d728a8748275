package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	userDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/user"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*userDatamodel.User, error)
	GetAllWithRelations(ctx context.Context) ([]*userDatamodel.UserWithRelations, error)
	GetByID(ctx context.Context, userID string) (*userDatamodel.User, error)
	GetByIDWithRelations(ctx context.Context, userID string) (*userDatamodel.UserWithRelations, error)
	Create(ctx context.Context, user *userDatamodel.User) error
	Update(ctx context.Context, userID string, changes userDatamodel.Changes) (*userDatamodel.User, error)
	Delete(ctx context.Context, userID string) error
	DepartmentExists(ctx context.Context, id string) (bool, error)
	TokenExists(ctx context.Context, tokenID string) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.GetAllWithRelations(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewStoreError(err)
	}
	return FromDataModelWithRelationsSlice(rows), nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	row, err := s.repo.GetByIDWithRelations(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, internal.NewStoreError(err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModelWithRelations(row), nil
}

func (s *Service) Create(ctx context.Context, dto *CreateUserDTO) (*User, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, dto.UserID)
	if err != nil {
		return nil, internal.NewStoreError(err)
	}
	if existing != nil {
		return nil, duplicateUser(dto.UserID)
	}

	if err := s.checkReferences(ctx, dto.DepartmentID, dto.TokenID); err != nil {
		return nil, err
	}

	row := dto.ToDataModel()
	if err := s.repo.Create(ctx, row); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateKey):
			s.logger.Warn("user created concurrently", "user_id", dto.UserID)
			return nil, duplicateUser(dto.UserID)
		case errors.Is(err, store.ErrReferenceNotFound):
			return nil, internal.NewReferenceNotFoundError("Referenced department or token does not exist")
		}
		s.logger.Error("failed to create user", "error", err, "user_id", dto.UserID)
		return nil, internal.NewStoreError(err)
	}

	s.logger.Info("user created", "user_id", row.UserID)
	return s.GetByID(ctx, row.UserID)
}

func (s *Service) Update(ctx context.Context, userID string, dto *UpdateUserDTO) (*User, error) {
	existing, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewStoreError(err)
	}
	if existing == nil {
		return nil, internal.ErrUserNotFound
	}
	if dto.IsEmpty() {
		return nil, internal.ErrNoFieldsToUpdate
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, dto.DepartmentID.Value, dto.TokenID.Value); err != nil {
		return nil, err
	}

	row, err := s.repo.Update(ctx, userID, dto.Changes())
	switch {
	case errors.Is(err, store.ErrNothingToUpdate):
		return nil, internal.ErrNoFieldsToUpdate
	case errors.Is(err, store.ErrReferenceNotFound):
		return nil, internal.NewReferenceNotFoundError("Referenced department or token does not exist")
	case err != nil:
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, internal.NewStoreError(err)
	case row == nil:
		return nil, internal.ErrUserNotFound
	}

	s.logger.Info("user updated", "user_id", userID)
	return s.GetByID(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	existing, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return internal.NewStoreError(err)
	}
	if existing == nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return internal.NewStoreError(err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// checkReferences verifies that every non-nil foreign key points at an existing row.
func (s *Service) checkReferences(ctx context.Context, departmentID, tokenID *string) error {
	if departmentID != nil {
		ok, err := s.repo.DepartmentExists(ctx, *departmentID)
		if err != nil {
			return internal.NewStoreError(err)
		}
		if !ok {
			return internal.NewReferenceNotFoundError(fmt.Sprintf("Department with ID '%s' does not exist", *departmentID))
		}
	}
	if tokenID != nil {
		ok, err := s.repo.TokenExists(ctx, *tokenID)
		if err != nil {
			return internal.NewStoreError(err)
		}
		if !ok {
			return internal.NewReferenceNotFoundError(fmt.Sprintf("Token with ID '%s' does not exist", *tokenID))
		}
	}
	return nil
}

func duplicateUser(id string) *internal.AppError {
	return internal.NewDuplicateKeyError(fmt.Sprintf("User with ID '%s' already exists", id))
}
