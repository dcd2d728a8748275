package department

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	departmentDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/department"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, department *departmentDatamodel.Department) error
	Update(ctx context.Context, id string, changes departmentDatamodel.Changes) (*departmentDatamodel.Department, error)
	// Delete removes the department and nulls users.department_id for its members.
	Delete(ctx context.Context, id string) error
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

func (s *Service) GetAll(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewStoreError(err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get department", "error", err, "department_id", id)
		return nil, internal.NewStoreError(err)
	}
	if row == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto *CreateDepartmentDTO) (*Department, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, dto.ID)
	if err != nil {
		return nil, internal.NewStoreError(err)
	}
	if existing != nil {
		return nil, duplicateDepartment(dto.ID)
	}

	row := ToDataModel(NewDepartment(dto.ID, dto.Name))
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			s.logger.Warn("department created concurrently", "department_id", dto.ID)
			return nil, duplicateDepartment(dto.ID)
		}
		s.logger.Error("failed to create department", "error", err, "department_id", dto.ID)
		return nil, internal.NewStoreError(err)
	}

	s.logger.Info("department created", "department_id", row.ID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateDepartmentDTO) (*Department, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if dto.IsEmpty() {
		return nil, internal.ErrNoFieldsToUpdate
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.Update(ctx, id, departmentDatamodel.Changes{Name: dto.Name})
	switch {
	case errors.Is(err, store.ErrNothingToUpdate):
		return nil, internal.ErrNoFieldsToUpdate
	case err != nil:
		s.logger.Error("failed to update department", "error", err, "department_id", id)
		return nil, internal.NewStoreError(err)
	case row == nil:
		return nil, internal.ErrDepartmentNotFound
	}

	s.logger.Info("department updated", "department_id", id)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete department", "error", err, "department_id", id)
		return internal.NewStoreError(err)
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}

func duplicateDepartment(id string) *internal.AppError {
	return internal.NewDuplicateKeyError(fmt.Sprintf("Department with ID '%s' already exists", id))
}
