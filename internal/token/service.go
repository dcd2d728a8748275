package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	tokenDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/token"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*tokenDatamodel.Token, error)
	GetByID(ctx context.Context, tokenID string) (*tokenDatamodel.Token, error)
	Create(ctx context.Context, token *tokenDatamodel.Token) error
	// Delete removes the token and nulls users.token_id for its holders.
	Delete(ctx context.Context, tokenID string) error
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*Token, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list tokens", "error", err)
		return nil, internal.NewStoreError(err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetByID(ctx context.Context, tokenID string) (*Token, error) {
	row, err := s.repo.GetByID(ctx, tokenID)
	if err != nil {
		s.logger.Error("failed to get token", "error", err, "token_id", tokenID)
		return nil, internal.NewStoreError(err)
	}
	if row == nil {
		return nil, internal.ErrTokenNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto *CreateTokenDTO) (*Token, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, dto.TokenID)
	if err != nil {
		return nil, internal.NewStoreError(err)
	}
	if existing != nil {
		return nil, duplicateToken(dto.TokenID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash token password", err)
	}

	row := &tokenDatamodel.Token{
		TokenID:      dto.TokenID,
		DeviceCode:   dto.DeviceCode,
		PasswordHash: string(hash),
		ValidUntil:   dto.ValidUntilTime(),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			s.logger.Warn("token created concurrently", "token_id", dto.TokenID)
			return nil, duplicateToken(dto.TokenID)
		}
		s.logger.Error("failed to create token", "error", err, "token_id", dto.TokenID)
		return nil, internal.NewStoreError(err)
	}

	s.logger.Info("token created", "token_id", row.TokenID, "device_code", row.DeviceCode)
	return FromDataModel(row), nil
}

// VerifyPassword reports whether password matches the stored hash.
func (s *Service) VerifyPassword(ctx context.Context, tokenID string, dto *VerifyPasswordDTO) (bool, error) {
	if err := dto.Validate(); err != nil {
		return false, err
	}

	t, err := s.GetByID(ctx, tokenID)
	if err != nil {
		return false, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(dto.Password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, internal.NewInternalError("failed to verify token password", err)
	}
}

func (s *Service) Delete(ctx context.Context, tokenID string) error {
	if _, err := s.GetByID(ctx, tokenID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, tokenID); err != nil {
		s.logger.Error("failed to delete token", "error", err, "token_id", tokenID)
		return internal.NewStoreError(err)
	}

	s.logger.Info("token deleted", "token_id", tokenID)
	return nil
}

func duplicateToken(id string) *internal.AppError {
	return internal.NewDuplicateKeyError(fmt.Sprintf("Token with ID '%s' already exists", id))
}
