package postgres

import (
	"context"
	"errors"

	tokenDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/token"
	userDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/user"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) token.RepositoryAPI {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) GetAll(ctx context.Context) ([]*tokenDatamodel.Token, error) {
	tokens := make([]*tokenDatamodel.Token, 0)
	err := r.db.WithContext(ctx).Order("created_at ASC, token_id ASC").Find(&tokens).Error
	return tokens, err
}

func (r *TokenRepository) GetByID(ctx context.Context, tokenID string) (*tokenDatamodel.Token, error) {
	var t tokenDatamodel.Token
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) Create(ctx context.Context, t *tokenDatamodel.Token) error {
	return store.Translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TokenRepository) Delete(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&userDatamodel.User{}).
			Where("token_id = ?", tokenID).
			Updates(map[string]interface{}{
				"token_id":   nil,
				"updated_at": store.Now(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("token_id = ?", tokenID).Delete(&tokenDatamodel.Token{}).Error
	})
}
