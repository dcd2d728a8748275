package token

import (
	"time"

	tokenDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/token"
)

// Token is a digital-signature USB device issued to a staff member.
// The device password is only ever held as a bcrypt hash.
type Token struct {
	TokenID      string    `json:"token_id"`
	DeviceCode   string    `json:"device_code"`
	PasswordHash string    `json:"-"`
	ValidUntil   time.Time `json:"valid_until"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *Token) IsExpired(at time.Time) bool {
	return at.After(t.ValidUntil)
}

func ToDataModel(t *Token) *tokenDatamodel.Token {
	return &tokenDatamodel.Token{
		TokenID:      t.TokenID,
		DeviceCode:   t.DeviceCode,
		PasswordHash: t.PasswordHash,
		ValidUntil:   t.ValidUntil,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func FromDataModel(t *tokenDatamodel.Token) *Token {
	return &Token{
		TokenID:      t.TokenID,
		DeviceCode:   t.DeviceCode,
		PasswordHash: t.PasswordHash,
		ValidUntil:   t.ValidUntil,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func FromDataModelSlice(tokens []*tokenDatamodel.Token) []*Token {
	result := make([]*Token, len(tokens))
	for i, t := range tokens {
		result[i] = FromDataModel(t)
	}
	return result
}
