package token

import (
	"strings"
	"time"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/common/validation"
)

type CreateTokenDTO struct {
	TokenID    string `json:"token_id"`
	DeviceCode string `json:"device_code"`
	Password   string `json:"password"`
	ValidUntil string `json:"valid_until"`
}

func (dto *CreateTokenDTO) Normalize() {
	dto.TokenID = strings.TrimSpace(dto.TokenID)
	dto.DeviceCode = strings.TrimSpace(dto.DeviceCode)
	dto.ValidUntil = strings.TrimSpace(dto.ValidUntil)
}

func (dto *CreateTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("token_id", dto.TokenID).Required().MaxLength(64)
	v.Field("device_code", dto.DeviceCode).Required().MaxLength(255)
	// bcrypt ignores input beyond 72 bytes
	v.Field("password", dto.Password).Required().MaxLength(72)
	v.Field("valid_until", dto.ValidUntil).Required().Timestamp()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ValidUntilTime must only be called after Validate succeeded.
func (dto *CreateTokenDTO) ValidUntilTime() time.Time {
	t, _ := validation.ParseTimestamp(dto.ValidUntil)
	return t
}

type VerifyPasswordDTO struct {
	Password string `json:"password"`
}

func (dto *VerifyPasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("password", dto.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type VerifyPasswordResponse struct {
	TokenID string `json:"token_id"`
	Valid   bool   `json:"valid"`
}

type DeleteTokenResponse struct {
	TokenID string `json:"token_id"`
	Deleted bool   `json:"deleted"`
}
