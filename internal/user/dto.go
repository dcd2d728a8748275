package user

import (
	"strings"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/common/nullable"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/common/validation"
	userDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/user"
)

type CreateUserDTO struct {
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	NationalIDNumber *int64  `json:"national_id_number"`
	DepartmentID     *string `json:"department_id"`
	TokenID          *string `json:"token_id"`
	Role             *string `json:"role"`
}

// Normalize trims input and turns empty optional strings into nulls, which is
// what the registration form sends for "none selected".
func (dto *CreateUserDTO) Normalize() {
	dto.UserID = strings.TrimSpace(dto.UserID)
	dto.Name = strings.TrimSpace(dto.Name)
	dto.DepartmentID = trimToNil(dto.DepartmentID)
	dto.TokenID = trimToNil(dto.TokenID)
	dto.Role = trimToNil(dto.Role)
}

func (dto *CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required().MaxLength(64)
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("national_id_number", dto.NationalIDNumber).Required().NonNegative()
	v.Field("role", dto.Role).MaxLength(64)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto *CreateUserDTO) ToDataModel() *userDatamodel.User {
	return &userDatamodel.User{
		UserID:           dto.UserID,
		Name:             dto.Name,
		NationalIDNumber: *dto.NationalIDNumber,
		DepartmentID:     dto.DepartmentID,
		TokenID:          dto.TokenID,
		Role:             dto.Role,
	}
}

// UpdateUserDTO carries the mutable columns only; a user_id in the payload is
// dropped by the decoder. Nullable columns distinguish "absent" from null.
type UpdateUserDTO struct {
	Name             *string         `json:"name"`
	NationalIDNumber *int64          `json:"national_id_number"`
	DepartmentID     nullable.String `json:"department_id"`
	TokenID          nullable.String `json:"token_id"`
	Role             nullable.String `json:"role"`
}

func (dto *UpdateUserDTO) IsEmpty() bool {
	return dto.Name == nil &&
		dto.NationalIDNumber == nil &&
		!dto.DepartmentID.Set &&
		!dto.TokenID.Set &&
		!dto.Role.Set
}

func (dto *UpdateUserDTO) Normalize() {
	if dto.Name != nil {
		trimmed := strings.TrimSpace(*dto.Name)
		dto.Name = &trimmed
	}
	dto.DepartmentID = trimNullable(dto.DepartmentID)
	dto.TokenID = trimNullable(dto.TokenID)
	dto.Role = trimNullable(dto.Role)
}

func (dto *UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).NotBlank().MaxLength(255)
	v.Field("national_id_number", dto.NationalIDNumber).NonNegative()
	v.Field("role", dto.Role.Value).MaxLength(64)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto *UpdateUserDTO) Changes() userDatamodel.Changes {
	return userDatamodel.Changes{
		Name:             dto.Name,
		NationalIDNumber: dto.NationalIDNumber,
		DepartmentID:     dto.DepartmentID,
		TokenID:          dto.TokenID,
		Role:             dto.Role,
	}
}

type DeleteUserResponse struct {
	UserID  string `json:"user_id"`
	Deleted bool   `json:"deleted"`
}

func trimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimNullable(s nullable.String) nullable.String {
	if s.Value != nil {
		trimmed := strings.TrimSpace(*s.Value)
		s.Value = &trimmed
	}
	return s.Normalized()
}
