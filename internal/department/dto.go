package department

import (
	"strings"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (dto *CreateDepartmentDTO) Normalize() {
	dto.ID = strings.TrimSpace(dto.ID)
	dto.Name = strings.TrimSpace(dto.Name)
}

func (dto *CreateDepartmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("id", dto.ID).Required().MaxLength(64)
	v.Field("name", dto.Name).Required().MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateDepartmentDTO has one optional slot per mutable column.
type UpdateDepartmentDTO struct {
	Name *string `json:"name"`
}

func (dto *UpdateDepartmentDTO) IsEmpty() bool {
	return dto.Name == nil
}

func (dto *UpdateDepartmentDTO) Validate() error {
	if dto.Name != nil {
		trimmed := strings.TrimSpace(*dto.Name)
		dto.Name = &trimmed
	}

	v := validation.NewValidator()
	v.Field("name", dto.Name).NotBlank().MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type DeleteDepartmentResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
