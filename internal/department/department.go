package department

import (
	"time"

	departmentDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/department"
)

// Department is an organisational unit ("đơn vị") staff members belong to.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDepartment(id, name string) *Department {
	return &Department{
		ID:   id,
		Name: name,
	}
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func FromDataModelSlice(departments []*departmentDatamodel.Department) []*Department {
	result := make([]*Department, len(departments))
	for i, d := range departments {
		result[i] = FromDataModel(d)
	}
	return result
}
