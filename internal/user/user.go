package user

import (
	"time"

	userDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/user"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token"
)

// User is a staff member who may hold a signing token. DepartmentID, TokenID
// and Role are always serialized, as null when unset; the embedded Department
// and Token only appear when the key resolves to an existing row.
type User struct {
	UserID           string                 `json:"user_id"`
	Name             string                 `json:"name"`
	NationalIDNumber int64                  `json:"national_id_number"`
	DepartmentID     *string                `json:"department_id"`
	TokenID          *string                `json:"token_id"`
	Role             *string                `json:"role"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Department       *department.Department `json:"department,omitempty"`
	Token            *token.Token           `json:"token,omitempty"`
}

func (u *User) HasToken() bool {
	return u.Token != nil
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		UserID:           u.UserID,
		Name:             u.Name,
		NationalIDNumber: u.NationalIDNumber,
		DepartmentID:     u.DepartmentID,
		TokenID:          u.TokenID,
		Role:             u.Role,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		UserID:           u.UserID,
		Name:             u.Name,
		NationalIDNumber: u.NationalIDNumber,
		DepartmentID:     u.DepartmentID,
		TokenID:          u.TokenID,
		Role:             u.Role,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func FromDataModelWithRelations(u *userDatamodel.UserWithRelations) *User {
	result := FromDataModel(&u.User)
	if u.Department != nil {
		result.Department = department.FromDataModel(u.Department)
	}
	if u.Token != nil {
		result.Token = token.FromDataModel(u.Token)
	}
	return result
}

func FromDataModelWithRelationsSlice(users []*userDatamodel.UserWithRelations) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModelWithRelations(u)
	}
	return result
}
