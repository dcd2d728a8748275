package user

import (
	"time"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/common/nullable"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/department"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/token"
)

type User struct {
	UserID           string    `gorm:"column:user_id;primaryKey"`
	Name             string    `gorm:"column:name;not null"`
	NationalIDNumber int64     `gorm:"column:national_id_number;not null"`
	DepartmentID     *string   `gorm:"column:department_id;index:idx_users_department_id"`
	TokenID          *string   `gorm:"column:token_id;index:idx_users_token_id"`
	Role             *string   `gorm:"column:role"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// UserWithRelations carries the rows resolved through the department and token
// foreign keys. Either side is nil when the key is null or dangling.
type UserWithRelations struct {
	User
	Department *department.Department
	Token      *token.Token
}

// Changes is a partial update with one slot per mutable column.
type Changes struct {
	Name             *string
	NationalIDNumber *int64
	DepartmentID     nullable.String
	TokenID          nullable.String
	Role             nullable.String
}
