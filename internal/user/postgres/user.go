package postgres

import (
	"context"
	"errors"
	"time"

	departmentDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/department"
	tokenDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/token"
	userDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/user"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user"
	"gorm.io/gorm"
)

const withRelationsColumns = `
	u.user_id, u.name, u.national_id_number, u.department_id, u.token_id, u.role,
	u.created_at, u.updated_at,
	d.id AS dept_id, d.name AS dept_name,
	d.created_at AS dept_created_at, d.updated_at AS dept_updated_at,
	t.token_id AS tok_token_id, t.device_code AS tok_device_code,
	t.password_hash AS tok_password_hash, t.valid_until AS tok_valid_until,
	t.created_at AS tok_created_at, t.updated_at AS tok_updated_at`

// userWithRelationsRow is one row of the users ⟕ departments ⟕ tokens join.
// Every joined column is a pointer because an unmatched side comes back NULL.
type userWithRelationsRow struct {
	UserID           string    `gorm:"column:user_id"`
	Name             string    `gorm:"column:name"`
	NationalIDNumber int64     `gorm:"column:national_id_number"`
	DepartmentID     *string   `gorm:"column:department_id"`
	TokenID          *string   `gorm:"column:token_id"`
	Role             *string   `gorm:"column:role"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`

	DeptID        *string    `gorm:"column:dept_id"`
	DeptName      *string    `gorm:"column:dept_name"`
	DeptCreatedAt *time.Time `gorm:"column:dept_created_at"`
	DeptUpdatedAt *time.Time `gorm:"column:dept_updated_at"`

	TokTokenID      *string    `gorm:"column:tok_token_id"`
	TokDeviceCode   *string    `gorm:"column:tok_device_code"`
	TokPasswordHash *string    `gorm:"column:tok_password_hash"`
	TokValidUntil   *time.Time `gorm:"column:tok_valid_until"`
	TokCreatedAt    *time.Time `gorm:"column:tok_created_at"`
	TokUpdatedAt    *time.Time `gorm:"column:tok_updated_at"`
}

func (r *userWithRelationsRow) toDataModel() *userDatamodel.UserWithRelations {
	result := &userDatamodel.UserWithRelations{
		User: userDatamodel.User{
			UserID:           r.UserID,
			Name:             r.Name,
			NationalIDNumber: r.NationalIDNumber,
			DepartmentID:     r.DepartmentID,
			TokenID:          r.TokenID,
			Role:             r.Role,
			CreatedAt:        r.CreatedAt,
			UpdatedAt:        r.UpdatedAt,
		},
	}
	if r.DeptID != nil {
		result.Department = &departmentDatamodel.Department{
			ID:        *r.DeptID,
			Name:      deref(r.DeptName),
			CreatedAt: derefTime(r.DeptCreatedAt),
			UpdatedAt: derefTime(r.DeptUpdatedAt),
		}
	}
	if r.TokTokenID != nil {
		result.Token = &tokenDatamodel.Token{
			TokenID:      *r.TokTokenID,
			DeviceCode:   deref(r.TokDeviceCode),
			PasswordHash: deref(r.TokPasswordHash),
			ValidUntil:   derefTime(r.TokValidUntil),
			CreatedAt:    derefTime(r.TokCreatedAt),
			UpdatedAt:    derefTime(r.TokUpdatedAt),
		}
	}
	return result
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*userDatamodel.User, error) {
	users := make([]*userDatamodel.User, 0)
	err := r.db.WithContext(ctx).Order("created_at ASC, user_id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users AS u").
		Select(withRelationsColumns).
		Joins("LEFT JOIN departments AS d ON d.id = u.department_id").
		Joins("LEFT JOIN tokens AS t ON t.token_id = u.token_id")
}

func (r *UserRepository) GetAllWithRelations(ctx context.Context) ([]*userDatamodel.UserWithRelations, error) {
	var rows []userWithRelationsRow
	err := r.withRelations(ctx).Order("u.created_at ASC, u.user_id ASC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]*userDatamodel.UserWithRelations, len(rows))
	for i := range rows {
		users[i] = rows[i].toDataModel()
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByIDWithRelations(ctx context.Context, userID string) (*userDatamodel.UserWithRelations, error) {
	var rows []userWithRelationsRow
	err := r.withRelations(ctx).Where("u.user_id = ?", userID).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDataModel(), nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return store.Translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) Update(ctx context.Context, userID string, changes userDatamodel.Changes) (*userDatamodel.User, error) {
	updates := map[string]interface{}{}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.NationalIDNumber != nil {
		updates["national_id_number"] = *changes.NationalIDNumber
	}
	if changes.DepartmentID.Set {
		updates["department_id"] = changes.DepartmentID.Value
	}
	if changes.TokenID.Set {
		updates["token_id"] = changes.TokenID.Value
	}
	if changes.Role.Set {
		updates["role"] = changes.Role.Value
	}
	if len(updates) == 0 {
		return nil, store.ErrNothingToUpdate
	}
	updates["updated_at"] = store.Now()

	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, store.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, userID)
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userDatamodel.User{}).Error
}

func (r *UserRepository) DepartmentExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) TokenExists(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&tokenDatamodel.Token{}).Where("token_id = ?", tokenID).Count(&count).Error
	return count > 0, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
