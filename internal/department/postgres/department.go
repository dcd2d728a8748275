package postgres

import (
	"context"
	"errors"

	departmentDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/department"
	userDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/user"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	departments := make([]*departmentDatamodel.Department, 0)
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) error {
	return store.Translate(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DepartmentRepository) Update(ctx context.Context, id string, changes departmentDatamodel.Changes) (*departmentDatamodel.Department, error) {
	updates := map[string]interface{}{}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if len(updates) == 0 {
		return nil, store.ErrNothingToUpdate
	}
	updates["updated_at"] = store.Now()

	res := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, store.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&userDatamodel.User{}).
			Where("department_id = ?", id).
			Updates(map[string]interface{}{
				"department_id": nil,
				"updated_at":    store.Now(),
			}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&departmentDatamodel.Department{}).Error
	})
}
