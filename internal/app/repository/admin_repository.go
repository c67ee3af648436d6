package repository

import (
	"context"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"gorm.io/gorm"
)

// AdminRepository defines the data access contract for admins.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByID(ctx context.Context, id uint) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Update(ctx context.Context, admin *model.Admin) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository returns a GORM-backed AdminRepository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, notFound(err, ErrAdminNotFound)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, notFound(err, ErrAdminNotFound)
	}
	return &admin, nil
}

func (r *adminRepository) Update(ctx context.Context, admin *model.Admin) error {
	result := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("id = ?", admin.ID).
		Updates(map[string]interface{}{
			"email":    admin.Email,
			"password": admin.Password,
			"nickname": admin.Nickname,
		})

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrDuplicateEmail
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdminNotFound
	}

	return r.db.WithContext(ctx).First(admin, admin.ID).Error
}
