package repository

import (
	"context"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"gorm.io/gorm"
)

// TagRepository defines the data access contract for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	GetByID(ctx context.Context, id uint) (*model.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)
	Update(ctx context.Context, tag *model.Tag) error
	// Delete removes the tag and detaches it from every URL that carried it.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a GORM-backed TagRepository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err, ErrTagNotFound)
	}
	return &tag, nil
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, notFound(err, ErrTagNotFound)
	}
	return &tag, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	result := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Where("id = ?", tag.ID).
		Updates(map[string]interface{}{
			"name": tag.Name,
			"slug": tag.Slug,
		})

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return ErrDuplicateSlug
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTagNotFound
	}

	return r.db.WithContext(ctx).First(tag, tag.ID).Error
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Mirrors the ON DELETE SET NULL constraint for stores that do not enforce it.
		if err := tx.Model(&model.URL{}).
			Where("tag_id = ?", id).
			UpdateColumn("tag_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTagNotFound
		}
		return nil
	})
}

func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
