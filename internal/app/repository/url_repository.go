package repository

import (
	"context"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"gorm.io/gorm"
)

// URLRepository defines the data access contract for short URLs.
type URLRepository interface {
	Create(ctx context.Context, url *model.URL) error
	GetByID(ctx context.Context, id uint) (*model.URL, error)
	GetByShortCode(ctx context.Context, code string) (*model.URL, error)
	Update(ctx context.Context, url *model.URL) error
	Delete(ctx context.Context, id uint) error
	// IncrementClicks atomically adds one click and returns the refreshed record.
	// An unknown code returns ErrURLNotFound and changes nothing.
	IncrementClicks(ctx context.Context, code string) (*model.URL, error)
	ListLatest(ctx context.Context, limit, offset int) ([]model.URL, error)
	ListMostClicked(ctx context.Context, limit, offset int) ([]model.URL, error)
	Count(ctx context.Context) (int64, error)
	ListByTagSlug(ctx context.Context, slug string) ([]model.URL, error)
	Search(ctx context.Context, filter model.URLFilter) ([]model.URL, error)
	ListAll(ctx context.Context) ([]model.URL, error)
	ListShortCodes(ctx context.Context) ([]string, error)
}

type urlRepository struct {
	db *gorm.DB
}

// NewURLRepository returns a GORM-backed URLRepository.
func NewURLRepository(db *gorm.DB) URLRepository {
	return &urlRepository{db: db}
}

func (r *urlRepository) Create(ctx context.Context, url *model.URL) error {
	if err := r.db.WithContext(ctx).Omit("Tag").Create(url).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateShortCode
		}
		return err
	}
	return nil
}

func (r *urlRepository) GetByID(ctx context.Context, id uint) (*model.URL, error) {
	var url model.URL
	if err := r.db.WithContext(ctx).Preload("Tag").First(&url, id).Error; err != nil {
		return nil, notFound(err, ErrURLNotFound)
	}
	return &url, nil
}

func (r *urlRepository) GetByShortCode(ctx context.Context, code string) (*model.URL, error) {
	var url model.URL
	if err := r.db.WithContext(ctx).Preload("Tag").Where("short_code = ?", code).First(&url).Error; err != nil {
		return nil, notFound(err, ErrURLNotFound)
	}
	return &url, nil
}

func (r *urlRepository) Update(ctx context.Context, url *model.URL) error {
	result := r.db.WithContext(ctx).
		Model(&model.URL{}).
		Where("id = ?", url.ID).
		Updates(map[string]interface{}{
			"original_url": url.OriginalURL,
			"email":        url.Email,
			"tag_id":       url.TagID,
			"updated_at":   url.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrURLNotFound
	}

	var fresh model.URL
	if err := r.db.WithContext(ctx).Preload("Tag").First(&fresh, url.ID).Error; err != nil {
		return err
	}
	*url = fresh
	return nil
}

func (r *urlRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.URL{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrURLNotFound
	}
	return nil
}

func (r *urlRepository) IncrementClicks(ctx context.Context, code string) (*model.URL, error) {
	var url model.URL
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// UpdateColumn leaves updated_at alone: a click is not an edit.
		result := tx.Model(&model.URL{}).
			Where("short_code = ?", code).
			UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrURLNotFound
		}
		return tx.Preload("Tag").Where("short_code = ?", code).First(&url).Error
	})
	if err != nil {
		return nil, err
	}
	return &url, nil
}

func (r *urlRepository) ListLatest(ctx context.Context, limit, offset int) ([]model.URL, error) {
	return r.page(ctx, "created_at DESC, id DESC", limit, offset)
}

func (r *urlRepository) ListMostClicked(ctx context.Context, limit, offset int) ([]model.URL, error) {
	return r.page(ctx, "clicks DESC, created_at DESC, id DESC", limit, offset)
}

func (r *urlRepository) page(ctx context.Context, order string, limit, offset int) ([]model.URL, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var result []model.URL
	if err := r.db.WithContext(ctx).
		Preload("Tag").
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *urlRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.URL{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *urlRepository) ListByTagSlug(ctx context.Context, slug string) ([]model.URL, error) {
	db := r.db.WithContext(ctx)
	tagIDs := db.Model(&model.Tag{}).Select("id").Where("slug = ?", slug)

	var result []model.URL
	if err := db.
		Preload("Tag").
		Where("tag_id IN (?)", tagIDs).
		Order("created_at DESC, id DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *urlRepository) Search(ctx context.Context, filter model.URLFilter) ([]model.URL, error) {
	q := r.db.WithContext(ctx).Preload("Tag")

	if filter.Email != "" {
		q = q.Where("email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.OriginalURL != "" {
		q = q.Where("original_url LIKE ?", "%"+filter.OriginalURL+"%")
	}
	if filter.ShortCode != "" {
		q = q.Where("short_code LIKE ?", "%"+filter.ShortCode+"%")
	}
	if filter.TagID != nil {
		q = q.Where("tag_id = ?", *filter.TagID)
	}

	var result []model.URL
	if err := q.Order("created_at DESC, id DESC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *urlRepository) ListAll(ctx context.Context) ([]model.URL, error) {
	return r.Search(ctx, model.URLFilter{})
}

func (r *urlRepository) ListShortCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).Model(&model.URL{}).Pluck("short_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
