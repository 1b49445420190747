package repository

import (
	"errors"
	"strings"

	"github.com/foodgram/foodgram-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository is a repository for the tag reference table.
type TagRepository struct {
	DB *gorm.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// GetTagByID retrieves a tag by its ID.
func (r *TagRepository) GetTagByID(tagID uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.First(&tag, tagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("tag not found")
		}
		return nil, err
	}
	return &tag, nil
}

// GetTagsByIDs retrieves the tags with the given ids. The result may be
// shorter than the input when some ids do not exist.
func (r *TagRepository) GetTagsByIDs(tagIDs []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(tagIDs) == 0 {
		return tags, nil
	}
	if err := r.DB.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListTags retrieves all tags ordered by id.
func (r *TagRepository) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTags bulk-inserts tag rows. Rows whose slug already exists are
// skipped, so imports can be rerun.
func (r *TagRepository) CreateTags(tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&tags).Error
}

// escapeLike escapes LIKE/ILIKE metacharacters in user-supplied patterns.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
