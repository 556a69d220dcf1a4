package dao

import (
	"context"

	"clipper/clipper/sources/psql/models"

	"gorm.io/gorm"
)

type ClipDAO struct {
	DB *gorm.DB
}

func NewClipDAO(db *gorm.DB) *ClipDAO {
	return &ClipDAO{DB: db}
}

func (dao *ClipDAO) CreateClip(ctx context.Context, clip *models.Clip) error {
	return dao.DB.WithContext(ctx).Create(clip).Error
}

func (dao *ClipDAO) GetClipByID(ctx context.Context, id string) (*models.Clip, error) {
	var clip models.Clip
	err := dao.DB.WithContext(ctx).Where("id = ?", id).First(&clip).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &clip, nil
}

func (dao *ClipDAO) ListClipsByUser(ctx context.Context, userID int, limit int) ([]models.Clip, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var clips []models.Clip
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&clips).Error
	if err != nil {
		return nil, err
	}
	return clips, nil
}
