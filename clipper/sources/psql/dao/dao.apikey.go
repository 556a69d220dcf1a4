package dao

import (
	"context"

	"clipper/clipper/sources/psql/models"

	"gorm.io/gorm"
)

type APIKeyDAO struct {
	DB *gorm.DB
}

func NewAPIKeyDAO(db *gorm.DB) *APIKeyDAO {
	return &APIKeyDAO{DB: db}
}

func (dao *APIKeyDAO) CreateKey(ctx context.Context, userID int, keyHash, label string) (*models.APIKey, error) {
	key := models.APIKey{
		UserID:  userID,
		KeyHash: keyHash,
		Label:   label,
	}
	err := dao.DB.WithContext(ctx).Create(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (dao *APIKeyDAO) GetByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var key models.APIKey
	err := dao.DB.WithContext(ctx).Where("key_hash = ?", keyHash).First(&key).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}
