package repository

import (
	"style-learn-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StyleFeatureRepository 定义了风格特征行的持久化操作。
type StyleFeatureRepository interface {
	UpsertBatch(features []model.StyleFeature) error
	FindByUser(userID string) ([]model.StyleFeature, error)
}

type styleFeatureRepository struct {
	db *gorm.DB
}

// NewStyleFeatureRepository 创建一个新的 StyleFeatureRepository 实例。
func NewStyleFeatureRepository(db *gorm.DB) StyleFeatureRepository {
	return &styleFeatureRepository{db: db}
}

// UpsertBatch 批量写入特征行，(user_id, feature_name) 冲突时覆盖值、置信度与更新时间。
func (r *styleFeatureRepository) UpsertBatch(features []model.StyleFeature) error {
	if len(features) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "feature_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"feature_value", "confidence", "update_time"}),
	}).Create(&features).Error
}

// FindByUser 返回指定用户的全部特征行。
func (r *styleFeatureRepository) FindByUser(userID string) ([]model.StyleFeature, error) {
	var features []model.StyleFeature
	err := r.db.Where("user_id = ?", userID).Find(&features).Error
	return features, err
}
