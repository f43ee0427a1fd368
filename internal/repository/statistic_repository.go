package repository

import (
	"style-learn-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatisticRepository 定义了统计指标行的持久化操作。
type StatisticRepository interface {
	Upsert(metric *model.StatisticMetric) error
	Find(metricName string) (*model.StatisticMetric, error)
	FindAll() ([]model.StatisticMetric, error)
}

type statisticRepository struct {
	db *gorm.DB
}

// NewStatisticRepository 创建一个新的 StatisticRepository 实例。
func NewStatisticRepository(db *gorm.DB) StatisticRepository {
	return &statisticRepository{db: db}
}

// Upsert 按 metric_name 覆盖写入指标行。
func (r *statisticRepository) Upsert(metric *model.StatisticMetric) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metric_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"metric_value", "update_time"}),
	}).Create(metric).Error
}

// Find 按名称读取单项指标，不存在时返回 gorm.ErrRecordNotFound。
func (r *statisticRepository) Find(metricName string) (*model.StatisticMetric, error) {
	var metric model.StatisticMetric
	err := r.db.Where("metric_name = ?", metricName).First(&metric).Error
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

// FindAll 返回全部指标行。
func (r *statisticRepository) FindAll() ([]model.StatisticMetric, error) {
	var metrics []model.StatisticMetric
	err := r.db.Find(&metrics).Error
	return metrics, err
}
