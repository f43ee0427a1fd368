package service

import (
	"strconv"
	"sync"
	"time"

	"style-learn-go/internal/model"
	"style-learn-go/internal/repository"
	"style-learn-go/pkg/log"

	"gorm.io/gorm"
)

// StatisticService 维护具名的计数器与瞬时值，文本编码落库。
// 所有写入失败都被吞掉并记日志，不向调用方传播。
type StatisticService interface {
	// Increment 将指标按 delta 累加；指标不存在时从 0 起算。
	Increment(metricName string, delta int64)
	// Set 直接覆盖指标值。
	Set(metricName, value string)
	// SetInt64 以整数覆盖指标值。
	SetInt64(metricName string, value int64)
	// GetAll 返回全部指标；读失败时返回空映射。
	GetAll() map[string]model.MetricValue
}

type statisticService struct {
	repo repository.StatisticRepository
	// 保护读-改-写的累加过程
	mu sync.Mutex
}

// NewStatisticService 创建一个新的 StatisticService 实例。
func NewStatisticService(repo repository.StatisticRepository) StatisticService {
	return &statisticService{repo: repo}
}

// Increment 累加指标。读-改-写在互斥锁内完成，保证并发累加不丢数。
func (s *statisticService) Increment(metricName string, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	metric, err := s.repo.Find(metricName)
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Errorf("读取统计指标失败, metric=%s: %v", metricName, err)
		return
	}
	if metric != nil {
		if v, perr := strconv.ParseInt(metric.MetricValue, 10, 64); perr == nil {
			current = v
		}
	}

	s.upsert(metricName, strconv.FormatInt(current+delta, 10))
}

// Set 覆盖写入指标值。
func (s *statisticService) Set(metricName, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsert(metricName, value)
}

// SetInt64 以整数覆盖写入指标值。
func (s *statisticService) SetInt64(metricName string, value int64) {
	s.Set(metricName, strconv.FormatInt(value, 10))
}

func (s *statisticService) upsert(metricName, value string) {
	err := s.repo.Upsert(&model.StatisticMetric{
		MetricName:  metricName,
		MetricValue: value,
		UpdateTime:  time.Now().Unix(),
	})
	if err != nil {
		log.Errorf("更新统计指标失败, metric=%s: %v", metricName, err)
	}
}

// GetAll 返回全部指标及其最后更新时间。
func (s *statisticService) GetAll() map[string]model.MetricValue {
	result := make(map[string]model.MetricValue)

	metrics, err := s.repo.FindAll()
	if err != nil {
		log.Errorf("读取统计数据失败: %v", err)
		return result
	}

	for _, m := range metrics {
		result[m.MetricName] = model.MetricValue{
			Value:      m.MetricValue,
			UpdateTime: m.UpdateTime,
		}
	}
	return result
}
