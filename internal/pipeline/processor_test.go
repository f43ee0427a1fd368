package pipeline

import (
	"path/filepath"
	"testing"

	"style-learn-go/internal/config"
	"style-learn-go/internal/model"
	"style-learn-go/internal/repository"
	"style-learn-go/internal/service"
	"style-learn-go/pkg/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestProcessor(t *testing.T) (*Processor, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Message{},
		&model.StyleFeature{},
		&model.SessionContext{},
		&model.StatisticMetric{},
	))

	filterCfg := config.MessageFilterConfig{
		CommandPrefix:     []string{"!", "！", "/"},
		MinMessageLength:  2,
		MaxDuplicateCount: 3,
	}

	messageRepo := repository.NewMessageRepository(db)
	stats := service.NewStatisticService(repository.NewStatisticRepository(db))
	featureSvc := service.NewFeatureService(repository.NewStyleFeatureRepository(db))
	learning := service.NewLearningService(messageRepo, featureSvc, service.NewStyleAnalyzer(), stats, 20)

	p := NewProcessor(
		service.NewFilterService(filterCfg),
		service.NewDedupCache(filterCfg.MaxDuplicateCount),
		messageRepo,
		stats,
		featureSvc,
		learning,
	)
	return p, db
}

func event(content string) tasks.MessageEvent {
	return tasks.MessageEvent{
		UserID:    "user_1",
		UserName:  "张三",
		Content:   content,
		SendTime:  1700000000,
		SessionID: "s1",
	}
}

func countMessages(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Message{}).Count(&count).Error)
	return count
}

func TestHandleMessagePersistsValidMessage(t *testing.T) {
	p, db := newTestProcessor(t)
	p.Start()

	p.HandleMessage(event("今天天气不错"))

	assert.Equal(t, int64(1), countMessages(t, db))

	stats := p.Status().Statistics
	assert.Equal(t, "1", stats["total_messages"].Value)
	assert.Equal(t, "1", stats["valid_messages"].Value)
}

func TestHandleMessageDropsRejectedSilently(t *testing.T) {
	p, db := newTestProcessor(t)
	p.Start()

	// 格式不完整
	e := event("正常内容")
	e.UserID = ""
	p.HandleMessage(e)

	// 命令消息
	p.HandleMessage(event("!status"))

	// 被拒绝的消息不产生任何副作用
	assert.Equal(t, int64(0), countMessages(t, db))
	assert.Empty(t, p.Status().Statistics)
}

func TestHandleMessageSuppressesDuplicates(t *testing.T) {
	p, db := newTestProcessor(t)
	p.Start()

	for i := 0; i < 5; i++ {
		p.HandleMessage(event("一模一样的内容"))
	}

	// 超过重复上限的消息被抑制，前 3 次入库
	assert.Equal(t, int64(3), countMessages(t, db))
}

func TestProcessorStatusSnapshot(t *testing.T) {
	p, _ := newTestProcessor(t)

	status := p.Status()
	assert.Equal(t, Name, status.Name)
	assert.Equal(t, Version, status.Version)
	assert.Equal(t, "stopped", status.Status)

	p.Start()
	p.HandleMessage(event("随便说点什么"))

	status = p.Status()
	assert.Equal(t, "running", status.Status)
	assert.Equal(t, 1, status.CacheSize)
	assert.Equal(t, 0, status.ActiveTaskCount)
}

func TestProcessorStopClearsCaches(t *testing.T) {
	p, _ := newTestProcessor(t)
	p.Start()

	p.HandleMessage(event("停止前的消息"))
	require.Equal(t, 1, p.Status().CacheSize)

	p.Stop()

	status := p.Status()
	assert.Equal(t, "stopped", status.Status)
	assert.Equal(t, 0, status.CacheSize)
	assert.Equal(t, 0, status.FeatureCount)
}

func TestProcessorReconfigure(t *testing.T) {
	p, db := newTestProcessor(t)
	p.Start()

	cfg := config.MessageFilterConfig{
		CommandPrefix:     []string{"!"},
		MinMessageLength:  10,
		MaxDuplicateCount: 1,
	}
	p.Reconfigure(cfg, 50)

	// 新的最小长度立即生效
	p.HandleMessage(event("太短了"))
	assert.Equal(t, int64(0), countMessages(t, db))

	p.HandleMessage(event("这条消息的长度足够通过新的下限"))
	assert.Equal(t, int64(1), countMessages(t, db))
}
