package repository

import (
	"path/filepath"
	"testing"

	"style-learn-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Message{},
		&model.StyleFeature{},
		&model.SessionContext{},
		&model.StatisticMetric{},
	))
	return db
}

func TestFindRecentByUserOrdersBySendTimeDesc(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	for i, content := range []string{"最早的消息", "中间的消息", "最新的消息"} {
		require.NoError(t, repo.Create(&model.Message{
			UserID:    "user_1",
			UserName:  "张三",
			Content:   content,
			SendTime:  int64(1700000000 + i*60),
			SessionID: "s1",
			IsValid:   true,
		}))
	}

	messages, err := repo.FindRecentByUser("user_1", 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "最新的消息", messages[0].Content)
	assert.Equal(t, "中间的消息", messages[1].Content)
}

func TestFindRecentByUserSkipsInvalidAndOtherUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	require.NoError(t, repo.Create(&model.Message{
		UserID: "user_1", UserName: "张三", Content: "有效消息",
		SendTime: 1700000000, SessionID: "s1", IsValid: true,
	}))
	invalid := &model.Message{
		UserID: "user_1", UserName: "张三", Content: "被标记无效的消息",
		SendTime: 1700000060, SessionID: "s1",
	}
	require.NoError(t, repo.Create(invalid))
	require.NoError(t, db.Model(invalid).Update("is_valid", false).Error)
	require.NoError(t, repo.Create(&model.Message{
		UserID: "user_2", UserName: "李四", Content: "别人的消息",
		SendTime: 1700000120, SessionID: "s1", IsValid: true,
	}))

	messages, err := repo.FindRecentByUser("user_1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "有效消息", messages[0].Content)

	count, err := repo.CountValidByUser("user_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
