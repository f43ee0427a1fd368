package service

import (
	"path/filepath"
	"testing"

	"style-learn-go/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB 在临时目录里建一个迁移好的 SQLite 库，测试结束自动清理。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Message{},
		&model.StyleFeature{},
		&model.SessionContext{},
		&model.StatisticMetric{},
	)
	require.NoError(t, err)
	return db
}
