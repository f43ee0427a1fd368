package service

import (
	"testing"

	"style-learn-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticIncrementFromZero(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatisticService(repository.NewStatisticRepository(db))

	svc.Increment("total_messages", 1)
	svc.Increment("total_messages", 1)
	svc.Increment("total_messages", 3)

	all := svc.GetAll()
	require.Contains(t, all, "total_messages")
	assert.Equal(t, "5", all["total_messages"].Value)
	assert.NotZero(t, all["total_messages"].UpdateTime)
}

func TestStatisticSetOverwrites(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatisticService(repository.NewStatisticRepository(db))

	svc.Increment("style_updates", 2)
	svc.SetInt64("style_updates", 10)
	svc.Set("plugin_mode", "release")

	all := svc.GetAll()
	assert.Equal(t, "10", all["style_updates"].Value)
	assert.Equal(t, "release", all["plugin_mode"].Value)
}

func TestStatisticIncrementOnNonNumericValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatisticService(repository.NewStatisticRepository(db))

	// 非数值的既有值按 0 处理
	svc.Set("weird_metric", "not-a-number")
	svc.Increment("weird_metric", 4)

	all := svc.GetAll()
	assert.Equal(t, "4", all["weird_metric"].Value)
}

func TestStatisticGetAllEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatisticService(repository.NewStatisticRepository(db))

	all := svc.GetAll()
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
