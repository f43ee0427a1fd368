package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"style-learn-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newImportService(t *testing.T, db *gorm.DB) (ImportService, repository.MessageRepository, StatisticService) {
	t.Helper()
	messageRepo := repository.NewMessageRepository(db)
	stats := NewStatisticService(repository.NewStatisticRepository(db))
	featureSvc := NewFeatureService(repository.NewStyleFeatureRepository(db))
	learning := NewLearningService(messageRepo, featureSvc, NewStyleAnalyzer(), stats, 1000)
	svc := NewImportService(
		NewFilterService(defaultFilterConfig()),
		NewDedupCache(3),
		messageRepo,
		stats,
		learning,
	)
	return svc, messageRepo, stats
}

func writeTranscript(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestImportCountersPartitionTotal(t *testing.T) {
	db := newTestDB(t)
	svc, messageRepo, _ := newImportService(t, db)

	path := writeTranscript(t, []string{
		"[2024-01-02 10:00:00] 你好，今天天气不错", // 导入
		"!help",                        // 命令，过滤
		"",                             // 空行，过滤
		"哈哈哈太好笑了",                      // 导入
		"哈哈哈太好笑了",                      // 重复
		"看看这个 http://example.com/page", // 链接，过滤
		"好",                            // 过短，过滤
		"2024/01/03 12:30:45 谢谢你的帮助",   // 导入，斜杠日期
		"嗯嗯，可以的",                       // 导入
		"再见了朋友",                        // 导入
	})

	result := svc.ImportChatHistory(context.Background(), path, "import_user", "导入用户", "import_session")

	assert.Equal(t, 10, result.TotalLines)
	assert.Equal(t, 5, result.ImportedLines)
	assert.Equal(t, 4, result.FilteredLines)
	assert.Equal(t, 1, result.DuplicateLines)
	assert.Equal(t, 0, result.ErrorLines)
	// 五个计数器对总行数构成完整划分
	assert.Equal(t, result.TotalLines,
		result.ImportedLines+result.FilteredLines+result.DuplicateLines+result.ErrorLines)
	assert.GreaterOrEqual(t, result.EndTime, result.StartTime)

	count, err := messageRepo.CountValidByUser("import_user")
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestImportParsesLeadingTimestamps(t *testing.T) {
	db := newTestDB(t)
	svc, messageRepo, _ := newImportService(t, db)

	path := writeTranscript(t, []string{
		"[2024-01-02 10:00:00] 带方括号的时间戳",
		"2024/01/03 12:30:45 斜杠分隔的日期",
		"没有时间戳的普通消息",
	})

	before := time.Now().Unix()
	result := svc.ImportChatHistory(context.Background(), path, "import_user", "导入用户", "import_session")
	require.Equal(t, 3, result.ImportedLines)

	messages, err := messageRepo.FindRecentByUser("import_user", 10)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	byContent := make(map[string]int64, len(messages))
	for _, m := range messages {
		byContent[m.Content] = m.SendTime
	}

	want1 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.Local).Unix()
	want2 := time.Date(2024, 1, 3, 12, 30, 45, 0, time.Local).Unix()
	assert.Equal(t, want1, byContent["[2024-01-02 10:00:00] 带方括号的时间戳"])
	assert.Equal(t, want2, byContent["2024/01/03 12:30:45 斜杠分隔的日期"])

	// 无时间戳的行按剩余行数向前回退一分钟合成
	synthesized := byContent["没有时间戳的普通消息"]
	assert.InDelta(t, before-60, synthesized, 5)
}

func TestImportRunsBootstrapLearning(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newImportService(t, db)

	path := writeTranscript(t, []string{
		"你好，很高兴认识你",
		"帮我看看这个问题可以吗？",
		"谢谢你的耐心解答",
	})

	result := svc.ImportChatHistory(context.Background(), path, "import_user", "导入用户", "import_session")
	require.Equal(t, 3, result.ImportedLines)

	// 导入完成后的引导学习是同步的，返回时风格已可读
	featureSvc := NewFeatureService(repository.NewStyleFeatureRepository(db))
	style := featureSvc.GetStyle("import_user")
	require.NotNil(t, style)
	assert.Equal(t, 0.7, style.LanguageStyle.FormalDegree)
}

func TestImportIsIdempotentAcrossRuns(t *testing.T) {
	db := newTestDB(t)
	svc, messageRepo, _ := newImportService(t, db)

	path := writeTranscript(t, []string{
		"第一条消息内容",
		"第二条消息内容",
	})

	first := svc.ImportChatHistory(context.Background(), path, "import_user", "导入用户", "import_session")
	assert.Equal(t, 2, first.ImportedLines)

	// 同一缓存实例下重复导入整份文件，全部命中去重
	second := svc.ImportChatHistory(context.Background(), path, "import_user", "导入用户", "import_session")
	assert.Equal(t, 0, second.ImportedLines)
	assert.Equal(t, 2, second.DuplicateLines)

	count, err := messageRepo.CountValidByUser("import_user")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestImportMissingFile(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newImportService(t, db)

	result := svc.ImportChatHistory(context.Background(), "/no/such/file.txt", "import_user", "导入用户", "import_session")
	assert.Equal(t, 0, result.TotalLines)
	assert.Equal(t, 0, result.ImportedLines)
}

func TestImportStatisticsCounted(t *testing.T) {
	db := newTestDB(t)
	svc, _, stats := newImportService(t, db)

	path := writeTranscript(t, []string{"一条正常的消息", "另一条正常的消息"})
	svc.ImportChatHistory(context.Background(), path, "import_user", "导入用户", "import_session")

	all := stats.GetAll()
	assert.Equal(t, "2", all["total_messages"].Value)
	assert.Equal(t, "2", all["valid_messages"].Value)
}
