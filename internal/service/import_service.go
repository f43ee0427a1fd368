package service

import (
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"style-learn-go/internal/model"
	"style-learn-go/internal/repository"
	"style-learn-go/pkg/log"
	"style-learn-go/pkg/storage"
	"style-learn-go/pkg/tasks"
)

// 历史记录行首的时间戳模式，方括号可有可无，日期分隔符支持 - 和 /。
var importTimestampPattern = regexp.MustCompile(`^\[?(\d{4}[-/]\d{2}[-/]\d{2}\s\d{2}:\d{2}:\d{2})\]?`)

// ImportService 将历史聊天记录重放进与实时消息相同的
// 校验 → 过滤 → 去重 → 入库链路，并在导入完成后同步执行一次引导学习。
type ImportService interface {
	// ImportChatHistory 导入一份聊天记录文件并返回逐行统计。
	// filePath 支持本地路径和 minio://bucket/object 形式的对象存储路径。
	ImportChatHistory(ctx context.Context, filePath, userID, userName, sessionID string) model.ImportResult
}

type importService struct {
	filter      FilterService
	dedup       *DedupCache
	messageRepo repository.MessageRepository
	stats       StatisticService
	learning    *LearningService
}

// NewImportService 创建一个新的 ImportService 实例。
func NewImportService(
	filter FilterService,
	dedup *DedupCache,
	messageRepo repository.MessageRepository,
	stats StatisticService,
	learning *LearningService,
) ImportService {
	return &importService{
		filter:      filter,
		dedup:       dedup,
		messageRepo: messageRepo,
		stats:       stats,
		learning:    learning,
	}
}

// ImportChatHistory 逐行重放历史记录。五个计数器对 total_lines 构成完整划分；
// 文件不可读时折入 error_lines，本方法从不返回错误。
func (s *importService) ImportChatHistory(ctx context.Context, filePath, userID, userName, sessionID string) (result model.ImportResult) {
	result.StartTime = time.Now().Unix()
	defer func() {
		result.EndTime = time.Now().Unix()
	}()

	lines, err := readTranscript(ctx, filePath)
	if err != nil {
		log.Errorf("读取聊天记录失败, path=%s: %v", filePath, err)
		result.ErrorLines += result.TotalLines - result.ImportedLines - result.FilteredLines - result.DuplicateLines
		return result
	}
	result.TotalLines = len(lines)

	now := time.Now().Unix()
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			// 空行没有可学习的内容，计入过滤
			result.FilteredLines++
			continue
		}

		event := tasks.MessageEvent{
			UserID:    userID,
			UserName:  userName,
			Content:   line,
			SendTime:  parseLineTimestamp(line, now, len(lines)-i),
			SessionID: sessionID,
			IsGroup:   false,
		}

		if !s.filter.Validate(event) {
			result.ErrorLines++
			continue
		}
		if !s.filter.Accept(event) {
			result.FilteredLines++
			continue
		}
		// 导入走独立的去重命名空间，与实时消息互不碰撞
		if s.dedup.SeenImport(sessionID, line) {
			result.DuplicateLines++
			continue
		}

		msg := &model.Message{
			UserID:    event.UserID,
			UserName:  event.UserName,
			Content:   event.Content,
			SendTime:  event.SendTime,
			SessionID: event.SessionID,
			IsGroup:   event.IsGroup,
			ReplyTo:   event.ReplyTo,
			IsValid:   true,
		}
		if err := s.messageRepo.Create(msg); err != nil {
			log.Errorf("导入第 %d 行入库失败: %v", i+1, err)
			result.ErrorLines++
			continue
		}
		s.stats.Increment("total_messages", 1)
		s.stats.Increment("valid_messages", 1)
		result.ImportedLines++

		if (i+1)%100 == 0 {
			log.Infof("导入进度: %d/%d 行", i+1, len(lines))
		}
	}

	// 导入完成后同步执行引导学习，阻塞调用方直到完成
	if result.ImportedLines > 0 {
		log.Info("导入完成，开始引导学习...")
		if err := s.learning.LearnNow(userID, result.ImportedLines); err != nil {
			log.Errorf("引导学习失败, userID=%s: %v", userID, err)
		} else {
			log.Info("引导学习完成")
		}
	}

	log.Infow("聊天记录导入完成",
		"total", result.TotalLines,
		"imported", result.ImportedLines,
		"filtered", result.FilteredLines,
		"duplicate", result.DuplicateLines,
		"error", result.ErrorLines,
	)
	return result
}

// parseLineTimestamp 解析行首时间戳；失败时按剩余行数从当前时间向前
// 每行回退一分钟合成时间戳，保持相对顺序。
func parseLineTimestamp(line string, now int64, remaining int) int64 {
	if m := importTimestampPattern.FindStringSubmatch(line); m != nil {
		// 统一日期分隔符后解析
		normalized := strings.ReplaceAll(m[1], "/", "-")
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", normalized, time.Local); err == nil {
			return t.Unix()
		}
	}
	return now - int64(remaining)*60
}

// readTranscript 读取记录文件全文并按行切分。
// minio:// 前缀的路径从对象存储拉取，其余按本地文件处理。
func readTranscript(ctx context.Context, filePath string) ([]string, error) {
	var data []byte
	var err error

	if bucket, object, ok := storage.ParseObjectPath(filePath); ok {
		data, err = storage.FetchObject(ctx, bucket, object)
	} else {
		data, err = os.ReadFile(filePath)
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	// 文件以换行结尾时去掉末尾空元素
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}
