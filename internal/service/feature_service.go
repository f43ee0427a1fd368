package service

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"style-learn-go/internal/model"
	"style-learn-go/internal/repository"
	"style-learn-go/pkg/log"
)

// 特征名前缀与各维度的固定置信度。
const (
	languagePrefix     = "language_"
	emotionPrefix      = "emotion_"
	conversationPrefix = "conversation_"

	languageConfidence     = 0.8
	emotionConfidence      = 0.7
	conversationConfidence = 0.8
)

// FeatureService 负责风格特征的持久化与读取，内部带一份按用户键控的
// 读穿内存缓存。存储失败表现为"暂无风格"，从不向上传播错误。
type FeatureService interface {
	// SaveStyle 将风格包展平为特征行写入存储，成功后刷新内存缓存。
	SaveStyle(userID string, style *model.StyleBundle) error
	// GetStyle 返回用户的风格包；没有任何特征行或读取失败时返回 nil。
	GetStyle(userID string) *model.StyleBundle
	// CachedCount 返回缓存中的用户风格数。
	CachedCount() int
	// ClearCache 清空内存缓存。
	ClearCache()
}

type featureService struct {
	repo repository.StyleFeatureRepository

	mu    sync.RWMutex
	cache map[string]*model.StyleBundle
}

// NewFeatureService 创建一个新的 FeatureService 实例。
func NewFeatureService(repo repository.StyleFeatureRepository) FeatureService {
	return &featureService{
		repo:  repo,
		cache: make(map[string]*model.StyleBundle),
	}
}

// formatValue 将标量编码为文本，与存储层的文本编码契约对应。
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SaveStyle 按 <维度前缀>_<字段> 命名展平风格包并整体 upsert。
// 场景模式不持久化，只存在于新鲜计算出的风格包里。
func (s *featureService) SaveStyle(userID string, style *model.StyleBundle) error {
	if style == nil {
		return nil
	}

	updateTime := style.UpdateTime
	if updateTime == 0 {
		updateTime = time.Now().Unix()
	}

	lang := style.LanguageStyle
	emo := style.EmotionalStyle
	conv := style.ConversationStyle

	triples := []struct {
		name       string
		value      float64
		confidence float64
	}{
		{languagePrefix + "formal_degree", lang.FormalDegree, languageConfidence},
		{languagePrefix + "avg_message_length", lang.AvgMessageLength, languageConfidence},
		{languagePrefix + "avg_sentence_length", lang.AvgSentenceLength, languageConfidence},
		{languagePrefix + "exclamation_frequency", lang.ExclamationFrequency, languageConfidence},
		{languagePrefix + "question_frequency", lang.QuestionFrequency, languageConfidence},
		{languagePrefix + "emoji_frequency", lang.EmojiFrequency, languageConfidence},
		{emotionPrefix + "positive_ratio", emo.PositiveRatio, emotionConfidence},
		{emotionPrefix + "negative_ratio", emo.NegativeRatio, emotionConfidence},
		{emotionPrefix + "neutral_ratio", emo.NeutralRatio, emotionConfidence},
		{emotionPrefix + "emotion_expression_degree", emo.EmotionExpressionDegree, emotionConfidence},
		{conversationPrefix + "reply_ratio", conv.ReplyRatio, conversationConfidence},
		{conversationPrefix + "question_ratio", conv.QuestionRatio, conversationConfidence},
		{conversationPrefix + "statement_ratio", conv.StatementRatio, conversationConfidence},
	}

	features := make([]model.StyleFeature, 0, len(triples))
	for _, t := range triples {
		features = append(features, model.StyleFeature{
			UserID:       userID,
			FeatureName:  t.name,
			FeatureValue: formatValue(t.value),
			Confidence:   t.confidence,
			UpdateTime:   updateTime,
		})
	}

	if err := s.repo.UpsertBatch(features); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[userID] = style
	s.mu.Unlock()
	return nil
}

// GetStyle 先查内存缓存，未命中时从存储重建风格包并回填缓存。
// 重建通过反转特征命名约定完成；场景模式不参与重建。
func (s *featureService) GetStyle(userID string) *model.StyleBundle {
	s.mu.RLock()
	cached, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	rows, err := s.repo.FindByUser(userID)
	if err != nil {
		log.Errorf("读取风格特征失败, userID=%s: %v", userID, err)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	style := &model.StyleBundle{
		UserID:     userID,
		UpdateTime: time.Now().Unix(),
	}
	for _, row := range rows {
		value, perr := strconv.ParseFloat(row.FeatureValue, 64)
		if perr != nil {
			continue
		}
		switch {
		case strings.HasPrefix(row.FeatureName, languagePrefix):
			assignLanguageField(&style.LanguageStyle, strings.TrimPrefix(row.FeatureName, languagePrefix), value)
		case strings.HasPrefix(row.FeatureName, emotionPrefix):
			assignEmotionField(&style.EmotionalStyle, strings.TrimPrefix(row.FeatureName, emotionPrefix), value)
		case strings.HasPrefix(row.FeatureName, conversationPrefix):
			assignConversationField(&style.ConversationStyle, strings.TrimPrefix(row.FeatureName, conversationPrefix), value)
		}
	}

	s.mu.Lock()
	s.cache[userID] = style
	s.mu.Unlock()
	return style
}

func assignLanguageField(ls *model.LanguageStyle, field string, value float64) {
	switch field {
	case "formal_degree":
		ls.FormalDegree = value
	case "avg_message_length":
		ls.AvgMessageLength = value
	case "avg_sentence_length":
		ls.AvgSentenceLength = value
	case "exclamation_frequency":
		ls.ExclamationFrequency = value
	case "question_frequency":
		ls.QuestionFrequency = value
	case "emoji_frequency":
		ls.EmojiFrequency = value
	}
}

func assignEmotionField(es *model.EmotionalStyle, field string, value float64) {
	switch field {
	case "positive_ratio":
		es.PositiveRatio = value
	case "negative_ratio":
		es.NegativeRatio = value
	case "neutral_ratio":
		es.NeutralRatio = value
	case "emotion_expression_degree":
		es.EmotionExpressionDegree = value
	}
}

func assignConversationField(cs *model.ConversationStyle, field string, value float64) {
	switch field {
	case "reply_ratio":
		cs.ReplyRatio = value
	case "question_ratio":
		cs.QuestionRatio = value
	case "statement_ratio":
		cs.StatementRatio = value
	}
}

// CachedCount 返回缓存中的用户风格数。
func (s *featureService) CachedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// ClearCache 清空内存缓存。
func (s *featureService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*model.StyleBundle)
}
