package service

import (
	"testing"

	"style-learn-go/internal/model"
	"style-learn-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStyle() *model.StyleBundle {
	return &model.StyleBundle{
		UserID: "user_1",
		LanguageStyle: model.LanguageStyle{
			FormalDegree:         0.7,
			AvgMessageLength:     12.5,
			AvgSentenceLength:    6.25,
			ExclamationFrequency: 0.4,
			QuestionFrequency:    0.2,
			EmojiFrequency:       0.1,
		},
		EmotionalStyle: model.EmotionalStyle{
			PositiveRatio:           0.6,
			NegativeRatio:           0.1,
			NeutralRatio:            0.3,
			EmotionExpressionDegree: 0.5,
		},
		ConversationStyle: model.ConversationStyle{
			ReplyRatio:     0.3,
			QuestionRatio:  0.2,
			StatementRatio: 0.8,
		},
		ScenePatterns: []model.ScenePattern{
			{Scene: "greeting", Expression: "你好呀", Confidence: 0.9},
		},
		UpdateTime: 1700000000,
	}
}

func TestSaveStyleFlattensThirteenFeatures(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewStyleFeatureRepository(db)
	svc := NewFeatureService(repo)

	require.NoError(t, svc.SaveStyle("user_1", sampleStyle()))

	rows, err := repo.FindByUser("user_1")
	require.NoError(t, err)
	require.Len(t, rows, 13)

	byName := make(map[string]model.StyleFeature, len(rows))
	for _, row := range rows {
		byName[row.FeatureName] = row
	}

	assert.Equal(t, "0.7", byName["language_formal_degree"].FeatureValue)
	assert.Equal(t, 0.8, byName["language_formal_degree"].Confidence)
	assert.Equal(t, "12.5", byName["language_avg_message_length"].FeatureValue)
	assert.Equal(t, 0.7, byName["emotion_positive_ratio"].Confidence)
	assert.Equal(t, 0.8, byName["conversation_reply_ratio"].Confidence)
	assert.Equal(t, int64(1700000000), byName["language_formal_degree"].UpdateTime)

	// 情感表达度的历史命名带双重前缀
	_, ok := byName["emotion_emotion_expression_degree"]
	assert.True(t, ok)
}

func TestSaveStyleOverwritesPreviousValues(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewStyleFeatureRepository(db)
	svc := NewFeatureService(repo)

	require.NoError(t, svc.SaveStyle("user_1", sampleStyle()))

	updated := sampleStyle()
	updated.LanguageStyle.FormalDegree = 0.3
	updated.UpdateTime = 1700009999
	require.NoError(t, svc.SaveStyle("user_1", updated))

	rows, err := repo.FindByUser("user_1")
	require.NoError(t, err)
	// 重复学习不会追加新行
	require.Len(t, rows, 13)

	for _, row := range rows {
		if row.FeatureName == "language_formal_degree" {
			assert.Equal(t, "0.3", row.FeatureValue)
			assert.Equal(t, int64(1700009999), row.UpdateTime)
		}
	}
}

func TestGetStyleReadsThroughCache(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeatureService(repository.NewStyleFeatureRepository(db))

	require.NoError(t, svc.SaveStyle("user_1", sampleStyle()))
	assert.Equal(t, 1, svc.CachedCount())

	// 清空缓存后从存储重建
	svc.ClearCache()
	assert.Equal(t, 0, svc.CachedCount())

	style := svc.GetStyle("user_1")
	require.NotNil(t, style)
	assert.Equal(t, 0.7, style.LanguageStyle.FormalDegree)
	assert.Equal(t, 12.5, style.LanguageStyle.AvgMessageLength)
	assert.Equal(t, 0.6, style.EmotionalStyle.PositiveRatio)
	assert.Equal(t, 0.5, style.EmotionalStyle.EmotionExpressionDegree)
	assert.Equal(t, 0.8, style.ConversationStyle.StatementRatio)
	// 场景模式不持久化，重建后为空
	assert.Empty(t, style.ScenePatterns)

	// 重建结果回填缓存
	assert.Equal(t, 1, svc.CachedCount())
}

func TestGetStyleUnknownUserReturnsNil(t *testing.T) {
	db := newTestDB(t)
	svc := NewFeatureService(repository.NewStyleFeatureRepository(db))

	assert.Nil(t, svc.GetStyle("nobody"))
	// 未知用户不占缓存
	assert.Equal(t, 0, svc.CachedCount())
}

func TestSaveStyleNilIsNoop(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewStyleFeatureRepository(db)
	svc := NewFeatureService(repo)

	require.NoError(t, svc.SaveStyle("user_1", nil))
	rows, err := repo.FindByUser("user_1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
