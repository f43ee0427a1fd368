package service

import (
	"encoding/json"
	"strings"

	"style-learn-go/internal/model"
)

// PromptService 将学到的风格渲染为自然语言指令，交给回复生成方模仿。
type PromptService interface {
	// GetStylePrompt 返回用户的风格化提示词；没有已知风格时返回空串。
	// context 是调用方传入的会话上下文，当前的指令模板不消费它。
	GetStylePrompt(userID, sessionID string, context []json.RawMessage) string
}

type promptService struct {
	featureSvc FeatureService
}

// NewPromptService 创建一个新的 PromptService 实例。
func NewPromptService(featureSvc FeatureService) PromptService {
	return &promptService{featureSvc: featureSvc}
}

// GetStylePrompt 读取用户风格并合成提示词。
func (s *promptService) GetStylePrompt(userID, sessionID string, context []json.RawMessage) string {
	style := s.featureSvc.GetStyle(userID)
	if style == nil {
		return ""
	}
	return BuildStylePrompt(style)
}

// BuildStylePrompt 按固定阈值和固定顺序将风格包渲染为多行指令文本。
// 渲染是确定性的：相同的风格包永远产出相同的文本。
func BuildStylePrompt(style *model.StyleBundle) string {
	promptParts := []string{"请模仿以下说话风格回复："}

	// 语言风格
	lang := style.LanguageStyle
	if lang.FormalDegree > 0.7 {
		promptParts = append(promptParts, "- 正式礼貌的语气")
	} else if lang.FormalDegree < 0.3 {
		promptParts = append(promptParts, "- 随意轻松的语气")
	} else {
		promptParts = append(promptParts, "- 适中得体的语气")
	}

	if lang.EmojiFrequency > 0.5 {
		promptParts = append(promptParts, "- 适当使用表情符号")
	}

	if lang.ExclamationFrequency > 0.3 {
		promptParts = append(promptParts, "- 偶尔使用感叹号")
	}

	// 情感风格
	emo := style.EmotionalStyle
	if emo.PositiveRatio > 0.6 {
		promptParts = append(promptParts, "- 积极乐观的态度")
	} else if emo.NegativeRatio > 0.4 {
		promptParts = append(promptParts, "- 较为谨慎的态度")
	}

	// 对话风格
	conv := style.ConversationStyle
	if conv.ReplyRatio > 0.5 {
		promptParts = append(promptParts, "- 注重回复他人的问题")
	}

	if conv.QuestionRatio > 0.3 {
		promptParts = append(promptParts, "- 适当提问引导对话")
	}

	return strings.Join(promptParts, "\n")
}
