package service

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"style-learn-go/internal/model"
)

// 风格分析使用的固定词表与模式。分析是确定性的规则计算，
// 相同的消息批次永远产出相同的结果。
var (
	formalWords   = []string{"您好", "请问", "谢谢", "对不起", "请"}
	informalWords = []string{"哈哈", "嘿嘿", "哦哦", "嗯", "哎"}

	positiveWords = []string{"好", "开心", "快乐", "喜欢", "不错", "棒", "优秀"}
	negativeWords = []string{"不好", "难过", "伤心", "讨厌", "糟糕", "差", "失望"}

	// 句子按中英文终结符切分
	sentenceTerminators = "。！？!?."

	greetingPattern = regexp.MustCompile(`(?i)(你好|您好|早上好|晚上好|hello|hi)`)
	helpPattern     = regexp.MustCompile(`(帮我|求助|需要|怎么|如何)`)
	thanksPattern   = regexp.MustCompile(`(谢谢|感谢|谢了|麻烦了)`)
)

// StyleAnalyzer 对一批消息做多维度风格分析。
// 纯计算，无副作用、无 I/O；消息应按 send_time 升序传入，
// 以保证场景模式按时间顺序产出。
type StyleAnalyzer struct{}

// NewStyleAnalyzer 创建一个新的 StyleAnalyzer。
func NewStyleAnalyzer() *StyleAnalyzer {
	return &StyleAnalyzer{}
}

// Analyze 分析用户的说话风格。空批次返回 nil，调用方应视为"暂无风格"。
func (a *StyleAnalyzer) Analyze(userID string, messages []model.Message) *model.StyleBundle {
	if len(messages) == 0 {
		return nil
	}

	return &model.StyleBundle{
		UserID:            userID,
		LanguageStyle:     a.analyzeLanguageStyle(messages),
		EmotionalStyle:    a.analyzeEmotionalStyle(messages),
		ConversationStyle: a.analyzeConversationStyle(messages),
		ScenePatterns:     a.extractScenePatterns(messages),
		UpdateTime:        time.Now().Unix(),
	}
}

// analyzeLanguageStyle 分析语言风格：平均长度、句长、标点频率、表情频率和正式度。
func (a *StyleAnalyzer) analyzeLanguageStyle(messages []model.Message) model.LanguageStyle {
	var totalLength, sentenceCount, exclamationCount, questionCount, emojiCount int

	for _, msg := range messages {
		content := msg.Content
		totalLength += utf8.RuneCountInString(content)
		// 按终结符切分，每条消息至少贡献一个片段
		sentenceCount += countRunesIn(content, sentenceTerminators) + 1
		exclamationCount += strings.Count(content, "!") + strings.Count(content, "！")
		questionCount += strings.Count(content, "?") + strings.Count(content, "？")
		emojiCount += countEmoji(content)
	}

	n := float64(len(messages))
	avgLength := float64(totalLength) / n
	avgSentenceLength := 0.0
	if sentenceCount > 0 {
		avgSentenceLength = float64(totalLength) / float64(sentenceCount)
	}

	// 正式度：统计含正式用语与含随意用语的消息数，每条消息每个词表至多计一次
	var formalCount, informalCount int
	for _, msg := range messages {
		for _, word := range formalWords {
			if strings.Contains(msg.Content, word) {
				formalCount++
				break
			}
		}
		for _, word := range informalWords {
			if strings.Contains(msg.Content, word) {
				informalCount++
				break
			}
		}
	}

	// 三档正式度，不做连续插值
	formalDegree := 0.5
	if formalCount > informalCount {
		formalDegree = 0.7
	} else if informalCount > formalCount {
		formalDegree = 0.3
	}

	return model.LanguageStyle{
		FormalDegree:         formalDegree,
		AvgMessageLength:     avgLength,
		AvgSentenceLength:    avgSentenceLength,
		ExclamationFrequency: float64(exclamationCount) / n,
		QuestionFrequency:    float64(questionCount) / n,
		EmojiFrequency:       float64(emojiCount) / n,
	}
}

// analyzeEmotionalStyle 分析情感风格。同时命中正负词表的消息计为中性。
func (a *StyleAnalyzer) analyzeEmotionalStyle(messages []model.Message) model.EmotionalStyle {
	var positiveCount, negativeCount, neutralCount int

	for _, msg := range messages {
		hasPositive := containsAny(msg.Content, positiveWords)
		hasNegative := containsAny(msg.Content, negativeWords)

		switch {
		case hasPositive && hasNegative:
			neutralCount++
		case hasPositive:
			positiveCount++
		case hasNegative:
			negativeCount++
		default:
			neutralCount++
		}
	}

	total := float64(len(messages))
	return model.EmotionalStyle{
		PositiveRatio: float64(positiveCount) / total,
		NegativeRatio: float64(negativeCount) / total,
		NeutralRatio:  float64(neutralCount) / total,
		// 占位维度，固定值，不由内容计算
		EmotionExpressionDegree: 0.5,
	}
}

// analyzeConversationStyle 分析对话结构风格。
// 以问号结尾（含全角）的消息计为提问，其余计为陈述，两者比例之和恒为 1。
func (a *StyleAnalyzer) analyzeConversationStyle(messages []model.Message) model.ConversationStyle {
	var replyCount, questionCount, statementCount int

	for _, msg := range messages {
		if msg.ReplyTo != nil {
			replyCount++
		}

		content := strings.TrimSpace(msg.Content)
		if strings.HasSuffix(content, "?") || strings.HasSuffix(content, "？") {
			questionCount++
		} else {
			statementCount++
		}
	}

	n := float64(len(messages))
	return model.ConversationStyle{
		ReplyRatio:     float64(replyCount) / n,
		QuestionRatio:  float64(questionCount) / n,
		StatementRatio: float64(statementCount) / n,
	}
}

// extractScenePatterns 提取场景化表达模式。三组模式按优先级互斥匹配：
// 问候、求助、感谢；首个命中生效，未命中的消息不产出记录。
func (a *StyleAnalyzer) extractScenePatterns(messages []model.Message) []model.ScenePattern {
	var patterns []model.ScenePattern

	for _, msg := range messages {
		content := msg.Content

		switch {
		case greetingPattern.MatchString(content):
			patterns = append(patterns, model.ScenePattern{
				Scene:      "greeting",
				Expression: content,
				Confidence: 0.9,
			})
		case helpPattern.MatchString(content):
			patterns = append(patterns, model.ScenePattern{
				Scene:      "request_help",
				Expression: content,
				Confidence: 0.8,
			})
		case thanksPattern.MatchString(content):
			patterns = append(patterns, model.ScenePattern{
				Scene:      "thanks",
				Expression: content,
				Confidence: 0.9,
			})
		}
	}

	return patterns
}

// countRunesIn 统计 content 中出现在 set 里的字符个数。
func countRunesIn(content, set string) int {
	count := 0
	for _, r := range content {
		if strings.ContainsRune(set, r) {
			count++
		}
	}
	return count
}

// countEmoji 统计表情符号个数（U+1F600 到 U+1F6FF 区间）。
func countEmoji(content string) int {
	count := 0
	for _, r := range content {
		if r >= 0x1F600 && r <= 0x1F6FF {
			count++
		}
	}
	return count
}

// containsAny 判断 content 是否包含 words 中的任意一个词。
func containsAny(content string, words []string) bool {
	for _, word := range words {
		if strings.Contains(content, word) {
			return true
		}
	}
	return false
}
