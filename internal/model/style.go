package model

// StyleBundle 是风格分析对单个用户的完整输出，覆盖语言、情感、
// 对话结构与场景表达四个维度。空消息批次不产出 StyleBundle（nil 表示无风格）。
type StyleBundle struct {
	UserID            string            `json:"user_id"`
	LanguageStyle     LanguageStyle     `json:"language_style"`
	EmotionalStyle    EmotionalStyle    `json:"emotional_style"`
	ConversationStyle ConversationStyle `json:"conversation_style"`
	ScenePatterns     []ScenePattern    `json:"scene_patterns"`
	UpdateTime        int64             `json:"update_time"`
}

// LanguageStyle 描述语言层面的风格特征。
type LanguageStyle struct {
	FormalDegree         float64 `json:"formal_degree"`
	AvgMessageLength     float64 `json:"avg_message_length"`
	AvgSentenceLength    float64 `json:"avg_sentence_length"`
	ExclamationFrequency float64 `json:"exclamation_frequency"`
	QuestionFrequency    float64 `json:"question_frequency"`
	EmojiFrequency       float64 `json:"emoji_frequency"`
}

// EmotionalStyle 描述情感倾向。三个比例对消息总数归一。
// EmotionExpressionDegree 目前是固定占位值 0.5，不由内容计算。
type EmotionalStyle struct {
	PositiveRatio           float64 `json:"positive_ratio"`
	NegativeRatio           float64 `json:"negative_ratio"`
	NeutralRatio            float64 `json:"neutral_ratio"`
	EmotionExpressionDegree float64 `json:"emotion_expression_degree"`
}

// ConversationStyle 描述对话结构风格，QuestionRatio 与 StatementRatio 之和恒为 1。
type ConversationStyle struct {
	ReplyRatio     float64 `json:"reply_ratio"`
	QuestionRatio  float64 `json:"question_ratio"`
	StatementRatio float64 `json:"statement_ratio"`
}

// ScenePattern 是一条场景化表达记录：消息命中了哪类场景及原文表达。
// 场景模式只存在于新鲜计算出的 StyleBundle 中，不做持久化。
type ScenePattern struct {
	Scene      string  `json:"scene"`
	Expression string  `json:"expression"`
	Confidence float64 `json:"confidence"`
}

// MetricValue 是统计查询返回的单项指标：文本编码的值与最后更新时间。
type MetricValue struct {
	Value      string `json:"value"`
	UpdateTime int64  `json:"update_time"`
}

// PluginStatus 是运行状态快照。
type PluginStatus struct {
	Name            string                 `json:"name"`
	Version         string                 `json:"version"`
	Status          string                 `json:"status"`
	CacheSize       int                    `json:"cache_size"`
	FeatureCount    int                    `json:"feature_count"`
	ActiveTaskCount int                    `json:"active_task_count"`
	Statistics      map[string]MetricValue `json:"statistics"`
}

// ImportResult 是一次聊天记录导入的结果统计。
// 五个计数器对 total_lines 构成完整划分。
type ImportResult struct {
	TotalLines     int   `json:"total_lines"`
	ImportedLines  int   `json:"imported_lines"`
	FilteredLines  int   `json:"filtered_lines"`
	DuplicateLines int   `json:"duplicate_lines"`
	ErrorLines     int   `json:"error_lines"`
	StartTime      int64 `json:"start_time"`
	EndTime        int64 `json:"end_time"`
}
