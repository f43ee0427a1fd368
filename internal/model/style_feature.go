package model

// StyleFeature 对应数据库中的 'style_features' 表。
// 每行是某个用户一项具名风格特征的标量值，(user_id, feature_name) 唯一，
// 学习管线每次运行对其整体覆盖写入。
type StyleFeature struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserID       string  `gorm:"type:varchar(64);not null;uniqueIndex:uk_user_feature" json:"user_id"`
	FeatureName  string  `gorm:"type:varchar(128);not null;uniqueIndex:uk_user_feature" json:"feature_name"`
	FeatureValue string  `gorm:"type:text;not null" json:"feature_value"`
	Confidence   float64 `gorm:"not null" json:"confidence"`
	UpdateTime   int64   `gorm:"not null" json:"update_time"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (StyleFeature) TableName() string {
	return "style_features"
}

// SessionContext 对应数据库中的 'session_context' 表。
// ContextData 是调用方维护的不透明 JSON 文本，核心逻辑不解释其内容。
type SessionContext struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	SessionID   string `gorm:"type:varchar(128);not null;uniqueIndex" json:"session_id"`
	ContextData string `gorm:"type:text;not null" json:"context_data"`
	UpdateTime  int64  `gorm:"not null" json:"update_time"`
}

func (SessionContext) TableName() string {
	return "session_context"
}

// StatisticMetric 对应数据库中的 'statistics' 表，按名称唯一的文本编码指标。
type StatisticMetric struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	MetricName  string `gorm:"type:varchar(128);not null;uniqueIndex" json:"metric_name"`
	MetricValue string `gorm:"type:text;not null" json:"metric_value"`
	UpdateTime  int64  `gorm:"not null" json:"update_time"`
}

func (StatisticMetric) TableName() string {
	return "statistics"
}
