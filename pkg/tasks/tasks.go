// Package tasks defines the inbound message descriptor shared by all transports.
package tasks

// MessageEvent 是接入层（HTTP、WebSocket、Kafka、导入）递交给核心管线的
// 消息描述。user_id、user_name、content、send_time、session_id 为必填项，
// 缺失任何一项的消息会被静默丢弃。
type MessageEvent struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	SendTime  int64  `json:"send_time"`
	SessionID string `json:"session_id"`
	IsGroup   bool   `json:"is_group"`
	ReplyTo   *uint  `json:"reply_to,omitempty"`
}
