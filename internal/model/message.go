// Package model 包含了应用的数据模型定义。
package model

import "time"

// Message 对应数据库中的 'messages' 表，保存通过过滤的有效聊天消息。
// 消息入库后不再修改，按 send_time 排序读取。
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	UserName  string    `gorm:"type:varchar(128);not null" json:"user_name"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	SendTime  int64     `gorm:"index;not null" json:"send_time"`
	SessionID string    `gorm:"type:varchar(128);index;not null" json:"session_id"`
	IsGroup   bool      `gorm:"not null" json:"is_group"`
	ReplyTo   *uint     `json:"reply_to"`
	IsValid   bool      `gorm:"default:true" json:"is_valid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Message) TableName() string {
	return "messages"
}
