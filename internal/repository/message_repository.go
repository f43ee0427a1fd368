// Package repository 提供了数据访问层的实现。
package repository

import (
	"style-learn-go/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 定义了消息记录的持久化操作。消息是只追加的，
// 入库后不再修改。
type MessageRepository interface {
	Create(msg *model.Message) error
	FindRecentByUser(userID string, limit int) ([]model.Message, error)
	CountValidByUser(userID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建一个新的 MessageRepository 实例。
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 追加一条消息记录，主键由数据库分配。
func (r *messageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// FindRecentByUser 返回指定用户最近的有效消息，按 send_time 降序，最多 limit 条。
func (r *messageRepository) FindRecentByUser(userID string, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("user_id = ? AND is_valid = ?", userID, true).
		Order("send_time DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// CountValidByUser 统计指定用户的有效消息数，作为学习触发的就绪信号。
func (r *messageRepository) CountValidByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("user_id = ? AND is_valid = ?", userID, true).
		Count(&count).Error
	return count, err
}
