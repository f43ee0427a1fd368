package repository

import (
	"context"
	"fmt"
	"time"

	"style-learn-go/internal/model"
	"style-learn-go/pkg/log"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 会话上下文在 Redis 中的缓存有效期。
const sessionContextTTL = 7 * 24 * time.Hour

// SessionContextRepository 定义了会话上下文的持久化操作。
// ContextData 是不透明 JSON 文本，数据库行为权威数据；配置了 Redis 时
// 额外维护一份带 TTL 的热缓存。
type SessionContextRepository interface {
	Upsert(ctx context.Context, sessionID, contextData string) error
	Get(ctx context.Context, sessionID string) (string, error)
}

type sessionContextRepository struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewSessionContextRepository 创建一个新的 SessionContextRepository 实例。
// redisClient 允许为 nil，此时读写直接落库。
func NewSessionContextRepository(db *gorm.DB, redisClient *redis.Client) SessionContextRepository {
	return &sessionContextRepository{db: db, redisClient: redisClient}
}

func sessionContextKey(sessionID string) string {
	return fmt.Sprintf("session:%s:context", sessionID)
}

// Upsert 按 session_id 覆盖写入会话上下文，并同步刷新 Redis 缓存。
func (r *sessionContextRepository) Upsert(ctx context.Context, sessionID, contextData string) error {
	row := model.SessionContext{
		SessionID:   sessionID,
		ContextData: contextData,
		UpdateTime:  time.Now().Unix(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"context_data", "update_time"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	if r.redisClient != nil {
		if cerr := r.redisClient.Set(ctx, sessionContextKey(sessionID), contextData, sessionContextTTL).Err(); cerr != nil {
			// 缓存失败不影响落库结果
			log.Warnf("刷新会话上下文缓存失败, sessionID=%s: %v", sessionID, cerr)
		}
	}
	return nil
}

// Get 读取会话上下文，优先命中 Redis 缓存，未命中时回源数据库并回填。
// 不存在时返回空字符串。
func (r *sessionContextRepository) Get(ctx context.Context, sessionID string) (string, error) {
	if r.redisClient != nil {
		data, err := r.redisClient.Get(ctx, sessionContextKey(sessionID)).Result()
		if err == nil {
			return data, nil
		}
		if err != redis.Nil {
			log.Warnf("读取会话上下文缓存失败, sessionID=%s: %v", sessionID, err)
		}
	}

	var row model.SessionContext
	err := r.db.Where("session_id = ?", sessionID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}

	if r.redisClient != nil {
		_ = r.redisClient.Set(ctx, sessionContextKey(sessionID), row.ContextData, sessionContextTTL).Err()
	}
	return row.ContextData, nil
}
