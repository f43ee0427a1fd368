package service

import (
	"context"
	"encoding/json"

	"style-learn-go/internal/repository"
	"style-learn-go/pkg/log"
)

// SessionService 提供会话上下文的不透明透传持久化。
// 核心逻辑不解释上下文内容；读写失败表现为空上下文。
type SessionService interface {
	UpdateContext(ctx context.Context, sessionID string, entries []json.RawMessage) error
	GetContext(ctx context.Context, sessionID string) []json.RawMessage
}

type sessionService struct {
	repo repository.SessionContextRepository
}

// NewSessionService 创建一个新的 SessionService 实例。
func NewSessionService(repo repository.SessionContextRepository) SessionService {
	return &sessionService{repo: repo}
}

// UpdateContext 将上下文条目序列化后按 session_id 覆盖写入。
func (s *sessionService) UpdateContext(ctx context.Context, sessionID string, entries []json.RawMessage) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.repo.Upsert(ctx, sessionID, string(data))
}

// GetContext 读取会话上下文，不存在或读取失败时返回空列表。
func (s *sessionService) GetContext(ctx context.Context, sessionID string) []json.RawMessage {
	data, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		log.Errorf("获取会话上下文失败, sessionID=%s: %v", sessionID, err)
		return []json.RawMessage{}
	}
	if data == "" {
		return []json.RawMessage{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		log.Errorf("解析会话上下文失败, sessionID=%s: %v", sessionID, err)
		return []json.RawMessage{}
	}
	return entries
}
