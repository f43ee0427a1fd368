// Package service 包含了应用的业务逻辑层。
package service

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"style-learn-go/internal/config"
	"style-learn-go/pkg/tasks"
)

// 链接过滤使用的 URL 模式。
var urlPattern = regexp.MustCompile(`(http|https)://\S+`)

// FilterService 实现消息闸门：格式校验与策略过滤。
// 被拒绝的消息直接丢弃，不产生任何副作用。
type FilterService interface {
	// Validate 校验必填字段是否齐全。
	Validate(e tasks.MessageEvent) bool
	// Accept 依次执行策略过滤，全部通过时返回 true。
	Accept(e tasks.MessageEvent) bool
	// Reconfigure 原子替换过滤配置。
	Reconfigure(cfg config.MessageFilterConfig)
}

type filterService struct {
	mu  sync.RWMutex
	cfg config.MessageFilterConfig
}

// NewFilterService 创建一个新的 FilterService 实例。
func NewFilterService(cfg config.MessageFilterConfig) FilterService {
	return &filterService{cfg: cfg}
}

// Validate 校验消息必填字段：user_id、user_name、content、send_time、session_id。
func (s *filterService) Validate(e tasks.MessageEvent) bool {
	if e.UserID == "" || e.UserName == "" || e.Content == "" || e.SessionID == "" {
		return false
	}
	if e.SendTime == 0 {
		return false
	}
	return true
}

// Accept 按固定顺序执行过滤：命令前缀、最小长度、黑名单、白名单、
// 链接、敏感词。任意一项命中即拒绝。
func (s *filterService) Accept(e tasks.MessageEvent) bool {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	content := strings.TrimSpace(e.Content)

	// 命令过滤
	for _, prefix := range cfg.CommandPrefix {
		if strings.HasPrefix(content, prefix) {
			return false
		}
	}

	// 长度过滤（按字符数，不是字节数）
	if utf8.RuneCountInString(content) < cfg.MinMessageLength {
		return false
	}

	// 用户黑名单
	for _, blocked := range cfg.BlacklistUsers {
		if e.UserID == blocked {
			return false
		}
	}

	// 配置了白名单时，名单外的用户一律拒绝
	if len(cfg.WhitelistUsers) > 0 {
		allowed := false
		for _, w := range cfg.WhitelistUsers {
			if e.UserID == w {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	// 链接过滤
	if urlPattern.MatchString(content) {
		return false
	}

	// 敏感词过滤（子串精确匹配）
	for _, word := range cfg.SensitiveWords {
		if word != "" && strings.Contains(content, word) {
			return false
		}
	}

	return true
}

// Reconfigure 原子替换过滤配置。
func (s *filterService) Reconfigure(cfg config.MessageFilterConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}
