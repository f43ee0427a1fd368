// Package pipeline 定义了消息接入的核心流程。
package pipeline

import (
	"sync"

	"style-learn-go/internal/config"
	"style-learn-go/internal/model"
	"style-learn-go/internal/repository"
	"style-learn-go/internal/service"
	"style-learn-go/pkg/log"
	"style-learn-go/pkg/tasks"
)

const (
	// Name 是服务的对外名称。
	Name = "style-learn-go"
	// Version 是服务版本。
	Version = "1.0.0"
)

// Processor 封装了消息接入的所有依赖和逻辑：
// 校验 → 过滤 → 去重 → 入库 → 触发学习。
// 整条链路对调用方即发即忘，任何失败都不向外传播。
type Processor struct {
	filter      service.FilterService
	dedup       *service.DedupCache
	messageRepo repository.MessageRepository
	stats       service.StatisticService
	featureSvc  service.FeatureService
	learning    *service.LearningService

	mu     sync.RWMutex
	status string
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(
	filter service.FilterService,
	dedup *service.DedupCache,
	messageRepo repository.MessageRepository,
	stats service.StatisticService,
	featureSvc service.FeatureService,
	learning *service.LearningService,
) *Processor {
	return &Processor{
		filter:      filter,
		dedup:       dedup,
		messageRepo: messageRepo,
		stats:       stats,
		featureSvc:  featureSvc,
		learning:    learning,
		status:      "stopped",
	}
}

// Start 标记管线进入运行状态。
func (p *Processor) Start() {
	p.mu.Lock()
	p.status = "running"
	p.mu.Unlock()
	log.Infof("[%s] 管线已启动", Name)
}

// Stop 停止管线：给在途学习任务一个有界的宽限期，
// 之后无条件清空去重缓存与风格缓存。
func (p *Processor) Stop() {
	p.mu.Lock()
	p.status = "stopped"
	p.mu.Unlock()

	p.learning.Stop()
	p.dedup.Clear()
	p.featureSvc.ClearCache()
	log.Infof("[%s] 管线已停止", Name)
}

// Reconfigure 热更新过滤与学习配置，运行中的任务不受影响。
func (p *Processor) Reconfigure(filterCfg config.MessageFilterConfig, batchSize int) {
	p.filter.Reconfigure(filterCfg)
	p.dedup.Reconfigure(filterCfg.MaxDuplicateCount)
	p.learning.Reconfigure(batchSize)
	log.Infof("[%s] 配置已热更新", Name)
}

// HandleMessage 是消息接入的入口。同步执行到学习任务启动为止，
// 从不向调用方抛出错误；被拒绝的消息静默丢弃，没有任何副作用。
func (p *Processor) HandleMessage(event tasks.MessageEvent) {
	// 格式不完整的消息静默丢弃
	if !p.filter.Validate(event) {
		return
	}

	// 策略过滤
	if !p.filter.Accept(event) {
		return
	}

	// 会话内重复内容抑制
	if p.dedup.IsDuplicate(event.SessionID, event.Content) {
		return
	}

	// 入库失败按即发即忘处理：记日志，链路继续
	msg := &model.Message{
		UserID:    event.UserID,
		UserName:  event.UserName,
		Content:   event.Content,
		SendTime:  event.SendTime,
		SessionID: event.SessionID,
		IsGroup:   event.IsGroup,
		ReplyTo:   event.ReplyTo,
		IsValid:   true,
	}
	if err := p.messageRepo.Create(msg); err != nil {
		log.Errorf("保存消息失败, userID=%s: %v", event.UserID, err)
	} else {
		p.stats.Increment("total_messages", 1)
		p.stats.Increment("valid_messages", 1)
	}

	// 触发学习（同一会话最多一个在途任务）
	p.learning.TriggerLearning(event.UserID, event.SessionID)
}

// Status 返回运行状态快照。
func (p *Processor) Status() model.PluginStatus {
	p.mu.RLock()
	status := p.status
	p.mu.RUnlock()

	return model.PluginStatus{
		Name:            Name,
		Version:         Version,
		Status:          status,
		CacheSize:       p.dedup.Size(),
		FeatureCount:    p.featureSvc.CachedCount(),
		ActiveTaskCount: p.learning.ActiveTaskCount(),
		Statistics:      p.stats.GetAll(),
	}
}
