package service

import (
	"sync"
	"time"

	"style-learn-go/internal/model"
	"style-learn-go/internal/repository"
	"style-learn-go/pkg/log"
)

// 停机时等待在途学习任务完成的宽限期。
const stopGracePeriod = 5 * time.Second

// LearningService 决定何时触发风格学习，并以会话为粒度保证
// 同一会话最多只有一个在途分析任务（single-flight）。
// 任务内的任何失败只记日志，从不传播给触发方。
type LearningService struct {
	messageRepo repository.MessageRepository
	featureSvc  FeatureService
	analyzer    *StyleAnalyzer
	stats       StatisticService

	mu        sync.Mutex
	inflight  map[string]struct{} // key: session_id
	batchSize int
	wg        sync.WaitGroup
}

// NewLearningService 创建一个新的 LearningService 实例。
func NewLearningService(
	messageRepo repository.MessageRepository,
	featureSvc FeatureService,
	analyzer *StyleAnalyzer,
	stats StatisticService,
	batchSize int,
) *LearningService {
	return &LearningService{
		messageRepo: messageRepo,
		featureSvc:  featureSvc,
		analyzer:    analyzer,
		stats:       stats,
		inflight:    make(map[string]struct{}),
		batchSize:   batchSize,
	}
}

// TriggerLearning 在每条入库消息后调用。会话已有在途任务时直接返回；
// 否则当用户有效消息数达到批大小时，登记任务标记并异步启动分析。
func (s *LearningService) TriggerLearning(userID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.inflight[sessionID]; running {
		return
	}

	count, err := s.messageRepo.CountValidByUser(userID)
	if err != nil {
		log.Errorf("获取有效消息数失败, userID=%s: %v", userID, err)
		return
	}
	if count < int64(s.batchSize) {
		return
	}

	s.inflight[sessionID] = struct{}{}
	batchSize := s.batchSize
	s.wg.Add(1)
	go s.batchLearning(userID, sessionID, batchSize)

	log.Infof("启动学习任务: 用户 %s, 会话 %s", userID, sessionID)
}

// batchLearning 执行一次批量学习：取最近一批消息、分析、落库、更新统计。
// 无论成功失败，最后一步都会移除会话的任务标记。
func (s *LearningService) batchLearning(userID, sessionID string, batchSize int) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, sessionID)
		s.mu.Unlock()
	}()

	messages, err := s.messageRepo.FindRecentByUser(userID, batchSize)
	if err != nil {
		log.Errorf("学习任务读取消息失败, userID=%s: %v", userID, err)
		return
	}
	if len(messages) == 0 {
		return
	}

	// 查询按时间降序返回，分析前转为升序
	reverseMessages(messages)

	style := s.analyzer.Analyze(userID, messages)
	if style == nil {
		return
	}

	if err := s.featureSvc.SaveStyle(userID, style); err != nil {
		log.Errorf("保存风格特征失败, userID=%s: %v", userID, err)
		return
	}

	s.stats.Increment("style_updates", 1)
	s.stats.SetInt64("last_learning_time", time.Now().Unix())

	log.Infof("学习完成: 用户 %s, 分析了 %d 条消息", userID, len(messages))
}

// LearnNow 同步执行一次分析（批量导入后的引导学习走这里，不经过异步调度）。
func (s *LearningService) LearnNow(userID string, limit int) error {
	messages, err := s.messageRepo.FindRecentByUser(userID, limit)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	reverseMessages(messages)

	style := s.analyzer.Analyze(userID, messages)
	if style == nil {
		return nil
	}
	return s.featureSvc.SaveStyle(userID, style)
}

// ActiveTaskCount 返回在途学习任务数。
func (s *LearningService) ActiveTaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Reconfigure 更新学习批大小。
func (s *LearningService) Reconfigure(batchSize int) {
	s.mu.Lock()
	s.batchSize = batchSize
	s.mu.Unlock()
}

// Stop 给在途任务最多 5 秒的宽限期，超时后无条件清空任务标记。
// 没有协作式取消信号：仍在运行的任务自行结束，其标记已被丢弃。
func (s *LearningService) Stop() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(stopGracePeriod):
		log.Warnf("等待学习任务超时，强制清理任务标记")
	}

	s.mu.Lock()
	s.inflight = make(map[string]struct{})
	s.mu.Unlock()
}

// reverseMessages 原地反转消息切片。
func reverseMessages(messages []model.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
