// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"style-learn-go/internal/config"
	"style-learn-go/internal/handler"
	"style-learn-go/internal/middleware"
	"style-learn-go/internal/pipeline"
	"style-learn-go/internal/repository"
	"style-learn-go/internal/service"
	"style-learn-go/pkg/database"
	"style-learn-go/pkg/kafka"
	"style-learn-go/pkg/log"
	"style-learn-go/pkg/storage"
	"style-learn-go/pkg/token"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 和 MinIO
	database.Init(cfg.Database)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if cfg.Kafka.Enabled {
		kafka.InitProducer(cfg.Kafka)
	}

	// 4. 初始化 Repository
	messageRepo := repository.NewMessageRepository(database.DB)
	featureRepo := repository.NewStyleFeatureRepository(database.DB)
	sessionRepo := repository.NewSessionContextRepository(database.DB, database.RDB)
	statisticRepo := repository.NewStatisticRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	filterSvc := service.NewFilterService(cfg.MessageFilter)
	dedupCache := service.NewDedupCache(cfg.MessageFilter.MaxDuplicateCount)
	analyzer := service.NewStyleAnalyzer()
	statisticSvc := service.NewStatisticService(statisticRepo)
	featureSvc := service.NewFeatureService(featureRepo)
	learningSvc := service.NewLearningService(messageRepo, featureSvc, analyzer, statisticSvc, cfg.Learning.BatchSize)
	sessionSvc := service.NewSessionService(sessionRepo)
	promptSvc := service.NewPromptService(featureSvc)
	importSvc := service.NewImportService(filterSvc, dedupCache, messageRepo, statisticSvc, learningSvc)

	// 6. 初始化消息处理管道 (Processor)
	processor := pipeline.NewProcessor(filterSvc, dedupCache, messageRepo, statisticSvc, featureSvc, learningSvc)
	processor.Start()

	// 7. 启动后台 Kafka 消费者
	if cfg.Kafka.Enabled {
		go kafka.StartConsumer(cfg.Kafka, processor)
	}

	// 7.1 扫描导入目录并重放历史聊天记录（幂等，重复行由去重缓存拦截）
	seedCtx, cancelSeed := context.WithCancel(context.Background())
	defer cancelSeed()
	go importSeedTranscripts(seedCtx, cfg.Import, importSvc)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. 注册路由
	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", handler.NewAuthHandler(jwtManager).Login)
		}

		// 消息接入路由，即发即忘
		apiV1.POST("/messages", handler.NewMessageHandler(processor).Ingest)

		// 风格提示词路由
		apiV1.GET("/style/prompt", handler.NewStyleHandler(promptSvc, sessionSvc).GetStylePrompt)

		// 会话上下文路由
		sessions := apiV1.Group("/sessions")
		{
			sessions.GET("/:sessionId/context", handler.NewSessionHandler(sessionSvc).GetContext)
			sessions.PUT("/:sessionId/context", handler.NewSessionHandler(sessionSvc).UpdateContext)
		}

		// 管理员路由组，需要通过 JWT 认证且角色为 ADMIN
		admin := apiV1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(jwtManager))
		{
			admin.GET("/statistics", handler.NewAdminHandler(processor, statisticSvc, importSvc).Statistics)
			admin.GET("/status", handler.NewAdminHandler(processor, statisticSvc, importSvc).Status)
			admin.POST("/import", handler.NewAdminHandler(processor, statisticSvc, importSvc).Import)
		}
	}

	// 消息接入路由 (WebSocket)
	r.GET("/ws/messages", handler.NewMessageHandler(processor).HandleWS)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	// 停止管线：等待在途学习任务收尾并清空内存缓存
	processor.Stop()

	log.Info("服务已优雅关闭")
}

// importSeedTranscripts 扫描目录下的聊天记录文件并逐个重放导入（幂等）。
func importSeedTranscripts(ctx context.Context, cfg config.ImportConfig, importSvc service.ImportService) {
	if cfg.InitDir == "" {
		return
	}
	info, err := os.Stat(cfg.InitDir)
	if err != nil || !info.IsDir() {
		log.Infof("导入目录 %s 不存在，跳过启动导入", cfg.InitDir)
		return
	}

	entries, err := os.ReadDir(cfg.InitDir)
	if err != nil {
		log.Errorf("读取导入目录失败: %v", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		path := filepath.Join(cfg.InitDir, entry.Name())
		result := importSvc.ImportChatHistory(ctx, path, cfg.UserID, cfg.UserName, cfg.SessionID)
		log.Infow("启动导入完成",
			"file", path,
			"total", result.TotalLines,
			"imported", result.ImportedLines,
			"filtered", result.FilteredLines,
			"duplicate", result.DuplicateLines,
			"error", result.ErrorLines,
		)
	}
}
