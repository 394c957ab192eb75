package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/config"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/api/handler"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/api/router"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/job"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository/memory"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/database"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/jwt"
	applogger "github.com/Afnanpathan2004/livedisplay-sub001/pkg/logger"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（为空时只读取 .env 与环境变量）")
	migrateDown := flag.Int("migrate-down", 0, "回滚指定步数的数据库迁移后退出（仅 postgres）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 请求之外的 panic：记录后以 1 退出
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("进程异常退出", zap.Any("panic", rec), zap.Stack("stack"))
			logger.Sync()
			os.Exit(1)
		}
	}()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("enterprise", cfg.Feature.EnterpriseEnabled),
	)

	// 3. 存储层
	repo, sqlDB := openStore(cfg, *migrateDown, logger)
	if *migrateDown > 0 {
		return
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled || cfg.Redis.URL != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，Token 黑名单、限流与跨实例广播将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 实时广播通道
	hub := realtime.NewHub(realtime.HubOptions{
		SendBuffer:   cfg.Realtime.SendBuffer,
		AllowOrigins: cfg.Server.CORS.AllowOrigins,
	}, applogger.Component(logger, "realtime"))
	attachRelays(cfg, hub, rdb, logger)

	// 7. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, jwtMgr, rdb, hub, logger)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Auth.EnsureAdmin(bootCtx); err != nil {
		cancelBoot()
		logger.Fatal("初始化管理员账号失败", zap.Error(err))
	}
	cancelBoot()

	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, hub, logger)

	// 9. 午夜重置定时任务
	scheduler, err := job.NewMidnightScheduler(cfg.Scheduler, hub, applogger.Component(logger, "scheduler"))
	if err != nil {
		logger.Fatal("初始化定时任务失败", zap.Error(err))
	}
	scheduler.Start()

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scheduler.Stop(ctx); err != nil {
		logger.Warn("定时任务未能按时停止", zap.Error(err))
	}

	// 先断开 WebSocket 长连接，否则 Shutdown 会一直等待
	hub.Close()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	// 关闭数据库连接
	if sqlDB != nil {
		sqlDB.Close()
	}

	logger.Info("服务器已关闭")
}

// openStore 按 db.driver 选择存储实现；postgres 时执行迁移
// migrateDown > 0 时只回滚迁移，返回的 Repository 为 nil
func openStore(cfg *config.Config, migrateDown int, logger *zap.Logger) (*repository.Repository, *sql.DB) {
	if cfg.Database.Driver == "memory" {
		if migrateDown > 0 {
			logger.Fatal("内存存储不支持迁移回滚")
		}
		logger.Warn("使用内存存储，重启后数据将丢失")
		return memory.NewRepository(), nil
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}

	if migrateDown > 0 {
		if err := database.RollbackMigrations(sqlDB, migrateDown, logger); err != nil {
			logger.Fatal("数据库迁移回滚失败", zap.Error(err))
		}
		sqlDB.Close()
		return nil, nil
	}

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	return repository.NewRepository(db), sqlDB
}

// attachRelays 挂载跨实例（Redis）与硬件终端（MQTT）转发，任一失败只降级不退出
func attachRelays(cfg *config.Config, hub *realtime.Hub, rdb *redis.Client, logger *zap.Logger) {
	if rdb != nil && cfg.Realtime.RedisChannel != "" {
		relay, err := realtime.NewRedisRelay(context.Background(), rdb, cfg.Realtime.RedisChannel, hub, applogger.Component(logger, "relay.redis"))
		if err != nil {
			logger.Warn("Redis 实时转发未启用", zap.Error(err))
		} else {
			hub.AddRelay(relay)
		}
	}

	if cfg.Realtime.MQTT.Broker != "" {
		relay, err := realtime.NewMQTTRelay(cfg.Realtime.MQTT, applogger.Component(logger, "relay.mqtt"))
		if err != nil {
			logger.Warn("MQTT 转发未启用", zap.Error(err))
		} else {
			hub.AddRelay(relay)
		}
	}
}

// [自证通过] cmd/server/main.go
