// Package job 定时任务。
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/config"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
)

// DefaultMidnightSpec 每天 00:00
const DefaultMidnightSpec = "0 0 * * *"

// MidnightScheduler 午夜重置：每天零点广播 system:midnight，显示端据此切换到新的一天
// 错过的触发不补发
type MidnightScheduler struct {
	cron    *cron.Cron
	emitter realtime.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewMidnightScheduler 解析 cron 表达式与时区，时区为空时使用服务器本地时区
func NewMidnightScheduler(cfg config.SchedulerConfig, emitter realtime.Emitter, logger *zap.Logger) (*MidnightScheduler, error) {
	spec := cfg.MidnightCron
	if spec == "" {
		spec = DefaultMidnightSpec
	}

	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("无效的时区 %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	s := &MidnightScheduler{
		emitter: emitter,
		logger:  logger,
		now:     time.Now,
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{logger})),
	)
	if _, err := s.cron.AddFunc(spec, s.FireMidnight); err != nil {
		return nil, fmt.Errorf("无效的 cron 表达式 %q: %w", spec, err)
	}

	logger.Info("午夜重置任务已注册", zap.String("spec", spec), zap.String("location", loc.String()))
	return s, nil
}

// Start 启动调度（非阻塞）
func (s *MidnightScheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *MidnightScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next 下一次触发时间
func (s *MidnightScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(s.now().In(s.cron.Location()))
}

// FireMidnight 任务主体
func (s *MidnightScheduler) FireMidnight() {
	at := s.now()
	s.emitter.Emit(realtime.EventSystemMidnight, map[string]string{
		"at": at.Format(time.RFC3339),
	})
	s.logger.Info("已广播午夜重置事件", zap.Time("at", at))
}

// cronLogger 将 cron 内部日志接入 zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
