package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// PubSub RedisRelay 依赖的发布订阅能力（由 pkg/redis.Client 实现）
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, handler func(payload []byte)) (func() error, error)
}

// RedisRelay 通过 Redis 频道在多个实例之间同步实时事件
type RedisRelay struct {
	ps          PubSub
	channel     string
	unsubscribe func() error
	logger      *zap.Logger
}

// NewRedisRelay 订阅频道并把其他实例的消息投递给本地 Hub
func NewRedisRelay(ctx context.Context, ps PubSub, channel string, hub *Hub, logger *zap.Logger) (*RedisRelay, error) {
	r := &RedisRelay{ps: ps, channel: channel, logger: logger}

	unsub, err := ps.Subscribe(ctx, channel, func(payload []byte) {
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			logger.Warn("忽略无法解析的转发消息", zap.String("channel", channel), zap.Error(err))
			return
		}
		hub.Deliver(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("订阅实时转发频道失败: %w", err)
	}
	r.unsubscribe = unsub

	logger.Info("Redis 实时转发已启用", zap.String("channel", channel))
	return r, nil
}

func (r *RedisRelay) Name() string { return "redis" }

// Publish 发布到 Redis 频道
func (r *RedisRelay) Publish(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.ps.Publish(ctx, r.channel, b)
}

// Close 取消订阅
func (r *RedisRelay) Close() error {
	if r.unsubscribe == nil {
		return nil
	}
	return r.unsubscribe()
}
