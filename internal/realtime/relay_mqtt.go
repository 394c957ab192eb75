package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/config"
)

// ErrMQTTTimeout MQTT 操作超时
var ErrMQTTTimeout = errors.New("mqtt operation timed out")

// MQTTRelay 将实时事件推送到 MQTT Broker，供无浏览器的硬件显示终端订阅
// 主题为 <prefix>/<event>，只发布不订阅
type MQTTRelay struct {
	client mqtt.Client
	prefix string
	logger *zap.Logger
}

// NewMQTTRelay 连接 Broker
func NewMQTTRelay(cfg config.MQTTConfig, logger *zap.Logger) (*MQTTRelay, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "liveboard"
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	// 多实例部署时避免 ClientID 冲突
	opts.SetClientID(fmt.Sprintf("%s-%s", clientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT 连接丢失", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("MQTT 已连接", zap.String("broker", cfg.Broker))
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("连接 MQTT Broker 失败: %w", ErrMQTTTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("连接 MQTT Broker 失败: %w", err)
	}

	return newMQTTRelay(client, cfg.TopicPrefix, logger), nil
}

func newMQTTRelay(client mqtt.Client, prefix string, logger *zap.Logger) *MQTTRelay {
	if prefix == "" {
		prefix = "liveboard"
	}
	return &MQTTRelay{client: client, prefix: strings.TrimRight(prefix, "/"), logger: logger}
}

func (r *MQTTRelay) Name() string { return "mqtt" }

// Topic 事件对应的主题
func (r *MQTTRelay) Topic(event string) string {
	return r.prefix + "/" + event
}

// Publish 以 QoS 0 发布消息帧
func (r *MQTTRelay) Publish(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg.Frame())
	if err != nil {
		return err
	}

	token := r.client.Publish(r.Topic(msg.Event), 0, false, b)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrMQTTTimeout, ctx.Err())
	}
}

// Close 断开连接
func (r *MQTTRelay) Close() error {
	r.client.Disconnect(250)
	return nil
}
