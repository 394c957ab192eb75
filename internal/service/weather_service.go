package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/config"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/redis"
)

// ── 天气模块业务错误 ──

var (
	ErrWeatherNotConfigured = errors.New("天气服务未配置 API Key")
	ErrWeatherUnavailable   = errors.New("天气服务暂时不可用")
	ErrWeatherLocation      = errors.New("无法识别的地点")
)

const (
	weatherCachePrefix = "weather:current:"

	// 进程内缓存上限，超出时淘汰最早过期的非默认地点
	maxLocalWeatherEntries = 32
	maxWeatherLocationLen  = 100
)

// ByteCache 字节缓存（由 pkg/redis.Client 实现），未命中返回 redis.ErrCacheMiss
type ByteCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WeatherService 天气播报接口
//
// 设计说明：
//   - 上游为 weatherapi.com 兼容接口 GET {api_url}/current.json?key=&q=
//   - 配置 Redis 时跨实例共享缓存，否则使用进程内缓存；TTL 由 weather.cache_ttl 控制
//   - 上游失败但存在过期缓存时返回过期数据（cached=true），显示屏不会因此空白
type WeatherService interface {
	Current(ctx context.Context, location string) (*dto.WeatherResponse, error)
}

type weatherService struct {
	cfg    config.WeatherConfig
	client *http.Client
	cache  ByteCache // 可为 nil
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	local map[string]localWeather
}

type localWeather struct {
	data      dto.WeatherResponse
	expiresAt time.Time
}

// weatherAPIResponse 上游响应中用到的字段
type weatherAPIResponse struct {
	Location struct {
		Name      string `json:"name"`
		Region    string `json:"region"`
		Country   string `json:"country"`
		Localtime string `json:"localtime"`
	} `json:"location"`
	Current struct {
		LastUpdated string  `json:"last_updated"`
		TempC       float64 `json:"temp_c"`
		TempF       float64 `json:"temp_f"`
		FeelsLikeC  float64 `json:"feelslike_c"`
		Humidity    int     `json:"humidity"`
		WindKph     float64 `json:"wind_kph"`
		Condition   struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewWeatherService 创建 WeatherService 实例，cache 为 nil 时仅使用进程内缓存
func NewWeatherService(cfg config.WeatherConfig, cache ByteCache, logger *zap.Logger) WeatherService {
	return &weatherService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
		logger: logger,
		now:    time.Now,
		local:  make(map[string]localWeather),
	}
}

func (s *weatherService) Current(ctx context.Context, location string) (*dto.WeatherResponse, error) {
	if s.cfg.APIKey == "" {
		return nil, ErrWeatherNotConfigured
	}
	location = strings.TrimSpace(location)
	if location == "" {
		location = s.cfg.DefaultLocation
	}
	if len(location) > maxWeatherLocationLen {
		return nil, ErrWeatherLocation
	}
	key := s.cacheKey(location)

	// 1. 查缓存
	if data, ok := s.cached(ctx, key, false); ok {
		return data, nil
	}

	// 2. 请求上游
	data, err := s.fetch(ctx, location)
	if err != nil {
		if errors.Is(err, ErrWeatherLocation) {
			return nil, err
		}
		s.logger.Warn("获取天气失败", zap.String("location", location), zap.Error(err))
		if stale, ok := s.cached(ctx, key, true); ok {
			return stale, nil
		}
		return nil, ErrWeatherUnavailable
	}

	// 3. 写缓存
	s.store(ctx, key, data)
	return data, nil
}

func (s *weatherService) fetch(ctx context.Context, location string) (*dto.WeatherResponse, error) {
	endpoint := fmt.Sprintf("%s/current.json?key=%s&q=%s&aqi=no",
		strings.TrimRight(s.cfg.APIURL, "/"),
		url.QueryEscape(s.cfg.APIKey),
		url.QueryEscape(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求天气接口失败: %w", err)
	}
	defer resp.Body.Close()

	var apiResp weatherAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("解析天气响应失败 (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		// weatherapi 以 1006 表示地点无法识别
		if apiResp.Error != nil && apiResp.Error.Code == 1006 {
			return nil, ErrWeatherLocation
		}
		return nil, fmt.Errorf("天气接口返回状态码 %d", resp.StatusCode)
	}

	updated := apiResp.Current.LastUpdated
	if updated == "" {
		updated = s.now().Format(time.RFC3339)
	}
	return &dto.WeatherResponse{
		Location:   apiResp.Location.Name,
		Region:     apiResp.Location.Region,
		Country:    apiResp.Location.Country,
		TempC:      apiResp.Current.TempC,
		TempF:      apiResp.Current.TempF,
		FeelsLikeC: apiResp.Current.FeelsLikeC,
		Humidity:   apiResp.Current.Humidity,
		WindKph:    apiResp.Current.WindKph,
		Condition:  apiResp.Current.Condition.Text,
		Icon:       apiResp.Current.Condition.Icon,
		UpdatedAt:  updated,
	}, nil
}

// cached 读取缓存；allowStale 为 true 时允许返回进程内已过期的数据
func (s *weatherService) cached(ctx context.Context, key string, allowStale bool) (*dto.WeatherResponse, bool) {
	if s.cache != nil && !allowStale {
		raw, err := s.cache.GetBytes(ctx, key)
		switch {
		case err == nil:
			var data dto.WeatherResponse
			if json.Unmarshal(raw, &data) == nil {
				data.Cached = true
				return &data, true
			}
		case !errors.Is(err, redis.ErrCacheMiss):
			s.logger.Warn("读取天气缓存失败", zap.Error(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.local[key]
	if !ok || (!allowStale && s.now().After(entry.expiresAt)) {
		return nil, false
	}
	data := entry.data
	data.Cached = true
	return &data, true
}

func (s *weatherService) store(ctx context.Context, key string, data *dto.WeatherResponse) {
	ttl := s.cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	s.mu.Lock()
	if _, ok := s.local[key]; !ok && len(s.local) >= maxLocalWeatherEntries {
		s.evictLocked()
	}
	s.local[key] = localWeather{data: *data, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.SetBytes(ctx, key, raw, ttl); err != nil {
		s.logger.Warn("写入天气缓存失败", zap.Error(err))
	}
}

func (s *weatherService) cacheKey(location string) string {
	return weatherCachePrefix + strings.ToLower(location)
}

// evictLocked 淘汰最早过期的条目，默认地点保留用于降级；调用方须持有 s.mu
func (s *weatherService) evictLocked() {
	keep := s.cacheKey(s.cfg.DefaultLocation)
	var (
		victim string
		oldest time.Time
	)
	for k, v := range s.local {
		if k == keep {
			continue
		}
		if victim == "" || v.expiresAt.Before(oldest) {
			victim, oldest = k, v.expiresAt
		}
	}
	if victim != "" {
		delete(s.local, victim)
	}
}
