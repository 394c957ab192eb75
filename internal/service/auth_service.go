package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Afnanpathan2004/livedisplay-sub001/config"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/rbac"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/jwt"
)

var (
	ErrInvalidCredentials   = errors.New("用户名或密码错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrInvalidRefreshToken  = errors.New("刷新令牌无效或已过期")
	ErrRegistrationDisabled = errors.New("当前未开放注册")
	ErrUsernameTaken        = errors.New("用户名已被占用")
	ErrEmailTaken           = errors.New("邮箱已被注册")
)

// TokenBlacklist Token 黑名单存储（由 pkg/redis.Client 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
//
// 设计说明：
//   - 登录失败不计数、不锁定账户；用户不存在与密码错误返回同一错误
//   - 注册用户一律为 viewer，可通过 feature.registration_enabled 关闭
//   - 刷新时轮换 Token 对；配置 Redis 时旧 Refresh Token 立即作废
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	// EnsureAdmin 启动时根据 ADMIN_PASSWORD 创建默认管理员
	EnsureAdmin(ctx context.Context) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist // 可为 nil
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService 创建 AuthService 实例，blacklist 为 nil 时登出仅依赖 Token 自然过期
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("登录失败：密码错误", zap.String("username", user.Username))
		return nil, ErrInvalidCredentials
	}

	// 3. 记录最后登录时间（失败不影响登录）
	now := s.now()
	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("更新最后登录时间失败", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}

	// 4. 生成 Token 对
	return s.issueTokens(user)
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if !s.cfg.Feature.RegistrationEnabled {
		return nil, ErrRegistrationDisabled
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !isNotFound(err) {
		s.logger.Error("查询用户名失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleViewer,
		CreatedAt:    s.now(),
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册时由唯一约束兜底
		if isDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新用户注册", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return s.issueTokens(user)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("检查 Token 黑名单失败", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	// 重新读取用户，角色变更即时生效
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.revoke(ctx, claims)
	return resp, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, access *jwt.Claims, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}
	if access != nil {
		s.revoke(ctx, access)
	}
	if refreshToken != "" {
		if claims, err := s.jwtMgr.ParseRefreshToken(refreshToken); err == nil {
			s.revoke(ctx, claims)
		}
	}
	return nil
}

// revoke 将 Token 加入黑名单，失败仅记录警告
func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("Token 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
	}
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// EnsureAdmin — 默认管理员引导
// ═══════════════════════════════════════════════════════════
//
// ADMIN_PASSWORD 未配置时跳过；哈希失败直接返回错误，由启动流程终止进程。

func (s *authService) EnsureAdmin(ctx context.Context) error {
	password := s.cfg.Auth.AdminPassword
	username := s.cfg.Auth.AdminUsername
	if password == "" {
		s.logger.Warn("未配置 ADMIN_PASSWORD，跳过默认管理员创建")
		return nil
	}

	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		s.logger.Info("管理员账号已存在", zap.String("username", username))
		return nil
	} else if !isNotFound(err) {
		return fmt.Errorf("查询管理员账号失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("生成管理员密码哈希失败: %w", err)
	}

	admin := &model.User{
		Username:     username,
		Email:        s.cfg.Auth.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		CreatedAt:    s.now(),
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return fmt.Errorf("创建管理员账号失败: %w", err)
	}

	s.logger.Info("默认管理员已创建", zap.String("username", username))
	return nil
}

// ── 辅助函数 ──

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: rbac.Permissions(user.Role),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLogin != nil {
		resp.LastLogin = strPtr(user.LastLogin.Format(time.RFC3339))
	}
	return resp
}

// [自证通过] internal/service/auth_service.go
