package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/pkg/jwt"
	"github.com/xiebiao/bookstore-orders/pkg/logger"
)

// LoginUseCase 登录用例
// 1. 校验用户名密码
// 2. 签发Token（nameidentifier = 用户ID，name = 用户名，role = 全部角色）
// 3. 记录登录会话（仅审计，保存失败不影响登录）
type LoginUseCase struct {
	svc      user.Service
	tokens   *jwt.Manager
	sessions user.SessionStore
	now      func() time.Time
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(svc user.Service, tokens *jwt.Manager, sessions user.SessionStore) *LoginUseCase {
	return &LoginUseCase{svc: svc, tokens: tokens, sessions: sessions, now: time.Now}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
	ClientIP string
}

// Execute 登录成功返回Token字符串
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (string, error) {
	u, err := uc.svc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return "", err
	}

	now := uc.now()
	token, err := uc.tokens.Issue(u.ID, u.Username, u.Roles, now)
	if err != nil {
		return "", err
	}

	log := logger.FromContext(ctx).With(zap.String("user_id", u.ID))
	sess := &user.Session{
		UserID:   u.ID,
		Username: u.Username,
		ClientIP: req.ClientIP,
		LoginAt:  now,
	}
	if err := uc.sessions.Save(ctx, sess, uc.tokens.Lifetime()); err != nil {
		log.Warn("保存登录会话失败", zap.Error(err))
	}

	log.Info("用户登录", zap.String("username", u.Username), zap.String("ip", req.ClientIP))
	return token, nil
}

// LogoutUseCase 登出用例
// 只删除会话记录；Token是无状态的，在过期之前依然有效
type LogoutUseCase struct {
	sessions user.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions user.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, p auth.Principal) error {
	if err := uc.sessions.Delete(ctx, p.UserID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("用户登出", zap.String("user_id", p.UserID))
	return nil
}
