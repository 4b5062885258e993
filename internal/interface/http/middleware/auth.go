package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
	"github.com/xiebiao/bookstore-orders/pkg/jwt"
	"github.com/xiebiao/bookstore-orders/pkg/response"
)

const principalKey = "principal"

// Auth JWT认证中间件
// 只负责校验Token并把身份放入Context；角色/归属判定交给auth包
// 会话记录只用于审计，这里不查询
type Auth struct {
	tokens *jwt.Manager
	now    func() time.Time
}

// NewAuth 创建认证中间件
func NewAuth(tokens *jwt.Manager) *Auth {
	return &Auth{tokens: tokens, now: time.Now}
}

// RequireAuth 要求携带有效Token
//
//	Authorization: Bearer <token>
func (m *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Error(c, apperrors.WithMessage(apperrors.ErrInvalidToken, "Token格式错误"))
			return
		}

		claims, err := m.tokens.Verify(strings.TrimSpace(token), m.now())
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(principalKey, auth.Principal{
			UserID:   claims.SubjectID,
			Username: claims.Name,
			Roles:    []string(claims.Roles),
		})
		c.Next()
	}
}

// RequireRole 要求拥有指定角色，必须放在RequireAuth之后
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			return
		}
		if err := auth.RequireRole(p, role); err != nil {
			response.Error(c, err)
			return
		}
		c.Next()
	}
}

// GetPrincipal 当前请求的身份
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// MustPrincipal 用于已经通过RequireAuth的Handler
func MustPrincipal(c *gin.Context) auth.Principal {
	p, ok := GetPrincipal(c)
	if !ok {
		panic("principal not found in context")
	}
	return p
}
