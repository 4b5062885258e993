package jwt

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

// DefaultLifetime Token默认有效期（3天）
const DefaultLifetime = 72 * time.Hour

// Manager JWT签发与校验
// 设计说明：
// 1. 单Token、无状态：服务端不保存任何会话，校验只看签名和exp
// 2. 不绑定issuer/audience（简化处理，正式部署应补上）
// 3. 无法在过期前吊销：登出只是客户端丢弃Token
// 4. 签名密钥由配置注入，启动时加载一次
type Manager struct {
	secret   []byte
	lifetime time.Duration
}

// NewManager 创建JWT管理器，lifetime<=0时使用DefaultLifetime
func NewManager(secret string, lifetime time.Duration) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Manager{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Lifetime Token有效期
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// Claims Token载荷
// 字段名沿用既有客户端约定：nameidentifier / name / role
type Claims struct {
	SubjectID string `json:"nameidentifier"`
	Name      string `json:"name"`
	Roles     Roles  `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// HasRole 是否拥有指定角色
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Roles 角色列表
// 只有一个角色时序列化为字符串，多个角色时序列化为数组；反序列化两种形式都接受
type Roles []string

func (r Roles) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

func (r *Roles) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = Roles{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*r = many
	return nil
}

// Issue 签发Token
// now由调用方传入，exp = now + lifetime
// exp只有秒精度，这里向上取整：签发后lifetime内一定有效，最多多出不到1秒
func (m *Manager) Issue(subjectID, name string, roles []string, now time.Time) (string, error) {
	claims := Claims{
		SubjectID: subjectID,
		Name:      name,
		Roles:     append(Roles(nil), roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(m.lifetime))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "生成Token失败")
	}
	return signed, nil
}

func ceilSecond(t time.Time) time.Time {
	if trunc := t.Truncate(time.Second); trunc.Before(t) {
		return trunc.Add(time.Second)
	}
	return t
}

// Verify 校验Token
// 教学要点：
// 1. 只接受HS256，防止alg=none或算法混淆攻击
// 2. now注入到校验器中，now >= exp 即视为过期
// 3. 纯函数：不访问Redis/数据库，任何失败统一返回ErrInvalidToken
func (m *Manager) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
