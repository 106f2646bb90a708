package app

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "fast-vault-sync-service"

// ContextUserKey 认证中间件写入 gin.Context 的键
const ContextUserKey = "user_token"

var errNoUserUUID = errors.New("token has no user uuid")

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey string        `yaml:"secret-key"` // JWT 签名密钥
	Expiry    time.Duration `yaml:"expiry"`     // Token 过期时间，默认 7 天
	Issuer    string        `yaml:"issuer"`     // Token 签发者
}

// TokenManager 定义 Token 管理接口
// Tokens are issued by the auth service. This side only needs to verify them;
// Generate exists for tooling and tests.
type TokenManager interface {
	Generate(userUUID, sessionUUID string, readOnly bool) (string, error)
	Parse(token string) (*UserEntity, error)
	Validate(token string) error
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// UserEntity is the authenticated session carried by a request.
// UserEntity 请求携带的已认证会话
type UserEntity struct {
	UID         string `json:"uid"`
	SessionUUID string `json:"session_uuid"`
	ReadOnly    bool   `json:"read_only"`
	jwt.RegisteredClaims
}

// Generate 生成一个新的 JWT Token
func (t *tokenManager) Generate(userUUID, sessionUUID string, readOnly bool) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:         userUUID,
		SessionUUID: sessionUUID,
		ReadOnly:    readOnly,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   "user-token",
			ID:        sessionUUID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.config.SecretKey))
}

// Parse 解析 JWT Token 并返回用户信息
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	return ParseTokenWithKey(token, t.config.SecretKey)
}

// Validate 验证 Token 是否有效
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// ParseTokenWithKey verifies an HS256 token and returns its claims.
func ParseTokenWithKey(tokenString string, secretKey string) (*UserEntity, error) {
	claims := &UserEntity{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secretKey), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.UID == "" {
		return nil, errNoUserUUID
	}
	return claims, nil
}

// GetUser 从请求上下文中获取会话信息
func GetUser(ctx *gin.Context) *UserEntity {
	user, exist := ctx.Get(ContextUserKey)
	if !exist {
		return nil
	}
	userEntity, _ := user.(*UserEntity)
	return userEntity
}

// GetUID extracts the user uuid from the request context.
func GetUID(ctx *gin.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UID
	}
	return ""
}

// GetSessionUUID extracts the session uuid from the request context.
func GetSessionUUID(ctx *gin.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.SessionUUID
	}
	return ""
}

// IsReadOnly 当前会话是否只读
func IsReadOnly(ctx *gin.Context) bool {
	if u := GetUser(ctx); u != nil {
		return u.ReadOnly
	}
	return false
}

// SetUser 将已认证会话写入请求上下文
func SetUser(ctx *gin.Context, user *UserEntity) {
	ctx.Set(ContextUserKey, user)
}
