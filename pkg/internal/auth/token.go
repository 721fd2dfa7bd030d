package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
)

// ErrInvalidToken 令牌无效或已过期.
var ErrInvalidToken = errors.New("auth: invalid session token")

type sessionClaims struct {
	jwt.RegisteredClaims

	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
}

// TokenIssuer 签发与校验 HS256 会话令牌.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer 创建签发器.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = configs.DefaultSessionTTL
	}

	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SetClock 替换时间来源.
func (t *TokenIssuer) SetClock(now func() time.Time) {
	t.now = now
}

// TTL 令牌有效期.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue 为身份签发令牌，返回令牌与过期时间.
func (t *TokenIssuer) Issue(id *Identity) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    configs.AppName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	return signed, exp, nil
}

// Parse 校验令牌并还原身份.
func (t *TokenIssuer) Parse(token string) (*Identity, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(configs.AppName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{ID: claims.Subject, Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}
