package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenExpired
	TokenInvalid
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// VerifyResult - результат проверки токена. Claims заполнены только при TokenValid
type VerifyResult struct {
	Status TokenStatus
	Claims jwt.MapClaims
	Reason string
}

// Subject возвращает claim sub или пустую строку
func (r VerifyResult) Subject() string {
	s, _ := r.Claims["sub"].(string)
	return s
}

// Role возвращает claim role или пустую строку
func (r VerifyResult) Role() string {
	s, _ := r.Claims["role"].(string)
	return s
}

const signingMethod = "HS256"

// TokenCodec выпускает и проверяет HS256 access токены
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret []byte, defaultTTL time.Duration, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	c := &TokenCodec{
		secret:     append([]byte(nil), secret...),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue подписывает копию claims с exp = now + ttl.
// ttl <= 0 означает TTL по умолчанию, роль строкового типа приводится к верхнему регистру.
func (c *TokenCodec) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	mc := make(jwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		mc[k] = v
	}
	// роль любого строкового типа (string, models.UserRole) подписывается как string
	if role := reflect.ValueOf(mc["role"]); role.IsValid() && role.Kind() == reflect.String {
		mc["role"] = strings.ToUpper(role.String())
	}
	mc["exp"] = c.now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify не возвращает ошибку, любой сбой сворачивается в результат
func (c *TokenCodec) Verify(tokenString string) VerifyResult {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
		return VerifyResult{Status: TokenValid, Claims: claims}
	case errors.Is(err, jwt.ErrTokenExpired):
		return VerifyResult{Status: TokenExpired, Reason: "Token has expired"}
	default:
		return VerifyResult{Status: TokenInvalid, Reason: "Invalid token"}
	}
}
