package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// Claims represents the custom JWT claims used by the application.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// JWTService handles generation, validation, and revocation of session tokens.
type JWTService struct {
	secret   []byte
	issuer   string
	duration time.Duration
	cache    ports.Cache
	log      *zap.Logger
	now      func() time.Time
}

func NewJWTService(secret, issuer string, duration time.Duration, cache ports.Cache, log *zap.Logger) *JWTService {
	log.Info("JWT service initialized",
		zap.Duration("expires_in", duration),
	)

	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		duration: duration,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

func (s *JWTService) Duration() time.Duration {
	return s.duration
}

// GenerateToken signs an HS256 token carrying sub, role, jti and exp.
func (s *JWTService) GenerateToken(user *domain.User) (string, time.Time, error) {
	jti := uuid.New().String()
	now := s.now()
	expiresAt := now.Add(s.duration)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		Role: user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.log.Error("failed to sign token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Debug("token generated",
		zap.String("user_id", user.ID),
		zap.String("jti", jti),
	)

	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token string. Revocation is checked
// separately with IsTokenRevoked.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("token is missing sub or jti")
	}

	return claims, nil
}

func revokedKey(jti string) string {
	return fmt.Sprintf("revoked_token:%s", jti)
}

// RevokeToken blacklists the token's jti until the token would have expired.
func (s *JWTService) RevokeToken(ctx context.Context, claims *Claims) error {
	ttl := s.duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, revokedKey(claims.ID), "revoked", ttl); err != nil {
		s.log.Error("failed to revoke token",
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.log.Info("token revoked", zap.String("jti", claims.ID))
	return nil
}

// IsTokenRevoked reports whether jti was revoked. A cache miss or cache
// error counts as not revoked.
func (s *JWTService) IsTokenRevoked(ctx context.Context, jti string) bool {
	val, err := s.cache.Get(ctx, revokedKey(jti))
	if err != nil {
		return false
	}
	return val == "revoked"
}
