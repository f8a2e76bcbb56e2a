package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mt5crm/backoffice/internal/config"
	"github.com/mt5crm/backoffice/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// LoginRequest represents the login request payload
// @Description Operator login request
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64" example:"jane"`
	Password string `json:"password" validate:"required,min=6" example:"password123"`
}

// AuthResponse represents the authentication response
// @Description Authentication response structure
type AuthResponse struct {
	Token     string          `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time       `json:"expiresAt"`
	Operator  models.Operator `json:"operator"`
}

// OperatorClaims is the verified content of an operator token.
type OperatorClaims struct {
	OperatorID int64
	Username   string
	Name       string
	TokenID    string
	ExpiresAt  time.Time
}

type AuthService struct {
	db     *sql.DB
	redis  *redis.Client
	jwt    config.JWTConfig
	argon2 config.Argon2Config
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthService(db *sql.DB, redisClient *redis.Client, jwtCfg config.JWTConfig, argonCfg config.Argon2Config, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if jwtCfg.ExpiryHours <= 0 {
		jwtCfg.ExpiryHours = 12
	}
	return &AuthService{
		db:     db,
		redis:  redisClient,
		jwt:    jwtCfg,
		argon2: argonCfg,
		logger: logger.With(zap.String("component", "auth")),
		now:    time.Now,
	}
}

// Authenticate resolves an operator by username and password. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Operator, error) {
	var (
		op   models.Operator
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT id, username, display_name, password_hash, created_at, updated_at
        FROM admin_operators
        WHERE username = $1`, strings.TrimSpace(username)).
		Scan(&op.ID, &op.Username, &op.DisplayName, &hash, &op.CreatedAt, &op.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Info("login rejected, unknown operator", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load operator: %w", err)
	}

	if !VerifyPassword(password, hash, s.argon2) {
		s.logger.Info("login rejected, wrong password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	return &op, nil
}

// IssueToken signs an HS256 token for op.
func (s *AuthService) IssueToken(op *models.Operator) (string, time.Time, error) {
	if s.jwt.SecretKey == "" {
		return "", time.Time{}, errors.New("jwt secret key is not configured")
	}

	expiresAt := s.now().Add(time.Duration(s.jwt.ExpiryHours) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatInt(op.ID, 10),
		"username": op.Username,
		"operator": op.DisplayName,
		"jti":      uuid.NewString(),
		"iat":      s.now().Unix(),
		"exp":      expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(s.jwt.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies the signature and expiry of tokenString and rejects
// tokens revoked by Logout. Revocation is not checked without Redis.
func (s *AuthService) ParseToken(ctx context.Context, tokenString string) (*OperatorClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(s.jwt.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &OperatorClaims{}
	claims.Username, _ = mc["username"].(string)
	claims.Name, _ = mc["operator"].(string)
	claims.TokenID, _ = mc["jti"].(string)
	if sub, _ := mc["sub"].(string); sub != "" {
		claims.OperatorID, _ = strconv.ParseInt(sub, 10, 64)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if claims.TokenID == "" || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	if s.redis != nil {
		n, err := s.redis.Exists(ctx, blacklistKey(claims.TokenID)).Result()
		if err != nil {
			s.logger.Warn("token blacklist unavailable", zap.Error(err))
		} else if n > 0 {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (s *AuthService) Revoke(ctx context.Context, claims *OperatorClaims) error {
	if s.redis == nil || claims == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, blacklistKey(claims.TokenID), "1", ttl).Err()
}

// UpsertOperator creates an operator or resets an existing one's display name
// and password.
func (s *AuthService) UpsertOperator(ctx context.Context, username, displayName, password string) (*models.Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}

	hash, err := HashPassword(password, s.argon2)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var op models.Operator
	err = s.db.QueryRowContext(ctx, `
        INSERT INTO admin_operators (username, display_name, password_hash)
        VALUES ($1, $2, $3)
        ON CONFLICT (username) DO UPDATE
        SET display_name = EXCLUDED.display_name,
            password_hash = EXCLUDED.password_hash,
            updated_at = CURRENT_TIMESTAMP
        RETURNING id, username, display_name, created_at, updated_at`,
		username, displayName, hash).
		Scan(&op.ID, &op.Username, &op.DisplayName, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save operator: %w", err)
	}

	s.logger.Info("operator saved", zap.String("username", op.Username), zap.Int64("id", op.ID))
	return &op, nil
}

func blacklistKey(tokenID string) string {
	return "blacklist:" + tokenID
}
