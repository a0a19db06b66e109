package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

const defaultTokenTTL = 48 * time.Hour

// AuthService implements registration, login, and token verification.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a new account. Admins are approved immediately; farmers
// and buyers wait for admin moderation.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" || in.FirstName == "" {
		return nil, fmt.Errorf("%w: email, password and first name are required", domain.ErrValidation)
	}
	if !domain.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: role must be farmer, buyer or admin", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           in.Role,
		ApprovalStatus: domain.InitialApprovalStatus(in.Role),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Location:       in.Location,
		Phone:          in.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Str("role", created.Role).
		Str("approval", string(created.ApprovalStatus)).Msg("user registered")
	return created, nil
}

// Login authenticates by email and password. Accounts still pending or
// already rejected cannot obtain a token even with correct credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	switch user.ApprovalStatus {
	case domain.ApprovalPending:
		metrics.LoginsTotal.WithLabelValues("pending").Inc()
		return "", nil, domain.ErrAccountPending
	case domain.ApprovalRejected:
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrAccountRejected
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("login succeeded")
	return token, user, nil
}

// VerifyToken resolves a bearer token to the current user record. The user
// is re-fetched from the store so role and approval changes take effect
// immediately instead of trusting stale claims. Any verification failure
// yields (nil, nil): the request proceeds anonymously.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, nil
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.FullName(),
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
