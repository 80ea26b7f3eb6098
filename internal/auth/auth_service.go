package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	"go-leave/internal/notification"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	verificationTokenBytes = 32
	verificationTokenTTL   = 24 * time.Hour

	nameMinLen = 2
	nameMaxLen = 50
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	VerifyEmail(ctx context.Context, token string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	GetMe(ctx context.Context, userID string) (UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserResponse, error)
}

type Config struct {
	JWTSecret      string
	JWTExpire      time.Duration
	FrontendURL    string
	DefaultBalance domain.Balance
}

type service struct {
	repo       Repository
	dispatcher notification.Dispatcher
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, dispatcher notification.Dispatcher, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, dispatcher: dispatcher, cfg: cfg, logger: l, now: time.Now}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	email := normalizeEmail(req.Email)
	s.logger.Debug("register requested", zap.String("email", email))

	name, err := cleanName(req.Name)
	if err != nil {
		return UserResponse{}, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("register lookup failed", zap.Error(err))
		return UserResponse{}, err
	}
	if existing != nil {
		return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}
	token, err := newVerificationToken()
	if err != nil {
		return UserResponse{}, err
	}
	expires := s.now().Add(verificationTokenTTL)

	user := &User{
		ID:                       uuid.New(),
		Name:                     name,
		Email:                    email,
		Password:                 string(hashed),
		Role:                     domain.RoleEmployee,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
		SickLeaveBalance:         s.cfg.DefaultBalance.Sick,
		CasualLeaveBalance:       s.cfg.DefaultBalance.Casual,
		VacationLeaveBalance:     s.cfg.DefaultBalance.Vacation,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return UserResponse{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	s.dispatcher.Dispatch(ctx, notification.Notice{
		Email: &notification.EmailRequest{
			Template: events.TemplateVerifyEmail,
			Subject:  "Verify your email address",
			To:       []string{user.Email},
			Data: map[string]any{
				"Name":      user.Name,
				"VerifyURL": s.verifyURL(token),
			},
		},
	})

	return mapToResponse(*user), nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) (AuthResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AuthResult{}, autherrors.ErrVerificationTokenRequired
	}

	user, err := s.repo.GetByVerificationToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("verify email with invalid or expired token")
			return AuthResult{}, autherrors.ErrInvalidVerificationToken
		}
		return AuthResult{}, err
	}

	if err := s.repo.MarkEmailVerified(ctx, user.ID); err != nil {
		s.logger.Error("verify email persist failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return AuthResult{}, err
	}
	s.logger.Info("email verified", zap.String("user_id", user.ID.String()))

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil

	return s.authResult(*user)
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
		}
		return AuthResult{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("login with wrong password", zap.String("user_id", user.ID.String()))
		return AuthResult{}, autherrors.ErrInvalidCredentials
	}

	return s.authResult(*user)
}

func (s *service) GetMe(ctx context.Context, userID string) (UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}

	var changes ProfileChanges
	if req.Name != nil {
		name, err := cleanName(*req.Name)
		if err != nil {
			return UserResponse{}, err
		}
		changes.Name = &name
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return UserResponse{}, autherrors.ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return UserResponse{}, autherrors.ErrCurrentPasswordIncorrect
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		pw := string(hashed)
		changes.Password = &pw
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, changes); err != nil {
		s.logger.Error("update profile persist failed", zap.String("user_id", userID), zap.Error(err))
		return UserResponse{}, err
	}
	s.logger.Info("profile updated", zap.String("user_id", userID))

	// Re-read so the response carries balances committed since the first read.
	updated, err := s.findUser(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*updated), nil
}

func (s *service) findUser(ctx context.Context, userID string) (*User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) authResult(user User) (AuthResult, error) {
	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return AuthResult{}, autherrors.ErrTokenGenerationFailed
	}
	return AuthResult{Token: token, User: mapToResponse(user)}, nil
}

func (s *service) generateToken(user User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":        user.ID.String(),
		"role":           string(user.Role),
		"email_verified": user.IsEmailVerified,
		"iat":            now.Unix(),
		"exp":            now.Add(s.cfg.JWTExpire).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *service) verifyURL(token string) string {
	return strings.TrimRight(s.cfg.FrontendURL, "/") + "/verify-email?token=" + url.QueryEscape(token)
}

func newVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n < nameMinLen:
		return "", autherrors.ErrNameTooShort
	case n > nameMaxLen:
		return "", autherrors.ErrNameTooLong
	}
	return name, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:              u.ID.String(),
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		IsEmailVerified: u.IsEmailVerified,
		LeaveBalance:    u.Balance(),
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
}
