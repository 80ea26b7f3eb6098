package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	authMock "go-leave/internal/auth/mock"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	"go-leave/internal/notification"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-at-least-16"

type recordingDispatcher struct {
	notices []notification.Notice
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n notification.Notice) {
	d.notices = append(d.notices, n)
}

func testConfig() auth.Config {
	return auth.Config{
		JWTSecret:   testSecret,
		JWTExpire:   time.Hour,
		FrontendURL: "http://localhost:3000/",
		DefaultBalance: domain.Balance{
			Sick:     decimal.NewFromInt(10),
			Casual:   decimal.NewFromInt(5),
			Vacation: decimal.NewFromInt(5),
		},
	}
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	pw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(pw)
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores hash and dispatches verification email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		dispatcher := &recordingDispatcher{}
		svc := auth.NewService(repo, dispatcher, testConfig())

		var created *auth.User
		repo.EXPECT().GetByEmail(ctx, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *auth.User) error {
			created = u
			return nil
		})

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     " Jane ",
			Email:    "Jane@Example.com",
			Password: "secret1",
		})

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", resp.Email)
		assert.Equal(t, "Jane", resp.Name)
		assert.Equal(t, "employee", resp.Role)
		assert.False(t, resp.IsEmailVerified)
		assert.True(t, resp.LeaveBalance.Sick.Equal(decimal.NewFromInt(10)))

		require.NotNil(t, created)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret1")))
		require.NotNil(t, created.EmailVerificationToken)
		assert.Len(t, *created.EmailVerificationToken, 64)
		require.NotNil(t, created.EmailVerificationExpires)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), *created.EmailVerificationExpires, time.Minute)

		require.Len(t, dispatcher.notices, 1)
		email := dispatcher.notices[0].Email
		require.NotNil(t, email)
		assert.Equal(t, events.TemplateVerifyEmail, email.Template)
		assert.Equal(t, []string{"jane@example.com"}, email.To)
		verifyURL := email.Data["VerifyURL"].(string)
		assert.True(t, strings.HasPrefix(verifyURL, "http://localhost:3000/verify-email?token="))
		assert.True(t, strings.HasSuffix(verifyURL, *created.EmailVerificationToken))
	})

	t.Run("existing email is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		dispatcher := &recordingDispatcher{}
		svc := auth.NewService(repo, dispatcher, testConfig())

		repo.EXPECT().GetByEmail(ctx, "jane@example.com").Return(&auth.User{ID: uuid.New()}, nil)

		_, err := svc.Register(ctx, auth.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
		assert.Empty(t, dispatcher.notices)
	})

	t.Run("unique violation on insert maps to conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
		repo.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{Code: "23505"})

		_, err := svc.Register(ctx, auth.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("name is validated after trimming", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := auth.NewService(authMock.NewMockRepository(ctrl), &recordingDispatcher{}, testConfig())

		_, err := svc.Register(ctx, auth.RegisterRequest{Name: " a ", Email: "a@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, autherrors.ErrNameTooShort)

		_, err = svc.Register(ctx, auth.RegisterRequest{Name: strings.Repeat("x", 51), Email: "a@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, autherrors.ErrNameTooLong)
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		dbErr := errors.New("connection refused")
		repo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(nil, dbErr)

		_, err := svc.Register(ctx, auth.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	user := &auth.User{
		ID:              uuid.New(),
		Name:            "Manny",
		Email:           "manager@example.com",
		Password:        hashed(t, "password123"),
		Role:            domain.RoleManager,
		IsEmailVerified: true,
	}

	t.Run("success issues token with claims", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)

		result, err := svc.Login(ctx, "Manager@Example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.Email, result.User.Email)

		claims := parseClaims(t, result.Token)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, "manager", claims["role"])
		assert.Equal(t, true, claims["email_verified"])
		assert.Contains(t, claims, "exp")
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)

		_, err := svc.Login(ctx, user.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_VerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := auth.NewService(authMock.NewMockRepository(ctrl), &recordingDispatcher{}, testConfig())

		_, err := svc.VerifyEmail(ctx, "  ")
		assert.ErrorIs(t, err, autherrors.ErrVerificationTokenRequired)
	})

	t.Run("invalid or expired token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByVerificationToken(ctx, "stale", gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.VerifyEmail(ctx, "stale")
		assert.ErrorIs(t, err, autherrors.ErrInvalidVerificationToken)
	})

	t.Run("success clears token and returns verified jwt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		token := "abc123"
		expires := time.Now().Add(time.Hour)
		user := &auth.User{
			ID:                       uuid.New(),
			Email:                    "jane@example.com",
			Role:                     domain.RoleEmployee,
			EmailVerificationToken:   &token,
			EmailVerificationExpires: &expires,
		}

		repo.EXPECT().GetByVerificationToken(ctx, token, gomock.Any()).Return(user, nil)
		repo.EXPECT().MarkEmailVerified(ctx, user.ID).Return(nil)

		result, err := svc.VerifyEmail(ctx, token)
		require.NoError(t, err)
		assert.True(t, result.User.IsEmailVerified)
		assert.Equal(t, true, parseClaims(t, result.Token)["email_verified"])
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := auth.NewService(authMock.NewMockRepository(ctrl), &recordingDispatcher{}, testConfig())

		_, err := svc.GetMe(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		id := uuid.New()
		repo.EXPECT().GetByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetMe(ctx, id.String())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})

	t.Run("returns balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		id := uuid.New()
		repo.EXPECT().GetByID(ctx, id).Return(&auth.User{
			ID:                 id,
			Role:               domain.RoleEmployee,
			CasualLeaveBalance: decimal.RequireFromString("2.5"),
		}, nil)

		resp, err := svc.GetMe(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, "2.5", resp.LeaveBalance.Casual.String())
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	newUser := func(t *testing.T) *auth.User {
		return &auth.User{ID: id, Name: "Old", Password: hashed(t, "current1"), Role: domain.RoleEmployee}
	}

	t.Run("name only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		name := "  New Name "
		saved := newUser(t)
		saved.Name = "New Name"
		saved.SickLeaveBalance = decimal.NewFromInt(2)

		repo.EXPECT().GetByID(ctx, id).Return(newUser(t), nil)
		repo.EXPECT().UpdateProfile(ctx, id, gomock.Any()).DoAndReturn(func(_ context.Context, _ uuid.UUID, c auth.ProfileChanges) error {
			require.NotNil(t, c.Name)
			assert.Equal(t, "New Name", *c.Name)
			assert.Nil(t, c.Password)
			return nil
		})
		repo.EXPECT().GetByID(ctx, id).Return(saved, nil)

		resp, err := svc.UpdateProfile(ctx, id.String(), auth.UpdateProfileRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "New Name", resp.Name)
		assert.True(t, resp.LeaveBalance.Sick.Equal(decimal.NewFromInt(2)))
	})

	t.Run("trimmed name too short", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		name := " a "
		repo.EXPECT().GetByID(ctx, id).Return(newUser(t), nil)

		_, err := svc.UpdateProfile(ctx, id.String(), auth.UpdateProfileRequest{Name: &name})
		assert.ErrorIs(t, err, autherrors.ErrNameTooShort)
	})

	t.Run("new password without current", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByID(ctx, id).Return(newUser(t), nil)

		_, err := svc.UpdateProfile(ctx, id.String(), auth.UpdateProfileRequest{NewPassword: "another1"})
		assert.ErrorIs(t, err, autherrors.ErrCurrentPasswordRequired)
	})

	t.Run("new password with wrong current", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByID(ctx, id).Return(newUser(t), nil)

		_, err := svc.UpdateProfile(ctx, id.String(), auth.UpdateProfileRequest{
			CurrentPassword: "nope",
			NewPassword:     "another1",
		})
		assert.ErrorIs(t, err, autherrors.ErrCurrentPasswordIncorrect)
	})

	t.Run("password change", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := authMock.NewMockRepository(ctrl)
		svc := auth.NewService(repo, &recordingDispatcher{}, testConfig())

		repo.EXPECT().GetByID(ctx, id).Return(newUser(t), nil).Times(2)
		repo.EXPECT().UpdateProfile(ctx, id, gomock.Any()).DoAndReturn(func(_ context.Context, _ uuid.UUID, c auth.ProfileChanges) error {
			assert.Nil(t, c.Name)
			require.NotNil(t, c.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*c.Password), []byte("another1")))
			return nil
		})

		_, err := svc.UpdateProfile(ctx, id.String(), auth.UpdateProfileRequest{
			CurrentPassword: "current1",
			NewPassword:     "another1",
		})
		assert.NoError(t, err)
	})
}
