package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/internal/core/ports/mocks"
	"art-marketplace/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthService(t *testing.T) (
	*AuthServiceImpl,
	*mocks.MockUserRepository,
	*mocks.MockHashService,
	*mocks.MockTokenService,
) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	hashSvc := mocks.NewMockHashService(ctrl)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	svc := NewAuthService(userRepo, hashSvc, tokenSvc, zerolog.Nop())
	return svc, userRepo, hashSvc, tokenSvc
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, userRepo, hashSvc, _ := setupAuthService(t)
	ctx := context.Background()

	userRepo.EXPECT().GetByEmail(ctx, "tunde@example.org").Return(nil, nil)
	hashSvc.EXPECT().Hash("StrongP@ss123").Return("$argon2id$hashed", nil)
	userRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
		assert.Equal(t, "$argon2id$hashed", u.PasswordHash)
		return nil
	})

	user, err := svc.Register(ctx, ports.RegisterRequest{
		Email:    "  Tunde@Example.org ",
		Password: "StrongP@ss123",
		FullName: "Tunde Bello",
		Role:     domain.RoleArtist,
	})
	require.NoError(t, err)
	assert.Equal(t, "tunde@example.org", user.Email)
	assert.Equal(t, domain.RoleArtist, user.Role)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, userRepo, _, _ := setupAuthService(t)
	ctx := context.Background()

	userRepo.EXPECT().GetByEmail(ctx, "a@b.co").Return(&domain.User{Email: "a@b.co"}, nil)

	_, err := svc.Register(ctx, ports.RegisterRequest{Email: "a@b.co", Password: "x", Role: domain.RoleBuyer})
	assertAppError(t, err, "USR_001")
}

func TestAuthService_Register_RaceOnUniqueIndex(t *testing.T) {
	svc, userRepo, hashSvc, _ := setupAuthService(t)
	ctx := context.Background()

	userRepo.EXPECT().GetByEmail(ctx, "a@b.co").Return(nil, nil)
	hashSvc.EXPECT().Hash("x").Return("h", nil)
	userRepo.EXPECT().Create(ctx, gomock.Any()).Return(apperror.ErrUserExists())

	_, err := svc.Register(ctx, ports.RegisterRequest{Email: "a@b.co", Password: "x", Role: domain.RoleBuyer})
	assertAppError(t, err, "USR_001")
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Register(context.Background(), ports.RegisterRequest{Email: "a@b.co", Password: "x", Role: "curator"})
	assertAppError(t, err, "VAL_001")
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, hashSvc, tokenSvc := setupAuthService(t)
	ctx := context.Background()
	user := testUser(domain.RoleBuyer)
	user.PasswordHash = "stored"
	exp := time.Now().Add(time.Hour)

	userRepo.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil)
	hashSvc.EXPECT().Verify("pw", "stored").Return(true, nil)
	tokenSvc.EXPECT().Generate(user).Return("jwt-token", exp, nil)

	token, expiry, err := svc.Login(ctx, user.Email, "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, exp, expiry)
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		svc, userRepo, _, _ := setupAuthService(t)
		userRepo.EXPECT().GetByEmail(ctx, "ghost@example.org").Return(nil, nil)

		_, _, err := svc.Login(ctx, "ghost@example.org", "pw")
		assertAppError(t, err, "SEC_001")
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo, hashSvc, _ := setupAuthService(t)
		userRepo.EXPECT().GetByEmail(ctx, "a@b.co").Return(&domain.User{PasswordHash: "h"}, nil)
		hashSvc.EXPECT().Verify("bad", "h").Return(false, nil)

		_, _, err := svc.Login(ctx, "a@b.co", "bad")
		assertAppError(t, err, "SEC_001")
	})

	t.Run("store failure", func(t *testing.T) {
		svc, userRepo, _, _ := setupAuthService(t)
		userRepo.EXPECT().GetByEmail(ctx, "a@b.co").Return(nil, errors.New("db down"))

		_, _, err := svc.Login(ctx, "a@b.co", "pw")
		assertAppError(t, err, "SYS_001")
	})
}
