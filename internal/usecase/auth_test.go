package usecase_test

import (
	"context"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func TestRegisterUserHashesPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)

	var saved *entity.User
	userRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*entity.User)
	}).Return(nil)

	uc := usecase.NewRegisterUserUseCase(userRepo)

	output, err := uc.Execute(ctx, usecase.RegisterUserInput{
		Email:    "jane@example.com",
		Password: "s3nh4-forte",
	})

	assert.NoError(t, err)
	assert.Equal(t, "jane@example.com", output.Email)
	assert.NotEmpty(t, output.ID)

	// Senha nunca vai em texto puro para o banco
	assert.NotEqual(t, "s3nh4-forte", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("s3nh4-forte")))
}

func TestRegisterUserRejectsInvalidEmail(t *testing.T) {
	uc := usecase.NewRegisterUserUseCase(new(MockUserRepository))

	_, err := uc.Execute(context.Background(), usecase.RegisterUserInput{
		Email:    "not-an-email",
		Password: "x",
	})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeBadPayload, usecase.DomainCode(err))
}

func TestRegisterUserEmailTaken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("Create", ctx, mock.Anything).Return(entity.ErrEmailAlreadyExists)

	uc := usecase.NewRegisterUserUseCase(userRepo)

	_, err := uc.Execute(ctx, usecase.RegisterUserInput{
		Email:    "jane@example.com",
		Password: "x",
	})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeEmailTaken, usecase.DomainCode(err))
}

func TestLoginUserIssuesJWT(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh4-forte"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", ctx, "jane@example.com").Return(&entity.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}, nil)

	uc := usecase.NewLoginUserUseCase(userRepo, "segredo-de-teste")

	output, err := uc.Execute(ctx, usecase.LoginUserInput{
		Email:    "jane@example.com",
		Password: "s3nh4-forte",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.Token)

	parsed, err := jwt.Parse(output.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("segredo-de-teste"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "jane@example.com", claims["email"])
}

func TestLoginUserWrongPassword(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("certa"), bcrypt.DefaultCost)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", ctx, "jane@example.com").Return(&entity.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
	}, nil)

	uc := usecase.NewLoginUserUseCase(userRepo, "segredo-de-teste")

	_, err := uc.Execute(ctx, usecase.LoginUserInput{
		Email:    "jane@example.com",
		Password: "errada",
	})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeInvalidCredentials, usecase.DomainCode(err))
}

func TestLoginUserUnknownEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)

	uc := usecase.NewLoginUserUseCase(userRepo, "segredo-de-teste")

	_, err := uc.Execute(ctx, usecase.LoginUserInput{
		Email:    "ghost@example.com",
		Password: "qualquer",
	})

	assert.Error(t, err)
	assert.Equal(t, usecase.CodeInvalidCredentials, usecase.DomainCode(err))
}
