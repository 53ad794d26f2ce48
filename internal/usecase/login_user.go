package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type LoginUserUseCase struct {
	UserRepo  entity.UserRepositoryInterface
	JWTSecret string
}

func NewLoginUserUseCase(userRepo entity.UserRepositoryInterface, jwtSecret string) *LoginUserUseCase {
	return &LoginUserUseCase{UserRepo: userRepo, JWTSecret: jwtSecret}
}

func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, &DomainError{
			Code:    CodeBadPayload,
			Message: "email and password are required",
		}
	}

	user, err := uc.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodePersistenceFailure,
			Message: "falha ao buscar usuário: " + err.Error(),
		}
	}
	if user == nil {
		return nil, &DomainError{
			Code:    CodeInvalidCredentials,
			Message: "invalid email or password",
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &DomainError{
			Code:    CodeInvalidCredentials,
			Message: "invalid email or password",
		}
	}

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(8 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(uc.JWTSecret))
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodePersistenceFailure,
			Message: "falha ao assinar token: " + err.Error(),
		}
	}

	return &LoginUserOutput{Token: signed}, nil
}
