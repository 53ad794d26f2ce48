package usecase

import (
	"context"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type RegisterUserUseCase struct {
	UserRepo entity.UserRepositoryInterface
}

func NewRegisterUserUseCase(userRepo entity.UserRepositoryInterface) *RegisterUserUseCase {
	return &RegisterUserUseCase{UserRepo: userRepo}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, &DomainError{
			Code:    CodeBadPayload,
			Message: "email and password are required",
		}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &DomainError{
			Code:    CodeBadPayload,
			Message: "email is invalid",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodePersistenceFailure,
			Message: "falha ao gerar hash de senha: " + err.Error(),
		}
	}

	user := entity.NewUser(email, string(hash))
	if err := uc.UserRepo.Create(ctx, user); err != nil {
		if err == entity.ErrEmailAlreadyExists {
			return nil, &DomainError{
				Code:    CodeEmailTaken,
				Message: "email already registered",
			}
		}
		return nil, &TechnicalError{
			Code:    CodePersistenceFailure,
			Message: "falha ao salvar usuário: " + err.Error(),
		}
	}

	return &RegisterUserOutput{ID: user.ID, Email: user.Email}, nil
}
