package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

var validate = validator.New()

type CreateUserRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func ValidateCreateUserRequest(req *CreateUserRequest) error {
	if err := validate.Struct(req); err != nil {
		return internal.NewUnprocessableWithData(internal.CodeUnprocessable,
			"Name must be between 2 and 100 characters",
			map[string]any{"errors": fieldErrors(err)})
	}
	return nil
}

func fieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed on "+fe.Tag())
	}
	return msgs
}

func CreateUser(ctx context.Context, userRepo storage.UserRepository, req *CreateUserRequest, now time.Time) (*internal.User, error) {
	if err := ValidateCreateUserRequest(req); err != nil {
		return nil, err
	}
	user := &internal.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: now,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		return nil, internal.NewInternalError("Failed to create user")
	}
	return user, nil
}

// GetUser resolves a user id or fails with a NotFound AppError.
func GetUser(ctx context.Context, userRepo storage.UserRepository, id string) (*internal.User, error) {
	user, err := userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NewNotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}
