package service

import (
	"context"
	"errors"

	"ratehub/internal/httpapi/dto"
	"ratehub/internal/httpapi/models"
	"ratehub/internal/httpapi/repository"
	"ratehub/internal/validator"

	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("role must be one of: user, moderator, admin")

type UserService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error) {
	fieldErrs := FieldErrors{}
	if err := validator.Username(in.Username); err != nil {
		fieldErrs.Add("username", err)
	}

	role := models.RoleUser
	if in.Role != "" {
		role = models.Role(in.Role)
		if !role.Valid() {
			fieldErrs.Add("role", ErrInvalidRole)
		}
	}

	if err := s.checkUnique(ctx, in.Username, in.Email, "", fieldErrs); err != nil {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Role:      role,
		Bio:       in.Bio,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapUserUniqueError(err)
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// Update applies partial changes. Role changes require allowRoleChange,
// which handlers grant only on the admin path, never on /users/me.
func (s *userService) Update(ctx context.Context, username string, in dto.UpdateUserDTO, allowRoleChange bool) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	fieldErrs := FieldErrors{}
	if in.Username != nil && *in.Username != user.Username {
		if err := validator.Username(*in.Username); err != nil {
			fieldErrs.Add("username", err)
		}
		if err := s.checkUnique(ctx, *in.Username, "", user.ID, fieldErrs); err != nil {
			return nil, err
		}
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		if err := s.checkUnique(ctx, "", *in.Email, user.ID, fieldErrs); err != nil {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.Role != nil {
		if !allowRoleChange {
			return nil, ErrForbidden
		}
		role := models.Role(*in.Role)
		if !role.Valid() {
			fieldErrs.Add("role", ErrInvalidRole)
		} else {
			user.Role = role
		}
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, mapUserUniqueError(err)
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	return s.userRepo.Delete(ctx, username)
}

// checkUnique looks up username/email conflicts, ignoring records owned by
// excludeID (the user being updated). Empty values are skipped.
func (s *userService) checkUnique(ctx context.Context, username, email, excludeID string, fieldErrs FieldErrors) error {
	if username != "" {
		existing, err := s.userRepo.FindByUsername(ctx, username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.ID != excludeID {
			fieldErrs.Add("username", ErrUsernameInUse)
		}
	}
	if email != "" {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.ID != excludeID {
			fieldErrs.Add("email", ErrEmailInUse)
		}
	}
	return nil
}

// mapUserUniqueError converts constraint sentinels raised by the storage
// layer into the canonical validation errors.
func mapUserUniqueError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		fieldErrs := FieldErrors{}
		fieldErrs.Add("username", ErrUsernameInUse)
		return fieldErrs
	case errors.Is(err, repository.ErrDuplicateEmail):
		fieldErrs := FieldErrors{}
		fieldErrs.Add("email", ErrEmailInUse)
		return fieldErrs
	}
	return err
}
