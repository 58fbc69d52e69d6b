package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken    = errors.New("username already exists")
	ErrUsernameRequired = errors.New("username is required")
	ErrInvalidRole      = errors.New("role is not a known division")
	ErrLastOwner        = errors.New("the last Owner account cannot be removed or demoted")
	ErrSelfDelete       = errors.New("users cannot delete their own account")
)

// UserService handles account administration.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUserInput represents the fields for creating an account.
type CreateUserInput struct {
	Username    string
	Password    string
	Role        models.Division
	DisplayName string
	Email       string
	Phone       string
}

// CreateUser creates an account with a hashed password.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !input.Role.IsRole() {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         input.Role,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListUsersInput represents filters for listing accounts.
type ListUsersInput struct {
	Role     *models.Division
	Search   *string
	Page     int
	PageSize int
}

// ListUsers returns accounts matching the filters.
func (s *UserService) ListUsers(input ListUsersInput) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(repository.UserFilter{
		Role:     input.Role,
		Search:   input.Search,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser retrieves one account.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateUserInput represents the mutable account fields. Nil pointers leave
// the current value in place.
type UpdateUserInput struct {
	Role        *models.Division
	DisplayName *string
	Email       *string
	Phone       *string
	Password    *string
}

// UpdateUser applies the requested account changes.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && *input.Role != user.Role {
		if !input.Role.IsRole() {
			return nil, ErrInvalidRole
		}
		if user.Role == models.DivisionOwner {
			if err := s.ensureNotLastOwner(user.ID); err != nil {
				return nil, err
			}
		}
		user.Role = *input.Role
	}
	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes an account. The caller cannot remove itself, and the
// last Owner always survives.
func (s *UserService) DeleteUser(id, actorID uint64) error {
	if id == actorID {
		return ErrSelfDelete
	}

	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if user.Role == models.DivisionOwner {
		if err := s.ensureNotLastOwner(user.ID); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *UserService) ensureNotLastOwner(userID uint64) error {
	owners, err := s.userRepo.ListByRoles([]models.Division{models.DivisionOwner})
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	for _, owner := range owners {
		if owner.ID != userID {
			return nil
		}
	}
	return ErrLastOwner
}
