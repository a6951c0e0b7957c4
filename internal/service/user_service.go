package service

import (
	"context"
	"errors"
	"strings"

	"queentouch/internal/models"
	"queentouch/internal/repository"
	"queentouch/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles account registration, authentication and profile
// updates.
type UserService struct {
	userRepo repository.UserRepository
}

type SignupInput struct {
	Email    string
	Name     string
	Password string
}

type UpdateProfileInput struct {
	UserID   uint
	Name     string
	Password string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Signup registers a new account with the default role and no tier.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDisplayName(strings.TrimSpace(in.Name)); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, models.NewConflictError("An account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Name:     strings.TrimSpace(in.Name),
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the stored user. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthenticatedError("Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthenticatedError("Invalid email or password")
	}
	return user, nil
}

// GetByID fetches a user by primary key.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the display name and optionally the password.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if err := validation.ValidateDisplayName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = name
	}
	if in.Password != "" {
		if err := validation.ValidatePassword(in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Subscribe puts the user on a membership tier. Tier changes take effect on
// the next issued token; existing tokens keep their snapshot until expiry.
func (s *UserService) Subscribe(ctx context.Context, userID uint, tier models.Tier) (*models.User, error) {
	switch tier {
	case models.TierBronze, models.TierSilver, models.TierGold:
	default:
		return nil, models.NewValidationError("unknown membership tier")
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateTier(ctx, user.ID, tier); err != nil {
		return nil, err
	}
	user.Tier = tier
	if user.Role == models.RoleUser {
		user.Role = models.RoleMember
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}
