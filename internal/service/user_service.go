package service

import (
	"errors"
	"fmt"

	"room-booking-backend/internal/models"
	"room-booking-backend/pkg/utils"
)

// UserService covers the staff-only user administration screens:
// list, add, edit (including the optional profile) and delete.
type UserService struct {
	userStore UserStore
	audit     AuditLogger
}

func NewUserService(userStore UserStore, audit AuditLogger) *UserService {
	return &UserService{
		userStore: userStore,
		audit:     audit,
	}
}

// CreateUserInput carries the add-user form fields.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	IsStaff  bool
	Phone    string
}

// UpdateUserInput carries the edit-user form fields; empty strings
// leave the corresponding value unchanged.
type UpdateUserInput struct {
	Email    string
	Password string
	IsStaff  *bool
	Phone    string
}

// GetAllUsers lists every account for the admin screens (staff only)
func (s *UserService) GetAllUsers(actor models.Actor) ([]models.User, error) {
	if !actor.Staff {
		return nil, ErrPermission
	}
	return s.userStore.GetAllUsers()
}

// GetUser fetches a single account with profile (staff only)
func (s *UserService) GetUser(actor models.Actor, id uint) (*models.User, error) {
	if !actor.Staff {
		return nil, ErrPermission
	}
	return s.userStore.FindUserByID(id)
}

// CreateUser adds an account on behalf of an administrator
func (s *UserService) CreateUser(actor models.Actor, in CreateUserInput) (*models.User, error) {
	if !actor.Staff {
		return nil, ErrPermission
	}

	existing, err := s.userStore.FindUserByUsername(in.Username)
	if err == nil && existing != nil {
		return nil, errors.New("username already exists")
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		IsStaff:      in.IsStaff,
	}
	if err := s.userStore.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if in.Phone != "" {
		profile := &models.Profile{UserID: user.ID, Phone: in.Phone}
		if err := s.userStore.UpsertProfile(profile); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
		user.Profile = profile
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "user_created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"is_staff": user.IsStaff,
	})

	return user, nil
}

// UpdateUser edits an account and its profile phone number
func (s *UserService) UpdateUser(actor models.Actor, id uint, in UpdateUserInput) (*models.User, error) {
	if !actor.Staff {
		return nil, ErrPermission
	}

	user, err := s.userStore.FindUserByID(id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Password != "" {
		passwordHash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}
	if in.IsStaff != nil {
		user.IsStaff = *in.IsStaff
	}

	if err := s.userStore.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if in.Phone != "" {
		profile := &models.Profile{UserID: user.ID, Phone: in.Phone}
		if user.Profile != nil {
			profile.EmailAddress = user.Profile.EmailAddress
		}
		if err := s.userStore.UpsertProfile(profile); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
		user.Profile = profile
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "user_updated", map[string]interface{}{"user_id": user.ID})

	return user, nil
}

// DeleteUser removes an account. Deleting another staff account is
// refused, matching the original admin screens.
func (s *UserService) DeleteUser(actor models.Actor, id uint) error {
	if !actor.Staff {
		return ErrPermission
	}

	user, err := s.userStore.FindUserByID(id)
	if err != nil {
		return err
	}
	if user.IsStaff {
		return errors.New("cannot delete another admin")
	}

	if err := s.userStore.DeleteUser(id); err != nil {
		return err
	}

	actorID := actor.ID
	_ = s.audit.CreateAuditLog(&actorID, "user_deleted", map[string]interface{}{"user_id": id})
	return nil
}
