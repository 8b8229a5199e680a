package service

import (
	"errors"
	"testing"

	"room-booking-backend/internal/models"
	"room-booking-backend/pkg/utils"
)

type stubUserStore struct {
	users    map[uint]*models.User
	profiles map[uint]*models.Profile
	tokens   map[string]*models.RefreshToken
	nextID   uint
	deleted  []uint
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		users:    make(map[uint]*models.User),
		profiles: make(map[uint]*models.Profile),
		tokens:   make(map[string]*models.RefreshToken),
	}
}

func (s *stubUserStore) addUser(username, password string, staff bool) *models.User {
	hash, _ := utils.HashPassword(password)
	s.nextID++
	user := &models.User{
		ID:           s.nextID,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      staff,
	}
	s.users[user.ID] = user
	return user
}

func (s *stubUserStore) FindUserByUsername(username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubUserStore) FindUserByID(id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetAllUsers() ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserStore) CreateUser(user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return nil
}

func (s *stubUserStore) UpdateUser(user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserStore) DeleteUser(id uint) error {
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubUserStore) UpsertProfile(profile *models.Profile) error {
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *stubUserStore) CreateRefreshToken(token *models.RefreshToken) error {
	s.tokens[token.TokenHash] = token
	return nil
}

func (s *stubUserStore) FindRefreshTokenByHash(hash string) (*models.RefreshToken, error) {
	token, ok := s.tokens[hash]
	if !ok || token.Revoked {
		return nil, ErrNotFound
	}
	return token, nil
}

func (s *stubUserStore) RevokeRefreshTokenByHash(hash string) error {
	if token, ok := s.tokens[hash]; ok {
		token.Revoked = true
	}
	return nil
}

func TestUserAdminRequiresStaff(t *testing.T) {
	store := newStubUserStore()
	store.addUser("alice", "pw", false)
	svc := NewUserService(store, &stubAudit{})
	actor := models.Actor{ID: 1}

	if _, err := svc.GetAllUsers(actor); !errors.Is(err, ErrPermission) {
		t.Errorf("GetAllUsers error = %v, want ErrPermission", err)
	}
	if _, err := svc.CreateUser(actor, CreateUserInput{Username: "x", Password: "y"}); !errors.Is(err, ErrPermission) {
		t.Errorf("CreateUser error = %v, want ErrPermission", err)
	}
	if err := svc.DeleteUser(actor, 1); !errors.Is(err, ErrPermission) {
		t.Errorf("DeleteUser error = %v, want ErrPermission", err)
	}
}

func TestCreateUserWithProfile(t *testing.T) {
	store := newStubUserStore()
	admin := store.addUser("root", "pw", true)
	svc := NewUserService(store, &stubAudit{})
	actor := models.Actor{ID: admin.ID, Staff: true}

	user, err := svc.CreateUser(actor, CreateUserInput{
		Username: "carol", Email: "carol@example.com", Password: "secret", Phone: "555-0101",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Error("password stored without hashing")
	}
	if store.profiles[user.ID] == nil || store.profiles[user.ID].Phone != "555-0101" {
		t.Error("profile phone not saved")
	}

	if _, err := svc.CreateUser(actor, CreateUserInput{Username: "carol", Password: "x"}); err == nil {
		t.Error("duplicate username accepted")
	}
}

func TestDeleteStaffUserRefused(t *testing.T) {
	store := newStubUserStore()
	admin := store.addUser("root", "pw", true)
	other := store.addUser("root2", "pw", true)
	member := store.addUser("alice", "pw", false)
	svc := NewUserService(store, &stubAudit{})
	actor := models.Actor{ID: admin.ID, Staff: true}

	if err := svc.DeleteUser(actor, other.ID); err == nil {
		t.Error("deleting a staff account must be refused")
	}
	if _, ok := store.users[other.ID]; !ok {
		t.Error("staff account was removed despite refusal")
	}

	if err := svc.DeleteUser(actor, member.ID); err != nil {
		t.Errorf("deleting a member failed: %v", err)
	}
}

func TestUpdateUserPartialPatch(t *testing.T) {
	store := newStubUserStore()
	admin := store.addUser("root", "pw", true)
	member := store.addUser("alice", "pw", false)
	oldHash := member.PasswordHash
	svc := NewUserService(store, &stubAudit{})
	actor := models.Actor{ID: admin.ID, Staff: true}

	staff := true
	user, err := svc.UpdateUser(actor, member.ID, UpdateUserInput{Email: "new@example.com", IsStaff: &staff})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if user.Email != "new@example.com" || !user.IsStaff {
		t.Errorf("patch not applied: email=%q staff=%v", user.Email, user.IsStaff)
	}
	if user.PasswordHash != oldHash {
		t.Error("empty password input must leave the hash unchanged")
	}
}
