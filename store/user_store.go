package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fmejia/bloggo/models"
	"github.com/fmejia/bloggo/utils"
)

// UserStore persists users and checks credentials.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore over the given database handle.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Register creates a user with a bcrypt password hash. The name check runs
// first so callers get ErrDuplicateUsername before any write; the unique index
// on username backstops the remaining check-then-insert window and the insert
// maps a duplicate-key failure to the same error.
func (s *UserStore) Register(username, password, email string) (*models.User, error) {
	if _, err := s.FindByName(username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate entry") {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

// FindByName looks a user up by exact username.
func (s *UserStore) FindByName(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate returns the user when the username exists and the password
// matches its bcrypt hash, ErrInvalidCredentials otherwise.
func (s *UserStore) Authenticate(username, password string) (*models.User, error) {
	user, err := s.FindByName(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
