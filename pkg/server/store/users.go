package store

import (
	"errors"

	"github.com/carevault/carevault/pkg/model"
)

// ErrDuplicateUsername is returned by CreateUser when the username is
// already registered, including races lost against a concurrent signup.
var ErrDuplicateUsername = errors.New("username already exists")

// UsersStore abstracts user account storage operations
type UsersStore interface {
	// GetByUsername retrieves a user by username
	GetByUsername(username string) (*model.User, error)

	// GetByID retrieves a user by primary key
	GetByID(id uint) (*model.User, error)

	// CreateUser persists a new user
	CreateUser(user *model.User) error

	// UpdatePassword replaces the stored password hash for a user
	UpdatePassword(userID uint, passwordHash []byte) error

	// UsernameTaken checks whether a username is already registered
	UsernameTaken(username string) bool
}
