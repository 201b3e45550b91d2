package gorm

import (
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/carevault/carevault/pkg/model"
	"github.com/carevault/carevault/pkg/server/store"
)

// Postgres unique_violation error code
const uniqueViolationCode = "23505"

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// GetByUsername retrieves a user by username
func (s *UsersStore) GetByUsername(username string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("username = ?", username).First(&user)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &user, nil
}

// GetByID retrieves a user by primary key
func (s *UsersStore) GetByID(id uint) (*model.User, error) {
	var user model.User
	tx := s.db.Where("id = ?", id).First(&user)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &user, nil
}

// CreateUser persists a new user. The users.username unique index is the
// authority on duplicates; violations surface as store.ErrDuplicateUsername.
func (s *UsersStore) CreateUser(user *model.User) error {
	err := s.db.Create(user).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return store.ErrDuplicateUsername
	}
	return err
}

// UpdatePassword replaces the stored password hash for a user
func (s *UsersStore) UpdatePassword(userID uint, passwordHash []byte) error {
	tx := s.db.Model(&model.User{}).Where("id = ?", userID).
		Update("password_hash", passwordHash)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UsernameTaken checks whether a username is already registered
func (s *UsersStore) UsernameTaken(username string) bool {
	var count int64
	s.db.Model(&model.User{}).Where("username = ?", username).Count(&count)
	return count > 0
}
