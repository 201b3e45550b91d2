package model

import (
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account that can authenticate and own patient records.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;size:60;uniqueIndex;not null" json:"username"`
	PasswordHash []byte    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Usernames are lowercase, start with an alphanumeric and are 3-60 chars.
var usernameRgx = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,59}$`)

// ValidUsername reports whether name is an acceptable account identifier.
func ValidUsername(name string) bool {
	return usernameRgx.MatchString(name)
}

// SetPassword hashes password with bcrypt at the given cost and stores
// the hash on the user.
func (u *User) SetPassword(password string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword compares password against the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}
