package model

import (
	"errors"
	"strings"
	"time"
)

// Validation errors returned by Patient.Validate.
var (
	ErrMissingName     = errors.New("first_name and last_name are required")
	ErrInvalidBirthday = errors.New("date_of_birth must be formatted YYYY-MM-DD")
	ErrInvalidEmail    = errors.New("email is malformed")
)

// Patient is a clinical record owned by exactly one user.
type Patient struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	UserID      uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	FirstName   string    `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName    string    `gorm:"column:last_name;size:100;not null" json:"last_name"`
	DateOfBirth string    `gorm:"column:date_of_birth;size:10" json:"date_of_birth,omitempty"`
	Gender      Gender    `gorm:"column:gender;type:text" json:"gender"`
	Phone       string    `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Email       string    `gorm:"column:email;size:120" json:"email,omitempty"`
	Address     string    `gorm:"column:address" json:"address,omitempty"`
	Diagnosis   string    `gorm:"column:diagnosis" json:"diagnosis,omitempty"`
	Notes       string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Validate checks the fields the API requires before a record is stored.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return ErrMissingName
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
			return ErrInvalidBirthday
		}
	}
	if p.Email != "" {
		at := strings.Index(p.Email, "@")
		if at < 1 || at == len(p.Email)-1 || strings.Count(p.Email, "@") != 1 {
			return ErrInvalidEmail
		}
	}
	return nil
}

// ApplyUpdate copies the mutable fields of src onto p. Identity and
// ownership columns are never touched by an update.
func (p *Patient) ApplyUpdate(src *Patient) {
	p.FirstName = src.FirstName
	p.LastName = src.LastName
	p.DateOfBirth = src.DateOfBirth
	p.Gender = src.Gender
	p.Phone = src.Phone
	p.Email = src.Email
	p.Address = src.Address
	p.Diagnosis = src.Diagnosis
	p.Notes = src.Notes
}
