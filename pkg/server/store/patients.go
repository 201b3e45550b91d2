package store

import "github.com/carevault/carevault/pkg/model"

// PatientsStore abstracts patient record storage operations
type PatientsStore interface {
	// ListPatients returns the records owned by ownerID. search filters on
	// name and diagnosis; limit and offset page through the result.
	ListPatients(ownerID uint, search string, limit, offset int) ([]model.Patient, error)

	// CountPatients counts the records ListPatients would return
	CountPatients(ownerID uint, search string) (int64, error)

	// FetchPatient retrieves a record by primary key regardless of owner.
	// Callers are responsible for the ownership check.
	FetchPatient(id uint) (*model.Patient, error)

	// CreatePatient persists a new record
	CreatePatient(patient *model.Patient) error

	// UpdatePatient persists changes to an existing record
	UpdatePatient(patient *model.Patient) error

	// DeletePatient removes a record by primary key
	DeletePatient(id uint) error
}
