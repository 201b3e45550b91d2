package gorm

import (
	"gorm.io/gorm"

	"github.com/carevault/carevault/pkg/model"
	"github.com/carevault/carevault/pkg/server/store"
)

// Ensure PatientsStore implements store.PatientsStore
var _ store.PatientsStore = (*PatientsStore)(nil)

// PatientsStore implements store.PatientsStore using GORM
type PatientsStore struct {
	db *gorm.DB
}

// NewPatientsStore creates a new PatientsStore
func NewPatientsStore(db *gorm.DB) *PatientsStore {
	return &PatientsStore{db: db}
}

func (s *PatientsStore) scopeOwner(ownerID uint, search string) *gorm.DB {
	tx := s.db.Model(&model.Patient{}).Where("user_id = ?", ownerID)
	if search != "" {
		pattern := "%" + search + "%"
		tx = tx.Where(
			"(first_name ILIKE ? OR last_name ILIKE ? OR diagnosis ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	return tx
}

// ListPatients returns the records owned by ownerID, oldest first
func (s *PatientsStore) ListPatients(ownerID uint, search string, limit, offset int) ([]model.Patient, error) {
	tx := s.scopeOwner(ownerID, search).Order("id")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	var patients []model.Patient
	if err := tx.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// CountPatients counts the records ListPatients would return
func (s *PatientsStore) CountPatients(ownerID uint, search string) (int64, error) {
	var count int64
	if err := s.scopeOwner(ownerID, search).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FetchPatient retrieves a record by primary key regardless of owner
func (s *PatientsStore) FetchPatient(id uint) (*model.Patient, error) {
	var patient model.Patient
	tx := s.db.Where("id = ?", id).First(&patient)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &patient, nil
}

// CreatePatient persists a new record
func (s *PatientsStore) CreatePatient(patient *model.Patient) error {
	return s.db.Create(patient).Error
}

// UpdatePatient persists changes to an existing record
func (s *PatientsStore) UpdatePatient(patient *model.Patient) error {
	return s.db.Save(patient).Error
}

// DeletePatient removes a record by primary key
func (s *PatientsStore) DeletePatient(id uint) error {
	tx := s.db.Delete(&model.Patient{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
