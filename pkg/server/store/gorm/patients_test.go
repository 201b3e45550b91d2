package gorm

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPatientsStoreFetchPatient(t *testing.T) {
	db, mock := newMockDB(t)
	patients := NewPatientsStore(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "first_name", "last_name", "gender"}).
		AddRow(5, 1, "Ada", "Osei", "female")
	mock.ExpectQuery(`SELECT .* FROM "patients"`).
		WithArgs(5).
		WillReturnRows(rows)

	patient, err := patients.FetchPatient(5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), patient.ID)
	assert.Equal(t, uint(1), patient.UserID)
	assert.Equal(t, "Ada", patient.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientsStoreFetchPatientNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	patients := NewPatientsStore(db)

	mock.ExpectQuery(`SELECT .* FROM "patients"`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := patients.FetchPatient(42)
	assert.Error(t, err)
}

func TestPatientsStoreListPatients(t *testing.T) {
	db, mock := newMockDB(t)
	patients := NewPatientsStore(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "first_name", "last_name"}).
		AddRow(1, 3, "Ada", "Osei").
		AddRow(2, 3, "Kofi", "Mensah")
	mock.ExpectQuery(`SELECT .* FROM "patients"`).
		WithArgs(3).
		WillReturnRows(rows)

	records, err := patients.ListPatients(3, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ada", records[0].FirstName)
	assert.Equal(t, "Kofi", records[1].FirstName)
}

func TestPatientsStoreListPatientsWithSearch(t *testing.T) {
	db, mock := newMockDB(t)
	patients := NewPatientsStore(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "first_name", "last_name", "diagnosis"}).
		AddRow(1, 3, "Ada", "Osei", "hypertension")
	mock.ExpectQuery(`SELECT .* FROM "patients"`).
		WithArgs(3, "%hyper%", "%hyper%", "%hyper%").
		WillReturnRows(rows)

	records, err := patients.ListPatients(3, "hyper", 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "hypertension", records[0].Diagnosis)
}

func TestPatientsStoreCountPatients(t *testing.T) {
	db, mock := newMockDB(t)
	patients := NewPatientsStore(db)

	mock.ExpectQuery(`SELECT count`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := patients.CountPatients(3, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestPatientsStoreDeletePatient(t *testing.T) {
	db, mock := newMockDB(t)
	patients := NewPatientsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "patients"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, patients.DeletePatient(5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientsStoreDeletePatientMissing(t *testing.T) {
	db, mock := newMockDB(t)
	patients := NewPatientsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "patients"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := patients.DeletePatient(404)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestHealthStoreCheckConnectivity(t *testing.T) {
	db, mock := newMockDB(t)
	health := NewHealthStore(db)

	mock.ExpectExec(`SELECT 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, health.CheckConnectivity())

	mock.ExpectExec(`SELECT 1`).
		WillReturnError(sql.ErrConnDone)

	assert.Error(t, health.CheckConnectivity())
}
