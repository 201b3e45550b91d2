package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/carevault/carevault/pkg/audit"
	"github.com/carevault/carevault/pkg/config"
	"github.com/carevault/carevault/pkg/identity"
	"github.com/carevault/carevault/pkg/model"
	"github.com/carevault/carevault/pkg/server"
	"github.com/carevault/carevault/pkg/server/middleware"
	"github.com/carevault/carevault/pkg/server/store"
)

// RegisterPatientsEndpoints registers the patient record API endpoints
func RegisterPatientsEndpoints(s *server.Server) {
	patients := s.PatientsStore
	cfg := s.Config

	tokenMiddleware := middleware.NewTokenAuthenticator(s.Signer)

	patientsRouter := s.Router.PathPrefix("/patients").Subrouter()
	patientsRouter.Use(tokenMiddleware.Middleware)

	// GET /patients - List the caller's records
	// POST /patients - Create a record owned by the caller
	patientsRouter.HandleFunc("", handleListPatients(patients, cfg)).Methods("GET")
	patientsRouter.HandleFunc("", handleCreatePatient(patients)).Methods("POST")

	// GET/PUT/DELETE /patients/{id} - Show, update, delete a single record
	patientsRouter.HandleFunc("/{id:[0-9]+}", handleShowPatient(patients)).Methods("GET")
	patientsRouter.HandleFunc("/{id:[0-9]+}", handleUpdatePatient(patients)).Methods("PUT")
	patientsRouter.HandleFunc("/{id:[0-9]+}", handleDeletePatient(patients)).Methods("DELETE")
}

func handleListPatients(patients store.PatientsStore, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unable to determine identity")
			return
		}

		search := r.URL.Query().Get("search")

		limit := cfg.APIPatientListLimitMax
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < limit {
				limit = l
			}
		}
		offset := 0
		if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
			if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
				offset = o
			}
		}

		// Check if count only is requested
		if r.URL.Query().Get("count") == "true" {
			count, err := patients.CountPatients(id.UserID, search)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Failed to count records")
				return
			}
			respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
			return
		}

		records, err := patients.ListPatients(id.UserID, search, limit, offset)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list records")
			return
		}

		respondWithJSON(w, http.StatusOK, records)
	}
}

func handleCreatePatient(patients store.PatientsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unable to determine identity")
			return
		}

		var body model.Patient
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if err := body.Validate(); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		// Ignore any client-supplied id or owner.
		var record model.Patient
		record.ApplyUpdate(&body)
		record.UserID = id.UserID

		if err := patients.CreatePatient(&record); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to create record")
			return
		}

		audit.Log(audit.RecordEvent{
			Username:  id.Username,
			ClientIP:  clientIP(r),
			RecordID:  record.ID,
			Operation: "create",
			Success:   true,
		})

		respondWithJSON(w, http.StatusCreated, record)
	}
}

// fetchOwnedPatient loads a patient and enforces the 404/403 contract:
// missing rows are 404, rows owned by another user are 403. It writes
// the error response itself and returns nil when the caller should stop.
// op names the operation being attempted for the audit trail.
func fetchOwnedPatient(w http.ResponseWriter, r *http.Request, patients store.PatientsStore, op string) *model.Patient {
	id, ok := identity.Get(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unable to determine identity")
		return nil
	}

	patientID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid record id")
		return nil
	}

	patient, err := patients.FetchPatient(uint(patientID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(w, http.StatusNotFound, "Record not found")
			return nil
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch record")
		return nil
	}

	if patient.UserID != id.UserID {
		audit.Log(audit.RecordEvent{
			Username:     id.Username,
			ClientIP:     clientIP(r),
			RecordID:     patient.ID,
			Operation:    op,
			Success:      false,
			ErrorMessage: "record belongs to another user",
		})
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return nil
	}

	return patient
}

func handleShowPatient(patients store.PatientsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient := fetchOwnedPatient(w, r, patients, "fetch")
		if patient == nil {
			return
		}

		if id, ok := identity.Get(r.Context()); ok {
			audit.Log(audit.RecordEvent{
				Username:  id.Username,
				ClientIP:  clientIP(r),
				RecordID:  patient.ID,
				Operation: "fetch",
				Success:   true,
			})
		}

		respondWithJSON(w, http.StatusOK, patient)
	}
}

func handleUpdatePatient(patients store.PatientsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient := fetchOwnedPatient(w, r, patients, "update")
		if patient == nil {
			return
		}

		var body model.Patient
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if err := body.Validate(); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		patient.ApplyUpdate(&body)
		if err := patients.UpdatePatient(patient); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update record")
			return
		}

		if id, ok := identity.Get(r.Context()); ok {
			audit.Log(audit.RecordEvent{
				Username:  id.Username,
				ClientIP:  clientIP(r),
				RecordID:  patient.ID,
				Operation: "update",
				Success:   true,
			})
		}

		respondWithJSON(w, http.StatusOK, patient)
	}
}

func handleDeletePatient(patients store.PatientsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patient := fetchOwnedPatient(w, r, patients, "delete")
		if patient == nil {
			return
		}

		if err := patients.DeletePatient(patient.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(w, http.StatusNotFound, "Record not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to delete record")
			return
		}

		if id, ok := identity.Get(r.Context()); ok {
			audit.Log(audit.RecordEvent{
				Username:  id.Username,
				ClientIP:  clientIP(r),
				RecordID:  patient.ID,
				Operation: "delete",
				Success:   true,
			})
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
