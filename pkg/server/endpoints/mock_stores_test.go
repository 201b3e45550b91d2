package endpoints

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/carevault/carevault/pkg/audit"
	"github.com/carevault/carevault/pkg/config"
	"github.com/carevault/carevault/pkg/identity"
	"github.com/carevault/carevault/pkg/model"
	"github.com/carevault/carevault/pkg/server"
	"github.com/carevault/carevault/pkg/token"
)

func TestMain(m *testing.M) {
	// Keep audit syslog lines out of the test output.
	audit.SetEnabled(false)
	os.Exit(m.Run())
}

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) GetByID(id uint) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUsersStore) UpdatePassword(userID uint, passwordHash []byte) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *MockUsersStore) UsernameTaken(username string) bool {
	args := m.Called(username)
	return args.Bool(0)
}

// MockPatientsStore implements store.PatientsStore for testing using testify/mock
type MockPatientsStore struct {
	mock.Mock
}

func NewMockPatientsStore() *MockPatientsStore {
	return &MockPatientsStore{}
}

func (m *MockPatientsStore) ListPatients(ownerID uint, search string, limit, offset int) ([]model.Patient, error) {
	args := m.Called(ownerID, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Patient), args.Error(1)
}

func (m *MockPatientsStore) CountPatients(ownerID uint, search string) (int64, error) {
	args := m.Called(ownerID, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientsStore) FetchPatient(id uint) (*model.Patient, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockPatientsStore) CreatePatient(patient *model.Patient) error {
	args := m.Called(patient)
	return args.Error(0)
}

func (m *MockPatientsStore) UpdatePatient(patient *model.Patient) error {
	args := m.Called(patient)
	return args.Error(0)
}

func (m *MockPatientsStore) DeletePatient(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}

// testSigner returns a signer with a fixed key for token tests
func testSigner() *token.Signer {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	signer, _ := token.NewSigner(key, 8*time.Minute)
	return signer
}

// newTestEndpointServer builds a server around mock stores, without a
// database, for routing-level tests.
func newTestEndpointServer(users *MockUsersStore, patients *MockPatientsStore, health *MockHealthStore) *server.Server {
	cfg := config.Get()
	s := &server.Server{
		Router: mux.NewRouter().UseEncodedPath(),
		Config: cfg,
		Signer: testSigner(),
	}
	if users != nil {
		s.UsersStore = users
	}
	if patients != nil {
		s.PatientsStore = patients
	}
	if health != nil {
		s.HealthStore = health
	}
	return s
}

// requestWithIdentity builds a request carrying an authenticated identity,
// bypassing the token middleware for handler-level tests.
func requestWithIdentity(method, target string, body io.Reader, userID uint, username string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	id := &identity.Identity{
		UserID:    userID,
		Username:  username,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(8 * time.Minute),
	}
	return req.WithContext(identity.Set(req.Context(), id))
}

// withMuxVars attaches route variables to a request for handlers that read
// mux.Vars directly.
func withMuxVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}
