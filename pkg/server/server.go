package server

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/carevault/carevault/pkg/config"
	"github.com/carevault/carevault/pkg/server/store"
	storegorm "github.com/carevault/carevault/pkg/server/store/gorm"
	"github.com/carevault/carevault/pkg/token"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config
	Signer *token.Signer

	UsersStore    store.UsersStore
	PatientsStore store.PatientsStore
	HealthStore   store.HealthStore

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.Config,
	signer *token.Signer,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:        router,
		DB:            db,
		Config:        cfg,
		Signer:        signer,
		UsersStore:    storegorm.NewUsersStore(db),
		PatientsStore: storegorm.NewPatientsStore(db),
		HealthStore:   storegorm.NewHealthStore(db),
		srv:           srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener. The integration test
// suite uses this to bind ephemeral ports.
func (s *Server) StartWithListener(listener net.Listener) error {
	return s.srv.Serve(listener)
}
