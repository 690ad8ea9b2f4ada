package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/chidhu/crm-server/cmd/utils"
	"github.com/chidhu/crm-server/service/notification"
	"github.com/chidhu/crm-server/service/payment"
	"github.com/chidhu/crm-server/service/subscription"
	"github.com/chidhu/crm-server/service/ticket"
	"github.com/chidhu/crm-server/service/user"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := s.Router()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		handlers.AllowCredentials(),
	)

	handler := handlers.LoggingHandler(os.Stdout, utils.RequestID(cors(router)))

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handler)
}

// Router assembles all entity routes. Split out from Run so tests can mount
// the full routing table without binding a socket.
func (s *APIServer) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/", s.handleHealth).Methods("GET")

	user.NewHandler(s.db).RegisterRoutes(router)
	subscription.NewHandler(s.db).RegisterRoutes(router)
	payment.NewHandler(s.db).RegisterRoutes(router)
	ticket.NewHandler(s.db).RegisterRoutes(router)
	notification.NewHandler(s.db).RegisterRoutes(router)

	return router
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "API is running"})
}
