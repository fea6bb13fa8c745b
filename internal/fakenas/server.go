// Package fakenas is an in-memory stand-in for the storage appliance REST
// API. It implements the endpoints declared in pkg/appliance closely enough
// to exercise the client end to end: bearer-token sessions, ETag-guarded
// updates, bare and keyed collection listings, and paged directory reads.
package fakenas

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Default credentials accepted by the login endpoint.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin"
)

// Server is the fake appliance. It implements http.Handler so it can be
// mounted in an httptest.Server.
type Server struct {
	Store *Store

	router   chi.Router
	logger   hclog.Logger
	username string
	password string

	mu     sync.Mutex
	tokens map[string]bool
	faults []fault
}

type fault struct {
	status int
	body   any
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCredentials replaces the accepted username and password.
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

// WithStore serves an existing store instead of a freshly seeded one.
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// New creates a fake appliance.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   hclog.NewNullLogger(),
		username: DefaultUsername,
		password: DefaultPassword,
		tokens:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Store == nil {
		s.Store = NewStore()
	}
	s.logger = s.logger.Named("fakenas")
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// IssueToken creates a valid session token without a login exchange.
func (s *Server) IssueToken() string {
	token := "1:" + uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = true
	return token
}

// RevokeTokens ends every session.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]bool)
}

// InjectFault makes the next authenticated request fail with status and a
// JSON body. A nil body sends no body at all.
func (s *Server) InjectFault(status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{status: status, body: body})
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/v1/session/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.injectFaults)

		r.Get("/v1/version", s.getVersion)

		r.Get("/v1/cluster/settings", s.getSettings)
		r.Put("/v1/cluster/settings", s.putSettings)

		s.mountCollection(r, "/v1/cluster/nodes", &collection{table: s.Store.Nodes, readOnly: true})
		s.mountCollection(r, "/v1/users", &collection{
			table:    s.Store.Users,
			required: []string{"name"},
			hidden:   []string{"password"},
			defaults: func(id string, rec Record) {
				setDefault(rec, "primary_group", "513")
				setDefault(rec, "uid", id)
				setDefault(rec, "sid", "S-1-5-21-"+id)
				setDefault(rec, "home_directory", "")
			},
		})
		r.Get("/v1/users/{id}/groups/", s.listUserGroups)
		s.mountCollection(r, "/v1/groups", &collection{
			table:    s.Store.Groups,
			required: []string{"name"},
			defaults: func(id string, rec Record) {
				setDefault(rec, "gid", id)
				setDefault(rec, "sid", "S-1-5-21-"+id)
			},
		})
		s.mountCollection(r, "/v2/nfs/exports", &collection{
			table:    s.Store.NFSExports,
			itemsKey: "entries",
			required: []string{"export_path", "fs_path"},
			defaults: func(_ string, rec Record) {
				setDefault(rec, "description", "")
				setDefault(rec, "restrictions", []any{})
			},
		})
		s.mountCollection(r, "/v1/smb/shares", &collection{
			table:    s.Store.SMBShares,
			required: []string{"share_name", "fs_path"},
			defaults: func(_ string, rec Record) {
				setDefault(rec, "description", "")
				setDefault(rec, "read_only", false)
				setDefault(rec, "allow_guest_access", false)
				setDefault(rec, "permissions", []any{
					map[string]any{"type": "ALLOWED", "trustee": "Everyone", "rights": []any{"READ"}},
				})
			},
		})

		r.Get("/v1/files/{ref}/info/attributes", s.getFileAttributes)
		r.Get("/v1/files/{ref}/entries/", s.listDirectory)

		r.Get("/v1/analytics/activity/current", s.getActivity)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.EscapedPath(),
			"status", ww.Status(),
			"request_id", r.Header.Get("X-Request-Id"),
			"duration", time.Since(start),
		)
	})
}

// authenticate requires "Authorization: Bearer <token>" with a token issued
// by login or IssueToken.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if auth == "" || token == auth || token == "" {
			apiError(w, http.StatusUnauthorized, "http_unauthorized_error", "Need to log in first")
			return
		}

		s.mu.Lock()
		ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			apiError(w, http.StatusUnauthorized, "http_unauthorized_error", "Invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *fault
		if len(s.faults) > 0 {
			f = &s.faults[0]
			s.faults = s.faults[1:]
		}
		s.mu.Unlock()

		if f != nil {
			if f.body == nil {
				w.WriteHeader(f.status)
				return
			}
			writeJSON(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, http.StatusBadRequest, "http_bad_request_error", "Invalid request body: "+err.Error())
		return
	}
	if req.Username != s.username || req.Password != s.password {
		apiError(w, http.StatusUnauthorized, "authentication_failed_error", "Invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bearer_token": s.IssueToken()})
}

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// apiError writes an error in the appliance's error format.
func apiError(w http.ResponseWriter, status int, class, description string) {
	writeJSON(w, status, map[string]any{
		"error_class": class,
		"description": description,
		"module":      "fakenas",
	})
}
