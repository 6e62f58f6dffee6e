// Package apitest provides an in-memory fake of the portal API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/saajha/bloodlink/internal/models"
)

var signingKey = []byte("apitest-signing-key")

type account struct {
	user     models.User
	password string
}

// Server is a fake backend. All state is in memory and guarded by mu.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	accounts   map[string]*account // by email
	tokens     map[string]string   // token -> user id
	requests   []models.BloodRequest
	facilities []models.MedicalFacility
	donations  []models.DonationRecord
	stats      *models.Stats

	// meStatus forces GET /api/auth/me to answer with this status when non-zero.
	meStatus int
	// failures makes the next n calls to a path answer 503.
	failures map[string]int
	hits     map[string]int
	// block, when set, holds /api/auth/me until it is closed.
	block chan struct{}
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		failures: make(map[string]int),
		hits:     make(map[string]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.countAndFail)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.With(s.requireUser).Get("/auth/me", s.me)

		r.Get("/blood-requests", s.listRequests)
		r.Get("/blood-requests/{id}", s.getRequest)
		r.With(s.requireUser).Post("/blood-requests", s.createRequest)
		r.With(s.requireUser).Patch("/blood-requests/{id}/status", s.updateRequestStatus)

		r.Get("/donors/match", s.matchDonors)

		r.Get("/medical-facilities", s.listFacilities)
		r.Get("/medical-facilities/{id}", s.getFacility)
		r.With(s.requireUser).Post("/medical-facilities", s.createFacility)

		r.With(s.requireUser).Get("/donation-history", s.listDonations)
		r.With(s.requireUser).Post("/donation-history", s.createDonation)

		r.Get("/stats", s.getStats)
	})

	return r
}

// AddUser registers a user directly and returns it with a fresh id.
func (s *Server) AddUser(u models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.accounts[u.Email] = &account{user: u, password: password}
	return u
}

// IssueToken mints a valid access token for userID.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueToken(userID, "")
}

// RevokeToken makes token fail authentication from now on.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// SetMeStatus forces the identity endpoint to answer status. Zero restores
// normal behaviour.
func (s *Server) SetMeStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meStatus = status
}

// FailNext makes the next n calls to path answer 503 Service Unavailable.
func (s *Server) FailNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = n
}

// BlockIdentity holds identity requests until the returned func is called.
func (s *Server) BlockIdentity() (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.block = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Hits returns how many times path was requested.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// SetStats overrides the computed stats.
func (s *Server) SetStats(stats models.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = &stats
}

// AddBloodRequest seeds a request as if userID had created it.
func (s *Server) AddBloodRequest(in models.BloodRequestCreate, userID string) models.BloodRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addRequest(in, userID)
}

// AddFacility seeds the facility directory.
func (s *Server) AddFacility(in models.MedicalFacilityCreate) models.MedicalFacility {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFacility(in)
}

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		n := s.failures[r.URL.Path]
		if n > 0 {
			s.failures[r.URL.Path] = n - 1
		}
		s.mu.Unlock()

		if n > 0 {
			writeDetail(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUser struct{}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusForbidden, "Not authenticated")
			return
		}

		s.mu.Lock()
		userID, ok := s.tokens[token]
		var user models.User
		found := false
		if ok {
			for _, acc := range s.accounts {
				if acc.user.ID == userID {
					user, found = acc.user, true
					break
				}
			}
		}
		s.mu.Unlock()

		if !found {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in models.Registration
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[in.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	available := true
	u := models.User{
		ID:                uuid.NewString(),
		Email:             in.Email,
		FullName:          in.FullName,
		Role:              in.Role,
		BloodType:         in.BloodType,
		Phone:             in.Phone,
		Location:          in.Location,
		City:              in.City,
		State:             in.State,
		AvailableToDonate: &available,
		CreatedAt:         time.Now().UTC(),
	}
	s.accounts[u.Email] = &account{user: u, password: in.Password}

	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: s.issueToken(u.ID, u.Email), TokenType: "bearer", User: u})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[in.Email]
	if !ok || acc.password != in.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: s.issueToken(acc.user.ID, acc.user.Email), TokenType: "bearer", User: acc.user})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, block := s.meStatus, s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-r.Context().Done():
			return
		}
	}

	if status != 0 {
		writeDetail(w, status, http.StatusText(status))
		return
	}

	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

// issueToken must be called with mu held.
func (s *Server) issueToken(userID, email string) string {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
		"jti": uuid.NewString(),
	}
	if email != "" {
		claims["email"] = email
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	s.tokens[token] = userID
	return token
}

func sortNewestFirst(reqs []models.BloodRequest) {
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body"}, "msg": err.Error(), "type": "value_error"}},
		})
		return false
	}
	return true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
