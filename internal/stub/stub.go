// Package stub serves canned calculation responses for demos and tests.
// It performs no calculation of its own.
package stub

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/dcb-calc/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// SessionCookie is the cookie set on a successful login.
const SessionCookie = "JSESSIONID"

// SpreadsheetContentType is returned with downloads.
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Upload records one request received by the upload endpoint.
type Upload struct {
	Filename string
	Mode     string
	Content  []byte
}

// Options configures a Server.
type Options struct {
	// Responses holds the canned calculation per mode.
	Responses map[model.Mode]model.UploadResponse
	// Users maps usernames to passwords. Empty accepts any credentials.
	Users map[string]string
	// Spreadsheet is the body returned by the download endpoint.
	Spreadsheet []byte
	// BasePath is where the endpoints are mounted. Defaults to /intCalc.
	BasePath string
	// RateLimit caps requests per client IP per minute. Zero disables it.
	RateLimit int
	// RequireSession rejects uploads and downloads without a session cookie.
	RequireSession bool
}

// Server is an in-memory stand-in for the calculation backend.
type Server struct {
	opts      Options
	uploads   []Upload
	downloads []model.UploadResponse
	mu        sync.Mutex
}

// New creates a stub server.
func New(opts Options) *Server {
	if opts.BasePath == "" {
		opts.BasePath = "/intCalc"
	}
	if opts.Responses == nil {
		opts.Responses = DefaultResponses()
	}
	if opts.Spreadsheet == nil {
		opts.Spreadsheet = []byte("PK\x03\x04stub-spreadsheet")
	}
	return &Server{opts: opts}
}

// Handler returns the router serving the backend endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.opts.RateLimit > 0 {
		r.Use(httprate.Limit(s.opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	r.Route(strings.TrimRight(s.opts.BasePath, "/"), func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			if s.opts.RequireSession {
				r.Use(requireSession)
			}
			r.Post("/api/excel/upload", s.handleUpload)
			r.Post("/api/excel/download", s.handleDownload)
		})
	})

	return r
}

// Uploads returns the upload requests received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Downloads returns the payloads posted to the download endpoint.
func (s *Server) Downloads() []model.UploadResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.UploadResponse(nil), s.downloads...)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Malformed login request", http.StatusBadRequest)
		return
	}

	if len(s.opts.Users) > 0 {
		if want, ok := s.opts.Users[creds.Username]; !ok || want != creds.Password {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, "Invalid credentials")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "stub-" + creds.Username,
		Path:     "/",
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Login successful")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Unreadable file", http.StatusBadRequest)
		return
	}

	rawMode := r.FormValue("mode")
	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{Filename: header.Filename, Mode: rawMode, Content: content})
	s.mu.Unlock()

	mode, err := model.ParseMode(rawMode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, ok := s.opts.Responses[mode]
	if !ok {
		http.Error(w, "No fixture for mode", http.StatusUnprocessableEntity)
		return
	}

	slog.Debug("Stub upload", "filename", header.Filename, "mode", mode, "bytes", len(content))
	writeJSON(w, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var payload model.UploadResponse
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Malformed payload", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.downloads = append(s.downloads, payload)
	s.mu.Unlock()

	w.Header().Set("Content-Type", SpreadsheetContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="interest_calculation.xlsx"`)
	_, _ = w.Write(s.opts.Spreadsheet)
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(SessionCookie); err != nil {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode stub response", "error", err)
	}
}
