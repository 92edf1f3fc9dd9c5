// Package mockapi is an in-memory stand-in for the portal backend. It
// implements the request/response contracts the engine depends on and is
// used by the CLI's offline mode and the test suite. It is a contract
// double, not a production server.
package mockapi

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Application is one stored application.
type Application struct {
	ID            string
	Type          string
	ControlNumber string
	Fields        map[string]string
	Corrections   []Correction
}

// Correction marks a field as needing correction. Message may be empty;
// the reason list the backend returns is allowed to be sparse.
type Correction struct {
	FieldKey string `json:"field_key"`
	Message  string `json:"message"`
}

// StoredDocument is one uploaded document plus its binary content.
type StoredDocument struct {
	ID            string
	ApplicationID string
	DocumentType  string
	FileName      string
	MimeType      string
	Meta          map[string]string
	Content       []byte
}

// Server holds the in-memory stores and the HTTP handler over them.
type Server struct {
	log       *logrus.Logger
	jwtSecret string
	maxBody   int64

	mu          sync.Mutex
	apps        map[string]*Application
	docs        map[string]*StoredDocument
	seq         int
	lastResolve []string
}

// New builds a mock backend. Tokens issued with IssueToken(jwtSecret, …)
// pass its bearer check.
func New(log *logrus.Logger, jwtSecret string) *Server {
	return &Server{
		log:       log,
		jwtSecret: jwtSecret,
		maxBody:   12 << 20,
		apps:      make(map[string]*Application),
		docs:      make(map[string]*StoredDocument),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.bearerAuth)

	r.Get("/applications/{appId}", s.getApplication)
	r.Get("/applications/{appId}/corrections", s.getCorrections)
	r.Post("/applications", s.createApplication)
	r.Post("/applications/{appId}/corrections/resolve", s.resolveCorrections)

	r.Get("/documents", s.listDocuments)
	r.Get("/documents/{docId}/view", s.viewDocument)

	return r
}

// Application returns a stored application by ID, or nil.
func (s *Server) Application(id string) *Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[id]
}

// LastResolveKeys returns the field keys of the most recent resolve
// request, for payload-scoping assertions in tests.
func (s *Server) LastResolveKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lastResolve...)
}

// SeedApplication stores an application for fetch/correction flows.
func (s *Server) SeedApplication(app *Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.Fields == nil {
		app.Fields = map[string]string{}
	}
	s.apps[app.ID] = app
}

// SeedDocument stores a document and returns its generated ID.
func (s *Server) SeedDocument(doc *StoredDocument) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = newID()
	}
	s.docs[doc.ID] = doc
	return doc.ID
}
