package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/autocitypro/import-service/internal/importer"
	"github.com/autocitypro/import-service/internal/models"
)

// ErrNotFound is returned for an unknown or discarded session id.
var ErrNotFound = errors.New("import session not found")

// Session is one wizard run: mode selection through completion. The mode
// is immutable; switching modes is a delete plus a fresh session.
type Session struct {
	ID        string
	Mode      models.ImportMode
	CreatedAt time.Time

	mu         sync.RWMutex
	sheet      *models.Sheet
	mapping    models.ColumnMap
	categories []models.Category
	imp        *importer.Session
}

// SetSheet stores the parsed file and its proposed mapping, clearing any
// previously derived rows (a re-upload restarts from the mapping step).
func (s *Session) SetSheet(sheet *models.Sheet, mapping models.ColumnMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheet = sheet
	s.mapping = mapping
	s.imp = nil
}

// Sheet returns the parsed file, or nil before upload.
func (s *Session) Sheet() *models.Sheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet
}

// Mapping returns the current column map.
func (s *Session) Mapping() models.ColumnMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.ColumnMap, len(s.mapping))
	for h, f := range s.mapping {
		out[h] = f
	}
	return out
}

// SetMapping replaces the column map and discards derived rows.
func (s *Session) SetMapping(mapping models.ColumnMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mapping = mapping
	s.imp = nil
}

// SetCategories stores the known category list used during validation.
func (s *Session) SetCategories(categories []models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

// Categories returns the known category list.
func (s *Session) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// SetImport attaches the validated row set's driver.
func (s *Session) SetImport(imp *importer.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imp = imp
}

// Import returns the driver, or nil before validation.
func (s *Session) Import() *importer.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imp
}

// Store is the in-memory session registry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty registry.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session with the given mode.
func (st *Store) Create(mode models.ImportMode) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		CreatedAt: time.Now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete discards a session; a running import is cancelled first.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if imp := s.Import(); imp != nil {
		imp.Cancel()
	}
	return nil
}
