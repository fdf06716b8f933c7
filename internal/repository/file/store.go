package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"nexus-auth/internal/domain"
	"nexus-auth/internal/repository"
)

// Store persists users and session events as a single JSON document.
// Every operation is a full load-mutate-save cycle; a process-wide mutex
// serializes writers so a read-then-write sequence (uniqueness check, then
// append) cannot interleave with another.
type Store struct {
	path string
	mu   sync.Mutex
}

type userRecord struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"passwordHash"`
	Plan         domain.PlanTier `json:"plan"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type eventRecord struct {
	UserID    int64             `json:"userId"`
	Action    domain.ActionKind `json:"action"`
	CreatedAt time.Time         `json:"createdAt"`
}

type document struct {
	Users    []userRecord  `json:"users"`
	Sessions []eventRecord `json:"sessions"`
}

// Open prepares a store backed by the JSON document at path. The document
// itself is created on Init.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Init writes an empty document if none exists yet.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat store file: %w", err)
	}
	return s.save(&document{Users: []userRecord{}, Sessions: []eventRecord{}})
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("store file unavailable: %w", err)
	}
	return nil
}

func (s *Store) load() (*document, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &document{Users: []userRecord{}, Sessions: []eventRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, user *domain.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, err
	}

	// Millisecond timestamp bumped past the current maximum, so two creates
	// inside the same millisecond still get distinct ids.
	id := time.Now().UnixMilli()
	for i := range doc.Users {
		if doc.Users[i].Email == user.Email {
			return 0, repository.ErrEmailTaken
		}
		if doc.Users[i].ID >= id {
			id = doc.Users[i].ID + 1
		}
	}

	user.ID = id
	user.CreatedAt = time.Now().UTC()
	doc.Users = append(doc.Users, userRecord{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Plan:         user.Plan,
		CreatedAt:    user.CreatedAt,
	})

	if err := s.save(doc); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].Email == email {
			return recordToUser(doc.Users[i]), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return recordToUser(doc.Users[i]), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpdateName(ctx context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			doc.Users[i].Name = name
			return s.save(doc)
		}
	}
	return repository.ErrNotFound
}

func (s *Store) Append(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	event.CreatedAt = time.Now().UTC()
	doc.Sessions = append(doc.Sessions, eventRecord{
		UserID:    event.UserID,
		Action:    event.Action,
		CreatedAt: event.CreatedAt,
	})
	return s.save(doc)
}

func (s *Store) CountByUserAction(ctx context.Context, userID int64, action domain.ActionKind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, err
	}
	var n int64
	for i := range doc.Sessions {
		if doc.Sessions[i].UserID == userID && doc.Sessions[i].Action == action {
			n++
		}
	}
	return n, nil
}

func recordToUser(r userRecord) *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Plan:         r.Plan,
		CreatedAt:    r.CreatedAt,
	}
}

var (
	_ repository.UserRepository  = (*Store)(nil)
	_ repository.EventRepository = (*Store)(nil)
)
