// Package testutil holds in-memory stand-ins for the stores used in service and handler tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/storage"
)

// AccountStore keeps accounts in memory
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account

	// Err, when set, is returned by every call
	Err error
}

// NewAccountStore creates an empty account store
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: map[string]*models.Account{}}
}

func (s *AccountStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, a := range s.accounts {
		if a.Email == account.Email {
			return fmt.Errorf("email %s: %w", account.Email, models.ErrConflict)
		}
	}
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *AccountStore) GetByID(_ context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *AccountStore) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user: %w", models.ErrNotFound)
}

// Delete drops an account, leaving tokens issued for it dangling
func (s *AccountStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
}

// StoryStore keeps stories in memory, ordered like the SQL store
type StoryStore struct {
	mu      sync.Mutex
	stories []*models.TravelStory

	// Err, when set, is returned by every call
	Err error
}

// NewStoryStore creates an empty story store
func NewStoryStore() *StoryStore {
	return &StoryStore{}
}

func (s *StoryStore) Create(_ context.Context, story *models.TravelStory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *story
	s.stories = append(s.stories, &cp)
	return nil
}

func (s *StoryStore) ListByOwner(_ context.Context, userID string) ([]*models.TravelStory, error) {
	return s.filter(userID, func(*models.TravelStory) bool { return true })
}

func (s *StoryStore) Search(_ context.Context, userID, q string) ([]*models.TravelStory, error) {
	q = strings.ToLower(q)
	return s.filter(userID, func(st *models.TravelStory) bool {
		return strings.Contains(strings.ToLower(st.Title), q) ||
			strings.Contains(strings.ToLower(st.Story), q) ||
			strings.Contains(strings.ToLower(st.VisitedLocation), q)
	})
}

func (s *StoryStore) FilterByVisitedDate(_ context.Context, userID string, start, end time.Time) ([]*models.TravelStory, error) {
	return s.filter(userID, func(st *models.TravelStory) bool {
		return !st.VisitedDate.Before(start) && !st.VisitedDate.After(end)
	})
}

func (s *StoryStore) Update(_ context.Context, story *models.TravelStory) (*models.TravelStory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	st := s.find(story.UserID, story.ID)
	if st == nil {
		return nil, fmt.Errorf("story %s: %w", story.ID, models.ErrNotFound)
	}
	st.Title = story.Title
	st.Story = story.Story
	st.VisitedLocation = story.VisitedLocation
	st.ImageURL = story.ImageURL
	st.VisitedDate = story.VisitedDate
	cp := *st
	return &cp, nil
}

func (s *StoryStore) SetFavourite(_ context.Context, userID, storyID string, favourite bool) (*models.TravelStory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	st := s.find(userID, storyID)
	if st == nil {
		return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
	}
	st.IsFavourite = favourite
	cp := *st
	return &cp, nil
}

func (s *StoryStore) Delete(_ context.Context, userID, storyID string) (*models.TravelStory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i, st := range s.stories {
		if st.ID == storyID && st.UserID == userID {
			s.stories = append(s.stories[:i], s.stories[i+1:]...)
			return st, nil
		}
	}
	return nil, fmt.Errorf("story %s: %w", storyID, models.ErrNotFound)
}

// Get returns a stored story regardless of owner
func (s *StoryStore) Get(storyID string) (*models.TravelStory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stories {
		if st.ID == storyID {
			cp := *st
			return &cp, true
		}
	}
	return nil, false
}

func (s *StoryStore) find(userID, storyID string) *models.TravelStory {
	for _, st := range s.stories {
		if st.ID == storyID && st.UserID == userID {
			return st
		}
	}
	return nil
}

func (s *StoryStore) filter(userID string, keep func(*models.TravelStory) bool) ([]*models.TravelStory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]*models.TravelStory, 0)
	for _, st := range s.stories {
		if st.UserID == userID && keep(st) {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsFavourite && !out[j].IsFavourite
	})
	return out, nil
}

var _ storage.Blob = (*BlobStore)(nil)

// BlobStore keeps blobs in memory
type BlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	types map[string]string

	// PutErr and DeleteErr, when set, fail the matching call
	PutErr    error
	DeleteErr error
}

// NewBlobStore creates an empty blob store
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: map[string][]byte{}, types: map[string]string{}}
}

func (s *BlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if s.PutErr != nil {
		return s.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	s.types[key] = contentType
	return nil
}

func (s *BlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *BlobStore) Delete(_ context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *BlobStore) Exists(_ context.Context, key string) (bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok, nil
}

// Keys returns the stored keys in sorted order
func (s *BlobStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContentType returns the content type recorded for key
func (s *BlobStore) ContentType(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types[key]
}

// Seed stores data under key without validation
func (s *BlobStore) Seed(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
}
