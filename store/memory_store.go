package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MemoryStore keeps every record in flat slices guarded by a single mutex.
// Records are copied on the way in and out so callers never alias stored
// state.
type MemoryStore struct {
	mu sync.Mutex

	users             []*model.User
	bookmarks         []*model.Bookmark
	history           []*model.ReadingHistoryEntry
	preferences       []*model.UserPreferences
	pushSubscriptions []*model.PushSubscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func clone[T any](src *T) *T {
	dst := *src
	return &dst
}

func clonePreferences(src *model.UserPreferences) *model.UserPreferences {
	dst := *src
	dst.FavoriteCategories = append(pq.StringArray{}, src.FavoriteCategories...)
	dst.FavoriteSources = append(pq.StringArray{}, src.FavoriteSources...)
	if src.LastReadDate != nil {
		d := *src.LastReadDate
		dst.LastReadDate = &d
	}
	return &dst
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users = append(s.users, clone(u))
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Id == id {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListBookmarks(ctx context.Context, userID string) ([]*model.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []*model.Bookmark{}
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			res = append(res, clone(b))
		}
	}
	return res, nil
}

func (s *MemoryStore) CreateBookmark(ctx context.Context, b *model.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	s.bookmarks = append(s.bookmarks, clone(b))
	return nil
}

func (s *MemoryStore) DeleteBookmark(ctx context.Context, userID string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bookmarks {
		if b.Id == id && b.UserID == userID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) AddHistoryEntry(ctx context.Context, e *model.ReadingHistoryEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.history {
		if h.UserID == e.UserID && h.ArticleURL == e.ArticleURL {
			return false, nil
		}
	}
	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	s.history = append(s.history, clone(e))
	return true, nil
}

func (s *MemoryStore) ListHistory(ctx context.Context, userID string, limit int) ([]*model.ReadingHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []*model.ReadingHistoryEntry{}
	for _, h := range s.history {
		if h.UserID == userID {
			res = append(res, clone(h))
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].ViewedAt.After(res[j].ViewedAt)
	})
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// findOrCreatePreferences must be called with s.mu held.
func (s *MemoryStore) findOrCreatePreferences(userID string) *model.UserPreferences {
	for _, p := range s.preferences {
		if p.UserID == userID {
			return p
		}
	}
	p := model.NewUserPreferences(userID)
	p.UpdatedAt = time.Now()
	s.preferences = append(s.preferences, p)
	return p
}

func (s *MemoryStore) GetPreferences(ctx context.Context, userID string) (*model.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clonePreferences(s.findOrCreatePreferences(userID)), nil
}

func (s *MemoryStore) UpdatePreferences(ctx context.Context, userID string, fn PreferencesMutation) (*model.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.findOrCreatePreferences(userID)
	working := clonePreferences(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UserID = userID
	working.Version = stored.Version + 1
	working.UpdatedAt = time.Now()
	*stored = *working
	return clonePreferences(stored), nil
}

func (s *MemoryStore) SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.pushSubscriptions {
		if existing.Endpoint == sub.Endpoint {
			s.pushSubscriptions[i] = clone(sub)
			return nil
		}
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	s.pushSubscriptions = append(s.pushSubscriptions, clone(sub))
	return nil
}

func (s *MemoryStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.pushSubscriptions {
		if existing.Endpoint == endpoint {
			s.pushSubscriptions = append(s.pushSubscriptions[:i], s.pushSubscriptions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) ListPushSubscriptions(ctx context.Context) ([]*model.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []*model.PushSubscription{}
	for _, sub := range s.pushSubscriptions {
		res = append(res, clone(sub))
	}
	return res, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
