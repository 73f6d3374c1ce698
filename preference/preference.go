package preference

import (
	"context"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/store"
)

// Update carries a partial change, nil fields are left untouched.
type Update struct {
	FavoriteCategories *[]string `json:"favoriteCategories"`
	FavoriteSources    *[]string `json:"favoriteSources"`
}

// Service reads and edits the explicit favourites of a user. The reading
// streak shares the same record but is only written by the tracker.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func (s *Service) Get(ctx context.Context, userID string) (*model.UserPreferences, error) {
	return s.store.GetPreferences(ctx, userID)
}

// Update merges u into the stored preferences. Values are stored verbatim.
func (s *Service) Update(ctx context.Context, userID string, u Update) (*model.UserPreferences, error) {
	return s.store.UpdatePreferences(ctx, userID, func(p *model.UserPreferences) error {
		if u.FavoriteCategories != nil {
			p.FavoriteCategories = append([]string{}, *u.FavoriteCategories...)
		}
		if u.FavoriteSources != nil {
			p.FavoriteSources = append([]string{}, *u.FavoriteSources...)
		}
		return nil
	})
}
