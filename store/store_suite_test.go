package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite checks the behaviour every backend must share. newStore must
// return an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("users are unique by email", func(t *testing.T) {
		s := newStore(t)
		u := &model.User{Name: "alice", Email: "alice@example.com", PasswordHash: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		require.NotEmpty(t, u.Id)

		err := s.CreateUser(ctx, &model.User{Name: "other", Email: "alice@example.com"})
		assert.True(t, errors.Is(err, ErrDuplicate))

		got, err := s.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.Id, got.Id)
		assert.Equal(t, "hash", got.PasswordHash)

		byID, err := s.GetUserByID(ctx, u.Id)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Name)

		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("bookmarks are owned", func(t *testing.T) {
		s := newStore(t)
		b := &model.Bookmark{UserID: "owner", Article: model.Article{Title: "t", Url: "https://a"}}
		require.NoError(t, s.CreateBookmark(ctx, b))
		require.NotEmpty(t, b.Id)

		err := s.DeleteBookmark(ctx, "intruder", b.Id)
		assert.True(t, errors.Is(err, ErrNotFound))

		list, err := s.ListBookmarks(ctx, "owner")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "https://a", list[0].Article.Url)

		others, err := s.ListBookmarks(ctx, "intruder")
		require.NoError(t, err)
		assert.Empty(t, others)

		require.NoError(t, s.DeleteBookmark(ctx, "owner", b.Id))
		assert.True(t, errors.Is(s.DeleteBookmark(ctx, "owner", b.Id), ErrNotFound))
	})

	t.Run("history is deduplicated and ordered", func(t *testing.T) {
		s := newStore(t)
		base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			article := model.Article{Url: fmt.Sprintf("https://news/%d", i)}
			inserted, err := s.AddHistoryEntry(ctx, model.NewReadingHistoryEntry("u", article, base.Add(time.Duration(i)*time.Hour)))
			require.NoError(t, err)
			assert.True(t, inserted)
		}
		inserted, err := s.AddHistoryEntry(ctx, model.NewReadingHistoryEntry("u", model.Article{Url: "https://news/1"}, base.Add(10*time.Hour)))
		require.NoError(t, err)
		assert.False(t, inserted)

		// Same url for another user is a different entry.
		inserted, err = s.AddHistoryEntry(ctx, model.NewReadingHistoryEntry("v", model.Article{Url: "https://news/1"}, base))
		require.NoError(t, err)
		assert.True(t, inserted)

		entries, err := s.ListHistory(ctx, "u", 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "https://news/2", entries[0].Article.Url)
		assert.Equal(t, "https://news/0", entries[2].Article.Url)

		limited, err := s.ListHistory(ctx, "u", 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("concurrent history inserts keep one entry", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.AddHistoryEntry(ctx, model.NewReadingHistoryEntry("u", model.Article{Url: "https://same"}, time.Now()))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		entries, err := s.ListHistory(ctx, "u", 0)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("preferences are created lazily and updated atomically", func(t *testing.T) {
		s := newStore(t)
		p, err := s.GetPreferences(ctx, "u")
		require.NoError(t, err)
		assert.Empty(t, p.FavoriteCategories)
		assert.NotNil(t, p.FavoriteSources)
		assert.Zero(t, p.ReadingStreak)
		assert.Nil(t, p.LastReadDate)

		today := model.DateOf(time.Now())
		updated, err := s.UpdatePreferences(ctx, "u", func(p *model.UserPreferences) error {
			p.FavoriteCategories = []string{"technology"}
			p.ReadingStreak = 3
			p.LastReadDate = &today
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, updated.ReadingStreak)

		again, err := s.GetPreferences(ctx, "u")
		require.NoError(t, err)
		assert.Equal(t, []string{"technology"}, []string(again.FavoriteCategories))
		require.NotNil(t, again.LastReadDate)
		assert.True(t, today.Equal(*again.LastReadDate))

		// A failing mutation leaves the record untouched.
		_, err = s.UpdatePreferences(ctx, "u", func(p *model.UserPreferences) error {
			p.ReadingStreak = 100
			return errors.New("boom")
		})
		assert.Error(t, err)
		again, err = s.GetPreferences(ctx, "u")
		require.NoError(t, err)
		assert.Equal(t, 3, again.ReadingStreak)
	})

	t.Run("concurrent preference updates do not lose writes", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.UpdatePreferences(ctx, "u", func(p *model.UserPreferences) error {
					p.ReadingStreak++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		p, err := s.GetPreferences(ctx, "u")
		require.NoError(t, err)
		assert.Equal(t, 5, p.ReadingStreak)
	})

	t.Run("push subscriptions are unique by endpoint", func(t *testing.T) {
		s := newStore(t)
		sub := &model.PushSubscription{Endpoint: "https://push/1", Keys: model.PushKeys{P256dh: "k1", Auth: "a1"}}
		require.NoError(t, s.SavePushSubscription(ctx, sub))
		require.NoError(t, s.SavePushSubscription(ctx, &model.PushSubscription{Endpoint: "https://push/1", Keys: model.PushKeys{P256dh: "k2", Auth: "a2"}}))
		require.NoError(t, s.SavePushSubscription(ctx, &model.PushSubscription{Endpoint: "https://push/2"}))

		subs, err := s.ListPushSubscriptions(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 2)

		require.NoError(t, s.DeletePushSubscription(ctx, "https://push/1"))
		require.NoError(t, s.DeletePushSubscription(ctx, "https://push/unknown"))
		subs, err = s.ListPushSubscriptions(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "https://push/2", subs[0].Endpoint)
	})
}
