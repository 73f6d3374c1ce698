package store

import (
	"context"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore persists records through gorm. Tables are created by
// utils.DatabaseSetupAndMigration.
type PostgresStore struct {
	DB *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func isDuplicateKey(err error) bool {
	// Requires gorm.Config.TranslateError, set by utils.GetCustomizedConnection.
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	err := s.DB.WithContext(ctx).Create(u).Error
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return errors.Wrap(err, "fail to create user")
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg string) (*model.User, error) {
	var u model.User
	err := s.DB.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to query user")
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *PostgresStore) ListBookmarks(ctx context.Context, userID string) ([]*model.Bookmark, error) {
	bookmarks := []*model.Bookmark{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&bookmarks).Error
	return bookmarks, errors.Wrap(err, "fail to list bookmarks")
}

func (s *PostgresStore) CreateBookmark(ctx context.Context, b *model.Bookmark) error {
	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	return errors.Wrap(s.DB.WithContext(ctx).Create(b).Error, "fail to create bookmark")
}

func (s *PostgresStore) DeleteBookmark(ctx context.Context, userID string, id string) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Bookmark{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "fail to delete bookmark")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddHistoryEntry(ctx context.Context, e *model.ReadingHistoryEntry) (bool, error) {
	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	// The unique index on (user_id, article_url) turns a concurrent duplicate
	// into a no-op instead of a second row.
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_url"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "fail to add history entry")
	}
	return res.RowsAffected == 1, nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, userID string, limit int) ([]*model.ReadingHistoryEntry, error) {
	entries := []*model.ReadingHistoryEntry{}
	q := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, errors.Wrap(err, "fail to list history")
}

// ensurePreferences inserts the default record unless one exists already.
func ensurePreferences(tx *gorm.DB, userID string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(model.NewUserPreferences(userID)).Error
}

func (s *PostgresStore) GetPreferences(ctx context.Context, userID string) (*model.UserPreferences, error) {
	db := s.DB.WithContext(ctx)
	if err := ensurePreferences(db, userID); err != nil {
		return nil, errors.Wrap(err, "fail to create default preferences")
	}
	var p model.UserPreferences
	if err := db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load preferences")
	}
	p.Normalize()
	return &p, nil
}

func (s *PostgresStore) UpdatePreferences(ctx context.Context, userID string, fn PreferencesMutation) (*model.UserPreferences, error) {
	var p model.UserPreferences
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePreferences(tx, userID); err != nil {
			return err
		}
		// Row lock serializes concurrent writers of the same user.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&p).Error; err != nil {
			return err
		}
		p.Normalize()
		if err := fn(&p); err != nil {
			return err
		}
		p.UserID = userID
		p.Version++
		p.UpdatedAt = time.Now()
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to update preferences")
	}
	return &p, nil
}

func (s *PostgresStore) SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"key_p256dh", "key_auth"}),
		}).
		Create(sub).Error
	return errors.Wrap(err, "fail to save push subscription")
}

func (s *PostgresStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	err := s.DB.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&model.PushSubscription{}).Error
	return errors.Wrap(err, "fail to delete push subscription")
}

func (s *PostgresStore) ListPushSubscriptions(ctx context.Context) ([]*model.PushSubscription, error) {
	subs := []*model.PushSubscription{}
	err := s.DB.WithContext(ctx).Order("created_at asc").Find(&subs).Error
	return subs, errors.Wrap(err, "fail to list push subscriptions")
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
