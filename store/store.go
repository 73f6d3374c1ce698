package store

import (
	"context"
	"os"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/utils"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const defaultMongoDatabase = "newsreader"

// PreferencesMutation is applied to a user's preferences inside an atomic
// read-modify-write. Returning an error aborts the write.
type PreferencesMutation func(p *model.UserPreferences) error

// Store persists every per-user record of the reader. Implementations must be
// safe for concurrent use. All records are owned by exactly one user and
// lookups are always scoped by that user's id.
type Store interface {
	// CreateUser inserts u, returning ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	ListBookmarks(ctx context.Context, userID string) ([]*model.Bookmark, error)
	CreateBookmark(ctx context.Context, b *model.Bookmark) error
	// DeleteBookmark returns ErrNotFound unless id exists and belongs to userID.
	DeleteBookmark(ctx context.Context, userID string, id string) error

	// AddHistoryEntry inserts e unless the user already has an entry for the
	// same article url. The check and the insert are atomic.
	AddHistoryEntry(ctx context.Context, e *model.ReadingHistoryEntry) (inserted bool, err error)
	// ListHistory returns entries newest first, at most limit of them when
	// limit is positive.
	ListHistory(ctx context.Context, userID string, limit int) ([]*model.ReadingHistoryEntry, error)

	// GetPreferences returns the user's preferences, creating the default
	// record on first access.
	GetPreferences(ctx context.Context, userID string) (*model.UserPreferences, error)
	// UpdatePreferences atomically loads (or creates), mutates and saves the
	// user's preferences, returning the stored result.
	UpdatePreferences(ctx context.Context, userID string, fn PreferencesMutation) (*model.UserPreferences, error)

	// SavePushSubscription inserts or replaces the subscription by endpoint.
	SavePushSubscription(ctx context.Context, s *model.PushSubscription) error
	// DeletePushSubscription is a no-op when the endpoint is unknown.
	DeletePushSubscription(ctx context.Context, endpoint string) error
	ListPushSubscriptions(ctx context.Context) ([]*model.PushSubscription, error)

	Close() error
}

// OpenFromEnv picks the backend from the environment: MONGODB_URI selects the
// document store, DB_HOST selects postgres, otherwise records live in memory
// and are lost on restart.
func OpenFromEnv(ctx context.Context) (Store, error) {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		dbName := os.Getenv("MONGODB_DATABASE")
		if dbName == "" {
			dbName = defaultMongoDatabase
		}
		s, err := NewMongoStore(ctx, uri, dbName)
		if err != nil {
			return nil, errors.Wrap(err, "fail to connect to mongodb")
		}
		Log.WithField("database", dbName).Info("using mongodb store")
		return s, nil
	}

	if utils.IsPostgresConfigured() {
		db, err := utils.GetDBConnection()
		if err != nil {
			return nil, errors.Wrap(err, "fail to connect to postgres")
		}
		if err := utils.DatabaseSetupAndMigration(db); err != nil {
			return nil, errors.Wrap(err, "fail to migrate postgres")
		}
		Log.Info("using postgres store")
		return NewPostgresStore(db), nil
	}

	Log.Warn("no database configured, using in-memory store")
	return NewMemoryStore(), nil
}
