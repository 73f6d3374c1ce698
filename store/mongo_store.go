package store

import (
	"context"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection             = "users"
	bookmarksCollection         = "bookmarks"
	historyCollection           = "reading_histories"
	preferencesCollection       = "user_preferences"
	pushSubscriptionsCollection = "push_subscriptions"

	// Preference writes are optimistic, a writer that loses the race reloads
	// and reapplies its mutation at most this many times.
	maxPreferenceUpdateAttempts = 5
)

// MongoStore keeps each record kind in its own collection. Uniqueness of user
// email and of (userId, articleUrl) in history is enforced by indexes.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, uri string, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	s := &MongoStore{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, "fail to create indexes")
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := s.db.Collection(bookmarksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := s.db.Collection(historyCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "articleUrl", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "viewedAt", Value: -1}},
		},
	})
	return err
}

func (s *MongoStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return errors.Wrap(err, "fail to create user")
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	err := s.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to query user")
	}
	return &u, nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) ListBookmarks(ctx context.Context, userID string) ([]*model.Bookmark, error) {
	cur, err := s.db.Collection(bookmarksCollection).Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "fail to list bookmarks")
	}
	bookmarks := []*model.Bookmark{}
	if err := cur.All(ctx, &bookmarks); err != nil {
		return nil, errors.Wrap(err, "fail to decode bookmarks")
	}
	return bookmarks, nil
}

func (s *MongoStore) CreateBookmark(ctx context.Context, b *model.Bookmark) error {
	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	_, err := s.db.Collection(bookmarksCollection).InsertOne(ctx, b)
	return errors.Wrap(err, "fail to create bookmark")
}

func (s *MongoStore) DeleteBookmark(ctx context.Context, userID string, id string) error {
	res, err := s.db.Collection(bookmarksCollection).DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return errors.Wrap(err, "fail to delete bookmark")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AddHistoryEntry(ctx context.Context, e *model.ReadingHistoryEntry) (bool, error) {
	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	res, err := s.db.Collection(historyCollection).UpdateOne(ctx,
		bson.M{"userId": e.UserID, "articleUrl": e.ArticleURL},
		bson.M{"$setOnInsert": e},
		options.Update().SetUpsert(true))
	// Two concurrent upserts can both miss and race on the unique index, the
	// loser sees a duplicate key error which means the entry exists.
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "fail to add history entry")
	}
	return res.UpsertedCount == 1, nil
}

func (s *MongoStore) ListHistory(ctx context.Context, userID string, limit int) ([]*model.ReadingHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "viewedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(historyCollection).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "fail to list history")
	}
	entries := []*model.ReadingHistoryEntry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, errors.Wrap(err, "fail to decode history")
	}
	return entries, nil
}

func (s *MongoStore) GetPreferences(ctx context.Context, userID string) (*model.UserPreferences, error) {
	var p model.UserPreferences
	err := s.db.Collection(preferencesCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": model.NewUserPreferences(userID)},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load preferences")
	}
	p.Normalize()
	return &p, nil
}

func (s *MongoStore) UpdatePreferences(ctx context.Context, userID string, fn PreferencesMutation) (*model.UserPreferences, error) {
	for attempt := 0; attempt < maxPreferenceUpdateAttempts; attempt++ {
		p, err := s.GetPreferences(ctx, userID)
		if err != nil {
			return nil, err
		}
		version := p.Version
		if err := fn(p); err != nil {
			return nil, err
		}
		p.UserID = userID
		p.Version = version + 1
		p.UpdatedAt = time.Now()

		res, err := s.db.Collection(preferencesCollection).ReplaceOne(ctx,
			bson.M{"_id": userID, "version": version}, p)
		if err != nil {
			return nil, errors.Wrap(err, "fail to save preferences")
		}
		if res.MatchedCount == 1 {
			return p, nil
		}
	}
	return nil, errors.Errorf("preferences of user %s kept changing, gave up after %d attempts", userID, maxPreferenceUpdateAttempts)
}

func (s *MongoStore) SavePushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	_, err := s.db.Collection(pushSubscriptionsCollection).ReplaceOne(ctx,
		bson.M{"_id": sub.Endpoint}, sub, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "fail to save push subscription")
}

func (s *MongoStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	_, err := s.db.Collection(pushSubscriptionsCollection).DeleteOne(ctx, bson.M{"_id": endpoint})
	return errors.Wrap(err, "fail to delete push subscription")
}

func (s *MongoStore) ListPushSubscriptions(ctx context.Context) ([]*model.PushSubscription, error) {
	cur, err := s.db.Collection(pushSubscriptionsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "fail to list push subscriptions")
	}
	subs := []*model.PushSubscription{}
	if err := cur.All(ctx, &subs); err != nil {
		return nil, errors.Wrap(err, "fail to decode push subscriptions")
	}
	return subs, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// Drop removes the whole database. Only used by tests.
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
