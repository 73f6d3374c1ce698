package tracker

import (
	"context"
	"time"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/store"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HistoryLimit caps how many entries History returns.
const HistoryLimit = 100

// Tracker records article views and keeps the per user reading streak.
type Tracker struct {
	store store.Store
	// now is replaced in tests to move across calendar days.
	now func() time.Time
}

func NewTracker(s store.Store) *Tracker {
	return &Tracker{store: s, now: time.Now}
}

// TrackView records that userID viewed article. Viewing the same url twice
// keeps the first entry. The streak is updated on every call, it changes at
// most once per calendar day.
func (t *Tracker) TrackView(ctx context.Context, userID string, article model.Article) error {
	now := t.now()

	inserted, err := t.store.AddHistoryEntry(ctx, model.NewReadingHistoryEntry(userID, article, now))
	if err != nil {
		return errors.Wrap(err, "fail to record view")
	}

	today := model.DateOf(now)
	prefs, err := t.store.UpdatePreferences(ctx, userID, func(p *model.UserPreferences) error {
		ApplyStreak(p, today)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "fail to update reading streak")
	}

	Log.WithFields(logrus.Fields{
		"user_id":  userID,
		"url":      article.Url,
		"new_view": inserted,
		"streak":   prefs.ReadingStreak,
	}).Debug("view tracked")
	return nil
}

// History returns the user's most recent views, newest first.
func (t *Tracker) History(ctx context.Context, userID string) ([]*model.ReadingHistoryEntry, error) {
	return t.store.ListHistory(ctx, userID, HistoryLimit)
}
