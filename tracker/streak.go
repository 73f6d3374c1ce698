package tracker

import (
	"time"

	"github.com/Luismorlan/newsreader/model"
)

// ApplyStreak advances p's reading streak for a read happening on today,
// which must come from model.DateOf. It returns true iff p was changed.
//
//	no previous read         -> streak 1
//	same day                 -> unchanged
//	previous day             -> streak + 1
//	older, or in the future  -> streak 1
//
// A last read date after today only happens with clock skew or backdated
// records, it resets the streak like a gap does.
func ApplyStreak(p *model.UserPreferences, today time.Time) bool {
	if p.LastReadDate == nil {
		p.ReadingStreak = 1
		p.LastReadDate = &today
		return true
	}

	switch model.DaysBetween(*p.LastReadDate, today) {
	case 0:
		return false
	case 1:
		p.ReadingStreak++
	default:
		p.ReadingStreak = 1
	}
	p.LastReadDate = &today
	return true
}
