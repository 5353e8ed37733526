package nutrition

import (
	"slices"

	"github.com/pageza/nutrilog/internal/models"
)

// Append inserts entry into the day at key and re-sorts that day newest
// first. The input log is not modified; only key changes in the result.
func Append(log models.WeeklyLog, key string, entry models.Entry) models.WeeklyLog {
	prev := log[key]
	day := make(models.DailyLog, 0, len(prev)+1)
	day = append(day, entry)
	day = append(day, prev...)
	SortDay(day)

	out := log.Clone()
	out[key] = day
	return out
}

// Replace applies update to the entry with the given id in the day at key.
// The entry keeps its id and timestamp whatever update returns. If the entry
// is not found the input log is returned unchanged and found is false.
func Replace(log models.WeeklyLog, key, id string, update func(models.Entry) models.Entry) (out models.WeeklyLog, found bool) {
	prev := log[key]
	i := indexOf(prev, id)
	if i < 0 {
		return log, false
	}

	orig := prev[i]
	next := update(orig)
	next.ID = orig.ID
	next.Timestamp = orig.Timestamp

	day := slices.Clone(prev)
	day[i] = next

	out = log.Clone()
	out[key] = day
	return out, true
}

// Remove drops the entry with the given id from the day at key. If the entry
// is not found the input log is returned unchanged and found is false.
func Remove(log models.WeeklyLog, key, id string) (out models.WeeklyLog, found bool) {
	prev := log[key]
	i := indexOf(prev, id)
	if i < 0 {
		return log, false
	}

	day := make(models.DailyLog, 0, len(prev)-1)
	day = append(day, prev[:i]...)
	day = append(day, prev[i+1:]...)

	out = log.Clone()
	out[key] = day
	return out, true
}

// Find returns the entry with the given id in the day at key.
func Find(log models.WeeklyLog, key, id string) (models.Entry, bool) {
	day := log[key]
	if i := indexOf(day, id); i >= 0 {
		return day[i], true
	}
	return models.Entry{}, false
}

// SortDay orders a day newest first. Entries with equal timestamps keep
// their relative order.
func SortDay(day models.DailyLog) {
	slices.SortStableFunc(day, func(a, b models.Entry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}

func indexOf(day models.DailyLog, id string) int {
	return slices.IndexFunc(day, func(e models.Entry) bool { return e.ID == id })
}
