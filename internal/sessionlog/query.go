package sessionlog

import "time"

// Predicate selects records in Query and Count.
type Predicate func(Record) bool

// OfType matches records of kind k.
func OfType(k Kind) Predicate {
	return func(r Record) bool { return r.Type == k }
}

// Since matches records completed at or after t.
func Since(t time.Time) Predicate {
	return func(r Record) bool { return !r.CompletedAt.Before(t) }
}

// Between matches records completed in [from, to].
func Between(from, to time.Time) Predicate {
	return func(r Record) bool {
		return !r.CompletedAt.Before(from) && !r.CompletedAt.After(to)
	}
}

// OnDay matches records whose local calendar day equals day's.
func OnDay(day time.Time) Predicate {
	key := DayKey(day)
	return func(r Record) bool { return DayKey(r.CompletedAt) == key }
}

// ForTask matches work records credited to id.
func ForTask(id string) Predicate {
	return func(r Record) bool { return r.TaskID == id }
}

// DayKey formats t's local calendar day as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}
