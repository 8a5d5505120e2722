// Package planner lays meal-plan events out on a Monday-first weekly calendar.
package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dayLayout = "2006-01-02"

// Event is a calendar entry on a single day.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Date      time.Time  `json:"date"`
	MealType  string     `json:"meal_type"`
	Title     string     `json:"title"`
	RecipeID  *uuid.UUID `json:"recipe_id,omitempty"`
	StartTime string     `json:"start_time,omitempty"`
	EndTime   string     `json:"end_time,omitempty"`
}

// Day is one column of the weekly calendar.
type Day struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

var mealTypeRank = map[string]int{
	"breakfast": 0,
	"lunch":     1,
	"dinner":    2,
	"snack":     3,
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// WeekDays returns the seven dates starting at start.
func WeekDays(start time.Time) []time.Time {
	days := make([]time.Time, 7)
	y, m, d := start.Date()
	for i := range days {
		days[i] = time.Date(y, m, d+i, 0, 0, 0, 0, start.Location())
	}
	return days
}

// WeekRange returns the first and last day of the week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	start := StartOfWeek(t)
	y, m, d := start.Date()
	return start, time.Date(y, m, d+6, 0, 0, 0, 0, start.Location())
}

// BucketWeek places events into the seven days of the week containing start.
// Events outside that week are dropped. Within a day, events are ordered by
// meal type (breakfast, lunch, dinner, snack, anything else) then start time.
func BucketWeek(start time.Time, events []Event) []Day {
	days := WeekDays(StartOfWeek(start))
	out := make([]Day, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		key := d.Format(dayLayout)
		out[i] = Day{Date: key, Events: []Event{}}
		index[key] = i
	}

	for _, ev := range events {
		i, ok := index[ev.Date.Format(dayLayout)]
		if !ok {
			continue
		}
		out[i].Events = append(out[i].Events, ev)
	}

	for i := range out {
		evs := out[i].Events
		sort.SliceStable(evs, func(a, b int) bool {
			ra, rb := rank(evs[a].MealType), rank(evs[b].MealType)
			if ra != rb {
				return ra < rb
			}
			return startsBefore(evs[a].StartTime, evs[b].StartTime)
		})
	}

	return out
}

func rank(mealType string) int {
	if r, ok := mealTypeRank[strings.ToLower(mealType)]; ok {
		return r
	}
	return len(mealTypeRank)
}

// startsBefore orders "HH:MM" strings, with unset times last.
func startsBefore(a, b string) bool {
	switch {
	case a == b:
		return false
	case a == "":
		return false
	case b == "":
		return true
	}
	return a < b
}
