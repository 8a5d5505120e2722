package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weekdays are the keys of a WeekSchedule, Monday first.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var ErrInvalidSchedule = errors.New("invalid work schedule")

const (
	defaultWorkStart = "09:00"
	defaultWorkEnd   = "17:00"
)

// WorkDay is one day of a work schedule. Times are "HH:MM".
type WorkDay struct {
	IsWorking bool   `json:"is_working"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WeekSchedule maps a lower-case weekday name to its working hours.
type WeekSchedule map[string]WorkDay

// NormalizeSchedule returns a copy of in with every weekday present. Missing
// days are days off, and blank times default to 09:00-17:00. Unknown day
// names, malformed times and working days that end before they start are
// rejected.
func NormalizeSchedule(in WeekSchedule) (WeekSchedule, error) {
	out := make(WeekSchedule, len(Weekdays))
	for _, day := range Weekdays {
		out[day] = WorkDay{StartTime: defaultWorkStart, EndTime: defaultWorkEnd}
	}

	for key, wd := range in {
		day := strings.ToLower(strings.TrimSpace(key))
		if _, ok := out[day]; !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, key)
		}
		if wd.StartTime == "" {
			wd.StartTime = defaultWorkStart
		}
		if wd.EndTime == "" {
			wd.EndTime = defaultWorkEnd
		}
		start, err := time.Parse("15:04", wd.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %s start_time %q, expected HH:MM", ErrInvalidSchedule, day, wd.StartTime)
		}
		end, err := time.Parse("15:04", wd.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %s end_time %q, expected HH:MM", ErrInvalidSchedule, day, wd.EndTime)
		}
		if wd.IsWorking && !end.After(start) {
			return nil, fmt.Errorf("%w: %s ends before it starts", ErrInvalidSchedule, day)
		}
		out[day] = wd
	}
	return out, nil
}

// WorkingDays counts the days marked as working.
func (s WeekSchedule) WorkingDays() int {
	n := 0
	for _, day := range Weekdays {
		if s[day].IsWorking {
			n++
		}
	}
	return n
}
