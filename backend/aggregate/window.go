package aggregate

import (
	"time"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

// Window is an inclusive range of calendar days.
type Window struct {
	From models.Date
	To   models.Date
}

func (w Window) Contains(d models.Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

func Today(now time.Time) models.Date {
	return models.NewDate(now)
}

// YearWindow spans Jan 1 to Dec 31 of the current year.
func YearWindow(now time.Time) Window {
	return Window{
		From: models.NewDate(time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)),
		To:   models.NewDate(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
}

// MonthWindow spans the first to the last day of the current month.
func MonthWindow(now time.Time) Window {
	first := models.NewDate(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	return Window{From: first, To: models.NewDate(first.AddDate(0, 1, -1))}
}

// WeekWindow spans Monday to Sunday of the current ISO week.
func WeekWindow(now time.Time) Window {
	monday := weekStart(Today(now))
	return Window{From: monday, To: monday.AddDays(6)}
}

// SummaryWindow covers every day Summarize looks at: from whichever of the week start
// and month start comes first, up to today.
func SummaryWindow(now time.Time) Window {
	today := Today(now)
	from := weekStart(today)
	if monthStart := monthStart(today); monthStart.Before(from) {
		from = monthStart
	}
	return Window{From: from, To: today}
}

func weekStart(d models.Date) models.Date {
	return d.AddDays(-weekdayIndex(d))
}

func monthStart(d models.Date) models.Date {
	return models.NewDate(time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC))
}

// weekdayIndex is 0 for Monday through 6 for Sunday.
func weekdayIndex(d models.Date) int {
	return (int(d.Weekday()) + 6) % 7
}
