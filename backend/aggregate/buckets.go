package aggregate

import (
	"sort"
	"time"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var WeekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Bucket is one point of a zero-filled time series.
type Bucket struct {
	Name string  `json:"name"`
	Qty  float64 `json:"qty"`
}

// CategoryBucket is one slice of a category breakdown.
type CategoryBucket struct {
	Category models.WaterCategory `json:"category"`
	TotalQty float64              `json:"total_qty"`
}

type Summary struct {
	Today     float64 `json:"today"`
	ThisWeek  float64 `json:"this_week"`
	ThisMonth float64 `json:"this_month"`
}

// ByMonth returns exactly 12 buckets, Jan..Dec, for the current year.
// Totals dated in any other year are ignored.
func ByMonth(now time.Time, totals []models.DailyTotal) []Bucket {
	buckets := make([]Bucket, len(MonthLabels))
	for i, label := range MonthLabels {
		buckets[i] = Bucket{Name: label}
	}

	window := YearWindow(now)
	for _, t := range totals {
		if !window.Contains(t.Date) {
			continue
		}
		buckets[int(t.Date.Month())-1].Qty += t.Qty
	}
	return buckets
}

// ByWeek returns exactly 7 buckets, Mon..Sun, for the current week.
func ByWeek(now time.Time, totals []models.DailyTotal) []Bucket {
	buckets := make([]Bucket, len(WeekdayLabels))
	for i, label := range WeekdayLabels {
		buckets[i] = Bucket{Name: label}
	}

	window := WeekWindow(now)
	for _, t := range totals {
		if !window.Contains(t.Date) {
			continue
		}
		buckets[weekdayIndex(t.Date)].Qty += t.Qty
	}
	return buckets
}

// ByCategory emits one bucket per category present in totals; absent categories are
// not zero-filled. Known categories come first in models.WaterCategories order.
func ByCategory(totals []models.CategoryTotal) []CategoryBucket {
	sums := make(map[models.WaterCategory]float64, len(totals))
	for _, t := range totals {
		sums[t.Category] += t.Qty
	}

	buckets := make([]CategoryBucket, 0, len(sums))
	for _, c := range models.WaterCategories {
		if qty, ok := sums[c]; ok {
			buckets = append(buckets, CategoryBucket{Category: c, TotalQty: qty})
			delete(sums, c)
		}
	}

	// anything left is a value the enum does not know about
	unknown := make([]CategoryBucket, 0, len(sums))
	for c, qty := range sums {
		unknown = append(unknown, CategoryBucket{Category: c, TotalQty: qty})
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].Category < unknown[j].Category })
	return append(buckets, unknown...)
}

// Summarize sums today, Monday..today and the 1st..today. Future-dated totals never count.
func Summarize(now time.Time, totals []models.DailyTotal) Summary {
	today := Today(now)
	week := Window{From: weekStart(today), To: today}
	month := Window{From: monthStart(today), To: today}

	var s Summary
	for _, t := range totals {
		if t.Date.Equal(today) {
			s.Today += t.Qty
		}
		if week.Contains(t.Date) {
			s.ThisWeek += t.Qty
		}
		if month.Contains(t.Date) {
			s.ThisMonth += t.Qty
		}
	}
	return s
}
