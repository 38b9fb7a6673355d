// Package aggregate turns one owner's per-day and per-category totals into chart series
// and summary scalars. Every function is pure; callers pass "now" already converted to
// the display time zone and data already scoped to a single owner.
package aggregate
