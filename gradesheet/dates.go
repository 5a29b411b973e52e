package gradesheet

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateKey layout in Go reference time terms.
const dateKeyLayout = "02-01-2006"

var (
	dateKeyRe   = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	sheetDateRe = regexp.MustCompile(`^(\d{2})[-./](\d{2})[-./](\d{4})$`)
)

// serialEpoch is the spreadsheet serial-date epoch (1899-12-30, the
// traditional Excel convention): a serial value n is n days after it.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// NormalizeDateHeader rewrites a date-column header to the canonical
// DD-MM-YYYY key. Locale-formatted dates (DD.MM.YYYY, DD/MM/YYYY,
// DD-MM-YYYY) get their separators rewritten; positive integers below
// 100000 are treated as spreadsheet day-count serials; anything else
// passes through unchanged for the caller's format gate to reject.
// Idempotent on already canonical keys.
func NormalizeDateHeader(s string) string {
	s = strings.TrimSpace(s)
	if m := sheetDateRe.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 && n < 100000 {
		return serialEpoch.AddDate(0, 0, n).Format(dateKeyLayout)
	}
	return s
}

// ValidDateKey reports whether s is a canonical DD-MM-YYYY key.
func ValidDateKey(s string) bool {
	if !dateKeyRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateKeyLayout, s)
	return err == nil
}

// ParseDateKey parses a canonical key back into a calendar date.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(dateKeyLayout, s)
}

// FormatDateKey renders a calendar date as a DateKey.
func FormatDateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// SortDateKeys orders keys by calendar date, not lexically, so
// 02-01-2025 sorts after 30-12-2024. Keys that fail to parse keep a
// stable position at the end.
func SortDateKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ti, erri := time.Parse(dateKeyLayout, keys[i])
		tj, errj := time.Parse(dateKeyLayout, keys[j])
		if erri != nil || errj != nil {
			return errj != nil && erri == nil
		}
		return ti.Before(tj)
	})
}

// CollectDates gathers the distinct DateKeys appearing in any roster
// record, sorted ascending by calendar order.
func CollectDates(students []Student) []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, st := range students {
		for d := range st.Grades {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			keys = append(keys, d)
		}
	}
	SortDateKeys(keys)
	return keys
}
