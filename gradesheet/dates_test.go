package gradesheet

import (
	"reflect"
	"testing"
)

func TestNormalizeDateHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already canonical",
			input: "01-09-2024",
			want:  "01-09-2024",
		},
		{
			name:  "dot separators",
			input: "01.09.2024",
			want:  "01-09-2024",
		},
		{
			name:  "slash separators",
			input: "01/09/2024",
			want:  "01-09-2024",
		},
		{
			name:  "padded input",
			input: "  15.01.2025 ",
			want:  "15-01-2025",
		},
		{
			name:  "serial day one",
			input: "1",
			want:  "31-12-1899",
		},
		{
			name:  "serial in 2024",
			input: "45292",
			want:  "01-01-2024",
		},
		{
			name:  "serial too large passes through",
			input: "100000",
			want:  "100000",
		},
		{
			name:  "free text passes through",
			input: "September",
			want:  "September",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeDateHeader(tc.input)
			if got != tc.want {
				t.Fatalf("NormalizeDateHeader(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeDateHeaderIdempotent(t *testing.T) {
	inputs := []string{"01-09-2024", "30.12.2024", "45292"}
	for _, in := range inputs {
		once := NormalizeDateHeader(in)
		twice := NormalizeDateHeader(once)
		if once != twice {
			t.Fatalf("normalization of %q is not idempotent: %q -> %q", in, once, twice)
		}
	}
}

func TestValidDateKey(t *testing.T) {
	valid := []string{"01-09-2024", "31-12-1899", "29-02-2024"}
	for _, s := range valid {
		if !ValidDateKey(s) {
			t.Fatalf("expected %q to be a valid date key", s)
		}
	}
	invalid := []string{"1-9-2024", "01.09.2024", "2024-09-01", "32-01-2024", "29-02-2023", "DD-MM-YYYY", ""}
	for _, s := range invalid {
		if ValidDateKey(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestSortDateKeysCalendarOrder(t *testing.T) {
	keys := []string{"02-01-2025", "30-12-2024", "15-09-2024", "01-01-2025"}
	SortDateKeys(keys)
	want := []string{"15-09-2024", "30-12-2024", "01-01-2025", "02-01-2025"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("SortDateKeys = %v, want %v", keys, want)
	}
}

func TestCollectDates(t *testing.T) {
	students := []Student{
		{EDBOID: 1001, Grades: map[string]int{"05-09-2024": 9, "01-09-2024": 7}},
		{EDBOID: 1002, Grades: map[string]int{"05-09-2024": 10, "20-12-2024": 11}},
	}
	got := CollectDates(students)
	want := []string{"01-09-2024", "05-09-2024", "20-12-2024"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CollectDates = %v, want %v", got, want)
	}
}
