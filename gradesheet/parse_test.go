package gradesheet

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func testContext() Context {
	return Context{
		Templates:   []string{TemplateTeacher},
		GroupCode:   "KN-21-1",
		Discipline:  "Mathematics",
		GradeSystem: GradeSystem12,
		Roster:      map[uint]struct{}{1001: {}, 1002: {}},
	}
}

func testRows() [][]string {
	return [][]string{
		{"Template", TemplateTeacher},
		{"Group", "KN-21-1"},
		{"Discipline", "Mathematics"},
		{"Grade System", "12-point"},
		{"EDBO ID", "Student", "01-09-2024", "05-09-2024"},
		{"1001", "Shevchenko Taras", "9", ""},
		{"1002", "Franko Ivan", "", "12"},
	}
}

func mustFailCheck(t *testing.T, rows [][]string, ctx Context, check string) *ValidationError {
	t.Helper()
	subs, err := ParseSheet(rows, ctx)
	if err == nil {
		t.Fatalf("expected %s validation error, got %d submissions", check, len(subs))
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Check != check {
		t.Fatalf("expected check %q, got %q (%s)", check, verr.Check, verr.Message)
	}
	if subs != nil {
		t.Fatalf("a rejected sheet must produce zero submissions, got %v", subs)
	}
	return verr
}

func TestParseSheetValid(t *testing.T) {
	subs, err := ParseSheet(testRows(), testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Submission{
		{Row: 6, EDBOID: 1001, Date: "01-09-2024", Grade: 9},
		{Row: 7, EDBOID: 1002, Date: "05-09-2024", Grade: 12},
	}
	if !reflect.DeepEqual(subs, want) {
		t.Fatalf("submissions = %v, want %v", subs, want)
	}
}

func TestParseSheetNormalizesDateHeaders(t *testing.T) {
	rows := testRows()
	rows[4] = []string{"EDBO ID", "Student", "01.09.2024", "45292"}
	subs, err := ParseSheet(rows, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subs[0].Date != "01-09-2024" {
		t.Fatalf("dotted header not normalized: %q", subs[0].Date)
	}
	if subs[1].Date != "01-01-2024" {
		t.Fatalf("serial header not normalized: %q", subs[1].Date)
	}
}

func TestParseSheetTemplateGates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rows [][]string)
		check  string
	}{
		{
			name:   "too few rows",
			mutate: nil, // handled below
			check:  CheckShape,
		},
		{
			name:   "wrong template literal",
			mutate: func(rows [][]string) { rows[0][1] = TemplateAdmin },
			check:  CheckTemplate,
		},
		{
			name:   "group mismatch",
			mutate: func(rows [][]string) { rows[1][1] = "KN-22-2" },
			check:  CheckGroup,
		},
		{
			name:   "discipline mismatch",
			mutate: func(rows [][]string) { rows[2][1] = "Physics" },
			check:  CheckDiscipline,
		},
		{
			name:   "grade system mismatch",
			mutate: func(rows [][]string) { rows[3][1] = "5-point" },
			check:  CheckGradeSystem,
		},
		{
			name:   "bad header row",
			mutate: func(rows [][]string) { rows[4][0] = "ID" },
			check:  CheckHeader,
		},
		{
			name:   "no date columns",
			mutate: func(rows [][]string) { rows[4] = []string{"EDBO ID", "Student", "", " "} },
			check:  CheckDates,
		},
		{
			name:   "unparseable date column",
			mutate: func(rows [][]string) { rows[4][2] = "first of September" },
			check:  CheckDates,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rows := testRows()
			if tc.mutate == nil {
				rows = rows[:4]
			} else {
				tc.mutate(rows)
			}
			mustFailCheck(t, rows, testContext(), tc.check)
		})
	}
}

func TestParseSheetAdminAcceptsTeacherLiteral(t *testing.T) {
	ctx := testContext()
	ctx.Templates = []string{TemplateAdmin, TemplateTeacher}

	rows := testRows() // carries the teacher literal
	if _, err := ParseSheet(rows, ctx); err != nil {
		t.Fatalf("admin context must accept the legacy teacher literal: %v", err)
	}

	rows[0][1] = TemplateAdmin
	if _, err := ParseSheet(rows, ctx); err != nil {
		t.Fatalf("admin context must accept its own literal: %v", err)
	}
}

func TestParseSheetUnknownRosterID(t *testing.T) {
	rows := testRows()
	rows[5][0] = "9999"
	verr := mustFailCheck(t, rows, testContext(), CheckRoster)
	if want := "EDBO id 9999"; !strings.Contains(verr.Message, want) {
		t.Fatalf("error must name the offending id, got %q", verr.Message)
	}
}

func TestParseSheetSkipsNonRosterRows(t *testing.T) {
	rows := append(testRows(),
		[]string{},
		[]string{""},
		[]string{"0", "totals", "11"},
		[]string{"not-a-number", "note row"},
	)
	subs, err := ParseSheet(rows, testContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("filler rows must be skipped, got %d submissions", len(subs))
	}
}

func TestParseSheetGradeRange(t *testing.T) {
	for _, bad := range []string{"0", "13", "-1", "3.5", "abc"} {
		rows := testRows()
		rows[5][2] = bad
		verr := mustFailCheck(t, rows, testContext(), CheckGrade)
		if !strings.Contains(verr.Message, "1001") || !strings.Contains(verr.Message, "01-09-2024") {
			t.Fatalf("grade error must name the id and date, got %q", verr.Message)
		}
	}
	for g := 1; g <= 12; g++ {
		rows := testRows()
		rows[5][2] = fmt.Sprint(g)
		if _, err := ParseSheet(rows, testContext()); err != nil {
			t.Fatalf("grade %d must be accepted: %v", g, err)
		}
	}
}

func TestValidGradeBounds(t *testing.T) {
	for g := 1; g <= 12; g++ {
		if !GradeSystem12.ValidGrade(g) {
			t.Fatalf("grade %d must be valid on the 12-point scale", g)
		}
	}
	for _, g := range []int{0, 13, -1, 100} {
		if GradeSystem12.ValidGrade(g) {
			t.Fatalf("grade %d must be rejected on the 12-point scale", g)
		}
	}
	if !GradeSystem5.ValidGrade(5) || GradeSystem5.ValidGrade(6) {
		t.Fatalf("5-point scale bounds are wrong")
	}
}
