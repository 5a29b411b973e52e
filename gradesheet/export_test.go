package gradesheet

import (
	"fmt"
	"reflect"
	"testing"
)

// gridToRows renders an export grid the way a spreadsheet reader hands
// it back: every cell as a string.
func gridToRows(grid [][]interface{}) [][]string {
	rows := make([][]string, len(grid))
	for i, r := range grid {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows
}

func TestBuildGridShape(t *testing.T) {
	ctx := testContext()
	students := []Student{
		{EDBOID: 1001, Name: "Shevchenko Taras", Grades: map[string]int{"01-09-2024": 9}},
		{EDBOID: 1002, Name: "Franko Ivan", Grades: map[string]int{"05-09-2024": 12}},
	}
	grid := BuildGrid(ctx, students, CollectDates(students))

	if len(grid) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(grid))
	}
	wantMeta := [][]interface{}{
		{"Template", TemplateTeacher},
		{"Group", "KN-21-1"},
		{"Discipline", "Mathematics"},
		{"Grade System", "12-point"},
		{"EDBO ID", "Student", "01-09-2024", "05-09-2024"},
	}
	for i, want := range wantMeta {
		if !reflect.DeepEqual(grid[i], want) {
			t.Fatalf("row %d = %v, want %v", i, grid[i], want)
		}
	}
	if !reflect.DeepEqual(grid[5], []interface{}{1001, "Shevchenko Taras", 9, ""}) {
		t.Fatalf("unexpected data row: %v", grid[5])
	}
	if !reflect.DeepEqual(grid[6], []interface{}{1002, "Franko Ivan", "", 12}) {
		t.Fatalf("unexpected data row: %v", grid[6])
	}
}

func TestBuildGridEmptyRosterPlaceholder(t *testing.T) {
	grid := BuildGrid(testContext(), nil, nil)
	header := grid[4]
	if len(header) != 3 || header[2] != PlaceholderDate {
		t.Fatalf("empty export must carry the placeholder date header, got %v", header)
	}
}

// Exporting a roster and re-importing the produced grid against the
// same context must reproduce the grade map exactly.
func TestExportImportRoundTrip(t *testing.T) {
	ctx := testContext()
	students := []Student{
		{EDBOID: 1001, Name: "Shevchenko Taras", Grades: map[string]int{
			"01-09-2024": 9, "05-09-2024": 7, "20-12-2024": 11,
		}},
		{EDBOID: 1002, Name: "Franko Ivan", Grades: map[string]int{
			"05-09-2024": 12,
		}},
	}

	grid := BuildGrid(ctx, students, CollectDates(students))
	subs, err := ParseSheet(gridToRows(grid), ctx)
	if err != nil {
		t.Fatalf("round trip rejected: %v", err)
	}

	got := map[uint]map[string]int{}
	for _, s := range subs {
		if got[s.EDBOID] == nil {
			got[s.EDBOID] = map[string]int{}
		}
		got[s.EDBOID][s.Date] = s.Grade
	}
	for _, st := range students {
		if !reflect.DeepEqual(got[st.EDBOID], st.Grades) {
			t.Fatalf("grades for %d = %v, want %v", st.EDBOID, got[st.EDBOID], st.Grades)
		}
	}
}

// Single-student scenario: the exported grid re-imports cleanly and
// yields exactly one submission; the importer always submits every
// non-blank cell regardless of the previously committed value.
func TestExportImportSingleStudentScenario(t *testing.T) {
	ctx := testContext()
	ctx.Roster = map[uint]struct{}{1001: {}}
	students := []Student{
		{EDBOID: 1001, Name: "Smith", Grades: map[string]int{"01-09-2024": 9}},
	}

	grid := BuildGrid(ctx, students, CollectDates(students))
	if !reflect.DeepEqual(grid[4], []interface{}{"EDBO ID", "Student", "01-09-2024"}) {
		t.Fatalf("unexpected header row: %v", grid[4])
	}

	subs, err := ParseSheet(gridToRows(grid), ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Submission{{Row: 6, EDBOID: 1001, Date: "01-09-2024", Grade: 9}}
	if !reflect.DeepEqual(subs, want) {
		t.Fatalf("submissions = %v, want %v", subs, want)
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		group      string
		discipline string
		want       string
	}{
		{
			name:       "plain",
			role:       "Teacher",
			group:      "KN-21-1",
			discipline: "Mathematics",
			want:       "Teacher_Grades_KN-21-1_Mathematics.xlsx",
		},
		{
			name:       "illegal characters stripped",
			role:       "Admin",
			group:      "KN-21-1",
			discipline: `Math/Stats: "Intro"?`,
			want:       "Admin_Grades_KN-21-1_Math-Stats- -Intro--.xlsx",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ExportFileName(tc.role, tc.group, tc.discipline)
			if got != tc.want {
				t.Fatalf("ExportFileName = %q, want %q", got, tc.want)
			}
		})
	}
}
