package grades

import (
	"errors"
	"testing"

	"unifiedweb_go/gradesheet"
	"unifiedweb_go/models"
)

func testRosterContext() *RosterContext {
	st := models.Student{
		BaseModel: models.BaseModel{ID: 7},
		EDBOID:    1001,
		FirstName: "Taras",
		LastName:  "Shevchenko",
	}
	return &RosterContext{
		Group:      models.Group{Code: "KN-21-1"},
		Discipline: models.Discipline{Name: "Mathematics"},
		Students:   []models.Student{st},
		ByEDBO:     map[uint]models.Student{1001: st},
		Sheet: gradesheet.Context{
			Templates:   []string{gradesheet.TemplateTeacher},
			GroupCode:   "KN-21-1",
			Discipline:  "Mathematics",
			GradeSystem: gradesheet.GradeSystem12,
			Roster:      map[uint]struct{}{1001: {}},
		},
	}
}

// Resubmitting the grade a cell already holds must not write.
func TestApplyNeeded(t *testing.T) {
	cases := []struct {
		name    string
		exists  bool
		current int
		next    int
		want    bool
	}{
		{"empty cell always writes", false, 0, 9, true},
		{"same grade is a no-op", true, 9, 9, false},
		{"changed grade writes", true, 9, 10, true},
		{"lowest grade resubmitted", true, 1, 1, false},
		{"empty cell matching zero value", false, 0, 12, true},
	}

	for _, tc := range cases {
		if got := applyNeeded(tc.exists, tc.current, tc.next); got != tc.want {
			t.Errorf("%s: applyNeeded(%v, %d, %d) = %v, want %v",
				tc.name, tc.exists, tc.current, tc.next, got, tc.want)
		}
	}
}

// Invalid submissions are rejected before the store is consulted; the
// nil db here would panic if any of these reached a query.
func TestSubmitCellRejectsBeforeStore(t *testing.T) {
	s := &Service{}
	rc := testRosterContext()

	cases := []struct {
		name string
		sub  gradesheet.Submission
		want error
	}{
		{"iso date", gradesheet.Submission{EDBOID: 1001, Date: "2024-09-01", Grade: 9}, ErrBadDateKey},
		{"empty date", gradesheet.Submission{EDBOID: 1001, Date: "", Grade: 9}, ErrBadDateKey},
		{"grade above scale", gradesheet.Submission{EDBOID: 1001, Date: "01-09-2024", Grade: 13}, ErrGradeOutOfRange},
		{"grade zero", gradesheet.Submission{EDBOID: 1001, Date: "01-09-2024", Grade: 0}, ErrGradeOutOfRange},
		{"unknown student", gradesheet.Submission{EDBOID: 9999, Date: "01-09-2024", Grade: 9}, ErrStudentNotInRoster},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			applied, err := s.SubmitCell(rc, tc.sub, 1)
			if applied {
				t.Error("invalid submission reported as applied")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
