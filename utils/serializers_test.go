package utils

import (
	"reflect"
	"testing"

	"unifiedweb_go/models"
)

func TestToStudentAssessmentDTO(t *testing.T) {
	st := models.Student{
		BaseModel:  models.BaseModel{ID: 7},
		EDBOID:     123456,
		FirstName:  "Taras",
		MiddleName: "Hryhorovych",
		LastName:   "Shevchenko",
	}
	assessments := []models.Assessment{
		{StudentID: 7, Date: "01-09-2024", Grade: 9},
		{StudentID: 7, Date: "05-09-2024", Grade: 11},
		{StudentID: 8, Date: "01-09-2024", Grade: 4},
	}

	dto := ToStudentAssessmentDTO(st, "Mathematics", assessments)

	if dto.EDBOID != 123456 {
		t.Errorf("EDBOID = %d, want 123456", dto.EDBOID)
	}
	if dto.Name != "Shevchenko Taras Hryhorovych" {
		t.Errorf("Name = %q", dto.Name)
	}
	wantGrades := map[string]int{"01-09-2024": 9, "05-09-2024": 11}
	if !reflect.DeepEqual(dto.Discipline["Mathematics"], wantGrades) {
		t.Errorf("grades = %v, want %v", dto.Discipline["Mathematics"], wantGrades)
	}
}

func TestToStudentAssessmentDTOEmpty(t *testing.T) {
	st := models.Student{BaseModel: models.BaseModel{ID: 7}, EDBOID: 1001, FirstName: "Ivan", LastName: "Franko"}

	dto := ToStudentAssessmentDTO(st, "Physics", nil)

	grades, ok := dto.Discipline["Physics"]
	if !ok || len(grades) != 0 {
		t.Errorf("expected empty grade map under discipline key, got %v", dto.Discipline)
	}
}

func TestGradeSheetStudents(t *testing.T) {
	roster := RosterDTO{
		Discipline: "Mathematics",
		Students: []StudentAssessmentDTO{
			{
				EDBOID:     1001,
				Name:       "Shevchenko Taras",
				Discipline: map[string]map[string]int{"Mathematics": {"01-09-2024": 9}},
			},
			{
				EDBOID:     1002,
				Name:       "Franko Ivan",
				Discipline: map[string]map[string]int{"Mathematics": {}},
			},
		},
	}

	students := GradeSheetStudents(roster)

	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}
	if students[0].EDBOID != 1001 || students[0].Name != "Shevchenko Taras" {
		t.Errorf("first student = %+v", students[0])
	}
	if students[0].Grades["01-09-2024"] != 9 {
		t.Errorf("grades not carried over: %v", students[0].Grades)
	}
	if len(students[1].Grades) != 0 {
		t.Errorf("second student should have no grades: %v", students[1].Grades)
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := []string{"xlsx", "xls", "csv"}
	cases := []struct {
		name string
		want bool
	}{
		{"grades.xlsx", true},
		{"grades.XLSX", true},
		{"old.xls", true},
		{"export.csv", true},
		{"grades.pdf", false},
		{"noextension", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidFileExtension(tc.name, allowed); got != tc.want {
			t.Errorf("IsValidFileExtension(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"active", "inactive", "suspended"} {
		if !IsValidStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"Active", "deleted", ""} {
		if IsValidStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
