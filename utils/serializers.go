package utils

import (
	"unifiedweb_go/gradesheet"
	"unifiedweb_go/models"
)

// StudentAssessmentDTO is the roster entry the grades screens consume:
// identity, display names and the per-discipline date-to-grade map.
type StudentAssessmentDTO struct {
	EDBOID     uint                      `json:"edbo_id"`
	FirstName  string                    `json:"first_name"`
	MiddleName string                    `json:"middle_name"`
	LastName   string                    `json:"last_name"`
	Name       string                    `json:"name"`
	Discipline map[string]map[string]int `json:"discipline"`
}

// RosterDTO is the full (group, discipline) grade view. Dates is the
// union of DateKeys across students, sorted by calendar order, so the
// grid renders the same column set for every row.
type RosterDTO struct {
	GroupID      uint                   `json:"group_id"`
	GroupCode    string                 `json:"group_code"`
	DisciplineID uint                   `json:"discipline_id"`
	Discipline   string                 `json:"discipline"`
	GradeSystem  string                 `json:"grade_system"`
	Dates        []string               `json:"dates"`
	Students     []StudentAssessmentDTO `json:"students"`
}

// ToStudentAssessmentDTO maps a student and their assessments in one
// discipline to the roster entry shape.
func ToStudentAssessmentDTO(st models.Student, discipline string, assessments []models.Assessment) StudentAssessmentDTO {
	grades := map[string]int{}
	for _, a := range assessments {
		if a.StudentID == st.ID {
			grades[a.Date] = a.Grade
		}
	}
	return StudentAssessmentDTO{
		EDBOID:     st.EDBOID,
		FirstName:  st.FirstName,
		MiddleName: st.MiddleName,
		LastName:   st.LastName,
		Name:       st.DisplayName(),
		Discipline: map[string]map[string]int{discipline: grades},
	}
}

// GradeSheetStudents converts roster entries into the pure export
// representation used by gradesheet.BuildGrid.
func GradeSheetStudents(roster RosterDTO) []gradesheet.Student {
	out := make([]gradesheet.Student, 0, len(roster.Students))
	for _, st := range roster.Students {
		out = append(out, gradesheet.Student{
			EDBOID: st.EDBOID,
			Name:   st.Name,
			Grades: st.Discipline[roster.Discipline],
		})
	}
	return out
}
