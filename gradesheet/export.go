package gradesheet

import (
	"fmt"
	"strings"
)

// BuildGrid serializes a roster into the grade-sheet grid: four
// metadata rows, the header row, then one row per student in the
// order given. dates must already be sorted (see CollectDates); when
// empty, a single placeholder date header keeps the shape valid.
// Grade cells are ints, blanks are empty strings.
func BuildGrid(ctx Context, students []Student, dates []string) [][]interface{} {
	if len(dates) == 0 {
		dates = []string{PlaceholderDate}
	}

	tpl := ""
	if len(ctx.Templates) > 0 {
		tpl = ctx.Templates[0]
	}

	grid := make([][]interface{}, 0, len(students)+5)
	grid = append(grid,
		[]interface{}{"Template", tpl},
		[]interface{}{"Group", ctx.GroupCode},
		[]interface{}{"Discipline", ctx.Discipline},
		[]interface{}{"Grade System", ctx.GradeSystem.ID},
	)

	header := make([]interface{}, 0, len(dates)+2)
	header = append(header, "EDBO ID", "Student")
	for _, d := range dates {
		header = append(header, d)
	}
	grid = append(grid, header)

	for _, st := range students {
		row := make([]interface{}, 0, len(dates)+2)
		row = append(row, int(st.EDBOID), st.Name)
		for _, d := range dates {
			if g, ok := st.Grades[d]; ok {
				row = append(row, g)
			} else {
				row = append(row, "")
			}
		}
		grid = append(grid, row)
	}
	return grid
}

// fileNameSanitizer maps filesystem-illegal characters to "-".
var fileNameSanitizer = strings.NewReplacer(
	`\`, "-", "/", "-", ":", "-", "*", "-",
	"?", "-", `"`, "-", "<", "-", ">", "-", "|", "-",
)

// SanitizeFileNamePart strips characters that cannot appear in a
// download file name.
func SanitizeFileNamePart(s string) string {
	return fileNameSanitizer.Replace(s)
}

// ExportFileName builds the download name for an exported sheet,
// e.g. "Teacher_Grades_KN-21-1_Mathematics.xlsx".
func ExportFileName(role, groupCode, discipline string) string {
	return fmt.Sprintf("%s_Grades_%s_%s.xlsx",
		role, SanitizeFileNamePart(groupCode), SanitizeFileNamePart(discipline))
}
