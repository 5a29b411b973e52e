package gradesheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Check names identify which validation gate an uploaded sheet failed.
const (
	CheckShape       = "shape"
	CheckTemplate    = "template"
	CheckGroup       = "group"
	CheckDiscipline  = "discipline"
	CheckGradeSystem = "grade_system"
	CheckHeader      = "header"
	CheckDates       = "dates"
	CheckRoster      = "roster"
	CheckGrade       = "grade"
)

// ValidationError is a deterministic, client-side rejection of an
// uploaded sheet. No submissions are produced when one is returned.
type ValidationError struct {
	Check   string `json:"check"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(check, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Check: check, Message: fmt.Sprintf(format, args...)}
}

// cell returns the trimmed cell at (row, col), tolerant of the short
// rows spreadsheet readers produce when trailing cells are blank.
func cell(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return strings.TrimSpace(rows[row][col])
}

// checkMetaRow validates one of the four "label, value" context rows.
func checkMetaRow(rows [][]string, idx int, label, want, check string) *ValidationError {
	if cell(rows, idx, 0) != label {
		return validationErrorf(check, "file does not match the grade sheet template: row %d must be %q", idx+1, label)
	}
	if got := cell(rows, idx, 1); got != want {
		return validationErrorf(check, "%s mismatch: sheet has %q, selected %q", strings.ToLower(label), got, want)
	}
	return nil
}

// ParseSheet validates a raw spreadsheet grid against the current
// selection and returns the full list of grade submissions to apply.
// Checks run in template order and fail fast: the first violation is
// returned and nothing is applied. Data rows start at index 5; rows
// without a numeric, non-zero EDBO id in the first cell are skipped,
// but a present id that is not in the roster fails the whole import.
func ParseSheet(rows [][]string, ctx Context) ([]Submission, error) {
	if len(rows) < 5 {
		return nil, validationErrorf(CheckShape, "file does not match the grade sheet template")
	}

	if cell(rows, 0, 0) != "Template" || !ctx.acceptsTemplate(cell(rows, 0, 1)) {
		return nil, validationErrorf(CheckTemplate, "file does not match the expected template %q", ctx.Templates[0])
	}
	if err := checkMetaRow(rows, 1, "Group", ctx.GroupCode, CheckGroup); err != nil {
		return nil, err
	}
	if err := checkMetaRow(rows, 2, "Discipline", ctx.Discipline, CheckDiscipline); err != nil {
		return nil, err
	}
	if err := checkMetaRow(rows, 3, "Grade System", ctx.GradeSystem.ID, CheckGradeSystem); err != nil {
		return nil, err
	}

	if cell(rows, 4, 0) != "EDBO ID" || cell(rows, 4, 1) != "Student" {
		return nil, validationErrorf(CheckHeader, `header row must start with "EDBO ID", "Student"`)
	}

	// Date columns: normalize each non-blank header cell, then require
	// the canonical DD-MM-YYYY shape.
	type dateColumn struct {
		col int
		key string
	}
	var dateCols []dateColumn
	for col := 2; col < len(rows[4]); col++ {
		raw := cell(rows, 4, col)
		if raw == "" {
			continue
		}
		key := NormalizeDateHeader(raw)
		if !ValidDateKey(key) {
			return nil, validationErrorf(CheckDates, "invalid date column %q: expected DD-MM-YYYY", raw)
		}
		dateCols = append(dateCols, dateColumn{col: col, key: key})
	}
	if len(dateCols) == 0 {
		return nil, validationErrorf(CheckDates, "the sheet has no date columns")
	}

	var subs []Submission
	for i := 5; i < len(rows); i++ {
		idRaw := cell(rows, i, 0)
		if idRaw == "" {
			continue
		}
		id, err := strconv.ParseUint(idRaw, 10, 64)
		if err != nil || id == 0 {
			continue
		}
		edbo := uint(id)
		if _, ok := ctx.Roster[edbo]; !ok {
			return nil, validationErrorf(CheckRoster, "EDBO id %d (row %d) is not in the current roster", edbo, i+1)
		}

		for _, dc := range dateCols {
			raw := cell(rows, i, dc.col)
			if raw == "" {
				continue
			}
			grade, err := strconv.Atoi(raw)
			if err != nil || !ctx.GradeSystem.ValidGrade(grade) {
				return nil, validationErrorf(CheckGrade,
					"invalid grade %q for EDBO id %d on %s: expected an integer in [1, %d]",
					raw, edbo, dc.key, ctx.GradeSystem.Max)
			}
			subs = append(subs, Submission{Row: i + 1, EDBOID: edbo, Date: dc.key, Grade: grade})
		}
	}
	return subs, nil
}
