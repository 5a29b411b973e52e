// Package gradesheet implements the grade-sheet exchange format:
// building export grids, validating uploaded sheets against a live
// roster context and producing the per-cell submissions to apply.
// Everything here is pure; file and store I/O stay in the callers.
package gradesheet

import "strings"

// Template literals identify which exporter produced a sheet. The
// admin importer also accepts the teacher literal for files exported
// before the admin screen existed; the teacher importer accepts only
// its own.
const (
	TemplateTeacher = "UnifiedWeb Teacher Grades"
	TemplateAdmin   = "UnifiedWeb Admin Grades"
)

// PlaceholderDate is emitted as the single date header when a roster
// has no grades yet, so the exported file keeps a valid header shape.
const PlaceholderDate = "DD-MM-YYYY"

// GradeSystem is a named grading scale with an inclusive upper bound.
// Grades are integers in [1, Max].
type GradeSystem struct {
	ID  string `json:"id"`
	Max int    `json:"max"`
}

var (
	GradeSystem12 = GradeSystem{ID: "12-point", Max: 12}
	GradeSystem5  = GradeSystem{ID: "5-point", Max: 5}
)

// GradeSystemByID resolves a scale identifier from a sheet or request.
func GradeSystemByID(id string) (GradeSystem, bool) {
	switch strings.TrimSpace(id) {
	case GradeSystem12.ID:
		return GradeSystem12, true
	case GradeSystem5.ID:
		return GradeSystem5, true
	}
	return GradeSystem{}, false
}

// ValidGrade reports whether g is acceptable under the scale.
func (gs GradeSystem) ValidGrade(g int) bool {
	return g >= 1 && g <= gs.Max
}

// Context is the UI selection an uploaded sheet must match before any
// of its rows are applied.
type Context struct {
	// Templates holds the accepted template literals; the first one is
	// the canonical literal written on export.
	Templates   []string
	GroupCode   string
	Discipline  string
	GradeSystem GradeSystem
	// Roster is the set of valid EDBO ids for the selected group.
	Roster map[uint]struct{}
}

func (c Context) acceptsTemplate(name string) bool {
	for _, t := range c.Templates {
		if name == t {
			return true
		}
	}
	return false
}

// Student is one roster entry with its committed grades for the
// selected discipline, keyed by DateKey.
type Student struct {
	EDBOID uint
	Name   string
	Grades map[string]int
}

// Submission is one grade cell to be written, produced by ParseSheet.
// Row is the 1-based sheet row it came from, kept for error reporting.
type Submission struct {
	Row    int    `json:"row"`
	EDBOID uint   `json:"edbo_id"`
	Date   string `json:"date"`
	Grade  int    `json:"grade"`
}
