// Package grades owns grade storage for the exchange engine: roster
// reads, idempotent per-cell submission and the sequential bulk-import
// applier. The underlying store has no batch primitive, so a bulk
// import is a plain loop of single submissions. A failure partway
// leaves earlier cells applied, and callers get a per-cell accounting
// instead of a rollback.
package grades

import (
	"errors"
	"fmt"

	"unifiedweb_go/config"
	"unifiedweb_go/database"
	"unifiedweb_go/gradesheet"
	"unifiedweb_go/models"
	"unifiedweb_go/services/events"
	"unifiedweb_go/utils"

	"gorm.io/gorm"
)

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrDisciplineNotFound = errors.New("discipline is not assigned to this group")
	ErrStudentNotInRoster = errors.New("student is not in the current roster")
	ErrGradeOutOfRange    = errors.New("grade is out of range for the grade system")
	ErrBadDateKey         = errors.New("date must be DD-MM-YYYY")
)

type Service struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewService(hub *events.Hub) *Service {
	return &Service{db: database.GetDB(), hub: hub}
}

// System returns the configured grading scale.
func (s *Service) System() gradesheet.GradeSystem {
	if gs, ok := gradesheet.GradeSystemByID(config.AppConfig.GradeSystemID); ok {
		return gs
	}
	return gradesheet.GradeSystem12
}

// RosterContext binds one (group, discipline) selection: the resolved
// records, the student index keyed by EDBO id and the sheet-validation
// context built from them.
type RosterContext struct {
	Group      models.Group
	Discipline models.Discipline
	Students   []models.Student
	ByEDBO     map[uint]models.Student
	Sheet      gradesheet.Context
}

// LoadContext resolves a (group, discipline) selection into a
// RosterContext. templates is the set of sheet literals the caller's
// role accepts on import.
func (s *Service) LoadContext(groupID, disciplineID uint, templates []string) (*RosterContext, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		return nil, ErrGroupNotFound
	}

	var gd models.GroupDiscipline
	if err := s.db.Where("group_id = ? AND discipline_id = ?", groupID, disciplineID).First(&gd).Error; err != nil {
		return nil, ErrDisciplineNotFound
	}
	var discipline models.Discipline
	if err := s.db.First(&discipline, disciplineID).Error; err != nil {
		return nil, ErrDisciplineNotFound
	}

	var students []models.Student
	if err := s.db.Where("group_id = ? AND status = ?", groupID, "active").
		Order("last_name, first_name").Find(&students).Error; err != nil {
		return nil, err
	}

	byEDBO := make(map[uint]models.Student, len(students))
	roster := make(map[uint]struct{}, len(students))
	for _, st := range students {
		byEDBO[st.EDBOID] = st
		roster[st.EDBOID] = struct{}{}
	}

	return &RosterContext{
		Group:      group,
		Discipline: discipline,
		Students:   students,
		ByEDBO:     byEDBO,
		Sheet: gradesheet.Context{
			Templates:   templates,
			GroupCode:   group.Code,
			Discipline:  discipline.Name,
			GradeSystem: s.System(),
			Roster:      roster,
		},
	}, nil
}

// FetchRoster loads the full grade view for a (group, discipline)
// selection, always fresh from the store.
func (s *Service) FetchRoster(rc *RosterContext) (utils.RosterDTO, error) {
	studentIDs := make([]uint, 0, len(rc.Students))
	for _, st := range rc.Students {
		studentIDs = append(studentIDs, st.ID)
	}

	var assessments []models.Assessment
	if len(studentIDs) > 0 {
		if err := s.db.Where("discipline_id = ? AND student_id IN ?", rc.Discipline.ID, studentIDs).
			Find(&assessments).Error; err != nil {
			return utils.RosterDTO{}, err
		}
	}

	dto := utils.RosterDTO{
		GroupID:      rc.Group.ID,
		GroupCode:    rc.Group.Code,
		DisciplineID: rc.Discipline.ID,
		Discipline:   rc.Discipline.Name,
		GradeSystem:  rc.Sheet.GradeSystem.ID,
		Students:     make([]utils.StudentAssessmentDTO, 0, len(rc.Students)),
	}
	dates := map[string]struct{}{}
	for _, st := range rc.Students {
		dto.Students = append(dto.Students, utils.ToStudentAssessmentDTO(st, rc.Discipline.Name, assessments))
	}
	for _, a := range assessments {
		dates[a.Date] = struct{}{}
	}
	for d := range dates {
		dto.Dates = append(dto.Dates, d)
	}
	gradesheet.SortDateKeys(dto.Dates)

	return dto, nil
}

// upsert writes one grade cell, overwriting any previous value for the
// same (student, discipline, date).
func (s *Service) upsert(rc *RosterContext, sub gradesheet.Submission, actorID uint) error {
	st, ok := rc.ByEDBO[sub.EDBOID]
	if !ok {
		return fmt.Errorf("%w: EDBO id %d", ErrStudentNotInRoster, sub.EDBOID)
	}

	var existing models.Assessment
	err := s.db.Where("student_id = ? AND discipline_id = ? AND date = ?", st.ID, rc.Discipline.ID, sub.Date).
		First(&existing).Error
	switch {
	case err == nil:
		return s.db.Model(&existing).Updates(map[string]interface{}{
			"grade":        sub.Grade,
			"grade_system": rc.Sheet.GradeSystem.ID,
			"created_by":   actorID,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.Create(&models.Assessment{
			StudentID:    st.ID,
			DisciplineID: rc.Discipline.ID,
			Date:         sub.Date,
			GradeSystem:  rc.Sheet.GradeSystem.ID,
			Grade:        sub.Grade,
			CreatedBy:    actorID,
		}).Error
	default:
		return err
	}
}

// applyNeeded decides whether an inline commit writes: only when the
// cell is empty or holds a different grade. Bulk import never consults
// this; it replays every validated cell.
func applyNeeded(exists bool, current, next int) bool {
	return !exists || current != next
}

// SubmitCell is the inline-editor commit: validate, skip the write
// when the committed grade already equals the new one, otherwise
// upsert and publish. Returns whether a write happened.
func (s *Service) SubmitCell(rc *RosterContext, sub gradesheet.Submission, actorID uint) (bool, error) {
	if !gradesheet.ValidDateKey(sub.Date) {
		return false, fmt.Errorf("%w: %q", ErrBadDateKey, sub.Date)
	}
	if !rc.Sheet.GradeSystem.ValidGrade(sub.Grade) {
		return false, fmt.Errorf("%w: %d not in [1, %d]", ErrGradeOutOfRange, sub.Grade, rc.Sheet.GradeSystem.Max)
	}
	st, ok := rc.ByEDBO[sub.EDBOID]
	if !ok {
		return false, fmt.Errorf("%w: EDBO id %d", ErrStudentNotInRoster, sub.EDBOID)
	}

	var existing models.Assessment
	err := s.db.Where("student_id = ? AND discipline_id = ? AND date = ?", st.ID, rc.Discipline.ID, sub.Date).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if !applyNeeded(err == nil, existing.Grade, sub.Grade) {
		// No-op commit: the cell already holds this grade
		return false, nil
	}

	if err := s.upsert(rc, sub, actorID); err != nil {
		return false, err
	}

	if s.hub != nil {
		s.hub.Publish(events.EventGradeSubmitted, fiberMap{
			"edbo_id":    sub.EDBOID,
			"discipline": rc.Discipline.Name,
			"date":       sub.Date,
			"grade":      sub.Grade,
		})
	}
	return true, nil
}

// SubmissionResult is the per-cell outcome of a bulk import.
type SubmissionResult struct {
	Row    int    `json:"row"`
	EDBOID uint   `json:"edbo_id"`
	Date   string `json:"date"`
	Grade  int    `json:"grade"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// ApplyImport replays validated submissions one at a time, in order.
// The loop stops at the first store failure; earlier writes stay
// applied (the store offers no transaction spanning cells) and every
// attempted cell is reported. Import submissions always write, even
// when the stored grade already matches.
func (s *Service) ApplyImport(rc *RosterContext, subs []gradesheet.Submission, actorID uint) (results []SubmissionResult, err error) {
	results = make([]SubmissionResult, 0, len(subs))
	for _, sub := range subs {
		res := SubmissionResult{Row: sub.Row, EDBOID: sub.EDBOID, Date: sub.Date, Grade: sub.Grade}
		if serr := s.upsert(rc, sub, actorID); serr != nil {
			res.Error = serr.Error()
			results = append(results, res)
			return results, serr
		}
		res.OK = true
		results = append(results, res)
	}

	if s.hub != nil && len(subs) > 0 {
		s.hub.Publish(events.EventImportFinished, fiberMap{
			"group":      rc.Group.Code,
			"discipline": rc.Discipline.Name,
			"applied":    len(results),
		})
	}
	return results, nil
}

// fiberMap mirrors fiber.Map without importing the web layer here.
type fiberMap map[string]interface{}
