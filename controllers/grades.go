package controllers

import (
	"errors"

	"unifiedweb_go/gradesheet"
	"unifiedweb_go/middleware"
	"unifiedweb_go/models"
	"unifiedweb_go/services/grades"
	"unifiedweb_go/services/notifications"
	"unifiedweb_go/utils"

	"github.com/gofiber/fiber/v2"
)

// GradeStore is the slice of the grades service the grid endpoints sit
// on; *grades.Service is the production implementation.
type GradeStore interface {
	LoadContext(groupID, disciplineID uint, templates []string) (*grades.RosterContext, error)
	FetchRoster(rc *grades.RosterContext) (utils.RosterDTO, error)
	SubmitCell(rc *grades.RosterContext, sub gradesheet.Submission, actorID uint) (bool, error)
	ApplyImport(rc *grades.RosterContext, subs []gradesheet.Submission, actorID uint) ([]grades.SubmissionResult, error)
}

// GradesController serves the grade grid: roster reads, inline cell
// commits and the sheet export/import endpoints in the sibling files.
type GradesController struct {
	service  GradeStore
	notifier *notifications.Service
}

func NewGradesController(service GradeStore, notifier *notifications.Service) *GradesController {
	return &GradesController{service: service, notifier: notifier}
}

// templatesForRole returns the sheet template literals a role works
// with, own literal first. Export stamps the first entry; import
// accepts any of them, so admins can ingest teacher-exported sheets.
func templatesForRole(role models.Role) []string {
	switch role {
	case models.RoleTeacher:
		return []string{gradesheet.TemplateTeacher}
	case models.RoleAdmin, models.RoleOwner:
		return []string{gradesheet.TemplateAdmin, gradesheet.TemplateTeacher}
	default:
		return nil
	}
}

// exportRoleName is the role part of the download file name.
func exportRoleName(role models.Role) string {
	if role == models.RoleTeacher {
		return "Teacher"
	}
	return "Admin"
}

// loadRosterContext resolves the group/discipline query pair for the
// current user, or writes the error response and returns nil.
func (gc *GradesController) loadRosterContext(c *fiber.Ctx) *grades.RosterContext {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		return nil
	}

	groupID := c.QueryInt("group_id")
	disciplineID := c.QueryInt("discipline_id")
	if groupID <= 0 || disciplineID <= 0 {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "group_id and discipline_id are required"})
		return nil
	}

	rc, err := gc.service.LoadContext(uint(groupID), uint(disciplineID), templatesForRole(claims.Role))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, grades.ErrGroupNotFound) || errors.Is(err, grades.ErrDisciplineNotFound) {
			status = fiber.StatusNotFound
		}
		c.Status(status).JSON(fiber.Map{"error": err.Error()})
		return nil
	}
	return rc
}

// GetRoster returns the grade view for one (group, discipline) pair,
// always read fresh from the store.
// GET /api/grades/roster?group_id=&discipline_id=
func (gc *GradesController) GetRoster(c *fiber.Ctx) error {
	rc := gc.loadRosterContext(c)
	if rc == nil {
		return nil
	}

	roster, err := gc.service.FetchRoster(rc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch roster"})
	}
	return c.JSON(roster)
}

type submitCellRequest struct {
	GroupID      uint   `json:"group_id"`
	DisciplineID uint   `json:"discipline_id"`
	EDBOID       uint   `json:"edbo_id"`
	Date         string `json:"date"`
	Grade        int    `json:"grade"`
}

// SubmitCell commits one grade cell and returns the refetched roster.
// Committing the value a cell already holds is a no-op: applied is
// false and nothing is written.
// POST /api/grades/cell
func (gc *GradesController) SubmitCell(c *fiber.Ctx) error {
	var req submitCellRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.GroupID == 0 || req.DisciplineID == 0 || req.EDBOID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "group_id, discipline_id and edbo_id are required"})
	}

	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}

	rc, err := gc.service.LoadContext(req.GroupID, req.DisciplineID, templatesForRole(claims.Role))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, grades.ErrGroupNotFound) || errors.Is(err, grades.ErrDisciplineNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	sub := gradesheet.Submission{
		EDBOID: req.EDBOID,
		Date:   gradesheet.NormalizeDateHeader(req.Date),
		Grade:  req.Grade,
	}
	applied, err := gc.service.SubmitCell(rc, sub, claims.UserID)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, grades.ErrBadDateKey) ||
			errors.Is(err, grades.ErrGradeOutOfRange) ||
			errors.Is(err, grades.ErrStudentNotInRoster) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	if applied {
		middleware.LogActivity(c, "UPDATE", "assessments", rc.Discipline.ID, fiber.Map{
			"edbo_id": sub.EDBOID,
			"date":    sub.Date,
			"grade":   sub.Grade,
		})
	}

	// The grid re-renders from the store, not from the request
	roster, err := gc.service.FetchRoster(rc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch roster"})
	}
	return c.JSON(fiber.Map{
		"applied": applied,
		"roster":  roster,
	})
}
