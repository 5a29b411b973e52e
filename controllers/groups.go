package controllers

import (
	"strconv"
	"strings"

	"unifiedweb_go/database"
	"unifiedweb_go/middleware"
	"unifiedweb_go/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GroupController struct{}

type groupRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	CuratorID *uint  `json:"curator_id"`
	Status    string `json:"status"`
}

// GetGroups returns all groups with their assigned disciplines.
func (gc *GroupController) GetGroups(c *fiber.Ctx) error {
	var groups []models.Group

	query := database.DB.Model(&models.Group{})
	status := c.Query("status", "active")
	query = query.Where("status = ?", status)
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}

	if err := query.Preload("Disciplines").Preload("Disciplines.Discipline").
		Order("code").Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch groups",
		})
	}

	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroup returns one group with students and disciplines.
func (gc *GroupController) GetGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	var group models.Group
	if err := database.DB.Preload("Students").
		Preload("Disciplines").Preload("Disciplines.Discipline").Preload("Disciplines.Teacher").
		First(&group, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	return c.JSON(fiber.Map{"group": group})
}

// CreateGroup creates a new study group
func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}

	var existing models.Group
	if err := database.DB.Where("code = ?", code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A group with this code already exists",
		})
	}

	group := models.Group{
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Year:      req.Year,
		CuratorID: req.CuratorID,
		Status:    "active",
	}

	if err := database.DB.Create(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create group",
		})
	}

	middleware.LogActivity(c, "CREATE", "groups", group.ID, group)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Group created successfully",
		"group":   group,
	})
}

// UpdateGroup updates group fields
func (gc *GroupController) UpdateGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.Code) != "" {
		updates["code"] = strings.TrimSpace(req.Code)
	}
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Year != 0 {
		updates["year"] = req.Year
	}
	if req.CuratorID != nil {
		updates["curator_id"] = *req.CuratorID
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := database.DB.Model(&group).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update group",
		})
	}

	middleware.LogActivity(c, "UPDATE", "groups", group.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Group updated successfully",
		"group":   group,
	})
}

// DeleteGroup soft deletes a group
func (gc *GroupController) DeleteGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}

	if err := database.DB.Delete(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete group",
		})
	}

	middleware.LogActivity(c, "DELETE", "groups", group.ID, group)

	return c.JSON(fiber.Map{
		"message": "Group deleted successfully",
	})
}

type assignDisciplineRequest struct {
	DisciplineID uint  `json:"discipline_id"`
	TeacherID    *uint `json:"teacher_id"`
}

// AssignDiscipline attaches a discipline (and optionally its teacher)
// to a group. Grade sheets are scoped to these pairs.
func (gc *GroupController) AssignDiscipline(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	var req assignDisciplineRequest
	if err := c.BodyParser(&req); err != nil || req.DisciplineID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "discipline_id is required",
		})
	}

	var group models.Group
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group not found",
		})
	}
	var discipline models.Discipline
	if err := database.DB.First(&discipline, req.DisciplineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Discipline not found",
		})
	}
	if req.TeacherID != nil {
		var teacher models.Teacher
		if err := database.DB.First(&teacher, *req.TeacherID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Teacher not found",
			})
		}
	}

	var gd models.GroupDiscipline
	err = database.DB.Where("group_id = ? AND discipline_id = ?", group.ID, req.DisciplineID).First(&gd).Error
	switch {
	case err == nil:
		// Already assigned; update the teacher only
		if err := database.DB.Model(&gd).Update("teacher_id", req.TeacherID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update assignment",
			})
		}
	case err == gorm.ErrRecordNotFound:
		gd = models.GroupDiscipline{GroupID: group.ID, DisciplineID: req.DisciplineID, TeacherID: req.TeacherID}
		if err := database.DB.Create(&gd).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to assign discipline",
			})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign discipline",
		})
	}

	middleware.LogActivity(c, "CREATE", "group_disciplines", gd.ID, gd)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Discipline assigned",
		"assignment": gd,
	})
}

// UnassignDiscipline removes a discipline from a group. Existing
// assessments are kept.
func (gc *GroupController) UnassignDiscipline(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}
	disciplineID, err := strconv.ParseUint(c.Params("discipline_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid discipline ID",
		})
	}

	var gd models.GroupDiscipline
	if err := database.DB.Where("group_id = ? AND discipline_id = ?", uint(id), uint(disciplineID)).
		First(&gd).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	if err := database.DB.Delete(&gd).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to unassign discipline",
		})
	}

	middleware.LogActivity(c, "DELETE", "group_disciplines", gd.ID, gd)

	return c.JSON(fiber.Map{
		"message": "Discipline unassigned",
	})
}
