package controllers

import (
	"strconv"
	"strings"

	"unifiedweb_go/database"
	"unifiedweb_go/middleware"
	"unifiedweb_go/models"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

// GetStudents returns students with pagination, optionally scoped to a
// group or filtered by name.
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}
	status := c.Query("status", "active")
	query = query.Where("status = ?", status)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR middle_name LIKE ?", like, like, like)
	}

	query.Count(&total)

	if err := query.Preload("Group").Order("last_name, first_name").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("Group").Preload("User").
		First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

type studentRequest struct {
	EDBOID     uint   `json:"edbo_id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	GroupID    *uint  `json:"group_id"`
	Status     string `json:"status"`
}

// CreateStudent creates a new student record. The EDBO id identifies
// the student on every grade sheet and cannot repeat.
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.EDBOID == 0 || strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "edbo_id, first_name and last_name are required",
		})
	}

	var existing models.Student
	if err := database.DB.Where("edbo_id = ?", req.EDBOID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A student with this EDBO id already exists",
		})
	}

	if req.GroupID != nil {
		var group models.Group
		if err := database.DB.First(&group, *req.GroupID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	student := models.Student{
		EDBOID:     req.EDBOID,
		FirstName:  strings.TrimSpace(req.FirstName),
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   strings.TrimSpace(req.LastName),
		GroupID:    req.GroupID,
		Status:     status,
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	middleware.LogActivity(c, "CREATE", "students", student.ID, student)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent updates an existing student. The EDBO id is fixed once
// assigned and cannot be changed here.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.EDBOID != 0 && req.EDBOID != student.EDBOID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "EDBO id cannot be changed",
		})
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.FirstName) != "" {
		updates["first_name"] = strings.TrimSpace(req.FirstName)
	}
	if strings.TrimSpace(req.MiddleName) != "" {
		updates["middle_name"] = strings.TrimSpace(req.MiddleName)
	}
	if strings.TrimSpace(req.LastName) != "" {
		updates["last_name"] = strings.TrimSpace(req.LastName)
	}
	if req.GroupID != nil {
		var group models.Group
		if err := database.DB.First(&group, *req.GroupID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		updates["group_id"] = *req.GroupID
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := database.DB.Model(&student).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudent soft deletes a student. Their assessments stay in the
// store for transcripts.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, student)

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}
