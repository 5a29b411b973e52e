package controllers

import (
	"strconv"
	"strings"

	"unifiedweb_go/database"
	"unifiedweb_go/middleware"
	"unifiedweb_go/models"

	"github.com/gofiber/fiber/v2"
)

type TeacherController struct{}

// GetTeachers returns all teachers
func (tc *TeacherController) GetTeachers(c *fiber.Ctx) error {
	var teachers []models.Teacher

	query := database.DB.Model(&models.Teacher{})
	if c.Query("active", "true") == "true" {
		query = query.Where("active = ?", true)
	}
	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}

	if err := query.Preload("User").Order("last_name, first_name").Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teachers",
		})
	}

	return c.JSON(fiber.Map{"teachers": teachers})
}

// GetTeacher returns a specific teacher with their discipline assignments
func (tc *TeacherController) GetTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.Preload("User").First(&teacher, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	var assignments []models.GroupDiscipline
	database.DB.Where("teacher_id = ?", teacher.ID).
		Preload("Group").Preload("Discipline").Find(&assignments)

	return c.JSON(fiber.Map{
		"teacher":     teacher,
		"assignments": assignments,
	})
}

type teacherRequest struct {
	UserID     uint   `json:"user_id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
	Active     *bool  `json:"active"`
}

// CreateTeacher creates a teacher profile for an existing user
func (tc *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	var req teacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.UserID == 0 || strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id, first_name and last_name are required",
		})
	}

	var user models.User
	if err := database.DB.First(&user, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if !user.Role.IsStaff() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User role does not permit a teacher profile",
		})
	}

	var existing models.Teacher
	if err := database.DB.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Teacher profile already exists for this user",
		})
	}

	teacher := models.Teacher{
		UserID:     req.UserID,
		FirstName:  strings.TrimSpace(req.FirstName),
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   strings.TrimSpace(req.LastName),
		Department: strings.TrimSpace(req.Department),
		Active:     true,
	}

	if err := database.DB.Create(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create teacher",
		})
	}

	middleware.LogActivity(c, "CREATE", "teachers", teacher.ID, teacher)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Teacher created successfully",
		"teacher": teacher,
	})
}

// UpdateTeacher updates a teacher profile
func (tc *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	var req teacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
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
	if strings.TrimSpace(req.Department) != "" {
		updates["department"] = strings.TrimSpace(req.Department)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if err := database.DB.Model(&teacher).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update teacher",
		})
	}

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Teacher updated successfully",
		"teacher": teacher,
	})
}

// DeleteTeacher soft deletes a teacher profile
func (tc *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	if err := database.DB.Delete(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete teacher",
		})
	}

	middleware.LogActivity(c, "DELETE", "teachers", teacher.ID, teacher)

	return c.JSON(fiber.Map{
		"message": "Teacher deleted successfully",
	})
}
