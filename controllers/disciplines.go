package controllers

import (
	"strconv"
	"strings"

	"unifiedweb_go/database"
	"unifiedweb_go/middleware"
	"unifiedweb_go/models"

	"github.com/gofiber/fiber/v2"
)

type DisciplineController struct{}

// GetDisciplines returns all disciplines
func (dc *DisciplineController) GetDisciplines(c *fiber.Ctx) error {
	var disciplines []models.Discipline

	query := database.DB.Model(&models.Discipline{})
	if c.Query("active", "true") == "true" {
		query = query.Where("active = ?", true)
	}

	if err := query.Order("name").Find(&disciplines).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch disciplines",
		})
	}

	return c.JSON(fiber.Map{"disciplines": disciplines})
}

type disciplineRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// CreateDiscipline creates a new discipline
func (dc *DisciplineController) CreateDiscipline(c *fiber.Ctx) error {
	var req disciplineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	var existing models.Discipline
	if err := database.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A discipline with this name already exists",
		})
	}

	discipline := models.Discipline{
		Name:        name,
		Description: req.Description,
		Active:      true,
	}

	if err := database.DB.Create(&discipline).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create discipline",
		})
	}

	middleware.LogActivity(c, "CREATE", "disciplines", discipline.ID, discipline)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Discipline created successfully",
		"discipline": discipline,
	})
}

// UpdateDiscipline updates a discipline
func (dc *DisciplineController) UpdateDiscipline(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid discipline ID",
		})
	}

	var discipline models.Discipline
	if err := database.DB.First(&discipline, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Discipline not found",
		})
	}

	var req disciplineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if err := database.DB.Model(&discipline).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update discipline",
		})
	}

	middleware.LogActivity(c, "UPDATE", "disciplines", discipline.ID, updates)

	return c.JSON(fiber.Map{
		"message":    "Discipline updated successfully",
		"discipline": discipline,
	})
}

// DeleteDiscipline soft deletes a discipline
func (dc *DisciplineController) DeleteDiscipline(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid discipline ID",
		})
	}

	var discipline models.Discipline
	if err := database.DB.First(&discipline, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Discipline not found",
		})
	}

	if err := database.DB.Delete(&discipline).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete discipline",
		})
	}

	middleware.LogActivity(c, "DELETE", "disciplines", discipline.ID, discipline)

	return c.JSON(fiber.Map{
		"message": "Discipline deleted successfully",
	})
}
