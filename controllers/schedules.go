package controllers

import (
	"strconv"
	"time"

	"unifiedweb_go/database"
	"unifiedweb_go/middleware"
	"unifiedweb_go/models"

	"github.com/gofiber/fiber/v2"
)

// ScheduleController manages the lesson calendar. Lessons give the
// grade grid its date columns ahead of time, but grades may also land
// on dates with no lesson entry.
type ScheduleController struct{}

// GetLessons returns lessons in a calendar range, optionally scoped to
// a group.
// GET /api/schedules?from=2024-09-01&to=2024-09-30&group_id=
func (sc *ScheduleController) GetLessons(c *fiber.Ctx) error {
	from, err := time.Parse(time.DateOnly, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "from must be YYYY-MM-DD",
		})
	}
	to, err := time.Parse(time.DateOnly, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "to must be YYYY-MM-DD",
		})
	}
	if to.Before(from) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "to must not precede from",
		})
	}

	query := database.DB.Model(&models.Lesson{}).
		Where("date >= ? AND date <= ?", from, to)
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}
	if disciplineID := c.Query("discipline_id"); disciplineID != "" {
		query = query.Where("discipline_id = ?", disciplineID)
	}

	var lessons []models.Lesson
	if err := query.Preload("Group").Preload("Discipline").Preload("Teacher").
		Order("date, start_time").Find(&lessons).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lessons",
		})
	}

	return c.JSON(fiber.Map{"lessons": lessons})
}

type lessonRequest struct {
	GroupID      uint   `json:"group_id"`
	DisciplineID uint   `json:"discipline_id"`
	TeacherID    *uint  `json:"teacher_id"`
	Date         string `json:"date"` // YYYY-MM-DD
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Room         string `json:"room"`
	LessonType   string `json:"lesson_type"`
	Notes        string `json:"notes"`
}

func parseLessonTimes(start, end string) bool {
	const layout = "15:04"
	s, err1 := time.Parse(layout, start)
	e, err2 := time.Parse(layout, end)
	return err1 == nil && err2 == nil && e.After(s)
}

// CreateLesson adds one calendar entry
func (sc *ScheduleController) CreateLesson(c *fiber.Ctx) error {
	var req lessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.GroupID == 0 || req.DisciplineID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "group_id and discipline_id are required",
		})
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date must be YYYY-MM-DD",
		})
	}
	if !parseLessonTimes(req.StartTime, req.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time and end_time must be HH:MM with end after start",
		})
	}

	var gd models.GroupDiscipline
	if err := database.DB.Where("group_id = ? AND discipline_id = ?", req.GroupID, req.DisciplineID).
		First(&gd).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Discipline is not assigned to this group",
		})
	}

	lessonType := req.LessonType
	if lessonType == "" {
		lessonType = "lecture"
	}

	lesson := models.Lesson{
		GroupID:      req.GroupID,
		DisciplineID: req.DisciplineID,
		TeacherID:    req.TeacherID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Room:         req.Room,
		LessonType:   lessonType,
		Notes:        req.Notes,
	}

	if err := database.DB.Create(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create lesson",
		})
	}

	middleware.LogActivity(c, "CREATE", "lessons", lesson.ID, lesson)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Lesson created successfully",
		"lesson":  lesson,
	})
}

// UpdateLesson edits one calendar entry
func (sc *ScheduleController) UpdateLesson(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	var lesson models.Lesson
	if err := database.DB.First(&lesson, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}

	var req lessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Date != "" {
		date, derr := time.Parse(time.DateOnly, req.Date)
		if derr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "date must be YYYY-MM-DD",
			})
		}
		updates["date"] = date
	}
	if req.StartTime != "" || req.EndTime != "" {
		start := req.StartTime
		if start == "" {
			start = lesson.StartTime
		}
		end := req.EndTime
		if end == "" {
			end = lesson.EndTime
		}
		if !parseLessonTimes(start, end) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start_time and end_time must be HH:MM with end after start",
			})
		}
		updates["start_time"] = start
		updates["end_time"] = end
	}
	if req.TeacherID != nil {
		updates["teacher_id"] = *req.TeacherID
	}
	if req.Room != "" {
		updates["room"] = req.Room
	}
	if req.LessonType != "" {
		updates["lesson_type"] = req.LessonType
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	if err := database.DB.Model(&lesson).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update lesson",
		})
	}

	middleware.LogActivity(c, "UPDATE", "lessons", lesson.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Lesson updated successfully",
		"lesson":  lesson,
	})
}

// DeleteLesson removes one calendar entry
func (sc *ScheduleController) DeleteLesson(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	var lesson models.Lesson
	if err := database.DB.First(&lesson, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}

	if err := database.DB.Delete(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete lesson",
		})
	}

	middleware.LogActivity(c, "DELETE", "lessons", lesson.ID, lesson)

	return c.JSON(fiber.Map{
		"message": "Lesson deleted successfully",
	})
}
