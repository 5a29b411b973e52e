package controllers

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"unifiedweb_go/database"
	"unifiedweb_go/models"
	"unifiedweb_go/services/logarchive"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LogController struct {
	archiver *logarchive.Service
}

func NewLogController(archiver *logarchive.Service) *LogController {
	return &LogController{archiver: archiver}
}

// LogResponse represents a log entry response
type LogResponse struct {
	ID         uint                   `json:"id"`
	UserID     uint                   `json:"user_id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID uint                   `json:"resource_id"`
	Details    map[string]interface{} `json:"details"`
	IPAddress  string                 `json:"ip_address"`
	UserAgent  string                 `json:"user_agent"`
	CreatedAt  time.Time              `json:"created_at"`
	User       *UserBasicInfo         `json:"user,omitempty"`
}

type UserBasicInfo struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func toLogResponse(log models.ActivityLog) LogResponse {
	resp := LogResponse{
		ID:         log.ID,
		UserID:     log.UserID,
		Action:     log.Action,
		Resource:   log.Resource,
		ResourceID: log.ResourceID,
		IPAddress:  log.IPAddress,
		UserAgent:  log.UserAgent,
		CreatedAt:  log.CreatedAt,
	}
	if len(log.Details) > 0 {
		var details map[string]interface{}
		if err := json.Unmarshal(log.Details, &details); err == nil {
			resp.Details = details
		}
	}
	if log.User.ID > 0 {
		resp.User = &UserBasicInfo{
			ID:       log.User.ID,
			Username: log.User.Username,
			Role:     log.User.Role,
		}
	}
	return resp
}

func applyLogFilters(c *fiber.Ctx, query *gorm.DB) *gorm.DB {
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if parsedDate, err := time.Parse("2006-01-02", startDate); err == nil {
			query = query.Where("created_at >= ?", parsedDate)
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if parsedDate, err := time.Parse("2006-01-02", endDate); err == nil {
			query = query.Where("created_at <= ?", parsedDate.Add(24*time.Hour))
		}
	}
	return query
}

// GetLogs retrieves paginated activity logs with filters
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := applyLogFilters(c, database.DB.Model(&models.ActivityLog{}).Preload("User"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logrus.WithError(err).Error("Failed to count logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve logs count",
		})
	}

	var activityLogs []models.ActivityLog
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activityLogs).Error; err != nil {
		logrus.WithError(err).Error("Failed to retrieve logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve logs",
		})
	}

	logs := make([]LogResponse, len(activityLogs))
	for i, log := range activityLogs {
		logs[i] = toLogResponse(log)
	}

	return c.JSON(fiber.Map{
		"logs":        logs,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	})
}

// GetLog retrieves a single log entry by ID
func (lc *LogController) GetLog(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid log ID",
		})
	}

	var activityLog models.ActivityLog
	if err := database.DB.Preload("User").First(&activityLog, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Log not found",
			})
		}
		logrus.WithError(err).Error("Failed to retrieve log")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve log",
		})
	}

	return c.JSON(toLogResponse(activityLog))
}

// GetLogStats provides logging statistics for the admin dashboard
func (lc *LogController) GetLogStats(c *fiber.Ctx) error {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	thisWeek := today.AddDate(0, 0, -int(today.Weekday()))

	stats := fiber.Map{}

	var total, totalToday int64
	database.DB.Model(&models.ActivityLog{}).Count(&total)
	database.DB.Model(&models.ActivityLog{}).
		Where("created_at >= ?", today).
		Count(&totalToday)
	stats["total"] = total
	stats["total_today"] = totalToday

	var actionStats []struct {
		Action string `json:"action"`
		Count  int64  `json:"count"`
	}
	database.DB.Model(&models.ActivityLog{}).
		Select("action, COUNT(*) as count").
		Group("action").
		Find(&actionStats)
	actionBreakdown := map[string]int64{}
	for _, stat := range actionStats {
		actionBreakdown[stat.Action] = stat.Count
	}
	stats["action_breakdown"] = actionBreakdown

	var resourceStats []struct {
		Resource string `json:"resource"`
		Count    int64  `json:"count"`
	}
	database.DB.Model(&models.ActivityLog{}).
		Select("resource, COUNT(*) as count").
		Group("resource").
		Find(&resourceStats)
	resourceBreakdown := map[string]int64{}
	for _, stat := range resourceStats {
		resourceBreakdown[stat.Resource] = stat.Count
	}
	stats["resource_breakdown"] = resourceBreakdown

	var topUsers []struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
		Count    int64  `json:"count"`
	}
	database.DB.Model(&models.ActivityLog{}).
		Select("activity_logs.user_id, users.username, COUNT(*) as count").
		Joins("LEFT JOIN users ON activity_logs.user_id = users.id").
		Where("activity_logs.created_at >= ?", thisWeek).
		Group("activity_logs.user_id, users.username").
		Order("count DESC").
		Limit(10).
		Find(&topUsers)
	stats["top_users"] = topUsers

	return c.JSON(stats)
}

// DeleteOldLogs removes logs older than specified days (Admin only)
func (lc *LogController) DeleteOldLogs(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid days parameter",
		})
	}

	cutoffDate := time.Now().AddDate(0, 0, -days)

	result := database.DB.Where("created_at < ?", cutoffDate).Delete(&models.ActivityLog{})
	if result.Error != nil {
		logrus.WithError(result.Error).Error("Failed to delete old logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete old logs",
		})
	}

	return c.JSON(fiber.Map{
		"message":       "Old logs deleted successfully",
		"deleted_count": result.RowsAffected,
		"cutoff_date":   cutoffDate,
	})
}

// ExportLogs exports logs to CSV format (Admin only)
func (lc *LogController) ExportLogs(c *fiber.Ctx) error {
	query := applyLogFilters(c, database.DB.Model(&models.ActivityLog{}).Preload("User"))

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		logrus.WithError(err).Error("Failed to retrieve logs for export")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve logs for export",
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"ID", "User ID", "Username", "Role", "Action", "Resource", "Resource ID", "IP Address", "Created At", "Details"})
	for _, log := range logs {
		username, role := "", ""
		if log.User.ID > 0 {
			username = log.User.Username
			role = string(log.User.Role)
		}
		details := ""
		if len(log.Details) > 0 {
			details = string(log.Details)
		}
		_ = w.Write([]string{
			strconv.FormatUint(uint64(log.ID), 10),
			strconv.FormatUint(uint64(log.UserID), 10),
			username,
			role,
			log.Action,
			log.Resource,
			strconv.FormatUint(uint64(log.ResourceID), 10),
			log.IPAddress,
			log.CreatedAt.Format("2006-01-02 15:04:05"),
			details,
		})
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename=activity_logs.csv")
	return c.Send(buf.Bytes())
}

// FlushCachedLogs manually flushes cached logs to database (Admin only)
func (lc *LogController) FlushCachedLogs(c *fiber.Ctx) error {
	ctx := context.Background()
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Log cache is not available",
		})
	}

	keys, err := redisClient.Keys(ctx, "log:*").Result()
	if err != nil {
		logrus.WithError(err).Error("Failed to get cached log keys")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve cached logs",
		})
	}

	var processedCount int
	var errorCount int

	for _, key := range keys {
		logData, err := redisClient.Get(ctx, key).Result()
		if err != nil {
			errorCount++
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			errorCount++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to save cached log to database")
			errorCount++
			continue
		}

		if err := redisClient.Del(ctx, key).Err(); err != nil {
			logrus.WithError(err).Error("Failed to remove cached log")
		}

		processedCount++
	}

	return c.JSON(fiber.Map{
		"message":         "Cached logs flushing completed",
		"processed_count": processedCount,
		"error_count":     errorCount,
		"total_keys":      len(keys),
	})
}

// GetArchives lists log archives shipped to S3 (Admin only)
func (lc *LogController) GetArchives(c *fiber.Ctx) error {
	archives, err := lc.archiver.GetArchivedLogs()
	if err != nil {
		logrus.WithError(err).Error("Failed to list log archives")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list archives",
		})
	}

	return c.JSON(fiber.Map{
		"archives": archives,
		"total":    len(archives),
	})
}

// DownloadArchive streams an archived log bundle from S3 (Admin only)
func (lc *LogController) DownloadArchive(c *fiber.Ctx) error {
	archiveID, err := c.ParamsInt("id")
	if err != nil || archiveID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid archive ID",
		})
	}

	reader, fileName, err := lc.archiver.DownloadArchivedLogs(uint(archiveID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		logrus.WithError(err).Error("Failed to read archive stream")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read archive",
		})
	}

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(data)
}

// TriggerArchive runs the log archiving job on demand (Admin only)
func (lc *LogController) TriggerArchive(c *fiber.Ctx) error {
	daysOld := c.QueryInt("days", 30)

	if err := lc.archiver.ArchiveOldLogs(daysOld); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Log archiving completed",
	})
}
