package routes

import (
	"unifiedweb_go/controllers"
	"unifiedweb_go/middleware"
	"unifiedweb_go/services/events"
	"unifiedweb_go/services/grades"
	"unifiedweb_go/services/health"
	"unifiedweb_go/services/logarchive"
	"unifiedweb_go/services/notifications"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// Deps carries the shared services the controllers are built on.
type Deps struct {
	Hub      *events.Hub
	Grades   *grades.Service
	Notifier *notifications.Service
	Archiver *logarchive.Service
	Health   *health.Service
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, deps Deps) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	studentController := &controllers.StudentController{}
	teacherController := &controllers.TeacherController{}
	groupController := &controllers.GroupController{}
	disciplineController := &controllers.DisciplineController{}
	scheduleController := &controllers.ScheduleController{}
	gradesController := controllers.NewGradesController(deps.Grades, deps.Notifier)
	notificationController := controllers.NewNotificationController(deps.Notifier)
	logController := controllers.NewLogController(deps.Archiver)
	healthController := controllers.NewHealthController(deps.Health)
	wsController := controllers.NewWebSocketController(deps.Hub)

	// Health check (no authentication required)
	app.Get("/health", healthController.GetHealthStatus)

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	// Logout - blacklist token for 24 hours
	protected.Post("/auth/logout", authController.Logout)
	protected.Post("/auth/register", middleware.RequireOwnerOrAdmin(), authController.Register)
	protected.Post("/auth/reset-by-admin", middleware.RequireOwnerOrAdmin(), authController.ResetPasswordByAdmin)

	// User management routes
	users := protected.Group("/users")
	users.Get("/", middleware.RequireOwnerOrAdmin(), userController.GetUsers)
	users.Get("/:id", middleware.RequireOwnerOrAdmin(), userController.GetUser)
	users.Post("/", middleware.RequireOwnerOrAdmin(), userController.CreateUser)
	users.Put("/:id", middleware.RequireOwnerOrAdmin(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireOwnerOrAdmin(), userController.DeleteUser)

	// Student management routes
	students := protected.Group("/students")
	students.Get("/", middleware.RequireTeacherOrAbove(), studentController.GetStudents)
	students.Get("/:id", middleware.RequireTeacherOrAbove(), studentController.GetStudent)
	students.Post("/", middleware.RequireOwnerOrAdmin(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireOwnerOrAdmin(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireOwnerOrAdmin(), studentController.DeleteStudent)

	// Teacher management routes
	teachers := protected.Group("/teachers")
	teachers.Get("/", middleware.RequireTeacherOrAbove(), teacherController.GetTeachers)
	teachers.Get("/:id", middleware.RequireTeacherOrAbove(), teacherController.GetTeacher)
	teachers.Post("/", middleware.RequireOwnerOrAdmin(), teacherController.CreateTeacher)
	teachers.Put("/:id", middleware.RequireOwnerOrAdmin(), teacherController.UpdateTeacher)
	teachers.Delete("/:id", middleware.RequireOwnerOrAdmin(), teacherController.DeleteTeacher)

	// Group management routes, discipline assignment included
	groups := protected.Group("/groups")
	groups.Get("/", middleware.RequireTeacherOrAbove(), groupController.GetGroups)
	groups.Get("/:id", middleware.RequireTeacherOrAbove(), groupController.GetGroup)
	groups.Post("/", middleware.RequireOwnerOrAdmin(), groupController.CreateGroup)
	groups.Put("/:id", middleware.RequireOwnerOrAdmin(), groupController.UpdateGroup)
	groups.Delete("/:id", middleware.RequireOwnerOrAdmin(), groupController.DeleteGroup)
	groups.Post("/:id/disciplines", middleware.RequireOwnerOrAdmin(), groupController.AssignDiscipline)
	groups.Delete("/:id/disciplines/:discipline_id", middleware.RequireOwnerOrAdmin(), groupController.UnassignDiscipline)

	// Discipline management routes
	disciplines := protected.Group("/disciplines")
	disciplines.Get("/", middleware.RequireTeacherOrAbove(), disciplineController.GetDisciplines)
	disciplines.Post("/", middleware.RequireOwnerOrAdmin(), disciplineController.CreateDiscipline)
	disciplines.Put("/:id", middleware.RequireOwnerOrAdmin(), disciplineController.UpdateDiscipline)
	disciplines.Delete("/:id", middleware.RequireOwnerOrAdmin(), disciplineController.DeleteDiscipline)

	// Lesson schedule routes
	schedules := protected.Group("/schedules")
	schedules.Get("/", middleware.RequireTeacherOrAbove(), scheduleController.GetLessons)
	schedules.Post("/", middleware.RequireOwnerOrAdmin(), scheduleController.CreateLesson)
	schedules.Put("/:id", middleware.RequireOwnerOrAdmin(), scheduleController.UpdateLesson)
	schedules.Delete("/:id", middleware.RequireOwnerOrAdmin(), scheduleController.DeleteLesson)

	// Grade sheet routes
	gradesGroup := protected.Group("/grades", middleware.RequireTeacherOrAbove())
	gradesGroup.Get("/roster", gradesController.GetRoster)
	gradesGroup.Post("/cell", gradesController.SubmitCell)
	gradesGroup.Get("/export", gradesController.Export)
	gradesGroup.Post("/import", gradesController.Import)

	// Notification management routes
	notificationsGroup := protected.Group("/notifications")
	notificationsGroup.Get("/", notificationController.GetNotifications)
	notificationsGroup.Get("/unread-count", notificationController.GetUnreadCount)
	notificationsGroup.Post("/", middleware.RequireOwnerOrAdmin(), notificationController.CreateNotification)
	notificationsGroup.Patch("/:id/read", notificationController.MarkAsRead)
	notificationsGroup.Patch("/mark-all-read", notificationController.MarkAllAsRead)
	notificationsGroup.Delete("/:id", notificationController.DeleteNotification)

	// Log management routes (Admin/Owner only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Get("/export", logController.ExportLogs)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)
	logs.Post("/archives", logController.TriggerArchive)
	logs.Get("/:id", logController.GetLog)
	logs.Delete("/old", logController.DeleteOldLogs)
	logs.Post("/flush-cache", logController.FlushCachedLogs)

	// WebSocket routes
	ws := protected.Group("/ws")
	ws.Get("/stats", middleware.RequireOwnerOrAdmin(), wsController.GetWebSocketStats)

	// WebSocket connection endpoint - use websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}
