package httpEngine

import (
	"net/http"
	"time"

	"duet-server/configs"
	"duet-server/internal/controllers"
	"duet-server/internal/logics"
	"duet-server/internal/middlewares"
	"duet-server/internal/repositories"
	"duet-server/internal/utils"
	"duet-server/pkg/messaging"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires services and controllers and registers every route.
func RegisterRoutes(e *echo.Echo) {
	// Health check endpoint, no JWT middleware.
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, from Duet Server!")
	})

	// Repositories
	taskRepository := repositories.NewTaskRepository()
	userRepository := repositories.NewUserRepository()
	noteRepository := repositories.NewNoteRepository()
	listRepository := repositories.NewListRepository()
	videoRepository := repositories.NewVideoRepository()
	commentRepository := repositories.NewCommentRepository()
	notificationRepository := repositories.NewNotificationRepository()

	// Outbound adapters
	pushGateway := utils.NewPushGateway(
		configs.Configs.Push.GatewayUrl,
		time.Duration(configs.Configs.Push.TimeoutSeconds)*time.Second,
	)
	publisher := messaging.NewRedisPublisher(repositories.DBS.Redis)
	emailService := utils.NewEmailService(
		configs.Configs.Email.SmtpHost,
		configs.Configs.Email.SmtpPort,
		configs.Configs.Email.SmtpUsername,
		configs.Configs.Email.SmtpPassword,
		configs.Configs.Email.FromAddress,
	)

	// Services
	pushService := logics.NewPushService(userRepository, notificationRepository, pushGateway, publisher, configs.Configs.Push.Channel, configs.Logger)
	taskService := logics.NewTaskService(taskRepository, userRepository, configs.Logger)
	completionService := logics.NewCompletionService(taskRepository, userRepository, pushService, configs.Logger)
	profileService := logics.NewProfileService(userRepository, emailService, pushService, configs.Configs.Service.BaseUrl, configs.Logger)
	noteService := logics.NewNoteService(noteRepository, userRepository)
	listService := logics.NewListService(listRepository, userRepository)
	videoService := logics.NewVideoService(videoRepository, userRepository, configs.Logger)
	commentService := logics.NewCommentService(commentRepository, taskRepository, userRepository, pushService)
	notificationService := logics.NewNotificationService(notificationRepository)

	// Controllers
	taskController := controllers.NewTaskController(taskService, completionService)
	profileController := controllers.NewProfileController(profileService)
	noteController := controllers.NewNoteController(noteService)
	listController := controllers.NewListController(listService)
	videoController := controllers.NewVideoController(videoService)
	commentController := controllers.NewCommentController(commentService)
	notificationController := controllers.NewNotificationController(notificationService)

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middlewares.JWTMiddleware)

	// Task endpoints
	apiV1.GET("/tasks", taskController.ListTasks)
	apiV1.POST("/tasks", taskController.CreateTask)
	apiV1.GET("/tasks/:id", taskController.GetTask)
	apiV1.PUT("/tasks/:id", taskController.UpdateTask)
	apiV1.DELETE("/tasks/:id", taskController.DeleteTask)
	apiV1.PUT("/tasks/:id/template", taskController.SetTemplate)

	// Subtask endpoints
	apiV1.POST("/tasks/:id/subtasks", taskController.AddSubtask)
	apiV1.PUT("/tasks/:id/subtasks/:subtaskId", taskController.UpdateSubtask)
	apiV1.DELETE("/tasks/:id/subtasks/:subtaskId", taskController.DeleteSubtask)
	apiV1.PUT("/tasks/:id/subtasks/:subtaskId/status", taskController.SetSubtaskStatus)

	// Comment endpoints
	apiV1.POST("/tasks/:id/comments", commentController.AddComment)
	apiV1.GET("/tasks/:id/comments", commentController.ListComments)
	apiV1.DELETE("/comments/:id", commentController.DeleteComment)

	// Profile and pairing endpoints
	apiV1.GET("/me", profileController.GetMe)
	apiV1.PUT("/me", profileController.UpdateMe)
	apiV1.POST("/me/push-tokens", profileController.RegisterPushToken)
	apiV1.POST("/me/partner/invite", profileController.InvitePartner)
	apiV1.POST("/me/partner/accept", profileController.AcceptInvite)

	// Note endpoints
	apiV1.GET("/notes", noteController.ListNotes)
	apiV1.POST("/notes", noteController.CreateNote)
	apiV1.GET("/notes/:id", noteController.GetNote)
	apiV1.PUT("/notes/:id", noteController.UpdateNote)
	apiV1.DELETE("/notes/:id", noteController.DeleteNote)

	// List endpoints
	apiV1.GET("/lists", listController.ListLists)
	apiV1.POST("/lists", listController.CreateList)
	apiV1.GET("/lists/:id", listController.GetList)
	apiV1.DELETE("/lists/:id", listController.DeleteList)
	apiV1.POST("/lists/:id/items", listController.AddItem)
	apiV1.PUT("/lists/:id/items/:itemId/checked", listController.SetItemChecked)
	apiV1.DELETE("/lists/:id/items/:itemId", listController.RemoveItem)

	// Video endpoints
	apiV1.GET("/videos", videoController.ListVideos)
	apiV1.POST("/videos", videoController.UploadVideo)
	apiV1.GET("/videos/:id/download", videoController.DownloadVideo)
	apiV1.DELETE("/videos/:id", videoController.DeleteVideo)

	// Notification endpoints
	apiV1.GET("/notifications", notificationController.ListNotifications)
	apiV1.PUT("/notifications/:id/read", notificationController.MarkRead)
}
