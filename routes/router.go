package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/reviewboard/config"
	"github.com/cppla/reviewboard/controllers"
	"github.com/cppla/reviewboard/middleware"
	"github.com/cppla/reviewboard/moderation"
	"github.com/cppla/reviewboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(store *moderation.Store) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	questionController := controllers.NewQuestionController(store)
	answerController := controllers.NewAnswerController(store)
	moderationController := controllers.NewModerationController(store)
	taskController := controllers.NewTaskController(store)
	feedbackController := controllers.NewFeedbackController(store)

	api := r.Group("/api/v1")

	// Public reads
	api.GET("/questions", questionController.ListQuestions)
	api.GET("/questions/:id", questionController.GetQuestion)
	api.GET("/questions/:id/answers", answerController.ListAnswers)
	api.GET("/answers", answerController.ListAllAnswers)

	// Authenticated writes
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/questions", questionController.CreateQuestion)
	protected.PUT("/questions/:id", questionController.UpdateQuestion)
	protected.DELETE("/questions/:id", questionController.DeleteQuestion)
	protected.POST("/questions/:id/answers", answerController.CreateAnswer)
	protected.PUT("/answers/:id", answerController.UpdateAnswer)
	protected.DELETE("/answers/:id", answerController.DeleteAnswer)
	protected.POST("/questions/:id/feedback", feedbackController.AddQuestionFeedback)
	protected.POST("/answers/:id/feedback", feedbackController.AddAnswerFeedback)

	// Staff moderation surface
	staff := api.Group("/moderation")
	staff.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware(), middleware.StaffRequired())
	staff.POST("/flags", moderationController.Flag)
	staff.POST("/flags/notes", moderationController.AddNote)
	staff.POST("/unflag", moderationController.Unflag)
	staff.GET("/flags", moderationController.ListFlagged)
	staff.GET("/flags/check", moderationController.CheckFlagged)
	staff.GET("/logs", moderationController.ListLogs)
	staff.GET("/tasks", taskController.ListTasks)
	staff.POST("/tasks", taskController.AddTask)
	staff.POST("/tasks/:index/resolve", taskController.ResolveTask)
	staff.GET("/questions/:id/feedback", feedbackController.ListQuestionFeedback)
	staff.GET("/answers/:id/feedback", feedbackController.ListAnswerFeedback)
	staff.POST("/questions/:id/feedback/:index/flag", feedbackController.FlagQuestionFeedback)
	staff.POST("/answers/:id/feedback/:index/flag", feedbackController.FlagAnswerFeedback)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
