package main

import (
	"log"
	"net/http"
	"time"

	"assessment-service/internal/cache"
	"assessment-service/internal/config"
	"assessment-service/internal/db"
	"assessment-service/internal/event"
	"assessment-service/internal/handlers"
	"assessment-service/internal/models"
	"assessment-service/internal/oracle"
	"assessment-service/internal/progression"
	"assessment-service/internal/repository"
	"assessment-service/internal/selection"
	"assessment-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	if cfg.MongoDB.URI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(cfg.MongoDB.URI)
	database := db.Client.Database(cfg.MongoDB.Database)

	// RabbitMQ event publisher
	var events service.Publisher
	if cfg.RabbitMQ.URI != "" && cfg.RabbitMQ.Exchange != "" {
		publisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		events = publisher
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Redis backs the session guards and the leaderboard cache when
	// configured; a process-local keyed mutex covers a single instance.
	var locker cache.SessionLocker = cache.NewKeyedMutex()
	var leaderboardCache service.LeaderboardCache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		locker = redisClient
		leaderboardCache = redisClient
	} else {
		log.Println("Redis not configured, using in-process session locks")
	}

	// Repositories
	questionRepo := repository.NewQuestionRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	examRepo := repository.NewExamRepository(database)
	progressRepo := repository.NewProgressRepository(database)

	// Core components
	bank := selection.NewBank(questionRepo)
	ledger := progression.NewLedger(progression.Catalog, cfg.Streak.QualifyingKinds)
	progressService := service.NewProgressService(progressRepo, ledger, events, leaderboardCache)

	sessionService := service.NewSessionService(sessionRepo, bank, progressService, locker, events, service.SessionConfig{
		InitialTier:            models.Tier(cfg.Practice.InitialTier),
		DefaultDurationMinutes: cfg.Practice.DefaultDurationMinutes,
		SectionSize:            cfg.Sectional.BlockSize,
		SectionPassThreshold:   cfg.Sectional.PassThreshold,
	})

	if cfg.Oracle.BaseURL == "" {
		log.Println("ORACLE_BASE_URL not set, adaptive exams will fail to start")
	}
	var oracleClient oracle.Client = oracle.NewHTTPClient(cfg.Oracle)
	examService := service.NewExamService(examRepo, oracleClient, progressService, locker, events, service.ExamConfig{
		DefaultDurationMinutes: cfg.Exam.DefaultDurationMinutes,
	})

	questionService := service.NewQuestionService(questionRepo)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(sessionService)
	examHandler := handlers.NewExamHandler(examService)
	progressHandler := handlers.NewProgressHandler(progressService)
	questionHandler := handlers.NewQuestionHandler(questionService)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-User-ID", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(r, sessionHandler, examHandler, progressHandler, questionHandler)

	r.Run(cfg.Server.Host + ":" + cfg.Server.Port)
}

func authRequired(c *gin.Context) {
	if c.GetHeader("X-User-ID") == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
			"code":  "MISSING_USER_ID",
		})
		c.Abort()
		return
	}
	c.Next()
}

func setupRoutes(r *gin.Engine, sessionHandler *handlers.SessionHandler, examHandler *handlers.ExamHandler, progressHandler *handlers.ProgressHandler, questionHandler *handlers.QuestionHandler) {
	// Practice sessions
	practice := r.Group("/protected/assessment/practice")
	practice.Use(authRequired)
	{
		practice.POST("/", sessionHandler.StartPractice)
		practice.POST("/:id/answer", sessionHandler.SubmitPracticeAnswer)
		practice.POST("/:id/end", sessionHandler.EndPractice)
		practice.GET("/:id/results", sessionHandler.GetResults)
	}

	// Sectional tests
	sectional := r.Group("/protected/assessment/sectional")
	sectional.Use(authRequired)
	{
		sectional.POST("/", sessionHandler.StartSectional)
		sectional.POST("/:id/answer", sessionHandler.SubmitSectionalAnswer)
		sectional.POST("/:id/section", sessionHandler.AddSection)
		sectional.POST("/:id/end", sessionHandler.EndSectional)
		sectional.GET("/:id/results", sessionHandler.GetResults)
	}

	// Session history
	r.GET("/protected/assessment/sessions", authRequired, sessionHandler.ListSessions)

	// Adaptive exams
	exam := r.Group("/protected/assessment/exam")
	exam.Use(authRequired)
	{
		exam.POST("/", examHandler.StartExam)
		exam.POST("/:id/answer", examHandler.SubmitAnswer)
		exam.POST("/:id/end", examHandler.EndExam)
		exam.POST("/:id/resume", examHandler.Resume)
		exam.GET("/:id", examHandler.GetExam)
		exam.GET("/", examHandler.History)
	}

	// Progress
	r.GET("/protected/assessment/progress", authRequired, progressHandler.GetProgress)
	r.GET("/public/assessment/leaderboard", progressHandler.Leaderboard)

	// Question bank
	publicQuestion := r.Group("/public/assessment/question")
	{
		publicQuestion.GET("/", questionHandler.ListQuestions)
		publicQuestion.GET("/tags", questionHandler.ListTags)
		publicQuestion.GET("/:id", questionHandler.GetQuestion)
	}

	protectedQuestion := r.Group("/protected/assessment/question")
	protectedQuestion.Use(authRequired)
	{
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.POST("/bulk", questionHandler.CreateQuestionsBulk)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeactivateQuestion)
	}
}
