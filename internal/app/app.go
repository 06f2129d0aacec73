package app

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "vetclinic/docs"
	"vetclinic/internal/config"
	"vetclinic/internal/handlers"
	"vetclinic/internal/logger"
	"vetclinic/internal/pdf"
	"vetclinic/internal/repositories"
	"vetclinic/internal/routes"
	"vetclinic/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Environment)
	if err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	defer log.Sync()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("db close failed", zap.Error(err))
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("db ping failed", zap.Error(err))
	}

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)
	recordRepo := repositories.NewClinicalRecordRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	tokenService := services.NewTokenService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
	)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	var notifier *services.NotifierService
	if cfg.Telegram.Enabled {
		notifier, err = services.NewNotifierService(cfg.Telegram.BotToken, log)
		if err != nil {
			// интеграция необязательная: без бота просто едем дальше
			log.Warn("telegram notifier disabled", zap.Error(err))
			notifier = nil
		}
	}

	accountService := services.NewAccountService(accountRepo, authService, tokenService, emailService, log)
	recoveryService := services.NewRecoveryService(
		accountRepo, authService, tokenService, emailService,
		cfg.Recovery.AllowedDomains, log,
	)
	appointmentService := services.NewAppointmentService(appointmentRepo, recordRepo, accountRepo, notifier, log)

	pdfGen := pdf.NewHistoryGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountService)
	verifyHandler := handlers.NewVerifyHandler(accountService)
	recoveryHandler := handlers.NewRecoveryHandler(recoveryService, tokenService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, pdfGen)
	userHandler := handlers.NewUserHandler(accountService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		tokenService,
		authHandler,
		verifyHandler,
		recoveryHandler,
		appointmentHandler,
		userHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", listenAddr))
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
