package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vetclinic/internal/authz"
	"vetclinic/internal/handlers"
	"vetclinic/internal/middleware"
	"vetclinic/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	tokens services.TokenService,
	authHandler *handlers.AuthHandler,
	verifyHandler *handlers.VerifyHandler,
	recoveryHandler *handlers.RecoveryHandler,
	appointmentHandler *handlers.AppointmentHandler,
	userHandler *handlers.UserHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/registro", authHandler.Register)
		auth.POST("/verificar-codigo", verifyHandler.VerifyCode)
		auth.POST("/reenviar-codigo", verifyHandler.ResendCode)
		auth.POST("/refresh", authHandler.Refresh)

		auth.POST("/recuperacion/solicitar", recoveryHandler.RequestRecovery)
		auth.POST("/recuperacion/verificar", recoveryHandler.VerifyRecoveryCode)
		auth.POST("/recuperacion/restablecer", recoveryHandler.ResetPassword)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware(tokens))

	// CITAS
	citas := r.Group("/citas")
	{
		citas.POST("/", middleware.RequireCapability(authz.CapAppointmentsOwn), appointmentHandler.Create)
		citas.GET("/", middleware.RequireCapability(authz.CapAppointmentsOwn), appointmentHandler.List)
		citas.GET("/disponibilidad", middleware.RequireCapability(authz.CapAppointmentsOwn), appointmentHandler.CheckAvailability)
		citas.GET("/mias", middleware.RequireCapability(authz.CapAppointmentsOwn), appointmentHandler.ListOwn)
		citas.GET("/activas", middleware.RequireCapability(authz.CapAppointmentsAll), appointmentHandler.ActiveForVet)
		citas.GET("/historial", middleware.RequireCapability(authz.CapAppointmentsAll), appointmentHandler.HistoryForVet)
		citas.GET("/:id", middleware.RequireCapability(authz.CapAppointmentsOwn), appointmentHandler.GetByID)
		citas.PUT("/:id", middleware.RequireCapability(authz.CapAppointmentsAll), appointmentHandler.Update)
		citas.DELETE("/:id", middleware.RequireCapability(authz.CapAppointmentsAll), appointmentHandler.Delete)
		citas.POST("/:id/estado", middleware.RequireCapability(authz.CapAppointmentsAll), appointmentHandler.UpdateStatus)
		citas.POST("/:id/asignar", middleware.RequireCapability(authz.CapAppointmentsAssign), appointmentHandler.AssignVeterinarian)
		citas.POST("/:id/revisar", middleware.RequireCapability(authz.CapAppointmentsAll), appointmentHandler.MarkReviewed)

		citas.POST("/:id/registros", middleware.RequireCapability(authz.CapClinicalRecords), appointmentHandler.SaveClinicalRecord)
		citas.GET("/:id/registros", middleware.RequireCapability(authz.CapClinicalRecords), appointmentHandler.ListClinicalRecords)
		citas.GET("/:id/registros/pdf", middleware.RequireCapability(authz.CapClinicalRecords), appointmentHandler.DownloadClinicalHistoryPDF)
	}

	// REGISTROS CLÍNICOS
	registros := r.Group("/registros", middleware.RequireCapability(authz.CapClinicalRecords))
	{
		registros.PUT("/:id", appointmentHandler.UpdateClinicalRecord)
	}

	// USUARIOS (admin)
	usuarios := r.Group("/usuarios", middleware.RequireCapability(authz.CapUsersManage))
	{
		usuarios.GET("/", userHandler.List)
		usuarios.GET("/contar", userHandler.GetCount)
		usuarios.GET("/contar/:role", userHandler.GetCountByRole)
		usuarios.GET("/:id", userHandler.GetByID)
		usuarios.PUT("/:id", userHandler.Update)
		usuarios.POST("/:id/rol", userHandler.UpdateRole)
		usuarios.POST("/:id/activo", userHandler.SetActive)
		usuarios.DELETE("/:id", userHandler.Delete)
	}

	// INTEGRACIONES (персонал)
	integr := r.Group("/integracion", middleware.RequireCapability(authz.CapTelegramLink))
	{
		integr.POST("/telegram", userHandler.LinkTelegram)
	}

	return r
}
