package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	"github.com/BruksfildServices01/vetclinic-api/internal/auth"
	"github.com/BruksfildServices01/vetclinic-api/internal/config"
	dbpkg "github.com/BruksfildServices01/vetclinic-api/internal/db"
	appt "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
	"github.com/BruksfildServices01/vetclinic-api/internal/handlers"
	"github.com/BruksfildServices01/vetclinic-api/internal/infra/ratelimit"
	infraRepo "github.com/BruksfildServices01/vetclinic-api/internal/infra/repository"
	"github.com/BruksfildServices01/vetclinic-api/internal/metrics"
	"github.com/BruksfildServices01/vetclinic-api/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/vetclinic-api/internal/usecase/appointment"
	ucDoctor "github.com/BruksfildServices01/vetclinic-api/internal/usecase/doctor"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/ownership"
	ucPet "github.com/BruksfildServices01/vetclinic-api/internal/usecase/pet"
	ucSubscription "github.com/BruksfildServices01/vetclinic-api/internal/usecase/subscription"
)

// Infra groups the process wide singletons built in main. PhotoStore and
// Payments may be nil when their backends are not configured.
type Infra struct {
	Log        *zap.Logger
	Metrics    *metrics.Collector
	Audit      *audit.Dispatcher
	Limiter    *ratelimit.Limiter
	Tokens     *auth.TokenService
	PhotoStore ucPet.PhotoStore
	Payments   ucSubscription.Gateway
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(infra.Log),
		middleware.Metrics(infra.Metrics),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	doctorRepo := infraRepo.NewDoctorGormRepository(db)
	petRepo := infraRepo.NewPetGormRepository(db)
	userRepo := infraRepo.NewUserGormRepository(db)
	subscriptionRepo := infraRepo.NewSubscriptionGormRepository(db)
	auditLogRepo := infraRepo.NewAuditLogGormRepository(db)

	guard := ownership.NewGuard(appointmentRepo)

	transitions := appt.PermissiveTransitions
	if cfg.StrictStatusTransitions {
		transitions = appt.StrictTransitions
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		guard,
		infra.Audit,
	).OnConflict(func(source string) {
		infra.Metrics.SlotConflicts.WithLabelValues(source).Inc()
	})

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, guard, infra.Audit)
	updateStatusUC := ucAppointment.NewUpdateAppointmentStatus(appointmentRepo, guard, infra.Audit, transitions)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo, guard)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo, guard)

	doctorSvc := ucDoctor.NewService(doctorRepo, guard, infra.Audit)
	petSvc := ucPet.NewService(petRepo, infra.PhotoStore)
	subscriptionSvc := ucSubscription.NewService(subscriptionRepo, infra.Payments, guard, infra.Audit, infra.Log)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userRepo, infra.Tokens, infra.Log)
	meHandler := handlers.NewMeHandler(userRepo, guard, infra.Log)
	clinicHandler := handlers.NewClinicHandler(guard, userRepo, infra.Audit, infra.Log)
	doctorHandler := handlers.NewDoctorHandler(doctorSvc, infra.Log)
	petHandler := handlers.NewPetHandler(petSvc, infra.Log)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionSvc, infra.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(guard, auditLogRepo, infra.Log)
	publicHandler := handlers.NewPublicHandler(doctorSvc, availabilityUC, subscriptionSvc, infra.Log)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		updateStatusUC,
		listByDateUC,
		listByMonthUC,
		infra.Metrics,
		infra.Log,
	)

	// ======================================================
	// 🩺 OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := dbpkg.Ping(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(infra.Metrics.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(infra.Tokens))
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", infra.Limiter.Middleware("register"), authHandler.Register)
		api.POST("/auth/login", infra.Limiter.Middleware("login"), authHandler.Login)
		api.GET("/me", meHandler.GetMe)

		// ------------------------------
		// 🌐 LEITURAS PÚBLICAS
		// ------------------------------
		api.GET("/clinics/:clinicId/doctors", publicHandler.ListDoctors)
		api.GET("/doctors/:id/availability", publicHandler.Availability)
		api.GET("/plans", publicHandler.ListPlans)

		// ------------------------------
		// 🏥 CLÍNICA
		// ------------------------------
		api.PATCH("/clinics/:clinicId", clinicHandler.Update)
		api.GET("/clinics/:clinicId/audit-logs", auditLogsHandler.List)

		// ------------------------------
		// 🩺 VETERINÁRIOS
		// ------------------------------
		api.POST("/clinics/:clinicId/doctors", doctorHandler.Create)
		api.PATCH("/doctors/:id", doctorHandler.Update)
		api.DELETE("/doctors/:id", doctorHandler.Delete)

		// ------------------------------
		// 📅 AGENDAMENTOS
		// ------------------------------
		api.POST("/appointments", appointmentHandler.Create)
		api.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
		api.DELETE("/clinics/:clinicId/appointments/:id", appointmentHandler.Cancel)
		api.GET("/clinics/:clinicId/appointments", appointmentHandler.ListByClinic)

		// ------------------------------
		// 🐾 PETS
		// ------------------------------
		pets := api.Group("/pets", middleware.RequireSession())
		{
			pets.POST("", petHandler.Create)
			pets.GET("/:code", petHandler.Get)
			pets.POST("/:code/photo", petHandler.UploadPhoto)
		}

		// ------------------------------
		// 💳 ASSINATURAS
		// ------------------------------
		api.POST("/me/subscription/checkout", subscriptionHandler.Checkout)
		api.POST("/webhooks/mercadopago", subscriptionHandler.Webhook)
	}
}
