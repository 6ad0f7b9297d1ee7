package routes

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/domain/timewindow"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
	ucStaff "github.com/BruksfildServices01/barber-booking/internal/usecase/staff"
)

// ObjectStore is satisfied by *storage.S3Store.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Deps carries the infrastructure the API runs on. Optional fields must be
// left as untyped nil when the backing service is not configured.
type Deps struct {
	Config *config.Config
	Log    *slog.Logger

	Bookings domain.Repository
	Catalog  catalog.Repository

	SlotCache ucAppointment.SlotCache // optional
	Objects   ObjectStore             // optional
	Audit     ucAppointment.Auditor   // optional
	Metrics   *metrics.Metrics        // optional

	// Limiter is owned by the caller, which closes it on shutdown.
	Limiter *middleware.RateLimiter
	Ping    func(ctx context.Context) error
	// EmailDomainOK overrides the DNS check on registration.
	EmailDomainOK func(email string) bool
	Now           func() time.Time
}

// StoreHours turns the configured opening hours into the domain value.
func StoreHours(cfg *config.Config) domain.StoreHours {
	return domain.StoreHours{
		Window:   timewindow.Window{Start: cfg.Store.OpenMinutes, End: cfg.Store.CloseMinutes},
		Location: cfg.Location(),
	}
}

// ScheduleDeps is shared with the background calendar publisher.
func ScheduleDeps(d Deps) ucSchedule.Deps {
	sd := ucSchedule.Deps{
		Source: d.Bookings,
		Store:  StoreHours(d.Config),
		Calendar: ucSchedule.CalendarOptions{
			ProdID:    d.Config.Calendar.ProdID,
			UIDDomain: d.Config.Calendar.UIDDomain,
		},
		Now: d.Now,
	}
	if d.Objects != nil {
		sd.Objects = d.Objects
	}
	return sd
}

var (
	ErrNoConfig  = errors.New("routes: config is required")
	ErrNoLimiter = errors.New("routes: rate limiter is required")
)

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config
	if cfg == nil {
		return ErrNoConfig
	}
	if d.Limiter == nil {
		return ErrNoLimiter
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	tokens := auth.NewTokens(cfg.JWTSecret)
	allow := auth.NewAllowList(cfg.StaffEmails)

	limiter := d.Limiter

	// ======================================================
	// USE CASES
	// ======================================================
	bookingDeps := ucAppointment.Deps{
		Repo:    d.Bookings,
		Store:   StoreHours(cfg),
		Cache:   d.SlotCache,
		Audit:   d.Audit,
		Metrics: d.Metrics,
		Log:     d.Log,
		Now:     d.Now,
	}
	getAvailabilityUC := ucAppointment.NewGetAvailability(bookingDeps)
	createAppointmentUC := ucAppointment.NewCreateAppointment(bookingDeps)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(bookingDeps)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(bookingDeps)

	catalogDeps := ucCatalog.Deps{
		Repo: d.Catalog,
		Log:  d.Log,
		Now:  d.Now,
	}
	if d.SlotCache != nil {
		catalogDeps.Cache = d.SlotCache
	}
	if d.Audit != nil {
		catalogDeps.Audit = d.Audit
	}
	if d.Objects != nil {
		catalogDeps.Objects = d.Objects
	}
	barbersUC := ucCatalog.NewBarbers(catalogDeps)
	servicesUC := ucCatalog.NewServices(catalogDeps)
	availabilityUC := ucCatalog.NewAvailability(catalogDeps)
	auditLogsUC := ucCatalog.NewAuditLogs(catalogDeps)

	scheduleDeps := ScheduleDeps(d)
	dayViewUC := ucSchedule.NewBuildDayView(scheduleDeps)
	exportCalendarUC := ucSchedule.NewExportCalendar(scheduleDeps)
	publishCalendarUC := ucSchedule.NewPublishCalendar(scheduleDeps)

	staffDeps := ucStaff.Deps{
		Repo:          d.Catalog,
		Tokens:        tokens,
		AllowList:     allow,
		Log:           d.Log,
		EmailDomainOK: d.EmailDomainOK,
	}
	if d.Audit != nil {
		staffDeps.Audit = d.Audit
	}
	accountsUC := ucStaff.NewAccounts(staffDeps)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.Ping)
	publicHandler := handlers.NewPublicHandler(servicesUC, barbersUC, getAvailabilityUC, createAppointmentUC)
	appointmentHandler := handlers.NewAppointmentHandler(listAppointmentsByDateUC, updateAppointmentUC)
	scheduleHandler := handlers.NewScheduleHandler(dayViewUC, exportCalendarUC, publishCalendarUC)
	barberHandler := handlers.NewBarberHandler(barbersUC)
	serviceHandler := handlers.NewServiceHandler(servicesUC)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC)
	authHandler := handlers.NewAuthHandler(accountsUC)
	meHandler := handlers.NewMeHandler(accountsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogsUC, cfg.Location())

	r.GET("/health", healthHandler.Health)
	if cfg.Metrics.Enabled && d.Metrics != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/services", publicHandler.ListServices)
		api.GET("/barbers", publicHandler.ListBarbers)
		api.GET("/appointments/slots", publicHandler.Slots)
		api.POST("/appointments",
			middleware.RateLimit(limiter),
			middleware.OptionalAuth(tokens, allow),
			publicHandler.CreateAppointment,
		)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", middleware.RateLimit(limiter), authHandler.Register)
		api.POST("/auth/login", middleware.RateLimit(limiter), authHandler.Login)

		// ------------------------------
		// STAFF
		// ------------------------------
		secured := api.Group("")
		secured.Use(middleware.AuthMiddleware(tokens, allow))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/calendar", scheduleHandler.Calendar)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)

			secured.GET("/schedule", scheduleHandler.DayView)
			secured.POST("/schedule/publish", scheduleHandler.Publish)

			secured.GET("/staff/barbers", barberHandler.List)
			secured.POST("/barbers", barberHandler.Create)
			secured.PATCH("/barbers/:id", barberHandler.Update)
			secured.POST("/barbers/:id/avatar", barberHandler.UploadAvatar)

			secured.GET("/barbers/:id/availability", availabilityHandler.ListWindows)
			secured.POST("/barbers/:id/availability", availabilityHandler.AddWindow)
			secured.DELETE("/barbers/:id/availability/:windowId", availabilityHandler.DeleteWindow)
			secured.GET("/barbers/:id/time-off", availabilityHandler.ListTimeOff)
			secured.POST("/barbers/:id/time-off", availabilityHandler.AddTimeOff)
			secured.DELETE("/barbers/:id/time-off/:timeOffId", availabilityHandler.DeleteTimeOff)

			secured.GET("/staff/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
	return nil
}
