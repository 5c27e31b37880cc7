package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/carepoint/clinic-api/docs"
	"github.com/carepoint/clinic-api/internal/api/handler"
	"github.com/carepoint/clinic-api/internal/api/middleware"
	"github.com/carepoint/clinic-api/internal/core/policy"
	"github.com/carepoint/clinic-api/internal/core/ports"
	"github.com/carepoint/clinic-api/internal/infrastructure/http/handlers"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Auth         ports.AuthService
	Projection   ports.ProjectionService
	Appointments ports.AppointmentService
	Tokens       ports.TokenCodec
	Auditor      ports.Auditor

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness   []handlers.Dependency
	CORSOrigins []string
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestContext())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinic",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authn := middleware.Authenticate(deps.Tokens)
	authz := middleware.NewAuthorizer(deps.Auditor)
	guard := func(op policy.Operation, owner middleware.OwnerFunc) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{authn, authz.Require(op, owner)}
	}
	self := middleware.ParamOwner("id")

	authHandler := handler.NewAuthHandler(deps.Auth)
	identityHandler := handler.NewIdentityHandler(deps.Auth)
	doctorHandler := handler.NewDoctorHandler(deps.Projection)
	patientHandler := handler.NewPatientHandler(deps.Projection)
	appointmentHandler := handler.NewAppointmentHandler(deps.Appointments)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/signin", authHandler.Signin)
	api.GET("/auth/me", authHandler.Me, guard(policy.OpAuthMe, nil)...)

	api.POST("/identities", identityHandler.Provision, guard(policy.OpIdentityProvision, nil)...)

	// --- Doctors ---
	api.GET("/doctor", doctorHandler.List, guard(policy.OpDoctorList, nil)...)
	api.GET("/doctor/:id", doctorHandler.Get, guard(policy.OpDoctorGet, nil)...)
	api.POST("/doctor", doctorHandler.Create, guard(policy.OpDoctorCreate, nil)...)
	api.PUT("/doctor/:id", doctorHandler.Update, guard(policy.OpDoctorUpdate, self)...)
	api.DELETE("/doctor/:id", doctorHandler.Delete, guard(policy.OpDoctorDelete, nil)...)

	// --- Patients ---
	api.GET("/patient", patientHandler.List, guard(policy.OpPatientList, nil)...)
	api.GET("/patient/:id", patientHandler.Get, guard(policy.OpPatientGet, self)...)
	api.POST("/patient", patientHandler.Create, guard(policy.OpPatientCreate, nil)...)
	api.PUT("/patient/:id", patientHandler.Update, guard(policy.OpPatientUpdate, self)...)
	api.DELETE("/patient/:id", patientHandler.Delete, guard(policy.OpPatientDelete, nil)...)

	// --- Appointments ---
	api.GET("/appointment", appointmentHandler.List, guard(policy.OpAppointmentList, nil)...)
	api.GET("/appointment/:id", appointmentHandler.Get, guard(policy.OpAppointmentGet, nil)...)
	api.POST("/appointment", appointmentHandler.Create, guard(policy.OpAppointmentCreate, nil)...)
	api.PUT("/appointment/:id", appointmentHandler.Update, guard(policy.OpAppointmentUpdate, nil)...)
	api.DELETE("/appointment/:id", appointmentHandler.Delete, guard(policy.OpAppointmentDelete, nil)...)
	api.GET("/appointment/patient/:patientId", appointmentHandler.ListByPatient,
		guard(policy.OpAppointmentByPatient, middleware.ParamOwner("patientId"))...)
	api.GET("/appointment/doctor/:doctorId", appointmentHandler.ListByDoctor, guard(policy.OpAppointmentByDoctor, nil)...)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request. Authorization headers
// and bodies are never logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
