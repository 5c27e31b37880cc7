package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/carepoint/clinic-api/internal/api"
	"github.com/carepoint/clinic-api/internal/core/ports"
	"github.com/carepoint/clinic-api/internal/core/service"
	"github.com/carepoint/clinic-api/internal/infrastructure/audit"
	"github.com/carepoint/clinic-api/internal/infrastructure/config"
	"github.com/carepoint/clinic-api/internal/infrastructure/db/mongo"
	"github.com/carepoint/clinic-api/internal/infrastructure/db/postgres"
	"github.com/carepoint/clinic-api/internal/infrastructure/db/redis"
	"github.com/carepoint/clinic-api/internal/infrastructure/http/handlers"
	"github.com/carepoint/clinic-api/internal/infrastructure/kafka"
	"github.com/carepoint/clinic-api/internal/infrastructure/queue"
	"github.com/carepoint/clinic-api/internal/infrastructure/security"
	"github.com/carepoint/clinic-api/internal/seed"
	"github.com/carepoint/clinic-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title                      Clinic API
// @version                    1.0
// @description                Identity, role-based access control and appointment records for a clinic.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the JWT.
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "clinic-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("clinic-api stopped")
	}
}

// stores groups the repositories of the selected driver.
type stores struct {
	identities   ports.IdentityRepository
	doctors      ports.DoctorRepository
	patients     ports.PatientRepository
	appointments ports.AppointmentRepository
	readiness    handlers.Dependency
	mongoDB      *mongodriver.Database
	close        func()
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	readiness := []handlers.Dependency{st.readiness}

	var throttle ports.LoginThrottle = redis.NoThrottle{}
	if cfg.Login.MaxAttempts > 0 {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		throttle = redis.NewLoginThrottle(client, cfg.Login.MaxAttempts, cfg.Login.Window)
		readiness = append(readiness, handlers.Dependency{Name: "redis", Pinger: redis.NewPinger(client)})
		log.Info().Str("addr", cfg.Redis.Addr).Int("max_attempts", cfg.Login.MaxAttempts).Msg("login throttling enabled")
	}

	sink, closeSink, err := openAuditSink(cfg, st, log)
	if err != nil {
		return err
	}
	defer closeSink()

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(sink, log), logger.Component("audit"))
	// Workers outlive the signal context; Close drains them after the server stops.
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Close()

	tokens := security.NewJWTCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	authService := service.NewAuthService(
		st.identities,
		security.NewBcryptHasher(bcrypt.DefaultCost),
		tokens,
		throttle,
		dispatcher,
		cfg.JWT.TTL,
		log,
	)
	projection := service.NewProjectionService(st.identities, st.doctors, st.patients, dispatcher, log)
	appointments := service.NewAppointmentService(st.appointments, projection, log)

	if cfg.SeedDemoData {
		seeder := seed.NewSeeder(st.identities, authService, projection, appointments, logger.Component("seed"))
		if _, err := seeder.Run(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:         authService,
		Projection:   projection,
		Appointments: appointments,
		Tokens:       tokens,
		Auditor:      dispatcher,
		Readiness:    readiness,
		CORSOrigins:  cfg.CORSOrigins,
		Log:          log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Str("audit_sink", cfg.Audit.Sink).Msg("clinic-api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("postgres store ready")
		return &stores{
			identities:   postgres.NewIdentityRepository(pool),
			doctors:      postgres.NewDoctorRepository(pool),
			patients:     postgres.NewPatientRepository(pool),
			appointments: postgres.NewAppointmentRepository(pool),
			readiness:    handlers.Dependency{Name: "postgres", Pinger: pool},
			close:        pool.Close,
		}, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &stores{
			identities:   mongo.NewIdentityRepository(db),
			doctors:      mongo.NewDoctorRepository(db),
			patients:     mongo.NewPatientRepository(db),
			appointments: mongo.NewAppointmentRepository(db),
			readiness:    handlers.Dependency{Name: "mongo", Pinger: mongo.NewPinger(db)},
			mongoDB:      db,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil
	}
}

func openAuditSink(cfg *config.Config, st *stores, log zerolog.Logger) (ports.AuditSink, func(), error) {
	switch cfg.Audit.Sink {
	case config.AuditKafka:
		sink := kafka.NewAuditSink(cfg.Audit.Brokers, cfg.Audit.KafkaTopic)
		return sink, func() {
			if err := sink.Close(); err != nil {
				log.Warn().Err(err).Msg("kafka audit sink close")
			}
		}, nil
	case config.AuditMongo:
		if st.mongoDB == nil {
			return nil, nil, errors.New("mongo audit sink requires the mongo store")
		}
		return mongo.NewAuditSink(st.mongoDB), func() {}, nil
	default:
		return audit.NewLogSink(logger.Component("audit_trail")), func() {}, nil
	}
}
