package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	petguardserver "github.com/Apurer/petguard-api/go"

	petsobs "github.com/Apurer/petguard-api/internal/domains/pets/adapters/observability"
	petsworkflows "github.com/Apurer/petguard-api/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/petguard-api/internal/domains/pets/application"
	petsports "github.com/Apurer/petguard-api/internal/domains/pets/ports"
	principalsapp "github.com/Apurer/petguard-api/internal/domains/principals/application"
	platformobservability "github.com/Apurer/petguard-api/internal/platform/observability"
)

// ServiceName identifies the API process in telemetry.
const ServiceName = "petguard-api"

// Run boots the petguard HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores, err := BuildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStores()

	principalService := principalsapp.NewService(stores.Directory, stores.Sessions, principalsapp.WithSessionTTL(cfg.SessionTTL))
	petService := NewPetService(stores, principalService, instruments)

	var petWorkflows petsports.WorkflowOrchestrator = petsworkflows.NewInlinePetWorkflows(petService)
	if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running CreatePet inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		petWorkflows = petsworkflows.NewTemporalPetWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if cfg.SessionPurgeIntervalMinute > 0 {
		purgeCtx, stopPurge := context.WithCancel(ctx)
		defer stopPurge()
		go runPurgeLoop(purgeCtx, stores, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute, cfg.IdempotencyRetention, logger)
	}

	handlers := petguardserver.ApiHandleFunctions{
		PetAPI:     petguardserver.NewPetAPI(petService, petWorkflows, cfg.PhotoMaxBytes),
		AccountAPI: petguardserver.NewAccountAPI(principalService),
		Principals: principalService,
	}
	router := petguardserver.NewRouter(handlers, otelgin.Middleware(ServiceName))
	addr := ":" + cfg.Port
	logger.Info("petguard API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("petguard API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// NewPetService builds the instrumented pets service over stores.
func NewPetService(stores *Stores, resolver petsports.Principals, instruments *platformobservability.Instruments) petsports.Service {
	core := petsapp.NewService(stores.Pets, resolver,
		petsapp.WithPhotoStore(stores.Photos),
		petsapp.WithIdempotencyStore(stores.Idempotency),
	)
	return petsobs.New(
		core,
		petsobs.WithLogger(effectiveLogger(instruments)),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)
}

// ConnectTemporal dials Temporal with tracing and structured logging unless it is disabled.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
