package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/petguard-api/internal/app/api"
	principalsapp "github.com/Apurer/petguard-api/internal/domains/principals/application"
	platformobservability "github.com/Apurer/petguard-api/internal/platform/observability"
	petactivities "github.com/Apurer/petguard-api/internal/platform/temporal/activities/pets"
	petworkflows "github.com/Apurer/petguard-api/internal/platform/temporal/workflows/pets"
)

func main() {
	ctx := context.Background()
	const serviceName = "petguard-worker"
	if err := api.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.TemporalDisabled {
		logger.Error("worker cannot start with TEMPORAL_DISABLED set")
		os.Exit(1)
	}
	stores, cleanupStores, err := api.BuildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build stores", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStores()
	if stores.DB == nil {
		logger.Warn("worker running on in-memory stores; pets it persists are invisible to the API process")
	}

	principalService := principalsapp.NewService(stores.Directory, stores.Sessions, principalsapp.WithSessionTTL(cfg.SessionTTL))
	petService := api.NewPetService(stores, principalService, instruments)
	petActivities := petactivities.NewActivities(petService, stores.Photos)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, petworkflows.PetCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(petworkflows.PetCreationWorkflow, workflow.RegisterOptions{Name: petworkflows.PetCreationWorkflowName})
	w.RegisterActivityWithOptions(petActivities.StorePetPhoto, activity.RegisterOptions{Name: petactivities.StorePetPhotoActivityName})
	w.RegisterActivityWithOptions(petActivities.PersistPet, activity.RegisterOptions{Name: petactivities.PersistPetActivityName})
	w.RegisterActivityWithOptions(petActivities.DiscardPetPhoto, activity.RegisterOptions{Name: petactivities.DiscardPetPhotoActivityName})

	logger.Info("worker listening", slog.String("taskQueue", petworkflows.PetCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
