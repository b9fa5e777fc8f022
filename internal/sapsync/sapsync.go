package sapsync

import (
	"context"
	"time"

	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/repository/database"
	"github.com/oremont/rfp-service/internal/repository/downstreams/sapservice"
)

// Worker periodically mirrors the ERP supplier master data into the local
// supplier table. Failed runs are logged and retried on the next tick, the
// previously synced rows stay available in the meantime.
type Worker struct {
	logger logging.Logger
	store  database.Repository
	sap    sapservice.SupplierService

	firstRunDelay time.Duration
	runInterval   time.Duration

	now func() time.Time
}

func NewWorker(conf config.SapSyncConfig, store database.Repository, sap sapservice.SupplierService, logger logging.Logger) *Worker {
	return &Worker{
		logger:        logger,
		store:         store,
		sap:           sap,
		firstRunDelay: time.Duration(conf.FirstRunDelaySeconds) * time.Second,
		runInterval:   time.Duration(conf.IntervalMinutes) * time.Minute,
		now:           time.Now,
	}
}

// Start runs the sync loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Worker) run(ctx context.Context) {
	period := w.firstRunDelay
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("supplier sync stopped")
			return
		case <-time.After(period):
			if err := w.SyncOnce(ctx); err != nil {
				w.logger.Error("supplier sync failed: %v", err)
			}
		}
		period = w.runInterval
	}
}

// SyncOnce fetches the supplier list and upserts it. Exported so a sync can
// also be forced at startup.
func (w *Worker) SyncOnce(ctx context.Context) error {
	dtos, err := w.sap.ListSuppliers(ctx)
	if err != nil {
		return err
	}

	syncedAt := w.now()
	suppliers := make([]entities.Supplier, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Code == "" {
			w.logger.Warn("skipping supplier with empty code (name: %s)", dto.Name)
			continue
		}

		suppliers = append(suppliers, entities.Supplier{
			SAPCode:  dto.Code,
			Name:     dto.Name,
			City:     dto.City,
			Country:  dto.Country,
			SyncedAt: syncedAt,
		})
	}

	if err := w.store.UpsertSuppliers(ctx, suppliers); err != nil {
		return err
	}

	w.logger.Info("supplier sync finished, %d suppliers upserted", len(suppliers))
	return nil
}
