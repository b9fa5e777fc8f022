package sapsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/repository/database/inmemory"
	"github.com/oremont/rfp-service/internal/repository/downstreams/sapservice"
)

type failingSupplierService struct {
	err error
}

func (f *failingSupplierService) ListSuppliers(_ context.Context) ([]sapservice.SupplierDto, error) {
	return nil, f.err
}

func newWorker(sap sapservice.SupplierService, db *inmemory.InmemoryProvider) *Worker {
	conf := config.SapSyncConfig{FirstRunDelaySeconds: 15, IntervalMinutes: 60}
	w := NewWorker(conf, db, sap, logging.NewNoopLogger())
	w.now = func() time.Time {
		return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	}
	return w
}

func TestSyncOnceUpsertsSuppliers(t *testing.T) {
	db := inmemory.NewInMemoryProvider()
	sap := sapservice.NewMock()
	sap.Add(sapservice.SupplierDto{Code: "100001", Name: "PT Contoh Abadi", City: "Jakarta", Country: "ID"})
	sap.Add(sapservice.SupplierDto{Code: "100002", Name: "CV Maju Bersama", City: "Surabaya", Country: "ID"})

	w := newWorker(sap, db)
	require.NoError(t, w.SyncOnce(context.Background()))

	suppliers, err := db.GetSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	require.Equal(t, "100001", suppliers[0].SAPCode)
	require.Equal(t, w.now(), suppliers[0].SyncedAt)
}

func TestSyncOnceUpdatesExistingSuppliers(t *testing.T) {
	db := inmemory.NewInMemoryProvider()
	sap := sapservice.NewMock()
	sap.Add(sapservice.SupplierDto{Code: "100001", Name: "PT Contoh Abadi", City: "Jakarta", Country: "ID"})

	w := newWorker(sap, db)
	require.NoError(t, w.SyncOnce(context.Background()))

	sap.Reset()
	sap.Add(sapservice.SupplierDto{Code: "100001", Name: "PT Contoh Abadi Tbk", City: "Bandung", Country: "ID"})
	require.NoError(t, w.SyncOnce(context.Background()))

	suppliers, err := db.GetSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	require.Equal(t, "PT Contoh Abadi Tbk", suppliers[0].Name)
	require.Equal(t, "Bandung", suppliers[0].City)
}

func TestSyncOnceSkipsSuppliersWithoutCode(t *testing.T) {
	db := inmemory.NewInMemoryProvider()
	sap := sapservice.NewMock()
	sap.Add(sapservice.SupplierDto{Code: "", Name: "nameless"})
	sap.Add(sapservice.SupplierDto{Code: "100003", Name: "UD Sentosa"})

	w := newWorker(sap, db)
	require.NoError(t, w.SyncOnce(context.Background()))

	suppliers, err := db.GetSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	require.Equal(t, "100003", suppliers[0].SAPCode)
}

func TestSyncOnceKeepsRowsOnDownstreamError(t *testing.T) {
	db := inmemory.NewInMemoryProvider()
	sap := sapservice.NewMock()
	sap.Add(sapservice.SupplierDto{Code: "100001", Name: "PT Contoh Abadi"})

	w := newWorker(sap, db)
	require.NoError(t, w.SyncOnce(context.Background()))

	failing := newWorker(&failingSupplierService{err: errors.New("boom")}, db)
	require.Error(t, failing.SyncOnce(context.Background()))

	suppliers, err := db.GetSuppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
}
