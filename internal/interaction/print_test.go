package interaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oremont/rfp-service/internal/entities"
)

func TestTrackPrintIncrementsCounterAndLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := userCtx("u-100", "staff")

	created, err := env.interactor.CreateRequest(ctx, env.newRequest())
	require.NoError(t, err)
	require.Equal(t, uint(0), created.PrintCount)

	printed, err := env.interactor.TrackPrint(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, uint(1), printed.PrintCount)
	require.Equal(t, "u-100", printed.LastPrintedBy)
	require.True(t, printed.LastPrintedAt.Valid)

	printed, err = env.interactor.TrackPrint(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, uint(2), printed.PrintCount)

	entries, err := env.db.GetAuditLogEntriesForRequest(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.Equal(t, string(entities.RequestStatusDraft), entry.StatusFrom)
		require.Equal(t, string(entities.RequestStatusDraft), entry.StatusInto)
		require.Equal(t, "PDF document generated", entry.Changes)
		require.Empty(t, entry.Remarks)

		_, err := entities.ParseChangeList(entry.Changes)
		require.Error(t, err)
	}
}

func TestTrackPrintRecordsSystemUserForAPIToken(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.interactor.CreateRequest(apiTokenCtx(), env.newRequest())
	require.NoError(t, err)

	printed, err := env.interactor.TrackPrint(apiTokenCtx(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "system", printed.LastPrintedBy)
}
