package db

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/advection/internal/timeutil"
)

func sampleRun(name, kind, stepping, interpolation, direct string, l2 float64) *RunRecord {
	return &RunRecord{
		Name:           name,
		Kind:           kind,
		Stepping:       stepping,
		Interpolation:  interpolation,
		Direct:         direct,
		DomainSize:     10,
		Samples:        500,
		Velocity:       5,
		Dt:             0.001,
		Substeps:       4000,
		L2Error:        l2,
		MaxError:       l2 * 2,
		MassDrift:      1e-12,
		Overshoot:      0,
		TotalVariation: 2,
		DurationNanos:  int64(15 * time.Millisecond),
	}
}

func TestRunStoreInsertAndGet(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	store := NewRunStore(NewTestDB(t)).WithClock(clock)

	r := sampleRun("advection_BFECC_Linear", "traced", "BFECC", "Linear", "", 0.23)
	r.ConfigJSON = json.RawMessage(`{"samples":500}`)
	require.NoError(t, store.Insert(r))

	_, err := uuid.Parse(r.RunID)
	require.NoError(t, err, "RunID should be a UUID")
	assert.Equal(t, clock.Now().UnixNano(), r.CreatedAt)

	got, err := store.Get(r.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStoreGetMissing(t *testing.T) {
	store := NewRunStore(NewTestDB(t))
	_, err := store.Get("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunStoreInsertKeepsGivenIDs(t *testing.T) {
	store := NewRunStore(NewTestDB(t))
	r := sampleRun("advection_Reference", "reference", "", "", "", 0)
	r.RunID = "fixed-id"
	r.CreatedAt = 42
	require.NoError(t, store.Insert(r))

	got, err := store.Get("fixed-id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.CreatedAt)
	assert.Empty(t, got.Stepping)
	assert.Nil(t, got.ConfigJSON)

	// duplicate primary key
	assert.Error(t, store.Insert(r))
}

func TestRunStoreInsertRequiresName(t *testing.T) {
	store := NewRunStore(NewTestDB(t))
	assert.ErrorContains(t, store.Insert(&RunRecord{}), "no name")
}

func TestRunStoreListAndBest(t *testing.T) {
	store := NewRunStore(NewTestDB(t))
	runs := []*RunRecord{
		sampleRun("advection_SemiLagrangian_Linear", "traced", "SemiLagrangian", "Linear", "", 0.36),
		sampleRun("advection_MacCormack_Linear", "traced", "MacCormack", "Linear", "", 0.30),
		sampleRun("advection_BFECC_CatmullRom", "traced", "BFECC", "CatmullRom", "", 0.28),
		sampleRun("advection_LaxWendroffCDS", "direct", "", "", "LaxWendroffCDS", 0.299),
		sampleRun("advection_Reference", "reference", "", "", "", 0),
	}
	for i, r := range runs {
		r.CreatedAt = int64(i + 1)
		require.NoError(t, store.Insert(r))
	}

	all, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "advection_Reference", all[0].Name)

	recent, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "advection_LaxWendroffCDS", recent[1].Name)

	best, err := store.Best(RunFilter{}, 0)
	require.NoError(t, err)
	names := make([]string, len(best))
	for i, r := range best {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"advection_BFECC_CatmullRom",
		"advection_LaxWendroffCDS",
		"advection_MacCormack_Linear",
		"advection_SemiLagrangian_Linear",
	}, names)

	linear, err := store.Best(RunFilter{Interpolation: "Linear"}, 1)
	require.NoError(t, err)
	require.Len(t, linear, 1)
	assert.Equal(t, "advection_MacCormack_Linear", linear[0].Name)

	direct, err := store.Best(RunFilter{Direct: "LaxWendroffCDS", Samples: 500}, 0)
	require.NoError(t, err)
	require.Len(t, direct, 1)

	none, err := store.Best(RunFilter{Stepping: "BFECC", Samples: 200}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRunStoreDelete(t *testing.T) {
	store := NewRunStore(NewTestDB(t))
	r := sampleRun("advection_MacCormack_Linear", "traced", "MacCormack", "Linear", "", 0.3)
	require.NoError(t, store.Insert(r))

	require.NoError(t, store.Delete(r.RunID))
	_, err := store.Get(r.RunID)
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.True(t, errors.Is(store.Delete(r.RunID), ErrRunNotFound))
}
