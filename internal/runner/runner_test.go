package runner

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neilotoole/slogt"
	"github.com/nvandessel/leach/internal/leach"
	"github.com/stretchr/testify/require"
)

func TestRun_SeededIsReproducible(t *testing.T) {
	r := New(slogt.New(t))
	p := Params{Nodes: 20, Rounds: 15, Probability: 0.2, Seed: 1234}

	a, err := r.Run(context.Background(), p)
	require.NoError(t, err)
	b, err := r.Run(context.Background(), p)
	require.NoError(t, err)

	require.Equal(t, uint64(1234), a.Seed)
	require.NotEqual(t, a.RunID, b.RunID)
	_, err = uuid.Parse(a.RunID)
	require.NoError(t, err)

	for i := range a.Summary.History {
		require.Equal(t, a.Summary.History[i], b.Summary.History[i])
	}
}

func TestRun_PicksSeed(t *testing.T) {
	res, err := New(nil).Run(context.Background(), Params{Nodes: 2, Rounds: 2, Probability: 0.5})
	require.NoError(t, err)
	require.NotZero(t, res.Seed)
	require.Equal(t, res.Seed, res.Summary.Seed)
}

func TestRun_UsesInjectedSourceAndClock(t *testing.T) {
	r := New(slogt.New(t))
	start := time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return start }
	r.newID = func() string { return "fixed" }

	res, err := r.Run(context.Background(), Params{
		Nodes: 2, Rounds: 1, Probability: 0.5, Seed: 3,
		Source: &leach.SliceSource{Draws: []float64{0.2, 0.4}},
	})
	require.NoError(t, err)
	require.Equal(t, "fixed", res.Summary.RunID)
	require.Equal(t, start, res.Summary.CreatedAt)
	require.Equal(t, []string{"N1", "N2"}, res.Summary.History[0].Clusterheads)
	require.Equal(t, 0.2, res.History.Node(0, 0).Draw)
}

func TestRun_InvalidConfiguration(t *testing.T) {
	_, err := New(nil).Run(context.Background(), Params{Nodes: 3, Rounds: 3, Probability: 1})
	require.ErrorIs(t, err, leach.ErrInvalidConfiguration)
}
