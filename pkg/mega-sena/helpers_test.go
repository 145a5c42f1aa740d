package megasena

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func init() {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	SetLogger(logrus.NewEntry(quiet))
}

// draw builds a draw dated id days after day0
func draw(id int, numbers ...int) Draw {
	return Draw{ID: id, Date: day0.AddDate(0, 0, id), Numbers: numbers}
}

func history(t *testing.T, draws ...Draw) History {
	t.Helper()
	h, err := NewHistory(draws)
	require.NoError(t, err)
	return h
}

func snapshot(t *testing.T, draws ...Draw) *Snapshot {
	t.Helper()
	return BuildSnapshot(history(t, draws...))
}

// threeDraws is the A, B, A history used across statistics tests
func threeDraws(t *testing.T) *Snapshot {
	return snapshot(t,
		draw(1, 1, 2, 3, 4, 5, 6),
		draw(2, 5, 6, 7, 8, 9, 10),
		draw(3, 1, 2, 3, 4, 5, 6),
	)
}

// randomHistory returns n uniformly drawn draws from a fixed seed
func randomHistory(t *testing.T, n int, seed uint64) History {
	t.Helper()
	rng := NewRand(seed)
	all := make([]int, MaxNumber)
	for i := range all {
		all[i] = i + 1
	}
	draws := make([]Draw, n)
	for i := range draws {
		draws[i] = draw(i+1, sampleWithoutReplacement(rng, all, TicketSize)...)
	}
	return history(t, draws...)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
