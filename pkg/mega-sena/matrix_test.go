package megasena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionMatrix(t *testing.T) {
	m := newTransitionMatrix([]Draw{
		draw(1, 1, 2, 3, 4, 5, 6),
		draw(2, 1, 7, 8, 9, 10, 11),
		draw(3, 1, 7, 20, 30, 40, 50),
	})

	assert.Equal(t, 72, m.Total())
	assert.Equal(t, 2, m.Count(1, 1))
	assert.Equal(t, 1, m.Count(6, 11))
	assert.Equal(t, 1, m.Count(7, 7))
	assert.Zero(t, m.Count(11, 1), "no draw follows the last one")
	assert.Zero(t, m.Count(0, 1))
	assert.Zero(t, m.Count(1, 61))

	followers := m.Followers(1)
	require.Len(t, followers, 10)
	assert.Equal(t, []int{1, 7}, followers[:2], "1 and 7 followed 1 twice, ascending on ties")
	assert.Nil(t, m.Followers(61))
	assert.Empty(t, m.Followers(50))
}

func TestTransitionMatrixScores(t *testing.T) {
	m := newTransitionMatrix([]Draw{
		draw(1, 1, 2, 3, 4, 5, 6),
		draw(2, 1, 7, 8, 9, 10, 11),
		draw(3, 1, 7, 20, 30, 40, 50),
	})
	scores := m.scores([]int{1, 0, 99})

	assert.Equal(t, 1.0, scores[1])
	assert.Equal(t, 1.0, scores[7])
	assert.Equal(t, 0.5, scores[8])
	assert.Equal(t, 0.5, scores[50])
	assert.Zero(t, scores[2])
	assert.Equal(t, [MaxNumber + 1]float64{}, m.scores(nil))
}

func TestSnapshotFromDraws(t *testing.T) {
	s, err := SnapshotFromDraws([]Draw{draw(2, 6, 5, 4, 3, 2, 1), draw(1, 7, 8, 9, 10, 11, 12)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	latest, ok := s.History().Latest()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, latest.Numbers)

	_, err = SnapshotFromDraws([]Draw{draw(1, 1, 2, 3)})
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
