package service

import (
	"fmt"
	"math/rand"
	"testing"

	participantEntity "secret-santa-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededEngine(seed int64) *Engine {
	return NewEngine(rand.New(rand.NewSource(seed)))
}

func TestGenerate_NoFixedPoints(t *testing.T) {
	for n := 2; n <= 10; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("p%d", i)
			}

			engine := seededEngine(int64(n))
			result, err := engine.Generate(names)
			require.NoError(t, err)
			require.Len(t, result, n)

			seen := make(map[string]bool, n)
			for i := range names {
				assert.NotEqual(t, names[i], result[i], "position %d maps to itself", i)
				seen[result[i]] = true
			}
			assert.Len(t, seen, n, "result should be a permutation")
		})
	}
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	names := []string{"ana", "bruno", "carla", "diego", "elena"}

	first, err := seededEngine(42).Generate(names)
	require.NoError(t, err)
	second, err := seededEngine(42).Generate(names)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_Empty(t *testing.T) {
	result, err := seededEngine(1).Generate(nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestGenerate_SingleParticipant(t *testing.T) {
	_, err := seededEngine(1).Generate([]string{"solo"})
	assert.ErrorIs(t, err, ErrSingleParticipant)
}

func TestGenerate_TwoParticipantsSwap(t *testing.T) {
	result, err := seededEngine(7).Generate([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, result)
}

func TestGenerate_ManySeedsAlwaysValid(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	for seed := int64(0); seed < 200; seed++ {
		result, err := seededEngine(seed).Generate(names)
		require.NoError(t, err)
		for i := range names {
			require.NotEqual(t, names[i], result[i], "seed %d produced a fixed point", seed)
		}
	}
}

func roster(ids ...uuid.UUID) []participantEntity.Participant {
	ps := make([]participantEntity.Participant, 0, len(ids))
	for i, id := range ids {
		ps = append(ps, participantEntity.Participant{ID: id, Name: fmt.Sprintf("p%d", i)})
	}
	return ps
}

func TestPickReceiver_ExcludesGiverAndTaken(t *testing.T) {
	giver := uuid.New()
	taken := uuid.New()
	free := uuid.New()

	engine := seededEngine(3)
	for i := 0; i < 50; i++ {
		picked, err := engine.PickReceiver(giver, roster(giver, taken, free), map[uuid.UUID]bool{taken: true})
		require.NoError(t, err)
		assert.Equal(t, free, picked.ID)
	}
}

func TestPickReceiver_EmptyPool(t *testing.T) {
	giver := uuid.New()
	other := uuid.New()

	engine := seededEngine(3)
	_, err := engine.PickReceiver(giver, roster(giver, other), map[uuid.UUID]bool{other: true})
	assert.ErrorIs(t, err, ErrNoReceiver)
}

func TestPickReceiver_NeverPicksGiver(t *testing.T) {
	giver := uuid.New()
	others := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	engine := seededEngine(9)
	all := roster(append([]uuid.UUID{giver}, others...)...)
	for i := 0; i < 100; i++ {
		picked, err := engine.PickReceiver(giver, all, nil)
		require.NoError(t, err)
		assert.NotEqual(t, giver, picked.ID)
	}
}
