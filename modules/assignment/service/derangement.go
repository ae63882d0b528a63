package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"
	"sync"
	"time"

	"secret-santa-api/core/constants"
	participantEntity "secret-santa-api/modules/participant/entity"

	"github.com/google/uuid"
)

var (
	// ErrSingleParticipant: a single name can never draw anyone.
	ErrSingleParticipant = errors.New("cannot build a derangement for a single participant")

	// ErrNoReceiver: every eligible receiver is already taken.
	ErrNoReceiver = errors.New("no receiver available")
)

// Engine holds the random source behind assignment picks. The source is
// injectable so tests can run seeded and deterministic; production uses a
// crypto-seeded source.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine with the given source, or a crypto-seeded
// one when rng is nil.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(newSeed()))
	}
	return &Engine{rng: rng}
}

// newSeed draws a seed from crypto/rand, falling back to the clock if the
// system source is unavailable.
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Generate produces a complete derangement of names: position i receives
// from names[i], and no name maps to itself. It tries random shuffles
// first and falls back to a rotation, which is a valid derangement for
// any n >= 2. An empty input yields an empty result; a single name is an
// error because no valid mapping exists.
func (e *Engine) Generate(names []string) ([]string, error) {
	n := len(names)
	if n == 0 {
		return []string{}, nil
	}
	if n == 1 {
		return nil, ErrSingleParticipant
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]string, n)
	copy(result, names)

	for attempt := 0; attempt < constants.DerangementMaxAttempts; attempt++ {
		for i := n - 1; i > 0; i-- {
			j := e.rng.Intn(i + 1)
			result[i], result[j] = result[j], result[i]
		}

		ok := true
		for i := 0; i < n; i++ {
			if result[i] == names[i] {
				ok = false
				break
			}
		}
		if ok {
			return result, nil
		}
	}

	// Rotation by one is always a derangement for n >= 2.
	for i := 0; i < n; i++ {
		result[i] = names[(i+1)%n]
	}
	return result, nil
}

// PickReceiver selects a uniform random receiver for the giver from the
// roster, excluding the giver themselves and anyone already taken as a
// receiver. Returns ErrNoReceiver when the pool is empty; with lazy
// assignment this can happen even though a full derangement would have
// existed, which callers surface as a terminal outcome.
func (e *Engine) PickReceiver(giverID uuid.UUID, roster []participantEntity.Participant, takenReceivers map[uuid.UUID]bool) (*participantEntity.Participant, error) {
	pool := make([]participantEntity.Participant, 0, len(roster))
	for _, p := range roster {
		if p.ID == giverID || takenReceivers[p.ID] {
			continue
		}
		pool = append(pool, p)
	}

	if len(pool) == 0 {
		return nil, ErrNoReceiver
	}

	e.mu.Lock()
	idx := e.rng.Intn(len(pool))
	e.mu.Unlock()

	picked := pool[idx]
	return &picked, nil
}
