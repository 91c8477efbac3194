package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Randomizer chooses the kind of each newly spawned piece.
type Randomizer interface {
	Next() Kind
}

const (
	RandomizerUniform = "uniform"
	RandomizerBag     = "bag"
)

// NewRandomizer builds a randomizer by name. A zero seed is replaced by the
// current time.
func NewRandomizer(name string, seed int64) (Randomizer, error) {
	switch name {
	case "", RandomizerUniform:
		return NewUniformRandomizer(seed), nil
	case RandomizerBag:
		return NewBagRandomizer(seed), nil
	}
	return nil, fmt.Errorf("unknown randomizer %q", name)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// UniformRandomizer picks each kind independently with equal probability.
type UniformRandomizer struct {
	rng *rand.Rand
}

func NewUniformRandomizer(seed int64) *UniformRandomizer {
	return &UniformRandomizer{rng: newRand(seed)}
}

func (u *UniformRandomizer) Next() Kind {
	return Kind(u.rng.Intn(NumKinds))
}

// BagRandomizer deals kinds from shuffled bags of all seven, so every kind
// appears once per seven spawns. Same seed, same sequence.
type BagRandomizer struct {
	rng *rand.Rand
	bag []Kind
}

func NewBagRandomizer(seed int64) *BagRandomizer {
	return &BagRandomizer{rng: newRand(seed)}
}

func (b *BagRandomizer) Next() Kind {
	if len(b.bag) == 0 {
		b.refill()
	}
	k := b.bag[0]
	b.bag = b.bag[1:]
	return k
}

// Peek returns the next kind without consuming it.
func (b *BagRandomizer) Peek() Kind {
	if len(b.bag) == 0 {
		b.refill()
	}
	return b.bag[0]
}

func (b *BagRandomizer) refill() {
	b.bag = []Kind{KindI, KindL, KindJ, KindO, KindS, KindT, KindZ}
	// Fisher-Yates shuffle
	for i := len(b.bag) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	}
}
