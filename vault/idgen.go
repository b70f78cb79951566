package vault

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for records added without one. Uniqueness
// within a session is part of the contract; uniqueness across sessions is
// best effort and depends on the strategy.
type IDGenerator interface {
	NextID() any
}

// timestampIDGenerator is the default strategy: the current unix time in
// milliseconds, bumped by one whenever two calls land in the same
// millisecond so identifiers never collide within a session.
type timestampIDGenerator struct {
	mu   sync.Mutex
	last int64
}

func newTimestampIDGenerator() *timestampIDGenerator {
	return &timestampIDGenerator{}
}

// NewTimestampIDGenerator returns the default timestamp-based strategy.
func NewTimestampIDGenerator() IDGenerator {
	return newTimestampIDGenerator()
}

func (g *timestampIDGenerator) NextID() any {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return ms
}

// UUIDGenerator produces UUIDv7 identifiers, falling back to a random UUID
// when the clock-based constructor fails. Use it when identifiers must be
// unique across sessions as well.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NextID() any {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
