package tasklist

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator hands out task identifiers. exists reports whether a candidate
// is already taken in the current collection.
type IDGenerator interface {
	NextID(exists func(string) bool) string
}

// observer is implemented by generators that must skip ids already handed
// out by someone else, such as seed data.
type observer interface {
	Observe(id string)
}

// Sequence is a monotonic decimal counter. Ids are never reused, even after
// the task holding them is deleted.
type Sequence struct {
	last uint64
}

// NewSequence returns a Sequence whose first id is after+1.
func NewSequence(after uint64) *Sequence {
	return &Sequence{last: after}
}

func (s *Sequence) NextID(exists func(string) bool) string {
	for {
		s.last++
		candidate := strconv.FormatUint(s.last, 10)
		if exists == nil || !exists(candidate) {
			return candidate
		}
	}
}

// Observe moves the counter past id when id is numeric.
func (s *Sequence) Observe(id string) {
	value, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return
	}
	if value > s.last {
		s.last = value
	}
}

// UUIDGenerator produces random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NextID(exists func(string) bool) string {
	for {
		candidate := uuid.NewString()
		if exists == nil || !exists(candidate) {
			return candidate
		}
	}
}

// NewIDGenerator maps a configured scheme name to a generator.
func NewIDGenerator(scheme string) (IDGenerator, bool) {
	switch scheme {
	case "", "sequence":
		return NewSequence(0), true
	case "uuid":
		return UUIDGenerator{}, true
	default:
		return nil, false
	}
}
