package ids

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	OrderPrefix   = "ORD-"
	RequestPrefix = "DXB-"
)

// Sequence hands out int64 product ids derived from the wall clock in
// milliseconds, bumped by one whenever two calls land in the same millisecond.
type Sequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewSequence() *Sequence {
	return &Sequence{now: time.Now}
}

// Seed makes the next id strictly greater than floor, e.g. the largest id
// already stored.
func (s *Sequence) Seed(floor int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if floor > s.last {
		s.last = floor
	}
}

func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.now().UnixMilli()
	if next <= s.last {
		next = s.last + 1
	}
	s.last = next
	return next
}

func NewOrderID() string {
	return OrderPrefix + timeOrdered()
}

func NewRequestID() string {
	return RequestPrefix + timeOrdered()
}

// timeOrdered returns an uppercase UUIDv7 so ids sort by creation time.
func timeOrdered() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ToUpper(id.String())
}
