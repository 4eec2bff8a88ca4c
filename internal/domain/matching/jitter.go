package matching

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// JitterSource yields an offset in [0, span) added to the uploaded-resume
// sub-score bases.
type JitterSource interface {
	Offset(span int) int
}

// FixedJitter always returns the same offset, clamped into range.
type FixedJitter int

func (f FixedJitter) Offset(span int) int {
	if span <= 0 {
		return 0
	}
	v := int(f)
	if v < 0 {
		return 0
	}
	if v >= span {
		return span - 1
	}
	return v
}

type randJitter struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededJitter returns a reproducible pseudo-random source.
func NewSeededJitter(seed int64) JitterSource {
	return &randJitter{r: rand.New(rand.NewSource(seed))}
}

func (j *randJitter) Offset(span int) int {
	if span <= 0 {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.r.Intn(span)
}

// JitterByName builds a source from config. "random" seeds from the clock,
// "seeded" uses seed, anything else is FixedJitter(offset).
func JitterByName(name string, seed int64, offset int) JitterSource {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return NewSeededJitter(time.Now().UnixNano())
	case "seeded":
		return NewSeededJitter(seed)
	default:
		return FixedJitter(offset)
	}
}
