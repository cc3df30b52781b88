package pac

import (
	"context"
	"math/rand/v2"
)

// AcceptanceOracle answers whether the receptor accepts the cancellation of
// a pending request.
type AcceptanceOracle interface {
	Decide(ctx context.Context, r *Request) (bool, error)
}

// RandomOracle simulates the receptor: it approves with the given
// probability.
type RandomOracle struct {
	rate  float64
	float func() float64
}

func NewRandomOracle(rate float64) *RandomOracle {
	return &RandomOracle{rate: rate, float: rand.Float64}
}

func (o *RandomOracle) Decide(_ context.Context, _ *Request) (bool, error) {
	return o.float() < o.rate, nil
}
