package checkout

import (
	"context"
	"time"

	"aeroparts/util"
)

// DefaultPaymentDelay is how long the simulated processor takes to settle.
const DefaultPaymentDelay = 2 * time.Second

// ChargeRequest is what an order asks the processor to collect.
type ChargeRequest struct {
	OrderID string
	Amount  int64
}

// Receipt is a processor's confirmation of a charge.
type Receipt struct {
	Processor string `json:"processor"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Processor collects payment for an order.
type Processor interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (Receipt, error)
}

// SimulatedProcessor stands in for a payment gateway. Every charge succeeds
// after Delay.
type SimulatedProcessor struct {
	Delay time.Duration
}

// NewSimulatedProcessor returns a processor that settles after delay.
func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{Delay: delay}
}

func (p *SimulatedProcessor) Name() string {
	return "simulated"
}

// Charge waits out the delay and succeeds. It gives up early only when ctx
// is cancelled.
func (p *SimulatedProcessor) Charge(ctx context.Context, _ ChargeRequest) (Receipt, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	return Receipt{
		Processor: p.Name(),
		Reference: util.NewPaymentReference(),
		Status:    "succeeded",
	}, nil
}
