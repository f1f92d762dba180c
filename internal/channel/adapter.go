package channel

import "context"

// Processor consumes inbound events and produces the replies to deliver.
// Implementations own all routing and state; adapters only translate wire
// updates into events and replies into channel messages.
type Processor interface {
	HandleText(ctx context.Context, ev TextEvent) ([]Outbound, error)
	HandleDecision(ctx context.Context, ev DecisionEvent) ([]Outbound, error)
}

// Adapter binds a concrete messaging channel to a Processor. Start blocks
// until ctx is cancelled or the channel fails.
type Adapter interface {
	Start(ctx context.Context, processor Processor) error
	Send(ctx context.Context, out Outbound) error
}
