package fakes

import (
	"context"
	"errors"
	"sync"

	platformEvents "github.com/dhima/event-trigger-service/platform/events"
)

// FakePublisher captures published outcomes and can simulate failures.
type FakePublisher struct {
	mu        sync.Mutex
	Outcomes  []platformEvents.TriggerOutcome
	FailNext  bool
	FailError error
}

func (p *FakePublisher) Publish(_ context.Context, o platformEvents.TriggerOutcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNext {
		p.FailNext = false
		if p.FailError == nil {
			p.FailError = errors.New("publish failed")
		}
		return p.FailError
	}
	p.Outcomes = append(p.Outcomes, o)
	return nil
}

// Count returns the number of captured outcomes.
func (p *FakePublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Outcomes)
}
