package service

import (
	"context"

	"github.com/noah-isme/thesis-workflow-api/pkg/events"
)

type publisherStub struct {
	published []events.Event
	err       error
}

func (p *publisherStub) Publish(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func (p *publisherStub) Close() error { return nil }

func (p *publisherStub) types() []string {
	out := make([]string, 0, len(p.published))
	for _, evt := range p.published {
		out = append(out, evt.Type)
	}
	return out
}

type invalidatorStub struct {
	patterns []string
	err      error
}

func (i *invalidatorStub) Invalidate(ctx context.Context, pattern string) error {
	i.patterns = append(i.patterns, pattern)
	return i.err
}

func newTestHooks() (*WorkflowHooks, *publisherStub, *invalidatorStub) {
	publisher := &publisherStub{}
	cache := &invalidatorStub{}
	return NewWorkflowHooks(cache, publisher, NewMetricsService(), nil), publisher, cache
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
