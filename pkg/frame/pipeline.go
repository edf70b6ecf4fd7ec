package frame

import (
	"context"
	"fmt"
)

// Transform is a cleaning or reshaping step applied to a Frame.
// Apply returns a new Frame and leaves its input untouched.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline(steps ...Transform) *Pipeline { return &Pipeline{steps: steps} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, t := range p.steps {
		names[i] = t.Name()
	}
	return names
}

// Run applies the steps in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	if f == nil {
		return nil, fmt.Errorf("pipeline: nil frame")
	}
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return cur, nil
}
