package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Manager holds named filter presets and applies ad-hoc expressions
type Manager struct {
	compiler  *Compiler
	evaluator *Evaluator
	presets   map[string]*Filter
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler *Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator *Evaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewCompiler(WithCache(100)),
		evaluator: NewEvaluator(),
		presets:   make(map[string]*Filter),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Compile compiles an ad-hoc expression
func (m *Manager) Compile(expression string) (*Filter, error) {
	return m.compiler.Compile(expression)
}

// RegisterPresets compiles every preset and registers them only if all succeed
func (m *Manager) RegisterPresets(presets map[string]string) error {
	compiled := make(map[string]*Filter, len(presets))
	for name, expression := range presets {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile preset '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.presets, compiled)
	m.mu.Unlock()
	return nil
}

// Preset returns a registered preset by name
func (m *Manager) Preset(name string) (*Filter, error) {
	m.mu.RLock()
	filter, ok := m.presets[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return filter, nil
}

// Presets returns the registered preset names, sorted
func (m *Manager) Presets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.presets))
}

// Select resolves a preset name and an expression into the filters to apply.
// Either may be empty; when both are set an item has to match both.
func (m *Manager) Select(preset, expression string) ([]*Filter, error) {
	var filters []*Filter
	if preset != "" {
		filter, err := m.Preset(preset)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	if expression != "" {
		filter, err := m.Compile(expression)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	return filters, nil
}

// Apply narrows items by every filter in turn
func (m *Manager) Apply(ctx context.Context, filters []*Filter, items []Item) ([]Item, error) {
	var err error
	for _, filter := range filters {
		items, err = m.evaluator.Evaluate(ctx, filter, items)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}
