package dsl

import (
	"github.com/aretw0/sluice/pkg/domain"
)

// Builder accumulates node configurations in declaration order.
type Builder struct {
	order  []domain.NodeConfig
	byID   map[string]domain.NodeConfig
	groups map[string][]string
	tags   map[string][]string
}

// New creates a new scenario builder.
func New() *Builder {
	return &Builder{
		byID:   make(map[string]domain.NodeConfig),
		groups: make(map[string][]string),
		tags:   make(map[string][]string),
	}
}

// Source declares a source node. Declaring the same ID again returns a
// builder over the existing configuration.
func (b *Builder) Source(id string) *SourceBuilder {
	if cfg, ok := b.byID[id].(*domain.SourceConfig); ok {
		return &SourceBuilder{cfg: cfg}
	}
	cfg := &domain.SourceConfig{ID: id, Interval: 1}
	b.add(cfg)
	return &SourceBuilder{cfg: cfg}
}

// Queue declares a queue node.
func (b *Builder) Queue(id string) *QueueBuilder {
	if cfg, ok := b.byID[id].(*domain.QueueConfig); ok {
		return &QueueBuilder{cfg: cfg}
	}
	cfg := &domain.QueueConfig{
		ID:       id,
		Capacity: domain.DefaultQueueCapacity,
		Window:   1,
		Method:   domain.AggregateSum,
	}
	b.add(cfg)
	return &QueueBuilder{cfg: cfg}
}

// Process declares a process node.
func (b *Builder) Process(id string) *ProcessBuilder {
	if cfg, ok := b.byID[id].(*domain.ProcessConfig); ok {
		return &ProcessBuilder{cfg: cfg}
	}
	cfg := &domain.ProcessConfig{ID: id}
	b.add(cfg)
	return &ProcessBuilder{cfg: cfg}
}

// Machine declares a state machine node.
func (b *Builder) Machine(id string) *MachineBuilder {
	if cfg, ok := b.byID[id].(*domain.StateMachineConfig); ok {
		return &MachineBuilder{cfg: cfg}
	}
	cfg := &domain.StateMachineConfig{ID: id}
	b.add(cfg)
	return &MachineBuilder{cfg: cfg}
}

// Sink declares a sink node.
func (b *Builder) Sink(id string) *SinkBuilder {
	if cfg, ok := b.byID[id].(*domain.SinkConfig); ok {
		return &SinkBuilder{cfg: cfg}
	}
	cfg := &domain.SinkConfig{ID: id}
	b.add(cfg)
	return &SinkBuilder{cfg: cfg}
}

// Group assigns node IDs to a named group.
func (b *Builder) Group(name string, ids ...string) *Builder {
	b.groups[name] = append(b.groups[name], ids...)
	return b
}

// Tag attaches tags to a node ID.
func (b *Builder) Tag(id string, tags ...string) *Builder {
	b.tags[id] = append(b.tags[id], tags...)
	return b
}

// Build assembles the definition with nodes in declaration order.
// Structural validation happens when the definition is loaded into an
// engine, not here.
func (b *Builder) Build() *domain.Definition {
	def := &domain.Definition{
		Nodes: append([]domain.NodeConfig(nil), b.order...),
	}
	if len(b.groups) > 0 {
		def.Groups = b.groups
	}
	if len(b.tags) > 0 {
		def.Tags = b.tags
	}
	return def
}

func (b *Builder) add(cfg domain.NodeConfig) {
	b.order = append(b.order, cfg)
	b.byID[cfg.NodeID()] = cfg
}
