// Package scenario decodes raw scenario documents into graph definitions.
// A document is a YAML mapping with a nodes list, each entry discriminated
// by a kind field, plus optional grouping and tag metadata. Decoding is
// fail-closed: all problems are collected and nothing partial is returned.
package scenario

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/sluice/pkg/domain"
)

type document struct {
	Name   string              `yaml:"name"`
	Groups map[string][]string `yaml:"groups"`
	Tags   map[string][]string `yaml:"tags"`
	Nodes  []map[string]any    `yaml:"nodes"`
}

// Parse decodes a scenario document into a definition. Validation beyond
// decoding (port wiring, state machine coherence) happens on engine load.
func Parse(doc []byte) (*domain.Definition, error) {
	var raw document
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	var problems []string
	def := &domain.Definition{
		Groups: raw.Groups,
		Tags:   raw.Tags,
	}
	for i, node := range raw.Nodes {
		cfg, err := decodeNode(node)
		if err != nil {
			problems = append(problems, fmt.Sprintf("node %d: %v", i, err))
			continue
		}
		def.Nodes = append(def.Nodes, cfg)
	}
	if len(problems) > 0 {
		return nil, &domain.ValidationError{Problems: problems}
	}
	if len(def.Nodes) == 0 {
		return nil, &domain.ValidationError{Problems: []string{"scenario has no nodes"}}
	}
	return def, nil
}

func decodeNode(raw map[string]any) (domain.NodeConfig, error) {
	kind, ok := raw["kind"].(string)
	if !ok || kind == "" {
		return nil, fmt.Errorf("missing kind")
	}

	var target domain.NodeConfig
	switch domain.NodeKind(kind) {
	case domain.KindSource:
		target = &domain.SourceConfig{}
	case domain.KindQueue:
		target = &domain.QueueConfig{}
	case domain.KindProcess:
		target = &domain.ProcessConfig{}
	case domain.KindStateMachine:
		target = &domain.StateMachineConfig{}
	case domain.KindEnhancedStateMachine:
		target = &domain.EnhancedStateMachineConfig{}
	case domain.KindSink:
		target = &domain.SinkConfig{}
	case domain.KindModule:
		target = &domain.ModuleConfig{}
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "yaml",
		Result:  target,
	})
	if err != nil {
		return nil, fmt.Errorf("decoder for kind %s: %w", kind, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode %s node: %w", kind, err)
	}
	if q, ok := target.(*domain.QueueConfig); ok && q.Capacity == 0 {
		q.Capacity = domain.DefaultQueueCapacity
	}
	return target, nil
}
