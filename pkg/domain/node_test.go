package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/pkg/domain"
)

func fixed(v float64) *float64 { return &v }

func TestAggregationMethod_Apply(t *testing.T) {
	values := []float64{2, 4, 6}

	cases := []struct {
		method domain.AggregationMethod
		want   float64
	}{
		{domain.AggregateSum, 12},
		{domain.AggregateAverage, 4},
		{domain.AggregateCount, 3},
		{domain.AggregateFirst, 2},
		{domain.AggregateLast, 6},
	}
	for _, tc := range cases {
		t.Run(string(tc.method), func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.method.Apply(values), 1e-9)
		})
	}

	assert.Zero(t, domain.AggregateSum.Apply(nil))
	assert.Zero(t, domain.AggregationMethod("median").Apply(values))
}

func TestAggregationMethod_Valid(t *testing.T) {
	assert.True(t, domain.AggregateSum.Valid())
	assert.True(t, domain.AggregateLast.Valid())
	assert.False(t, domain.AggregationMethod("median").Valid())
	assert.False(t, domain.AggregationMethod("").Valid())
}

func TestProcessOutput_Port(t *testing.T) {
	out := domain.ProcessOutput{Name: "o", Target: "p", Input: "x", Formula: "x + 1"}
	assert.Equal(t, domain.Port{Name: "o", Target: "p", Input: "x"}, out.Port())
}

func TestSourceConfig_CloneIsDeep(t *testing.T) {
	cfg := &domain.SourceConfig{
		ID: "s", Interval: 1, Value: fixed(5),
		Ports: []domain.Port{{Name: "out", Target: "q"}},
	}

	clone := cfg.Clone().(*domain.SourceConfig)
	*clone.Value = 99
	clone.Ports[0].Target = "elsewhere"

	assert.Equal(t, 5.0, *cfg.Value)
	assert.Equal(t, "q", cfg.Ports[0].Target)
}

func TestStateMachineConfig_CloneIsDeep(t *testing.T) {
	cfg := &domain.StateMachineConfig{
		ID:        "m",
		Initial:   "idle",
		Variables: map[string]float64{"x": 1},
		States: []domain.StateDef{
			{Name: "idle", OnEntry: []domain.ActionDef{{Type: domain.ActionLog, Message: "hi"}}},
		},
		Transitions: []domain.TransitionDef{
			{From: "idle", To: "idle", Trigger: domain.TriggerTokenReceived},
		},
	}

	clone := cfg.Clone().(*domain.StateMachineConfig)
	clone.Variables["x"] = 99
	clone.States[0].OnEntry[0].Message = "changed"
	clone.Transitions[0].To = "other"

	assert.Equal(t, 1.0, cfg.Variables["x"])
	assert.Equal(t, "hi", cfg.States[0].OnEntry[0].Message)
	assert.Equal(t, "idle", cfg.Transitions[0].To)
}

func TestStateMachineConfig_State(t *testing.T) {
	cfg := &domain.StateMachineConfig{
		States: []domain.StateDef{{Name: "a"}, {Name: "b"}},
	}

	s, ok := cfg.State("b")
	require.True(t, ok)
	assert.Equal(t, "b", s.Name)

	_, ok = cfg.State("ghost")
	assert.False(t, ok)
}

func TestDefinition_CloneIsDeep(t *testing.T) {
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.SinkConfig{ID: "end"},
		},
		Groups: map[string][]string{"g": {"end"}},
		Tags:   map[string][]string{"end": {"terminal"}},
	}

	clone := def.Clone()
	clone.Nodes[0].(*domain.SinkConfig).RetainLimit = 9
	clone.Groups["g"][0] = "changed"
	clone.Tags["end"][0] = "changed"

	assert.Zero(t, def.Nodes[0].(*domain.SinkConfig).RetainLimit)
	assert.Equal(t, "end", def.Groups["g"][0])
	assert.Equal(t, "terminal", def.Tags["end"][0])

	var nilDef *domain.Definition
	assert.Nil(t, nilDef.Clone())
}

func TestDefinition_Node(t *testing.T) {
	def := &domain.Definition{
		Nodes: []domain.NodeConfig{
			&domain.SinkConfig{ID: "end"},
		},
	}
	_, ok := def.Node("end")
	assert.True(t, ok)
	_, ok = def.Node("ghost")
	assert.False(t, ok)
}
