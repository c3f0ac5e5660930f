package ports

import "context"

// ScenarioStore persists raw scenario documents by name. Documents are the
// serialized form (YAML) the scenario parser consumes; stores never decode
// them. Load returns domain.ErrScenarioNotFound for unknown names.
type ScenarioStore interface {
	Save(ctx context.Context, name string, doc []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}
