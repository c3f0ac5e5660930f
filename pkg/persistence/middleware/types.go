package middleware

import "github.com/aretw0/sluice/pkg/ports"

// Middleware allows wrapping a ScenarioStore to add behavior.
type Middleware func(ports.ScenarioStore) ports.ScenarioStore

// Chain applies middlewares so the first listed is the outermost wrapper.
func Chain(store ports.ScenarioStore, mws ...Middleware) ports.ScenarioStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
