/*
Package ports defines the driven ports (interfaces) for the sluice engine.

These interfaces decouple the simulation core from external implementations,
allowing the engine to work with different expression evaluators and scenario
storage backends.

# Key Interfaces

  - Evaluator: pure expression evaluation for formulas and conditions.
  - ScenarioStore: persisting and loading raw scenario documents by name.
*/
package ports
