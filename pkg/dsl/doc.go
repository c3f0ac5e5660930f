/*
Package dsl provides a fluent builder for constructing scenario definitions
programmatically, as an alternative to YAML documents. This is useful for
dynamic scenario generation, unit tests, and IDE-assisted authoring.

Example usage:

	b := dsl.New()

	b.Source("feed").Every(2).Fixed(5).To("buffer")

	b.Queue("buffer").
		Window(3).
		Method(domain.AggregateAverage).
		ToInput("mix", "x")

	b.Process("mix").
		Inputs("x").
		Result("out", "x * 2", "end")

	b.Sink("end").Retain(10)

	def := b.Build()
	// ... pass def to sluice.New().Load(def)
*/
package dsl
