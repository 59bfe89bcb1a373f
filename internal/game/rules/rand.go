// Package rules holds the pure numeric model of the simulation: combat,
// drafting, population redistribution, attrition and supply. Nothing here
// touches the grid or entities; callers pass values in and apply results.
package rules

// Rand is a uniform source of draws in [0, 1). *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}
