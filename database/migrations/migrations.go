// Package migrations registers the schema migrations. Each file calls
// migration.Register from init; cmd/pcbuilder imports this package for the
// side effect.
package migrations
