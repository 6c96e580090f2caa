package graph

// Target is one named build unit from the workspace manifest.
//
// Srcs hold resolved source file paths in declaration order. Root is the
// directory the srcs were resolved against: the workspace for ordinary
// targets, the external store for fetched packages. Paths of external
// targets resolve outside the workspace tree and are classified as
// third-party by dependents.
type Target struct {
	Name       string
	Srcs       []string
	Imports    []string
	Deps       []string
	Root       string
	LegacyInit bool
}
