// Package resolver decides which components to install and which to remove.
//
// A resolution takes the components offered by the catalog, the components
// already on the system and the ones the user asked to remove. It answers
// with an install list ordered dependencies first, an uninstall list ordered
// dependents first, the upgrades implied by the two, and the bonus flags the
// caller should persist.
//
// When a component name has several candidate versions the resolver searches
// the combinations newest first and backtracks on failure. Every branch
// works on its own copy of the graphs, so a rejected branch leaves nothing
// behind.
package resolver
