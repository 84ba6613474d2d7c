// Package depgraph builds the dependency and conflict graph between
// component versions.
//
// A Graph keeps a version pool per component name. Nodes wrap one
// component each and carry dependency, parent and conflict edges to other
// nodes of the same graph. Graphs are cheap to build and are thrown away
// after each resolution or search branch; Copy gives an edge-free duplicate
// that can be modified without touching the original.
package depgraph
