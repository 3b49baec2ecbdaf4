// SPDX-License-Identifier: MPL-2.0

// Package modgraph builds the local module graph from resolution results and
// computes the build order over it.
//
// Vertices are the modules built in the workspace; an edge A -> B means A
// depends on B and resolved it to the workspace module B. External artifacts,
// unresolved dependencies and the host engine never become edges. In the
// returned BuildOrder every dependency precedes its dependents.
package modgraph
