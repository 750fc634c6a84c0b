// Package admg provides the acyclic directed mixed graph (ADMG) used to model
// structural causal models with hidden confounders.
//
// # Overview
//
// An ADMG has two kinds of edge. A directed edge A → B says A is a direct
// cause of B. A bidirected edge A ↔ B says A and B share an unobserved common
// cause. Every node keeps three relation sets (parents, children and
// bidirected partners) and the graph keeps them symmetric: if A is a parent
// of B then B is a child of A.
//
// # Basic Usage
//
// Build a graph by adding nodes and then edges:
//
//	g := admg.New("front-door")
//	_ = g.AddNodes("X", "M", "Y")
//	_ = g.AddEdge("X", "M")
//	_ = g.AddEdge("M", "Y")
//	_ = g.AddBidirected("X", "Y")
//
// Parsers that insert one-sided relations in bulk use [ADMG.AddNode] and
// [ADMG.AddEdges] and finish with [ADMG.Connect], which restores symmetry.
//
// # Queries
//
// Relation queries ([ADMG.Parents], [ADMG.Ancestors], [ADMG.Descendants], ...)
// take a [nodeset.Set] and return the union over its members. Closures are
// computed with a worklist, never recursion, and terminate on cyclic input.
// Any name not in the graph yields an error wrapping [ErrUnknownNode].
//
// Districts (c-components) are the connected components of the bidirected
// part. [ADMG.Districts] always returns a partition of the nodes.
//
// # Fixing
//
// [ADMG.Fix] is the graph surgery behind causal identification: it removes
// every edge into a node and every bidirected edge at it. It mutates the
// graph in place, so search code works on [ADMG.Clone] copies.
// [ADMG.IsFixable] is the legality test: a node may be fixed when none of its
// descendants shares its district.
//
// # Concurrency
//
// ADMG values are not safe for concurrent mutation. Read-only queries on a
// graph nobody mutates may run in parallel, and independent clones can be
// fixed concurrently.
package admg
