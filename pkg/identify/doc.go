// Package identify implements causal effect identification and the related
// factorizations on ADMGs.
//
// # Identification
//
// [Identify] decides whether the interventional distribution p(Y | do(X)) can
// be computed from the observed joint distribution, following the fixing
// formulation of the ID algorithm (Richardson et al., "Nested Markov
// properties for acyclic directed mixed graphs"):
//
//  1. Y* is the set of ancestors of Y once X is removed from the graph.
//  2. For each district D of G[Y*], every node outside D must be fixed in
//     some legal order. Package fixseq searches the orders.
//  3. Each order is replayed on the joint p(V) with package expr, giving one
//     formula per district.
//  4. One formula per district is combined, Y* ∖ Y is summed out, and the
//     result is simplified.
//
// A query with no legal order for some district is not identifiable. That
// is a normal result (Result.Identifiable is false), not an error.
//
// Several legal orders usually exist and give formulas of different size.
// [Mode] picks among them, either per district ([Options].Greedy) or over the
// full Cartesian product of district formulas.
//
// # Factorizations
//
// [DAGFactor] (chain rule), [TruncFactor] (g-formula) and [LocalMarkov] need
// a DAG and report ok=false otherwise. [ADMGFactor] (Tian's factorization)
// works on any ADMG.
//
// # Concurrency
//
// Identify runs one search per district in parallel, bounded by
// Options.Parallelism. The input graph is only read; every search fixes its
// own clones.
package identify
