// Package pkg provides the core libraries for causaltower, a toolkit for
// causal identification in acyclic directed mixed graphs (ADMGs).
//
// # Overview
//
// An ADMG has directed edges for direct causes and bidirected edges for
// hidden common causes. Causaltower asks whether an interventional
// distribution p(Y | do(X)) can be computed from the observed distribution
// and, if so, prints the formula. The pkg directory is organized into
// three areas:
//
//  1. Graph model - [admg], [nodeset], [separation], [grapl], [io]
//  2. Algebra and identification - [expr], [condind], [fixseq], [identify], [pretty]
//  3. Orchestration - [pipeline], [cache], [render], [errors], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	GRAPL or JSON source
//	         ↓
//	    [grapl] / [io] (parse)
//	         ↓
//	    [admg] (graph structure, districts, fixability)
//	         ↓
//	    [identify] (fixing-sequence search via [fixseq], factorizations)
//	         ↓
//	    [pretty] (text or LaTeX formula)
//
// # Quick Start
//
// Identify the front-door effect:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/causaltower/pkg/grapl"
//	    "github.com/matzehuels/causaltower/pkg/identify"
//	    "github.com/matzehuels/causaltower/pkg/nodeset"
//	    "github.com/matzehuels/causaltower/pkg/pretty"
//	)
//
//	g, _ := grapl.ParseString("fd", `X; M; Y; X -> M; M -> Y; X <-> Y;`)
//	res, _ := identify.Identify(context.Background(), g,
//	    nodeset.New("X"), nodeset.New("Y"), identify.DefaultOptions())
//	if res.Identifiable {
//	    fmt.Println(pretty.Text.EqnCond(res.Best().Eqn))
//	    // p_{X}(Y) = Σ_{M,X'}[p(Y|M,X')p(M|X)p(X')]
//	}
//
// # Main Packages
//
// ## Graph Model
//
// [admg] - The mixed graph: nodes with parent, child and bidirected sets,
// ancestral and district queries, fixability, subgraphs and validation.
//
// [nodeset] - Sorted-output string sets used for variable sets throughout.
//
// [separation] - Bayes-ball reachability for d-separation in DAGs and
// m-separation in ADMGs.
//
// [grapl] - The GRAPL edge-list language: lexer and parser built with
// participle, canonical writer and token dump.
//
// [io] - JSON interchange with titles and node properties.
//
// ## Algebra and Identification
//
// [expr] - Probability expressions: products of conditionals and kernels,
// marginalization, primed copies and simplification.
//
// [condind] - Conditional independence statements and de-duplicated sets.
//
// [fixseq] - Exhaustive and random searches over fixing sequences of a
// district, recording the kernel expression after each fix.
//
// [identify] - Identification by fixing, with candidate selection modes,
// DAG, truncated and district factorizations, local Markov independences
// and separation tests.
//
// [pretty] - Text and LaTeX printers for every algebraic type.
//
// ## Orchestration
//
// [pipeline] - Query options, validation and cached execution shared by the
// CLI and the HTTP API.
//
// [cache] - Answer caches: file, redis and null backends, deterministic keys.
//
// [render/nodelink] - Node-link diagrams with Graphviz; bidirected edges
// are dashed and double-headed.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// [errors] - Coded errors with HTTP status mapping.
//
// [observability] - Hooks for query, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/identify/...           # Specific package
//
// [admg]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/admg
// [nodeset]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/nodeset
// [separation]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/separation
// [grapl]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/grapl
// [io]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/io
// [expr]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/expr
// [condind]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/condind
// [fixseq]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/fixseq
// [identify]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/identify
// [pretty]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/pretty
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/causaltower/pkg/observability
package pkg
