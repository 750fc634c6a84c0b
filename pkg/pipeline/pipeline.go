// Package pipeline runs causal queries end to end: load a graph, answer a
// query, and format the answer. The CLI and the HTTP API both use it so
// they agree on defaults, validation, caching and output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	g, err := pipeline.LoadGraph("frontdoor.grapl")
//	ans, err := runner.Query(ctx, g, pipeline.Options{
//	    Kind:      pipeline.KindIdentify,
//	    Treatment: []string{"X"},
//	    Outcome:   []string{"Y"},
//	})
//	fmt.Println(ans.Formula)
//
// Answers are plain JSON values. The runner caches them keyed by a hash of
// the graph's GRAPL serialization and the query options.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/causaltower/pkg/errors"
	"github.com/matzehuels/causaltower/pkg/expr"
	"github.com/matzehuels/causaltower/pkg/fixseq"
	"github.com/matzehuels/causaltower/pkg/identify"
	"github.com/matzehuels/causaltower/pkg/pretty"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for the "random" mode.
	DefaultSeed = fixseq.DefaultSeed

	// DefaultMode is the default candidate selection mode.
	DefaultMode = string(identify.ModeShortest)

	// DefaultMaxNodes bounds graphs accepted by the API.
	DefaultMaxNodes = 64
)

// Query kinds.
const (
	KindIdentify = "identify"
	KindFactor   = "factor"
	KindMarkov   = "markov"
	KindSeparate = "separate"
	KindInfo     = "info"
)

// Formula formats.
const (
	FormatText  = "text"
	FormatLaTeX = "latex"
)

// Factorization methods.
const (
	MethodDAG   = "dag"
	MethodTrunc = "trunc"
	MethodADMG  = "admg"
)

// Separation criteria.
const (
	CriterionD = "d"
	CriterionM = "m"
)

// Kinds lists the supported query kinds.
var Kinds = []string{KindIdentify, KindFactor, KindMarkov, KindSeparate, KindInfo}

// ValidFormats is the set of supported formula formats.
var ValidFormats = map[string]bool{
	FormatText:  true,
	FormatLaTeX: true,
}

// ValidMethods is the set of supported factorization methods.
var ValidMethods = map[string]bool{
	MethodDAG:   true,
	MethodTrunc: true,
	MethodADMG:  true,
}

// =============================================================================
// Options - Query Configuration
// =============================================================================

// Options describes one query. It supports JSON serialization for API
// requests.
type Options struct {
	Kind string `json:"kind"`

	// Variable sets. Identification and truncated factorization use X and Y.
	// Separation tests X ⊥ Y | Z.
	Treatment   []string `json:"x,omitempty"`
	Outcome     []string `json:"y,omitempty"`
	Conditioned []string `json:"z,omitempty"`

	// Identification options
	Mode        string  `json:"mode,omitempty"`
	Greedy      *bool   `json:"greedy,omitempty"` // nil means true
	Seed        *uint64 `json:"seed,omitempty"`   // nil means DefaultSeed
	Parallelism int     `json:"parallelism,omitempty"`

	// Factorization options
	Method   string `json:"method,omitempty"`
	Simplify *bool  `json:"simplify,omitempty"` // nil means true

	// Prefactor starts a truncated factorization from the chain
	// factorization instead of the joint. nil means true.
	Prefactor *bool `json:"prefactor,omitempty"`

	// Separation options
	Criterion string `json:"criterion,omitempty"`

	// Output options
	Format string `json:"format,omitempty"`
	Plain  bool   `json:"plain,omitempty"` // ratio form instead of conditional form

	// Refresh bypasses cache reads; the answer is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Errors carry pkg/errors codes.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Kind == "" {
		o.Kind = KindIdentify
	}
	if !slices.Contains(Kinds, o.Kind) {
		return perrors.New(perrors.ErrCodeInvalidInput, "invalid kind %q (must be one of: identify, factor, markov, separate, info)", o.Kind)
	}
	for _, list := range [][]string{o.Treatment, o.Outcome, o.Conditioned} {
		if err := perrors.ValidateNodeNames(list); err != nil {
			return err
		}
	}

	if o.Format == "" {
		o.Format = FormatText
	}
	if !ValidFormats[o.Format] {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format %q (must be one of: text, latex)", o.Format)
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if _, err := identify.ParseMode(o.Mode); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidMode, err, "mode")
	}
	if o.Seed == nil {
		seed := uint64(DefaultSeed)
		o.Seed = &seed
	}
	if o.Method == "" {
		o.Method = MethodDAG
		if len(o.Treatment) > 0 {
			o.Method = MethodTrunc
		}
	}
	if !ValidMethods[o.Method] {
		return perrors.New(perrors.ErrCodeInvalidInput, "invalid method %q (must be one of: dag, trunc, admg)", o.Method)
	}
	if o.Criterion == "" {
		o.Criterion = CriterionD
	}
	if o.Criterion != CriterionD && o.Criterion != CriterionM {
		return perrors.New(perrors.ErrCodeInvalidInput, "invalid criterion %q (must be d or m)", o.Criterion)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	switch o.Kind {
	case KindIdentify:
		if len(o.Treatment) == 0 {
			return perrors.New(perrors.ErrCodeInvalidInput, "identify needs at least one treatment variable (x)")
		}
	case KindSeparate:
		if len(o.Treatment) == 0 || len(o.Outcome) == 0 {
			return perrors.New(perrors.ErrCodeInvalidInput, "separate needs non-empty x and y")
		}
	case KindFactor:
		if o.Method == MethodTrunc && len(o.Treatment) == 0 {
			return perrors.New(perrors.ErrCodeInvalidInput, "truncated factorization needs at least one treatment variable (x)")
		}
	}
	return nil
}

// IsGreedy reports the effective Greedy option.
func (o *Options) IsGreedy() bool { return o.Greedy == nil || *o.Greedy }

// ShouldSimplify reports the effective Simplify option.
func (o *Options) ShouldSimplify() bool { return o.Simplify == nil || *o.Simplify }

// ShouldPrefactor reports the effective Prefactor option.
func (o *Options) ShouldPrefactor() bool { return o.Prefactor == nil || *o.Prefactor }

// SeedValue reports the effective Seed option. Zero is a valid seed.
func (o *Options) SeedValue() uint64 {
	if o.Seed == nil {
		return DefaultSeed
	}
	return *o.Seed
}

// IdentifyOptions converts o to identify options.
func (o *Options) IdentifyOptions() identify.Options {
	return identify.Options{
		Mode:        identify.Mode(o.Mode),
		Greedy:      o.IsGreedy(),
		Seed:        o.SeedValue(),
		Parallelism: o.Parallelism,
	}
}

// Printer returns the pretty-printer for o.Format.
func (o *Options) Printer() pretty.Printer {
	if o.Format == FormatLaTeX {
		return pretty.LaTeX
	}
	return pretty.Text
}

// formula renders q in the configured format.
func (o *Options) formula(q expr.Eqn) string {
	if o.Plain {
		return o.Printer().Eqn(q)
	}
	return o.Printer().EqnCond(q)
}

// =============================================================================
// Answer - Query Result
// =============================================================================

// Answer is the formatted result of a query. Not-applicable and
// not-identifiable are normal answers, reported through the flags.
type Answer struct {
	Kind      string `json:"kind"`
	Title     string `json:"title,omitempty"`
	GraphHash string `json:"graph_hash"`

	// Applicable is false when a DAG-only procedure was asked about a
	// graph with bidirected edges.
	Applicable   bool `json:"applicable"`
	Identifiable bool `json:"identifiable"`
	Separated    bool `json:"separated"`

	// Formula is the headline formula; Formulas lists every identify
	// candidate in order.
	Formula    string   `json:"formula,omitempty"`
	Formulas   []string `json:"formulas,omitempty"`
	Statements []string `json:"statements,omitempty"`

	Identify *identify.Result `json:"result,omitempty"`
	Eqn      *expr.Eqn        `json:"eqn,omitempty"`
	Info     *Info            `json:"info,omitempty"`

	Stats Stats `json:"stats"`
}

// Stats contains query execution statistics.
type Stats struct {
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
	CacheHit bool          `json:"cache_hit"`
}
