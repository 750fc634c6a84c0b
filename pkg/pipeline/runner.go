package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/cache"
	perrors "github.com/matzehuels/causaltower/pkg/errors"
	"github.com/matzehuels/causaltower/pkg/nodeset"
	"github.com/matzehuels/causaltower/pkg/observability"
	"github.com/matzehuels/causaltower/pkg/render/nodelink"
)

// Runner executes queries with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrument(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Query answers one query on g, serving it from the cache when possible.
func (r *Runner) Query(ctx context.Context, g *admg.ADMG, opts Options) (*Answer, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Query().OnQueryStart(ctx, opts.Kind, g.Title())

	hash := GraphHash(g)
	key := r.Keyer.QueryKey(opts.Kind, hash, opts.keyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case hit:
			var ans Answer
			if err := json.Unmarshal(data, &ans); err == nil {
				ans.Stats = Stats{Nodes: g.Len(), Duration: time.Since(start), CacheHit: true}
				r.Logger.Debug("cache hit", "kind", opts.Kind, "key", key)
				observability.Query().OnQueryComplete(ctx, opts.Kind, ans.Stats.Duration, nil)
				return &ans, nil
			}
		}
	}

	ans, err := answer(ctx, g, opts)
	duration := time.Since(start)
	observability.Query().OnQueryComplete(ctx, opts.Kind, duration, err)
	if err != nil {
		return nil, err
	}
	ans.GraphHash = hash
	ans.Stats = Stats{Nodes: g.Len(), Duration: duration}

	r.Logger.Debug("answered query",
		"kind", opts.Kind,
		"nodes", g.Len(),
		"candidates", len(ans.Formulas),
		"duration", duration)

	if data, err := json.Marshal(ans); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return ans, nil
}

// Render formats.
const (
	RenderSVG = "svg"
	RenderPNG = "png"
	RenderPDF = "pdf"
	RenderDOT = "dot"
)

// RenderOptions configures [Runner.Render].
type RenderOptions struct {
	Format    string   `json:"format"`
	Detailed  bool     `json:"detailed,omitempty"`
	Treatment []string `json:"x,omitempty"`
	Outcome   []string `json:"y,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
}

// Render draws g as a node-link diagram, serving it from the cache when
// possible. The boolean reports a cache hit.
func (r *Runner) Render(ctx context.Context, g *admg.ADMG, opts RenderOptions) ([]byte, bool, error) {
	if opts.Format == "" {
		opts.Format = RenderSVG
	}
	if opts.Scale == 0 {
		opts.Scale = 2
	}
	switch opts.Format {
	case RenderSVG, RenderPNG, RenderPDF, RenderDOT:
	default:
		return nil, false, perrors.New(perrors.ErrCodeInvalidFormat,
			"unsupported render format: %q (must be one of: svg, png, pdf, dot)", opts.Format)
	}

	key := r.Keyer.RenderKey(GraphHash(g), cache.RenderKeyOpts{
		Format:    opts.Format,
		Detailed:  opts.Detailed,
		Treatment: opts.Treatment,
		Outcome:   opts.Outcome,
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return data, true, nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{
		Detailed:  opts.Detailed,
		Treatment: nodeset.New(opts.Treatment...),
		Outcome:   nodeset.New(opts.Outcome...),
	})
	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case RenderDOT:
		data = []byte(dot)
	case RenderSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case RenderPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
	case RenderPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	}
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	_ = r.Cache.Set(ctx, key, data, r.TTL)
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// keyOpts returns the cache key options for o.
func (o *Options) keyOpts() cache.QueryKeyOpts {
	k := cache.QueryKeyOpts{
		Treatment:   o.Treatment,
		Outcome:     o.Outcome,
		Conditioned: o.Conditioned,
		Format:      o.Format,
	}
	if o.Plain {
		k.Format += "/plain"
	}
	switch o.Kind {
	case KindIdentify:
		k.Mode = o.Mode
		k.Greedy = o.IsGreedy()
		k.Seed = o.SeedValue()
	case KindFactor:
		k.Mode = o.Method
		k.Simplify = o.ShouldSimplify()
		k.Prefactor = o.ShouldPrefactor()
	case KindSeparate:
		k.Mode = o.Criterion
	}
	return k
}
