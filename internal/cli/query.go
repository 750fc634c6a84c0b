package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/causaltower/pkg/pipeline"
	"github.com/matzehuels/causaltower/pkg/pretty"
)

// queryFlags are shared by the query commands.
type queryFlags struct {
	x, y, z []string
	format  string
	plain   bool
	json    bool
	refresh bool
}

func (f *queryFlags) register(cmd *cobra.Command, sets string) {
	if strings.Contains(sets, "x") {
		cmd.Flags().StringSliceVarP(&f.x, "x", "x", nil, "treatment variables (comma-separated)")
	}
	if strings.Contains(sets, "y") {
		cmd.Flags().StringSliceVarP(&f.y, "y", "y", nil, "outcome variables (comma-separated)")
	}
	if strings.Contains(sets, "z") {
		cmd.Flags().StringSliceVarP(&f.z, "z", "z", nil, "conditioning variables (comma-separated)")
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", pipeline.FormatText, "formula format: text, latex")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "write conditionals as ratios of marginals")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the full answer as JSON")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if the answer is cached")
}

func (f *queryFlags) options(kind string) pipeline.Options {
	return pipeline.Options{
		Kind:        kind,
		Treatment:   f.x,
		Outcome:     f.y,
		Conditioned: f.z,
		Format:      f.format,
		Plain:       f.plain,
		Refresh:     f.refresh,
	}
}

// =============================================================================
// identify
// =============================================================================

func (c *CLI) identifyCommand() *cobra.Command {
	var (
		flags       queryFlags
		mode        string
		greedy      bool
		seed        uint64
		parallelism int
		all         bool
		browse      bool
	)

	cmd := &cobra.Command{
		Use:   "identify [file]",
		Short: "Identify an interventional distribution p(Y | do(X))",
		Long: `Identify searches fixing sequences for every district of the outcome's
pre-intervention ancestors and prints the identifying formula. When several
sequences succeed, --mode selects among them:

  shortest   fewest terms, then fewest marginalized variables
  mostmrg    most marginalized variables
  random     one sequence chosen by a seeded random walk
  all        every distinct formula`,
		Example: `  causaltower identify frontdoor.grapl -x X -y Y
  causaltower identify napkin.grapl -x X -y Y --mode all --browse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(pipeline.KindIdentify)
			opts.Mode = c.Config.Identify.Mode
			if cmd.Flags().Changed("mode") {
				opts.Mode = mode
			}
			g := c.Config.Identify.Greedy
			if cmd.Flags().Changed("greedy") {
				g = greedy
			}
			opts.Greedy = &g
			s := c.Config.Identify.Seed
			if cmd.Flags().Changed("seed") {
				s = seed
			}
			opts.Seed = &s
			opts.Parallelism = c.Config.Identify.Parallelism
			if cmd.Flags().Changed("parallelism") {
				opts.Parallelism = parallelism
			}

			ans, err := c.runQuery(cmd.Context(), args[0], opts, !flags.json)
			if err != nil {
				return err
			}
			switch {
			case flags.json:
				return writeJSON(cmd.OutOrStdout(), ans)
			case browse && ans.Identifiable:
				return browseCandidates(ans)
			}
			writeIdentify(cmd.OutOrStdout(), ans, all)
			return nil
		},
	}

	flags.register(cmd, "xy")
	cmd.Flags().StringVarP(&mode, "mode", "m", pipeline.DefaultMode, "candidate selection: shortest, mostmrg, random, all")
	cmd.Flags().BoolVar(&greedy, "greedy", true, "select per district before combining")
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "random seed for --mode random")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "concurrent district searches (0 = GOMAXPROCS)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print every candidate formula")
	cmd.Flags().BoolVar(&browse, "browse", false, "browse candidates interactively")
	return cmd
}

func writeIdentify(w io.Writer, ans *pipeline.Answer, all bool) {
	writeTitle(w, ans.Title)
	if !ans.Identifiable {
		fmt.Fprintln(w, StyleWarning.Render("not identifiable"))
		if ans.Identify != nil {
			fmt.Fprintln(w, StyleDim.Render("  Y* = "+pretty.Nodes(ans.Identify.YStar)))
		}
		writeStats(w, ans)
		return
	}

	formulas := []string{ans.Formula}
	if all {
		formulas = ans.Formulas
	}
	for _, f := range formulas {
		fmt.Fprintln(w, f)
	}
	if res := ans.Identify; res != nil {
		var districts []string
		for _, d := range res.Districts {
			districts = append(districts, "{"+pretty.Nodes(d)+"}")
		}
		fmt.Fprintln(w, StyleDim.Render("  districts: "+strings.Join(districts, " ")))
		if len(ans.Formulas) > 1 && !all {
			fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %d candidates (use --all to list)", len(ans.Formulas))))
		}
	}
	writeStats(w, ans)
}

// =============================================================================
// factor
// =============================================================================

func (c *CLI) factorCommand() *cobra.Command {
	var (
		flags     queryFlags
		method    string
		simplify  bool
		prefactor bool
	)

	cmd := &cobra.Command{
		Use:   "factor [file]",
		Short: "Print a factorization of the observed distribution",
		Long: `Factor prints one of three factorizations:

  dag    chain rule over a topological order with the local Markov
         property applied (DAGs only)
  trunc  truncated factorization p_X(Y) for a DAG (the default when -x is set)
  admg   district factorization into kernels, valid for any ADMG`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(pipeline.KindFactor)
			opts.Method = method
			opts.Simplify = &simplify
			opts.Prefactor = &prefactor

			ans, err := c.runQuery(cmd.Context(), args[0], opts, false)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), ans)
			}
			writeTitle(cmd.OutOrStdout(), ans.Title)
			if !ans.Applicable {
				fmt.Fprintln(cmd.OutOrStdout(), StyleWarning.Render("not applicable: the graph has bidirected edges (try --method admg)"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ans.Formula)
			writeStats(cmd.OutOrStdout(), ans)
			return nil
		},
	}

	flags.register(cmd, "xy")
	cmd.Flags().StringVar(&method, "method", "", "factorization: dag, trunc, admg (default dag, or trunc with -x)")
	cmd.Flags().BoolVar(&simplify, "simplify", true, "drop variables that sum out of the dag factorization")
	cmd.Flags().BoolVar(&prefactor, "prefactor", true, "start trunc from the chain factorization instead of the joint")
	return cmd
}

// =============================================================================
// markov
// =============================================================================

func (c *CLI) markovCommand() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "markov [file]",
		Short: "List the local Markov independences of a DAG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ans, err := c.runQuery(cmd.Context(), args[0], flags.options(pipeline.KindMarkov), false)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), ans)
			}
			w := cmd.OutOrStdout()
			writeTitle(w, ans.Title)
			if !ans.Applicable {
				fmt.Fprintln(w, StyleWarning.Render("not applicable: the graph has bidirected edges"))
				return nil
			}
			for _, s := range ans.Statements {
				fmt.Fprintln(w, s)
			}
			if len(ans.Statements) == 0 {
				fmt.Fprintln(w, StyleDim.Render("no independences"))
			}
			return nil
		},
	}

	flags.register(cmd, "")
	return cmd
}

// =============================================================================
// separate
// =============================================================================

func (c *CLI) separateCommand() *cobra.Command {
	var (
		flags     queryFlags
		criterion string
	)

	cmd := &cobra.Command{
		Use:   "separate [file]",
		Short: "Test whether X and Y are d- or m-separated given Z",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(pipeline.KindSeparate)
			opts.Criterion = criterion

			ans, err := c.runQuery(cmd.Context(), args[0], opts, false)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), ans)
			}
			w := cmd.OutOrStdout()
			switch {
			case !ans.Applicable:
				fmt.Fprintln(w, StyleWarning.Render("not applicable: d-separation needs a DAG (try --criterion m)"))
			case ans.Separated:
				fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+ans.Statements[0])
			default:
				fmt.Fprintln(w, styleIconError.Render(iconError)+" not separated")
			}
			return nil
		},
	}

	flags.register(cmd, "xyz")
	cmd.Flags().StringVar(&criterion, "criterion", pipeline.CriterionD, "separation criterion: d, m")
	return cmd
}

// =============================================================================
// info
// =============================================================================

func (c *CLI) infoCommand() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Summarize a graph's nodes, districts and fixable set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ans, err := c.runQuery(cmd.Context(), args[0], flags.options(pipeline.KindInfo), false)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), ans)
			}
			writeInfo(cmd.OutOrStdout(), ans.Info)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "print the full answer as JSON")
	return cmd
}

// =============================================================================
// Shared
// =============================================================================

// runQuery loads the graph at path and answers opts through a cached runner.
func (c *CLI) runQuery(ctx context.Context, path string, opts pipeline.Options, spin bool) (*pipeline.Answer, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, err := pipeline.LoadGraph(path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Loaded %s: %d nodes", path, g.Len())

	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts.Logger = logger
	var s *searchSpinner
	if spin {
		s = newSearchSpinner(ctx, os.Stderr, "Searching fixing sequences...")
		s.Start()
	}
	ans, err := runner.Query(ctx, g, opts)
	if s != nil {
		s.Stop()
		logger.Debug("fixing search", "progress", s.Status())
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("query answered", "kind", opts.Kind, "cached", ans.Stats.CacheHit)
	prog.done(fmt.Sprintf("Answered %s query", opts.Kind))
	return ans, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTitle(w io.Writer, title string) {
	if title != "" {
		fmt.Fprintln(w, StyleTitle.Render(title))
	}
}

func writeStats(w io.Writer, ans *pipeline.Answer) {
	status, style := iconFresh, styleComputed
	if ans.Stats.CacheHit {
		status, style = iconCached, styleCached
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf("%d nodes", ans.Stats.Nodes))+
		StyleDim.Render(" · ")+style.Render(status))
}
