package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/causaltower/internal/config"
	"github.com/matzehuels/causaltower/pkg/cache"
	"github.com/matzehuels/causaltower/pkg/grapl"
	"github.com/matzehuels/causaltower/pkg/identify"
	"github.com/matzehuels/causaltower/pkg/nodeset"
	"github.com/matzehuels/causaltower/pkg/pipeline"
)

const (
	frontDoorGRAPL = `"Front-door"; X; M; Y; X -> M; M -> Y; X <-> Y;`
	backDoorGRAPL  = `C; X; Y; C -> X; C -> Y; X -> Y;`
	bowGRAPL       = `X; Y; X -> Y; X <-> Y;`
	chainGRAPL     = `A; B; C; A -> B; B -> C;`
)

// execute runs the CLI with args in an isolated config and cache
// environment and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeGraph(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIdentifyCommand(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	out, err := execute(t, "identify", path, "-x", "X", "-y", "Y", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	want := "p_{X}(Y) = Σ_{M,X'}[p(Y|M,X')p(M|X)p(X')]"
	if !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
	if !strings.Contains(out, "Front-door") {
		t.Errorf("output %q should contain the title", out)
	}
}

func TestIdentifyNotIdentifiable(t *testing.T) {
	path := writeGraph(t, "bow.grapl", bowGRAPL)
	out, err := execute(t, "identify", path, "-x", "X", "-y", "Y", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not identifiable") {
		t.Errorf("output %q should report not identifiable", out)
	}
}

func TestIdentifyJSON(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	out, err := execute(t, "identify", path, "-x", "X", "-y", "Y", "--json", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	var ans pipeline.Answer
	if err := json.Unmarshal([]byte(out), &ans); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !ans.Identifiable || ans.Kind != pipeline.KindIdentify {
		t.Errorf("answer = %+v, want identifiable identify answer", ans)
	}
}

func TestIdentifyErrors(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	tests := []struct {
		name string
		args []string
	}{
		{"no treatment", []string{"identify", path, "-y", "Y"}},
		{"unknown node", []string{"identify", path, "-x", "Q", "-y", "Y"}},
		{"bad mode", []string{"identify", path, "-x", "X", "--mode", "fastest"}},
		{"missing file", []string{"identify", filepath.Join(t.TempDir(), "nope.grapl"), "-x", "X"}},
		{"no args", []string{"identify"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, append(tt.args, "--no-cache")...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIdentifyCacheHit(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	cfg := writeGraph(t, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(t.TempDir())+"\"\n")

	args := []string{"--config", cfg, "identify", path, "-x", "X", "-y", "Y", "--json"}
	if _, err := execute(t, args...); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, args...)
	if err != nil {
		t.Fatal(err)
	}
	var ans pipeline.Answer
	if err := json.Unmarshal([]byte(out), &ans); err != nil {
		t.Fatal(err)
	}
	if !ans.Stats.CacheHit {
		t.Error("second run should be served from the cache")
	}
}

func TestFactorCommand(t *testing.T) {
	path := writeGraph(t, "bd.grapl", backDoorGRAPL)
	out, err := execute(t, "factor", path, "-x", "X", "-y", "Y", "-f", "latex", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	want := `p_{X}(Y)=\sum_{C}[p(Y|C,X)p(C)]`
	if !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
}

func TestFactorNotApplicable(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	out, err := execute(t, "factor", path, "--method", "dag", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not applicable") {
		t.Errorf("output %q should report not applicable", out)
	}

	out, err = execute(t, "factor", path, "--method", "admg", "--plain", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "p(M,X,Y) = ") {
		t.Errorf("output %q should contain the district factorization", out)
	}
}

func TestMarkovCommand(t *testing.T) {
	path := writeGraph(t, "chain.grapl", chainGRAPL)
	out, err := execute(t, "markov", path, "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "⊥") {
		t.Errorf("output %q should list independences", out)
	}
}

func TestSeparateCommand(t *testing.T) {
	path := writeGraph(t, "chain.grapl", chainGRAPL)

	out, err := execute(t, "separate", path, "-x", "A", "-y", "C", "-z", "B", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconSuccess) {
		t.Errorf("A and C should be separated given B, got %q", out)
	}

	out, err = execute(t, "separate", path, "-x", "A", "-y", "C", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not separated") {
		t.Errorf("A and C should not be separated, got %q", out)
	}
}

func TestInfoCommand(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	out, err := execute(t, "info", path, "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ADMG, 3 nodes", "districts", "{X,Y}", "fixable"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	src := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "fd.json")
	back := filepath.Join(dir, "back.grapl")

	if _, err := execute(t, "convert", src, jsonPath); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "convert", jsonPath, back); err != nil {
		t.Fatal(err)
	}

	want, err := grapl.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err := grapl.ReadFile(back)
	if err != nil {
		t.Fatal(err)
	}
	if grapl.Marshal(got) != grapl.Marshal(want) {
		t.Errorf("round trip changed the graph:\n%s\nwant:\n%s", grapl.Marshal(got), grapl.Marshal(want))
	}
}

func TestGraplTokens(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	out, err := execute(t, "grapl", "tokens", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Title", "DirEdge", "BiEdge", "EOC"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestGraplFmt(t *testing.T) {
	path := writeGraph(t, "chain.grapl", "C; B; A; B -> C; A -> B;")
	out, err := execute(t, "grapl", "fmt", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "A;\nB;\nC;\nA -> B;\nB -> C;\n"
	if out != want {
		t.Errorf("fmt output = %q, want %q", out, want)
	}

	if _, err := execute(t, "grapl", "fmt", "-w", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != want {
		t.Errorf("rewritten file = %q, want %q", data, want)
	}
}

func TestRenderDOT(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	out := filepath.Join(t.TempDir(), "fd.dot")
	if _, err := execute(t, "render", path, "-o", out, "-x", "X", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("expected DOT output, got %q", data)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	path := writeGraph(t, "fd.grapl", frontDoorGRAPL)
	if _, err := execute(t, "render", path, "-f", "gif"); err == nil {
		t.Error("expected error for gif")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format, want string
	}{
		{"", "graphs/fd.grapl", "svg", "graphs/fd.svg"},
		{"", "fd.json", "png", "fd.png"},
		{"out.pdf", "fd.grapl", "pdf", "out.pdf"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
		}
	}
}

func TestCachePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "answers")
	cfg := writeGraph(t, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")
	out, err := execute(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestConfigErrors(t *testing.T) {
	if _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "cache", "path"); err == nil {
		t.Error("expected error for a missing explicit config")
	}
	bad := writeGraph(t, "config.toml", "[identify]\nmode = \"fastest\"\n")
	if _, err := execute(t, "--config", bad, "cache", "path"); err == nil {
		t.Error("expected error for an invalid mode")
	}
}

func TestCandidateListModel(t *testing.T) {
	res := &identify.Result{
		Identifiable: true,
		Districts:    []nodeset.Set{nodeset.New("Y")},
		Candidates: []identify.Candidate{
			{Sequences: [][]string{{"X"}}},
			{Sequences: [][]string{{"M", "X"}}},
		},
	}
	m := NewCandidateListModel(res, []string{"first", "second"})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(CandidateListModel)
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(CandidateListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor moved past the last candidate: %d", m.Cursor)
	}

	view := m.View()
	if !strings.Contains(view, "second") || !strings.Contains(view, "M → X") {
		t.Errorf("view %q should show the selected candidate and its sequence", view)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(CandidateListModel)
	if m.Selected != 1 || cmd == nil {
		t.Errorf("enter should select candidate 1 and quit, got %d", m.Selected)
	}
}

func TestFactorWithoutPrefactor(t *testing.T) {
	path := writeGraph(t, "bd.grapl", backDoorGRAPL)
	out, err := execute(t, "factor", path, "-x", "X", "-y", "Y", "-f", "latex", "--prefactor=false", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	want := `p_{X}(Y)=\sum_{C}[p(Y|C,X)p(C)]`
	if !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
}

func TestKeyerPrefix(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Prefix = "staging:"
	if c.keyer() != nil {
		t.Error("file backend should use the default keyer")
	}

	c.Config.Cache.Backend = config.BackendRedis
	k := c.keyer()
	if k == nil {
		t.Fatal("redis backend with a prefix should scope keys")
	}
	key := k.QueryKey(pipeline.KindIdentify, "abc", cache.QueryKeyOpts{})
	if !strings.HasPrefix(key, "staging:query:") {
		t.Errorf("key = %q, want staging:query: prefix", key)
	}
	if got := cache.KeyType(key); got != "query" {
		t.Errorf("KeyType(%q) = %q", key, got)
	}
}
