package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
)

// Keyer derives cache keys for query results.
type Keyer interface {
	// QueryKey identifies the result of a query of the given kind
	// ("identify", "factor", "markov", "separate") on a graph.
	QueryKey(kind, graphHash string, opts QueryKeyOpts) string

	// RenderKey identifies a rendered diagram of a graph.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// QueryKeyOpts holds everything besides the graph that changes a query
// result. Set-valued fields are sorted by the keyer, so callers may pass
// them in any order.
type QueryKeyOpts struct {
	Treatment   []string `json:"x,omitempty"`
	Outcome     []string `json:"y,omitempty"`
	Conditioned []string `json:"z,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	Greedy      bool     `json:"greedy,omitempty"`
	Simplify    bool     `json:"simplify,omitempty"`
	Prefactor   bool     `json:"prefactor,omitempty"`
	Seed        uint64   `json:"seed,omitempty"`
	Format      string   `json:"format,omitempty"`
}

// RenderKeyOpts holds the options of a diagram render.
type RenderKeyOpts struct {
	Format    string   `json:"format"`
	Detailed  bool     `json:"detailed,omitempty"`
	Treatment []string `json:"x,omitempty"`
	Outcome   []string `json:"y,omitempty"`
}

// DefaultKeyer builds keys of the form "<type>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// QueryKey hashes the query kind, graph hash and options.
func (DefaultKeyer) QueryKey(kind, graphHash string, opts QueryKeyOpts) string {
	opts.Treatment = sorted(opts.Treatment)
	opts.Outcome = sorted(opts.Outcome)
	opts.Conditioned = sorted(opts.Conditioned)
	return hashKey("query", kind, graphHash, opts)
}

// RenderKey hashes the graph hash and render options.
func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	opts.Treatment = sorted(opts.Treatment)
	opts.Outcome = sorted(opts.Outcome)
	return hashKey("render", graphHash, opts)
}

// KeyType returns the type prefix of a key built by a Keyer, skipping any
// scope prefix.
func KeyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data. Graph hashes are taken over the
// canonical GRAPL serialization.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "<typ>:<sha256 of parts as JSON>".
func hashKey(typ string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return typ + ":" + Hash(data)
}

// sorted returns a sorted, de-duplicated copy so that {X,Y} and {Y,X,X}
// share a key.
func sorted(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := slices.Sorted(slices.Values(names))
	return slices.Compact(out)
}
