package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/cache"
	perrors "github.com/matzehuels/causaltower/pkg/errors"
	"github.com/matzehuels/causaltower/pkg/grapl"
	graphio "github.com/matzehuels/causaltower/pkg/io"
)

// Graph source formats.
const (
	SourceGRAPL = "grapl"
	SourceJSON  = "json"
)

// DetectSource returns the source format for a file name: JSON for a .json
// extension, GRAPL otherwise.
func DetectSource(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return SourceJSON
	}
	return SourceGRAPL
}

// LoadGraph reads and validates the graph at path. The format follows the
// file extension.
func LoadGraph(path string) (*admg.ADMG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Classify(err)
	}
	return DecodeGraph(path, data, DetectSource(path))
}

// DecodeGraph parses data in the given source format and validates the
// result, including its title. name is used in error positions. Errors are classified with
// pkg/errors codes.
func DecodeGraph(name string, data []byte, source string) (*admg.ADMG, error) {
	var (
		g   *admg.ADMG
		err error
	)
	switch source {
	case SourceJSON:
		g, err = graphio.ReadJSON(bytes.NewReader(data))
	case SourceGRAPL, "":
		g, err = grapl.Parse(name, bytes.NewReader(data))
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "invalid graph format %q (must be grapl or json)", source)
	}
	if err != nil {
		return nil, perrors.Classify(err)
	}
	if err := perrors.ValidateTitle(g.Title()); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, perrors.Classify(err)
	}
	return g, nil
}

// GraphHash hashes the GRAPL serialization of g. Node properties do not
// take part, since no query reads them.
func GraphHash(g *admg.ADMG) string {
	return cache.Hash([]byte(grapl.Marshal(g)))
}
