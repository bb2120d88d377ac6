package viewercli

import (
	"fmt"
	"os"

	"cgviewer/internal/callgrind"
	"cgviewer/internal/query"
)

func loadModel(path string) (*callgrind.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	model, err := callgrind.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return model, nil
}

// resolveSymbol resolves a substring to exactly one entry, returning an
// error that names the ambiguity or the absence of a match.
func resolveSymbol(model *callgrind.Model, symbol string) (*callgrind.Entry, error) {
	matches := query.FindEntries(model, symbol)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no entry matching %q", symbol)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("symbol %q is ambiguous (%d matches); run with a more specific substring", symbol, len(matches))
	}
}
