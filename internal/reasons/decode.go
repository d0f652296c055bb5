package reasons

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a catalog: {"reasons": [...]}.
type document struct {
	Reasons []Entry `json:"reasons" yaml:"reasons"`
}

// Decode parses a catalog document. Objects whose name ends in .yaml or .yml are read as YAML,
// everything else as JSON. Entries are returned as-is; Cache validates them.
func Decode(name string, r io.Reader) ([]Entry, error) {
	var doc document
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: decode yaml %s: %v", ErrMalformedCatalog, name, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode json %s: %v", ErrMalformedCatalog, name, err)
		}
	}
	return doc.Reasons, nil
}

func validate(entries []Entry) error {
	for i, e := range entries {
		if strings.TrimSpace(e.Message) == "" {
			return fmt.Errorf("%w: entry %d has no message", ErrMalformedCatalog, i)
		}
		if strings.TrimSpace(e.Reason) == "" {
			return fmt.Errorf("%w: entry %d has no reason", ErrMalformedCatalog, i)
		}
	}
	return nil
}
