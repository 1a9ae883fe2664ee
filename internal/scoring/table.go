package scoring

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/beamlab/internal/beam"
)

// ErrTable is matched by every table decoding or validation failure.
var ErrTable = errors.New("invalid score table")

// TableFile is the on-disk form of a score table. Contexts are kept as a
// list so continuation order survives both YAML and JSON.
type TableFile struct {
	Name     string         `yaml:"name,omitempty" json:"name,omitempty"`
	EndToken string         `yaml:"end_token,omitempty" json:"end_token,omitempty"`
	Contexts []TableContext `yaml:"contexts" json:"contexts"`
}

// TableContext lists the continuations after the space-joined Context.
// Context covers every token of the hypothesis, a seed token included; the
// empty context is an unseeded root.
type TableContext struct {
	Context string        `yaml:"context" json:"context"`
	Next    []beam.Scored `yaml:"next" json:"next"`
}

// Table is a Scorer backed by fixed continuation lists, the way the
// interactive demos bake their numbers in. A context with no entry has no
// continuations, so its hypothesis drops out of the beam.
type Table struct {
	name     string
	endToken string
	next     map[string][]beam.Scored
	order    []string
}

// NewTable validates f and builds a Table from it.
func NewTable(f TableFile) (*Table, error) {
	t := &Table{
		name:     f.Name,
		endToken: f.EndToken,
		next:     make(map[string][]beam.Scored, len(f.Contexts)),
	}
	for i, c := range f.Contexts {
		key := normalizeContext(c.Context)
		if _, dup := t.next[key]; dup {
			return nil, fmt.Errorf("%w: context %q listed twice", ErrTable, key)
		}
		for j, s := range c.Next {
			if strings.TrimSpace(s.Token) == "" {
				return nil, fmt.Errorf("%w: contexts[%d].next[%d]: empty token", ErrTable, i, j)
			}
		}
		t.next[key] = slices.Clone(c.Next)
		t.order = append(t.order, key)
	}
	return t, nil
}

func normalizeContext(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Name is the table's display name, possibly empty.
func (t *Table) Name() string { return t.name }

// EndToken is the termination marker the table was written for, or "".
func (t *Table) EndToken() string { return t.endToken }

// Len is the number of contexts.
func (t *Table) Len() int { return len(t.order) }

// Next implements beam.Scorer.
func (t *Table) Next(h beam.Hypothesis) ([]beam.Scored, error) {
	return slices.Clone(t.next[h.Text()]), nil
}

// File converts the table back to its serialisable form.
func (t *Table) File() TableFile {
	f := TableFile{Name: t.name, EndToken: t.endToken}
	for _, key := range t.order {
		f.Contexts = append(f.Contexts, TableContext{Context: key, Next: slices.Clone(t.next[key])})
	}
	return f
}

// Format names a table encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath guesses the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", ErrTable, filepath.Ext(path))
	}
}

// LoadTable reads a YAML or JSON table chosen by the file extension.
func LoadTable(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := DecodeTable(bytes.NewReader(raw), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.name == "" {
		t.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// DecodeTable parses a table in the given format.
func DecodeTable(r io.Reader, format Format) (*Table, error) {
	var f TableFile
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrTable, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTable, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrTable, format)
	}
	return NewTable(f)
}

// EncodeTable writes t in the given format.
func EncodeTable(w io.Writer, t *Table, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t.File()); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t.File())
	default:
		return fmt.Errorf("%w: unknown format %q", ErrTable, format)
	}
}
