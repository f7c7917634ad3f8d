package spelling

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// ErrInvalidException marks a table entry that was dropped while loading.
var ErrInvalidException = errors.New("invalid exception entry")

// Tables are the exception lists consulted before the dictionary.
type Tables struct {
	// Phrases are multi-word expressions, split into words.
	Phrases [][]string
	// Abbreviations end in a dot, e.g. "usw.".
	Abbreviations map[string]struct{}
	// Words are single words accepted as spelled.
	Words map[string]struct{}
}

type tablesFile struct {
	Phrases       []string `yaml:"phrases"`
	Abbreviations []string `yaml:"abbreviations"`
	Words         []string `yaml:"words"`
}

// NewTables validates the raw lists. Invalid entries are dropped and
// reported in the returned error; the Tables are always usable.
func NewTables(phrases, abbreviations, words []string) (*Tables, error) {
	var result *multierror.Error
	t := &Tables{
		Abbreviations: make(map[string]struct{}, len(abbreviations)),
		Words:         make(map[string]struct{}, len(words)),
	}

	for i, p := range phrases {
		fields := strings.Fields(p)
		if len(fields) < 2 {
			result = multierror.Append(result, fmt.Errorf("%w: phrases[%d] %q has fewer than two words", ErrInvalidException, i, p))
			continue
		}
		t.Phrases = append(t.Phrases, fields)
	}
	for i, a := range abbreviations {
		a = strings.TrimSpace(a)
		if len(a) < 2 || !strings.HasSuffix(a, ".") {
			result = multierror.Append(result, fmt.Errorf("%w: abbreviations[%d] %q does not end in a dot", ErrInvalidException, i, a))
			continue
		}
		t.Abbreviations[a] = struct{}{}
	}
	for i, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || strings.ContainsAny(w, " \t") {
			result = multierror.Append(result, fmt.Errorf("%w: words[%d] %q is not a single word", ErrInvalidException, i, w))
			continue
		}
		t.Words[w] = struct{}{}
	}
	return t, result.ErrorOrNil()
}

// LoadTables reads the exception tables from a YAML file with the keys
// phrases, abbreviations and words.
func LoadTables(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spelling: open exceptions: %w", err)
	}
	defer f.Close()
	return DecodeTables(f)
}

// DecodeTables reads tables from r. A nil Tables means r could not be
// parsed; a non-nil Tables with an error means entries were dropped.
func DecodeTables(r io.Reader) (*Tables, error) {
	var raw tablesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("spelling: parse exceptions: %w", err)
	}
	return NewTables(raw.Phrases, raw.Abbreviations, raw.Words)
}

// Vocabulary returns every single word and phrase word in the tables, used as
// suggestion candidates.
func (t *Tables) Vocabulary() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.Words))
	for w := range t.Words {
		out = append(out, w)
	}
	for _, p := range t.Phrases {
		out = append(out, p...)
	}
	return out
}
