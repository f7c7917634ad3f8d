package dictionary

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// file is the YAML layout of a correction dictionary. Each sheet mirrors a
// worksheet of the maintained spreadsheet; rows are 1-based unless set.
//
//	sheets:
//	  - name: Namen
//	    entries:
//	      - {from: "Meier", to: "Meyer"}
type file struct {
	Sheets []sheet `yaml:"sheets"`
}

type sheet struct {
	Name    string  `yaml:"name"`
	Entries []Entry `yaml:"entries"`
}

// Load reads a YAML correction dictionary from path. See Decode for the
// error contract.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %q: %w", path, err)
	}
	defer f.Close()

	d, err := Decode(f)
	if d == nil {
		return nil, fmt.Errorf("dictionary: parse %q: %w", path, err)
	}
	return d, err
}

// Decode reads a YAML correction dictionary. A nil Dictionary means the
// input could not be read at all; a non-nil Dictionary with an error means
// some entries were dropped (see ErrInvalidEntry).
func Decode(r io.Reader) (*Dictionary, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	var entries []Entry
	for _, s := range doc.Sheets {
		for i, e := range s.Entries {
			e.Sheet = s.Name
			if e.Row == 0 {
				e.Row = i + 1
			}
			entries = append(entries, e)
		}
	}
	return New(entries)
}

// Violations lists the individual problems reported by New or Decode.
func Violations(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.Errors
	}
	if err != nil {
		return []error{err}
	}
	return nil
}
