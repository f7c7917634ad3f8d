package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// outputs stages files in temporary siblings and renames them into place
// together on commit. The first staging error is kept and reported by
// commit; later adds are ignored.
type outputs struct {
	staged []stagedFile
	err    error
}

type stagedFile struct {
	tmp, path string
}

func (o *outputs) add(path string, data []byte) {
	if o.err != nil {
		return
	}
	tmp, err := writeTemp(path, data)
	if err != nil {
		o.err = err
		return
	}
	o.staged = append(o.staged, stagedFile{tmp: tmp, path: path})
}

func (o *outputs) addYAML(path string, v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		o.fail(fmt.Errorf("encode %s: %w", path, err))
		return
	}
	o.add(path, data)
}

func (o *outputs) addJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		o.fail(fmt.Errorf("encode %s: %w", path, err))
		return
	}
	o.add(path, data)
}

func (o *outputs) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

// commit renames every staged file into place. When a rename fails, the
// files already renamed are removed again.
func (o *outputs) commit() error {
	if o.err != nil {
		return o.err
	}
	for i, f := range o.staged {
		if err := os.Rename(f.tmp, f.path); err != nil {
			for _, done := range o.staged[:i] {
				os.Remove(done.path)
			}
			o.err = fmt.Errorf("write %s: %w", f.path, err)
			return o.err
		}
	}
	o.staged = nil
	return nil
}

// discard removes the temporary files that were not committed.
func (o *outputs) discard() {
	for _, f := range o.staged {
		os.Remove(f.tmp)
	}
	o.staged = nil
}

func writeTemp(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return tmp.Name(), nil
}
