package db

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"notesbot/bots/NotesBot/notes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File keeps the snapshot in a single file. Files ending with .yaml or .yml
// are written as YAML, anything else as JSON.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(f.path))
	return ext == ".yaml" || ext == ".yml"
}

// Save replaces the file with the snapshot. The data is written to a
// temporary file first and then renamed over the old one.
func (f *File) Save(ctx context.Context, s notes.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec := toSnapshotRecord(s)

	var b []byte
	var err error
	if f.isYAML() {
		b, err = yaml.Marshal(rec)
	} else {
		b, err = json.MarshalIndent(rec, "", " ")
	}
	if err != nil {
		return errors.Wrap(err, "failed encoding notes")
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return errors.Wrap(err, "failed creating temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed writing notes")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed writing notes")
	}

	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Wrap(err, "failed replacing notes file")
	}
	return nil
}

func (f *File) Load(ctx context.Context) (notes.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return notes.Snapshot{}, err
	}

	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notes.Snapshot{}, nil
		}
		return notes.Snapshot{}, errors.Wrap(err, "failed reading notes")
	}

	var rec snapshotRecord
	if f.isYAML() {
		err = yaml.Unmarshal(b, &rec)
	} else {
		err = json.Unmarshal(b, &rec)
	}
	if err != nil {
		return notes.Snapshot{}, errors.Wrapf(err, "failed decoding %s", f.path)
	}

	return rec.toSnapshot()
}

func (f *File) Close() error {
	return nil
}
