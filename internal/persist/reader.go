package persist

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadSnapshots decodes every record in a snapshot stream, calling fn for each
// in file order. Returning an error from fn stops the scan.
func ReadSnapshots(r io.Reader, fn func(Record) error) error {
	dec := yaml.NewDecoder(r)
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// ReadSnapshotFile is ReadSnapshots over the file at path.
func ReadSnapshotFile(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot log %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshots(f, fn)
}
