package tuner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const outputFileMode = 0o644

// Marshal renders the document as two-space indented JSON with a trailing newline.
func Marshal(d *Document) ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(b, '\n'), nil
}

// WriteDocument validates d and replaces path with it. The file is staged
// next to its destination and renamed into place, so a failure never leaves
// a partial document behind.
func WriteDocument(path string, d *Document) error {
	if err := d.Validate(); err != nil {
		return err
	}

	b, err := Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal policy document: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("stage policy document: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write policy document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write policy document: %w", err)
	}
	if err := os.Chmod(tmp.Name(), outputFileMode); err != nil {
		return fmt.Errorf("write policy document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("install policy document: %w", err)
	}

	committed = true
	return nil
}
