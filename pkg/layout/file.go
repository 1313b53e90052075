package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/freeboard/pkg/geom"
)

// ReadJSON decodes a layout envelope from r. Legacy documents are migrated
// onto canvas. If workspaceID is non-empty it replaces the stored id.
//
// ReadJSON does not validate the result; use [Layout.Validate] before
// handing it to a store.
func ReadJSON(r io.Reader, workspaceID string, canvas geom.Canvas) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	l, _, err := Parse(data, workspaceID, canvas)
	return l, err
}

// ImportJSON reads a layout file at path.
func ImportJSON(path, workspaceID string, canvas geom.Canvas) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, workspaceID, canvas)
}

// WriteJSON writes l to w as an indented envelope. The output can be read
// back with [ReadJSON].
func WriteJSON(l *Layout, w io.Writer) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportJSON writes l to a file at path, creating or truncating it.
func ExportJSON(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
