// Package artifacts persists what the generate service returns and inspects
// what is already on disk.
package artifacts

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"github.com/spf13/afero"
)

const (
	ResearchPDF  = "research_output.pdf"
	ResearchJSON = "research_output.json"
	DebugPDF     = "debug_output.pdf"
	DebugJSON    = "debug_output.json"
)

// SavePDF base64-decodes b64 and writes the bytes to path, replacing any
// previous file. It returns the number of decoded bytes written.
func SavePDF(fs afero.Fs, path, b64 string) (int, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return 0, fmt.Errorf("error decoding pdf: %w", err)
	}
	if err := writeFile(fs, path, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// SaveJSON writes raw to path indented by two spaces. Key order and non-ASCII
// text are kept as the service sent them.
func SaveJSON(fs afero.Fs, path string, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("error formatting json: %w", err)
	}
	return writeFile(fs, path, buf.Bytes())
}

// Stat returns the size of path and whether it exists as a regular file.
func Stat(fs afero.Fs, path string) (int64, bool) {
	info, err := fs.Stat(path)
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}

// InspectPDF opens the PDF at path and returns its page count.
func InspectPDF(fs afero.Fs, path string) (pages int, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("error reading pdf %s: %v", path, r)
		}
	}()

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("error reading pdf %s: %w", path, err)
	}
	return reader.NumPage(), nil
}

func writeFile(fs afero.Fs, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, data, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
