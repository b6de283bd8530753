// Package document locates and decodes the two JSON inputs of a framing run:
// a named frame document under the schema directory and the data document.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ValidateFrameName checks that name is usable as a single file stem inside
// the schema directory.
func ValidateFrameName(name, ext string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &InvalidFrameNameError{Name: name, Reason: "name is empty"}
	case strings.ContainsAny(name, `/\`):
		return &InvalidFrameNameError{Name: name, Reason: "name must not contain path separators"}
	case name == "." || name == "..":
		return &InvalidFrameNameError{Name: name, Reason: "name must not refer to a directory"}
	case strings.ContainsRune(name, 0):
		return &InvalidFrameNameError{Name: name, Reason: "name must not contain NUL"}
	case ext != "" && strings.HasSuffix(name, ext):
		return &InvalidFrameNameError{Name: name, Reason: fmt.Sprintf("name must be given without the %s extension", ext)}
	case !filepath.IsLocal(name):
		return &InvalidFrameNameError{Name: name, Reason: "name is not a local path element"}
	}
	return nil
}

// ResolveFramePath maps a frame name to dir/name+ext after validating it.
func ResolveFramePath(dir, name, ext string) (string, error) {
	if err := ValidateFrameName(name, ext); err != nil {
		return "", err
	}
	return filepath.Join(dir, name+ext), nil
}

// LoadFrame reads and decodes the frame document for name at path.
func LoadFrame(name, path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MissingFrameError{Name: name, Path: path, Err: err}
	}
	return Decode(path, data)
}

// LoadData reads and decodes the data document at path.
func LoadData(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &MissingDataError{Path: path, Err: err}
	}
	return Decode(path, data)
}

// Decode parses data as exactly one JSON value. path is used for error
// messages only.
func Decode(path string, data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedJSONError{Path: path, Err: errors.New("empty document")}
		}
		return nil, malformed(path, data, err)
	}

	// Anything but whitespace after the value is an error.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, malformed(path, data, err)
	}
	return v, nil
}

func malformed(path string, data []byte, err error) error {
	out := &MalformedJSONError{Path: path, Err: err}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		offset    int64 = -1
	)
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	case errors.Is(err, io.ErrUnexpectedEOF):
		offset = int64(len(data))
	}
	if offset >= 0 {
		out.Line, out.Column = position(data, offset)
	}
	return out
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n') - 1
	if col < 1 {
		col = 1
	}
	return line, col
}

// ListFrames returns the sorted names of all frame documents in dir, that is
// every regular file ending in ext whose stem ValidateFrameName accepts.
func ListFrames(dir, ext string) ([]string, error) {
	if ext == "" {
		return nil, errors.New("list frames: frame extension is empty")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list frames in %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if ValidateFrameName(name, ext) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
