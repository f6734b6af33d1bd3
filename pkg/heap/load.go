package heap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/heap/residual"
)

// LoadStrings reads candidate strings from path. A file whose first
// non-space byte is '[' is decoded as a JSON array of strings; anything else
// is read as one candidate per line, with blank lines skipped.
func LoadStrings(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load strings: %w", err)
	}
	return ParseStrings(data)
}

// ParseStrings is LoadStrings for in-memory content.
func ParseStrings(data []byte) ([][]byte, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("load strings: %w", err)
		}
		out := make([][]byte, len(list))
		for i, s := range list {
			out[i] = []byte(s)
		}
		return out, nil
	}

	var out [][]byte
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		out = append(out, []byte(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load strings: %w", err)
	}
	return out, nil
}

// LoadExpectations reads residual expectations from a JSON or YAML file. The
// format follows the extension; ".json" is JSON, anything else is YAML (which
// also accepts JSON).
func LoadExpectations(path string) ([]residual.Expectation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load expectations: %w", err)
	}

	var out []residual.Expectation
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &out)
	} else {
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("load expectations %s: %w", path, err)
	}
	for i, e := range out {
		if e.Offset < 0 || e.Offset > 0xFFFF {
			return nil, fmt.Errorf("load expectations %s: entry %d: offset %d out of range", path, i, e.Offset)
		}
	}
	return out, nil
}
