// Package suite loads perft verification suites. Two formats are accepted:
// YAML suite files and the classic EPD perft line
// ("<fen>; D1 20; D2 400; D3 8902").
package suite

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one position with its expected node counts per depth.
type Entry struct {
	Name    string        `yaml:"name,omitempty"`
	Variant string        `yaml:"variant,omitempty"`
	FEN     string        `yaml:"fen"`
	Depths  map[int]int64 `yaml:"depths"`
}

// Suite is an ordered list of perft entries.
type Suite struct {
	Entries []Entry `yaml:"entries"`
}

// MaxDepth returns the deepest expectation of an entry, 0 when empty.
func (e *Entry) MaxDepth() int {
	max := 0
	for d := range e.Depths {
		if d > max {
			max = d
		}
	}
	return max
}

// SortedDepths returns the entry's depths in ascending order.
func (e *Entry) SortedDepths() []int {
	depths := make([]int, 0, len(e.Depths))
	for d := range e.Depths {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	return depths
}

// Load reads a suite file, YAML or EPD, picking the format by extension
// (.epd means EPD; everything else parses as YAML).
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".epd") {
		return ParseEPD(string(data))
	}
	return ParseYAML(data)
}

// ParseYAML parses a YAML suite document.
func ParseYAML(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite: %w", err)
	}
	for i := range s.Entries {
		if err := s.Entries[i].validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// ParseEPD parses EPD perft lines. Empty lines and '#' comments are skipped;
// every remaining line must carry at least one "D<n> <nodes>" opcode.
func ParseEPD(text string) (*Suite, error) {
	var s Suite
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := ParseEPDLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		s.Entries = append(s.Entries, entry)
	}
	return &s, nil
}

// ParseEPDLine parses a single "<fen>; D1 20; D2 400" record.
func ParseEPDLine(line string) (Entry, error) {
	parts := strings.Split(line, ";")
	entry := Entry{
		FEN:    strings.TrimSpace(parts[0]),
		Depths: make(map[int]int64),
	}
	if entry.FEN == "" {
		return entry, fmt.Errorf("missing FEN")
	}

	for _, op := range parts[1:] {
		fields := strings.Fields(op)
		if len(fields) != 2 || !strings.HasPrefix(fields[0], "D") {
			return entry, fmt.Errorf("malformed opcode %q", strings.TrimSpace(op))
		}
		depth, err := strconv.Atoi(fields[0][1:])
		if err != nil || depth < 1 {
			return entry, fmt.Errorf("bad depth in opcode %q", fields[0])
		}
		nodes, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return entry, fmt.Errorf("bad node count in opcode %q", strings.TrimSpace(op))
		}
		entry.Depths[depth] = nodes
	}

	if err := entry.validate(); err != nil {
		return entry, err
	}
	return entry, nil
}

func (e *Entry) validate() error {
	if e.FEN == "" {
		return fmt.Errorf("missing FEN")
	}
	if len(e.Depths) == 0 {
		return fmt.Errorf("no depth expectations for %q", e.FEN)
	}
	return nil
}
