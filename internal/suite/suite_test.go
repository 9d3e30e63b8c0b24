package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
entries:
  - name: startpos
    variant: standard
    fen: rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1
    depths:
      1: 20
      2: 400
      3: 8902
  - variant: racingkings
    fen: 8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w - - 0 1
    depths:
      1: 21
`

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, s.Entries, 2)

	e := s.Entries[0]
	assert.Equal(t, "startpos", e.Name)
	assert.Equal(t, "standard", e.Variant)
	assert.Equal(t, int64(8902), e.Depths[3])
	assert.Equal(t, 3, e.MaxDepth())
	assert.Equal(t, []int{1, 2, 3}, e.SortedDepths())
}

func TestParseEPD(t *testing.T) {
	text := `
# classic verification positions
rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 ; D1 20 ; D2 400
8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1 ; D1 14
`
	s, err := ParseEPD(text)
	require.NoError(t, err)
	require.Len(t, s.Entries, 2)
	assert.Equal(t, int64(400), s.Entries[0].Depths[2])
	assert.Equal(t, int64(14), s.Entries[1].Depths[1])
}

func TestParseEPDErrors(t *testing.T) {
	_, err := ParseEPD("some fen ; DX 12")
	assert.Error(t, err)

	_, err = ParseEPD("some fen ; D1 notanumber")
	assert.Error(t, err)

	_, err = ParseEPD("; D1 20")
	assert.Error(t, err)
}

func TestLoadPicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	epdPath := filepath.Join(dir, "suite.epd")
	require.NoError(t, os.WriteFile(epdPath, []byte("8/8/8/8/8/8/8/K6k w - - 0 1 ; D1 3\n"), 0o644))
	s, err := Load(epdPath)
	require.NoError(t, err)
	require.Len(t, s.Entries, 1)

	yamlPath := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	s, err = Load(yamlPath)
	require.NoError(t, err)
	require.Len(t, s.Entries, 2)
}
