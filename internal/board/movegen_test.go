package board

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveStrings(ml *MoveList) []string {
	out := make([]string, 0, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		out = append(out, ml.Get(i).String())
	}
	sort.Strings(out)
	return out
}

func generateStrings(t *testing.T, pos *Position, gt GenType) []string {
	t.Helper()
	ml := NewMoveList()
	Generate(gt, pos, ml)
	return moveStrings(ml)
}

func mustParse(t *testing.T, fen string, v Variant) *Position {
	t.Helper()
	pos, err := ParseVariantFEN(fen, v)
	require.NoError(t, err)
	return pos
}

func TestStartPositionNonEvasions(t *testing.T) {
	pos := NewPosition()
	ml := NewMoveList()
	Generate(GenNonEvasions, pos, ml)

	require.Equal(t, 20, ml.Len())

	pawnMoves, knightMoves := 0, 0
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		switch pos.PieceAt(m.From()).Type() {
		case Pawn:
			pawnMoves++
		case Knight:
			knightMoves++
		default:
			t.Errorf("unexpected mover for %v", m)
		}
	}
	assert.Equal(t, 16, pawnMoves)
	assert.Equal(t, 4, knightMoves)
}

// TestPartitionInvariant: captures and quiets partition the non-evasions for
// positions not in check, across several variants.
func TestPartitionInvariant(t *testing.T) {
	cases := []struct {
		fen     string
		variant Variant
	}{
		{StartFEN, VariantStandard},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", VariantStandard},
		{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", VariantStandard},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[Np] w KQkq - 0 1", VariantCrazyhouse},
		{"8/8/8/8/8/8/8/K6k w - - 0 1", VariantRace},
		{"1k6/8/8/8/8/6p1/7P/K7 w - - 0 1", VariantLosers},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1", VariantAnti},
	}

	for _, tc := range cases {
		pos := mustParse(t, tc.fen, tc.variant)
		require.Zero(t, pos.Checkers, "fen %q unexpectedly in check", tc.fen)

		captures := generateStrings(t, pos, GenCaptures)
		quiets := generateStrings(t, pos, GenQuiets)
		all := generateStrings(t, pos, GenNonEvasions)

		union := append(append([]string{}, captures...), quiets...)
		sort.Strings(union)
		assert.Equal(t, all, union, "partition broken for %q (%v)", tc.fen, tc.variant)
	}
}

// TestNoOwnCapture: no emitted move lands on an own piece, castling's
// rook-square encoding excepted.
func TestNoOwnCapture(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen, VariantStandard)
		us := pos.SideToMove
		for _, gt := range []GenType{GenCaptures, GenQuiets, GenNonEvasions, GenLegal} {
			ml := NewMoveList()
			Generate(gt, pos, ml)
			for i := 0; i < ml.Len(); i++ {
				m := ml.Get(i)
				if m.IsCastling() {
					continue
				}
				assert.False(t, pos.Occupied[us].IsSet(m.To()),
					"%v lands on own piece (fen %q mode %d)", m, fen, gt)
			}
		}
	}
}

// TestLegalSubsetOfPseudoLegal: every legal move is reachable from the
// pseudo-legal generator matching the position's check status.
func TestLegalSubsetOfPseudoLegal(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"4r1k1/8/8/8/8/8/8/4K3 w - - 0 1", // in check
	}

	for _, fen := range fens {
		pos := mustParse(t, fen, VariantStandard)
		pseudo := NewMoveList()
		if pos.InCheck() {
			Generate(GenEvasions, pos, pseudo)
		} else {
			Generate(GenNonEvasions, pos, pseudo)
		}

		legal := pos.GenerateLegalMoves()
		for i := 0; i < legal.Len(); i++ {
			assert.True(t, pseudo.Contains(legal.Get(i)),
				"legal move %v missing from pseudo-legal set (fen %q)", legal.Get(i), fen)
		}
	}
}

// TestPromotionModes: queen promotions ride with the captures, the
// underpromotions with the quiets.
func TestPromotionModes(t *testing.T) {
	pos := mustParse(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", VariantStandard)

	captures := generateStrings(t, pos, GenCaptures)
	assert.Equal(t, []string{"a7a8q"}, captures)

	quiets := generateStrings(t, pos, GenQuiets)
	for _, m := range []string{"a7a8r", "a7a8b", "a7a8n"} {
		assert.Contains(t, quiets, m)
	}
	assert.NotContains(t, quiets, "a7a8q")

	all := generateStrings(t, pos, GenNonEvasions)
	for _, m := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n"} {
		assert.Contains(t, all, m)
	}
}

// TestCastlingEmission: the K-side castle appears alongside the ordinary
// king and rook moves, encoded king-from rook-to.
func TestCastlingEmission(t *testing.T) {
	pos := mustParse(t, "8/8/8/8/8/8/4P3/4K2R w K - 0 1", VariantStandard)

	legal := generateStrings(t, pos, GenLegal)
	expected := []string{
		"e2e3", "e2e4",
		"e1d1", "e1f1", "e1d2", "e1f2",
		"h1f1", "h1g1", "h1h2", "h1h3", "h1h4", "h1h5", "h1h6", "h1h7", "h1h8",
		"e1h1", // O-O
	}
	sort.Strings(expected)
	assert.Equal(t, expected, legal)
}

// TestCastlingBlocked: rights without a clear path emit nothing, and a
// crossed square under attack fails the oracle.
func TestCastlingBlocked(t *testing.T) {
	// Bishop on f1 blocks the path
	pos := mustParse(t, "4k3/8/8/8/8/8/8/4KB1R w K - 0 1", VariantStandard)
	assert.NotContains(t, generateStrings(t, pos, GenLegal), "e1h1")

	// Rook eyes g1: castling would land on an attacked square
	pos = mustParse(t, "4k1r1/8/8/8/8/8/8/4K2R w K - 0 1", VariantStandard)
	ml := pos.GeneratePseudoLegalMoves()
	assert.True(t, ml.Contains(NewCastling(E1, H1)), "pseudo-legal list should carry the castle")
	assert.NotContains(t, generateStrings(t, pos, GenLegal), "e1h1")
}

// TestEvasionEnPassant: the en passant capture evades only when the checker
// is the double-pushed pawn itself.
func TestEvasionEnPassant(t *testing.T) {
	// Check from the rook on the a-file: EP does not address it
	pos := mustParse(t, "r3k3/8/8/K1pP4/8/8/8/8 w - c6 0 1", VariantStandard)
	require.NotZero(t, pos.Checkers)
	evasions := generateStrings(t, pos, GenEvasions)
	assert.NotContains(t, evasions, "d5c6")

	// Check from the double-pushed pawn: EP captures the checker
	pos = mustParse(t, "4k3/8/8/2pP4/1K6/8/8/8 w - c6 0 1", VariantStandard)
	require.NotZero(t, pos.Checkers)
	evasions = generateStrings(t, pos, GenEvasions)
	assert.Contains(t, evasions, "d5c6")
	assert.Contains(t, generateStrings(t, pos, GenLegal), "d5c6")
}

// TestDoubleCheckOnlyKingMoves: under double check every evasion starts at
// the king square.
func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	pos := mustParse(t, "4r3/8/8/8/8/3n4/8/4K3 w - - 0 1", VariantStandard)
	require.True(t, pos.Checkers.MoreThanOne(), "expected a double check")

	ml := NewMoveList()
	Generate(GenEvasions, pos, ml)
	require.NotZero(t, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		assert.Equal(t, E1, ml.Get(i).From(), "non-king evasion %v under double check", ml.Get(i))
	}
}

// TestEvasionShape: every evasion moves the king, blocks, or captures the
// lone checker.
func TestEvasionShape(t *testing.T) {
	pos := mustParse(t, "4r1k1/8/8/8/8/8/3B4/4K3 w - - 0 1", VariantStandard)
	require.NotZero(t, pos.Checkers)
	checksq := pos.Checkers.LSB()
	ksq := pos.KingSquare[White]
	blockOrCapture := Between(checksq, ksq) | SquareBB(checksq)

	ml := NewMoveList()
	Generate(GenEvasions, pos, ml)
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m.From() == ksq {
			continue
		}
		assert.True(t, blockOrCapture.IsSet(m.To()), "evasion %v neither blocks nor captures", m)
	}
}

// TestQuietChecksDiscovered: a blocker stepping off the shared ray delivers
// the hidden check; every quiet move off the file qualifies.
func TestQuietChecksDiscovered(t *testing.T) {
	pos := mustParse(t, "4k3/8/8/8/4N3/8/8/4RK2 w - - 0 1", VariantStandard)
	require.Zero(t, pos.Checkers)

	checks := generateStrings(t, pos, GenQuietChecks)
	expected := []string{
		"e4c3", "e4c5", "e4d2", "e4d6", "e4f2", "e4f6", "e4g3", "e4g5",
	}
	sort.Strings(expected)
	assert.Equal(t, expected, checks)
}

// TestQuietChecksDirect: pieces reach the check squares without capturing.
func TestQuietChecksDirect(t *testing.T) {
	pos := mustParse(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", VariantStandard)

	checks := generateStrings(t, pos, GenQuietChecks)
	// Only rook slides onto the e-file or the 8th rank give check. The own
	// king on e1 keeps the rook off the e-file, so Ra8 along the back rank
	// is its only check.
	assert.Contains(t, checks, "a1a8")
	for _, m := range checks {
		assert.NotEqual(t, "a1a2", m, "a1a2 gives no check")
	}
}

// TestQuietCheckKnightPromotion: the knight underpromotion is kept in quiet
// checks only when it checks directly.
func TestQuietCheckKnightPromotion(t *testing.T) {
	// A knight on c8 attacks a7, b6, d6 and e7; the king on e7 is hit, so
	// the promotion counts.
	pos := mustParse(t, "8/2P1k3/8/8/8/8/8/4K3 w - - 0 1", VariantStandard)
	checks := generateStrings(t, pos, GenQuietChecks)
	assert.Contains(t, checks, "c7c8n")

	// Far king: no direct knight check, no promotion among quiet checks
	pos = mustParse(t, "8/2P5/8/8/8/8/8/4K2k w - - 0 1", VariantStandard)
	checks = generateStrings(t, pos, GenQuietChecks)
	assert.NotContains(t, checks, "c7c8n")
}

// TestLegalClosure: make/unmake agrees with the legal list — a legal move
// never leaves the mover's king attacked.
func TestLegalClosure(t *testing.T) {
	fens := []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen, VariantStandard)
		us := pos.SideToMove
		them := us.Other()

		ml := pos.GenerateLegalMoves()
		for i := 0; i < ml.Len(); i++ {
			m := ml.Get(i)
			undo := pos.MakeMove(m)
			require.True(t, undo.Valid, "legal move %v rejected by MakeMove", m)
			ksq := pos.KingSquare[us]
			assert.Zero(t, pos.AttackersByColor(ksq, them, pos.AllOccupied),
				"legal move %v leaves the king attacked (fen %q)", m, fen)
			pos.UnmakeMove(m, undo)
		}
	}
}

// TestMakeUnmakeHash: the incrementally maintained hash matches a from-
// scratch recomputation across make/unmake.
func TestMakeUnmakeHash(t *testing.T) {
	cases := []struct {
		fen     string
		variant Variant
	}{
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", VariantStandard},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[Np] w KQkq - 0 1", VariantCrazyhouse},
	}

	for _, tc := range cases {
		pos := mustParse(t, tc.fen, tc.variant)
		before := pos.Hash
		ml := pos.GenerateLegalMoves()
		for i := 0; i < ml.Len(); i++ {
			m := ml.Get(i)
			undo := pos.MakeMove(m)
			require.True(t, undo.Valid)
			assert.Equal(t, pos.computeHash(), pos.Hash, "incremental hash diverged after %v", m)
			pos.UnmakeMove(m, undo)
			assert.Equal(t, before, pos.Hash, "hash not restored after %v", m)
		}
	}
}

// TestGeneratorIsPure: generating moves does not mutate the position.
func TestGeneratorIsPure(t *testing.T) {
	pos := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", VariantStandard)
	snapshot := *pos

	for _, gt := range []GenType{GenCaptures, GenQuiets, GenNonEvasions, GenQuietChecks, GenLegal} {
		ml := NewMoveList()
		Generate(gt, pos, ml)
	}

	assert.Equal(t, snapshot, *pos)
}
