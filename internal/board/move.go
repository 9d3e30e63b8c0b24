package board

import "fmt"

// Move encodes a move in 19 bits of a uint32:
// bits 0-5:   from square (unused for drops)
// bits 6-11:  to square
// bits 12-14: piece type payload (promotion piece, or dropped piece type)
// bits 15-17: kind (normal, promotion, en passant, castling, drop)
// bit  18:    dropped piece color
//
// Castling is encoded king-from, rook-to: the destination square is the
// rook's square. Comparison is by full value.
type Move uint32

// MoveKind distinguishes the special-move encodings.
type MoveKind uint8

const (
	KindNormal MoveKind = iota
	KindPromotion
	KindEnPassant
	KindCastling
	KindDrop
)

const (
	moveKindShift  = 15
	movePieceShift = 12
	moveDropColor  = 1 << 18
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move. All of Knight..King are valid
// promotion targets (antichess and extinction promote to king).
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo)<<movePieceShift | Move(KindPromotion)<<moveKindShift
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(KindEnPassant)<<moveKindShift
}

// NewCastling creates a castling move: from is the king's start square, to
// is the castling rook's square.
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(KindCastling)<<moveKindShift
}

// NewDrop creates a crazyhouse drop of the given piece onto to.
func NewDrop(pc Piece, to Square) Move {
	m := Move(to)<<6 | Move(pc.Type())<<movePieceShift | Move(KindDrop)<<moveKindShift
	if pc.Color() == Black {
		m |= moveDropColor
	}
	return m
}

// From returns the origin square. Meaningless for drops.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Kind returns the move kind.
func (m Move) Kind() MoveKind {
	return MoveKind((m >> moveKindShift) & 7)
}

// Promotion returns the promotion piece type (valid only for promotions).
func (m Move) Promotion() PieceType {
	return PieceType((m >> movePieceShift) & 7)
}

// DropPiece returns the dropped piece (valid only for drops).
func (m Move) DropPiece() Piece {
	c := White
	if m&moveDropColor != 0 {
		c = Black
	}
	return NewPiece(PieceType((m>>movePieceShift)&7), c)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Kind() == KindPromotion
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Kind() == KindCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Kind() == KindEnPassant
}

// IsDrop returns true if this is a crazyhouse drop.
func (m Move) IsDrop() bool {
	return m.Kind() == KindDrop
}

// String returns the UCI form of the move ("e2e4", "e7e8q", "N@f3").
// Castling prints king-from, rook-to ("e1h1"), the chess960-style form.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	if m.IsDrop() {
		chars := "PNBRQK"
		return fmt.Sprintf("%c@%s", chars[m.DropPiece().Type()], m.To())
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		chars := "pnbrqk"
		s += string(chars[m.Promotion()])
	}
	return s
}

// MoveList is a fixed-capacity, append-only move buffer. The capacity covers
// the drop variants, where hand pieces push the bound well past the 256 of
// standard chess. The generator appends and never allocates.
type MoveList struct {
	moves [1024]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Truncate shortens the list to n moves.
func (ml *MoveList) Truncate(n int) {
	ml.count = n
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list's buffer.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// remove drops the move at index i by swapping in the last element. Used by
// the legal filter; the list is unordered by contract.
func (ml *MoveList) remove(i int) {
	ml.count--
	ml.moves[i] = ml.moves[ml.count]
}
