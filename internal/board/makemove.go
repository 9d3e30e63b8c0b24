package board

import "log"

// UndoInfo snapshots the state MakeMove cannot cheaply recompute. Restoring
// from the snapshot keeps unmake trivially correct across every variant
// effect (explosions, hand traffic, promoted demotions).
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
	KingSquare     [2]Square
	Pieces         [2][6]Bitboard
	Occupied       [2]Bitboard
	AllOccupied    Bitboard
	Hands          [2][6]int8
	Promoted       Bitboard
	Valid          bool
}

// castlingRightsMask clears the rights affected when a square is vacated,
// captured on, or exploded.
var castlingRightsMask [64]CastlingRights

func init() {
	castlingRightsMask[A1] = WhiteQueenSideCastle
	castlingRightsMask[H1] = WhiteKingSideCastle
	castlingRightsMask[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	castlingRightsMask[A8] = BlackQueenSideCastle
	castlingRightsMask[H8] = BlackKingSideCastle
	castlingRightsMask[E8] = BlackKingSideCastle | BlackQueenSideCastle
}

// IsCapture reports whether the move takes a piece (en passant included).
func (p *Position) IsCapture(m Move) bool {
	if m.IsEnPassant() {
		return true
	}
	if m.IsDrop() || m.IsCastling() {
		return false
	}
	return p.AllOccupied.IsSet(m.To())
}

// MakeMove applies a move and returns undo information. The move must come
// from the generator for the current position; structurally impossible moves
// are rejected with Valid=false rather than corrupting the position.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		KingSquare:     p.KingSquare,
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		AllOccupied:    p.AllOccupied,
		Hands:          p.Hands,
		Promoted:       p.Promoted,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	rebuildHash := false

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	switch m.Kind() {
	case KindDrop:
		pc := m.DropPiece()
		if pc.Color() != us || p.Hands[us][pc.Type()] == 0 || !p.IsEmpty(to) {
			p.restore(m, &undo)
			return undo
		}
		undo.Valid = true
		p.takeFromHand(us, pc.Type())
		p.setPiece(pc, to)
		p.Hash ^= zobristPiece[us][pc.Type()][to]

	case KindCastling:
		piece := p.PieceAt(from)
		if piece == NoPiece || piece.Type() != King || piece.Color() != us {
			p.restore(m, &undo)
			return undo
		}
		undo.Valid = true
		kingSide := to > from
		rank := from.Rank()
		kingTo, rookTo := NewSquare(6, rank), NewSquare(5, rank)
		if !kingSide {
			kingTo, rookTo = NewSquare(2, rank), NewSquare(3, rank)
		}
		// to is the rook square; lift both pieces before replacing so the
		// chess960-style encoding tolerates overlaps.
		p.removePiece(from)
		p.removePiece(to)
		p.setPiece(NewPiece(King, us), kingTo)
		p.setPiece(NewPiece(Rook, us), rookTo)
		p.Hash ^= zobristPiece[us][King][from] ^ zobristPiece[us][King][kingTo]
		p.Hash ^= zobristPiece[us][Rook][to] ^ zobristPiece[us][Rook][rookTo]
		p.CastlingRights &^= castlingRightsMask[from] | KingSideRights(us) | QueenSideRights(us)

	default:
		piece := p.PieceAt(from)
		if piece == NoPiece || piece.Color() != us {
			if DebugMoveValidation {
				log.Printf("makemove: no %v piece on %v for move %v hash=%x", us, from, m, p.Hash)
			}
			p.restore(m, &undo)
			return undo
		}
		undo.Valid = true
		pt := piece.Type()

		// Captures
		capSq := to
		if m.IsEnPassant() {
			capSq = to.Sub(PawnPush(us))
		}
		if captured := p.PieceAt(capSq); captured != NoPiece {
			undo.CapturedPiece = captured
			handType := captured.Type()
			if p.Promoted.IsSet(capSq) {
				handType = Pawn
			}
			p.removePiece(capSq)
			p.Hash ^= zobristPiece[them][captured.Type()][capSq]
			if p.Variant == VariantCrazyhouse {
				p.addToHand(us, handType)
			}
			p.CastlingRights &^= castlingRightsMask[capSq]
		}

		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from] ^ zobristPiece[us][pt][to]

		if m.IsPromotion() {
			promo := m.Promotion()
			p.Pieces[us][Pawn] &^= SquareBB(to)
			p.Pieces[us][promo] |= SquareBB(to)
			p.Hash ^= zobristPiece[us][Pawn][to] ^ zobristPiece[us][promo][to]
			if promo == King {
				p.KingSquare[us] = p.Pieces[us][King].LSB()
			}
			if p.Variant == VariantCrazyhouse {
				p.Promoted |= SquareBB(to)
			}
		}

		if p.IsAtomic() && undo.CapturedPiece != NoPiece {
			p.explode(to)
			rebuildHash = true
		}

		p.CastlingRights &^= castlingRightsMask[from] | castlingRightsMask[to]

		// A double push from the pawn's home rank opens en passant. Horde
		// back-rank double steps do not: their midpoint is not a capturable
		// en passant square.
		if pt == Pawn && abs(int(to)-int(from)) == 16 && from.RelativeRank(us) == 1 {
			ep := Square((int(from) + int(to)) / 2)
			p.EnPassant = ep
			p.Hash ^= zobristEnPassant[ep.File()]
		}

		if pt == Pawn || undo.CapturedPiece != NoPiece {
			p.HalfMoveClock = 0
		} else {
			p.HalfMoveClock++
		}
	}

	if m.IsCastling() || (m.IsDrop() && m.DropPiece().Type() != Pawn) {
		p.HalfMoveClock++
	} else if m.IsDrop() {
		p.HalfMoveClock = 0
	}

	p.Hash ^= zobristCastling[p.CastlingRights]

	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = them
	if rebuildHash {
		// The explosion touches up to nine squares; rebuild instead of
		// tracking each key.
		p.Hash = p.computeHash()
	}
	p.UpdateCheckers()

	return undo
}

// restore rewinds a half-applied move; used on structural rejection.
func (p *Position) restore(m Move, undo *UndoInfo) {
	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.Pieces = undo.Pieces
	p.Occupied = undo.Occupied
	p.AllOccupied = undo.AllOccupied
	p.Hands = undo.Hands
	p.Promoted = undo.Promoted
	if DebugMoveValidation {
		log.Printf("makemove: rejected %v", m)
	}
}

// UnmakeMove undoes a move using the stored undo information.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	us := p.SideToMove.Other()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.Pieces = undo.Pieces
	p.Occupied = undo.Occupied
	p.AllOccupied = undo.AllOccupied
	p.Hands = undo.Hands
	p.Promoted = undo.Promoted
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}
}

// explode removes the capturing piece and every non-pawn piece adjacent to
// the capture square. The capture itself has already been resolved.
func (p *Position) explode(to Square) {
	p.removePiece(to)
	blast := kingAttacks[to]
	for bb := blast & p.AllOccupied; bb != 0; {
		sq := bb.PopLSB()
		if pc := p.PieceAt(sq); pc != NoPiece && pc.Type() != Pawn {
			p.removePiece(sq)
			p.CastlingRights &^= castlingRightsMask[sq]
		}
	}
	p.CastlingRights &^= castlingRightsMask[to]
}

func (p *Position) addToHand(c Color, pt PieceType) {
	p.Hash ^= zobristHand[c][pt][p.Hands[c][pt]]
	p.Hands[c][pt]++
	p.Hash ^= zobristHand[c][pt][p.Hands[c][pt]]
}

func (p *Position) takeFromHand(c Color, pt PieceType) {
	p.Hash ^= zobristHand[c][pt][p.Hands[c][pt]]
	p.Hands[c][pt]--
	p.Hash ^= zobristHand[c][pt][p.Hands[c][pt]]
}
