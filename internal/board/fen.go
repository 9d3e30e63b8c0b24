package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Variant starting positions. Hands go in brackets after the board field,
// promoted pieces carry a '~' suffix (the lichess/BPGN convention).
const (
	hordeStartFEN     = "rnbqkbnr/pppppppp/8/1PP2PP1/PPPPPPPP/PPPPPPPP/PPPPPPPP/PPPPPPPP w kq - 0 1"
	raceStartFEN      = "8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w - - 0 1"
	houseStartFEN     = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	placementStartFEN = "8/pppppppp/8/8/8/8/PPPPPPPP/8[KQRRBBNNkqrrbbnn] w - - 0 1"
	antiStartFEN      = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
)

// VariantStartFEN returns the starting FEN for a variant.
func VariantStartFEN(v Variant) string {
	switch v {
	case VariantHorde:
		return hordeStartFEN
	case VariantRace:
		return raceStartFEN
	case VariantCrazyhouse:
		return houseStartFEN
	case VariantPlacement:
		return placementStartFEN
	case VariantAnti:
		return antiStartFEN
	}
	return StartFEN
}

// ParseFEN parses a FEN string as a standard-chess position.
func ParseFEN(fen string) (*Position, error) {
	return ParseVariantFEN(fen, VariantStandard)
}

// ParseVariantFEN parses a FEN string under the given variant's conventions.
// The board field may carry a bracketed hand ("...R[QRq]") and '~' promoted
// markers.
func ParseVariantFEN(fen string, v Variant) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 2 {
		return nil, fmt.Errorf("invalid FEN: %q", fen)
	}

	p := &Position{}
	p.Clear()
	p.Variant = v

	boardField := fields[0]

	// Split off the hand, if any
	if i := strings.IndexByte(boardField, '['); i >= 0 {
		if !strings.HasSuffix(boardField, "]") {
			return nil, fmt.Errorf("invalid hand in FEN: %q", fen)
		}
		hand := boardField[i+1 : len(boardField)-1]
		boardField = boardField[:i]
		for j := 0; j < len(hand); j++ {
			pc := PieceFromChar(hand[j])
			if pc == NoPiece {
				return nil, fmt.Errorf("invalid hand piece %q in FEN: %q", hand[j], fen)
			}
			p.Hands[pc.Color()][pc.Type()]++
		}
	}

	ranks := strings.Split(boardField, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid board in FEN: %q", fen)
	}

	for rankIdx, rankStr := range ranks {
		rank := 7 - rankIdx
		file := 0
		for i := 0; i < len(rankStr); i++ {
			ch := rankStr[i]
			switch {
			case ch >= '1' && ch <= '8':
				file += int(ch - '0')
			case ch == '~':
				if file == 0 {
					return nil, fmt.Errorf("misplaced promotion marker in FEN: %q", fen)
				}
				p.Promoted |= SquareBB(NewSquare(file-1, rank))
			default:
				pc := PieceFromChar(ch)
				if pc == NoPiece || file > 7 {
					return nil, fmt.Errorf("invalid board in FEN: %q", fen)
				}
				p.setPiece(pc, NewSquare(file, rank))
				file++
			}
		}
		if file != 8 {
			return nil, fmt.Errorf("rank %d malformed in FEN: %q", rank+1, fen)
		}
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move in FEN: %q", fen)
	}

	if len(fields) > 2 && fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.CastlingRights |= WhiteKingSideCastle
			case 'Q':
				p.CastlingRights |= WhiteQueenSideCastle
			case 'k':
				p.CastlingRights |= BlackKingSideCastle
			case 'q':
				p.CastlingRights |= BlackQueenSideCastle
			default:
				return nil, fmt.Errorf("invalid castling rights in FEN: %q", fen)
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square in FEN: %q", fen)
		}
		p.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid halfmove clock in FEN: %q", fen)
		}
		p.HalfMoveClock = n
	}

	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid fullmove number in FEN: %q", fen)
		}
		p.FullMoveNumber = n
	}

	p.updateOccupied()
	p.findKings()
	p.Hash = p.computeHash()
	p.UpdateCheckers()

	return p, nil
}

// FEN serializes the position. Hands are emitted for the drop variants even
// when empty, matching the variant start FENs.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			pc := p.PieceAt(sq)
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(pc.String())
			if p.Promoted.IsSet(sq) {
				sb.WriteByte('~')
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.IsHouse() {
		sb.WriteByte('[')
		for c := White; c <= Black; c++ {
			for pt := King; ; pt-- {
				for n := int8(0); n < p.Hands[c][pt]; n++ {
					sb.WriteString(NewPiece(pt, c).String())
				}
				if pt == Pawn {
					break
				}
			}
		}
		sb.WriteByte(']')
	}

	if p.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteString(fmt.Sprintf(" %d %d", p.HalfMoveClock, p.FullMoveNumber))

	return sb.String()
}
