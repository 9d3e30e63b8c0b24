package board

// Legal is the variant-aware legality oracle. It accepts a pseudo-legal move
// for the current position and decides whether the active variant permits it.
// The LEGAL generator calls it only on moves that can actually be illegal
// (pinned source, king move, en passant, atomic capture, validate-everything
// variants); it is nevertheless safe on any pseudo-legal move.
func (p *Position) Legal(m Move) bool {
	switch {
	case p.IsAnti() || p.IsExtinction():
		// No check concept: every pseudo-legal move stands.
		return true
	case p.IsAtomic():
		return p.atomicLegal(m)
	case p.IsRace():
		return p.raceLegal(m)
	case p.IsGrid():
		return p.gridLegal(m)
	case p.IsTwoKings():
		return p.appliedKingSafe(m)
	case p.IsHordeColor(p.SideToMove):
		// The army has no king to expose.
		return true
	default:
		return p.standardLegal(m)
	}
}

// standardLegal covers standard chess and the variants that keep its check
// rules (crazyhouse, placement, losers, the king side of horde). It avoids
// make/unmake on the common paths, Stockfish-style.
func (p *Position) standardLegal(m Move) bool {
	if m.IsDrop() {
		// Drops land on empty squares and move nothing; in check they are
		// only generated onto blocking squares.
		return true
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	ksq := p.KingSquare[us]

	if m.IsEnPassant() {
		return p.enPassantLegal(m)
	}

	if m.IsCastling() {
		// The king must not castle out of, through, or into check.
		if p.Checkers != 0 {
			return false
		}
		right := KingSideRights(us)
		if to < from {
			right = QueenSideRights(us)
		}
		path := castlingKingPath[right]
		for path != 0 {
			if p.IsSquareAttacked(path.PopLSB(), them) {
				return false
			}
		}
		return true
	}

	if from == ksq {
		// King step: test the destination with the king lifted off.
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(to, them, occ) == 0
	}

	if p.Checkers != 0 {
		// Non-king move while in check: must capture or block the single
		// checker (double check never reaches here from the generator).
		if p.Checkers.MoreThanOne() {
			return false
		}
		checksq := p.Checkers.LSB()
		if (Between(checksq, ksq)|SquareBB(checksq))&SquareBB(to) == 0 {
			return false
		}
	}

	// Pinned pieces may only slide along the pin ray.
	pinned := p.BlockersForKing(us) & p.Occupied[us]
	return pinned&SquareBB(from) == 0 || Aligned(from, to, ksq)
}

// enPassantLegal simulates the capture, which removes two pawns from the
// king's ranks at once and can uncover a hidden attacker.
func (p *Position) enPassantLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	capSq := to.Sub(PawnPush(us))
	ksq := p.KingSquare[us]
	if ksq == NoSquare {
		return true
	}

	occ := (p.AllOccupied &^ SquareBB(from) &^ SquareBB(capSq)) | SquareBB(to)

	attackers := (pawnAttacksBB[us][ksq] & p.Pieces[them][Pawn] &^ SquareBB(capSq)) |
		(knightAttacks[ksq] & p.Pieces[them][Knight]) |
		(kingAttacks[ksq] & p.Pieces[them][King]) |
		(BishopAttacks(ksq, occ) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen])) |
		(RookAttacks(ksq, occ) & (p.Pieces[them][Rook] | p.Pieces[them][Queen]))
	return attackers == 0
}

// atomicLegal applies the move (explosions included) to a scratch copy and
// reads the outcome: a surviving own king, or a vanished enemy king.
func (p *Position) atomicLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()

	// Kings never capture: the explosion would take them along.
	if p.IsCapture(m) && p.Pieces[us][King].IsSet(m.From()) {
		return false
	}

	scratch := *p
	if undo := scratch.MakeMove(m); !undo.Valid {
		return false
	}

	if scratch.Pieces[us][King] == 0 {
		return false
	}
	if scratch.Pieces[them][King] == 0 {
		return true
	}

	ksq := scratch.KingSquare[us]
	// Adjacent kings shield each other; no check applies.
	if kingAttacks[ksq]&scratch.Pieces[them][King] != 0 {
		return true
	}
	return scratch.AttackersByColor(ksq, them, scratch.AllOccupied) == 0
}

// raceLegal: racing kings forbid leaving one's king attacked and equally
// forbid attacking the enemy king.
func (p *Position) raceLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()

	scratch := *p
	if undo := scratch.MakeMove(m); !undo.Valid {
		return false
	}
	if ksq := scratch.KingSquare[us]; ksq != NoSquare && scratch.AttackersByColor(ksq, them, scratch.AllOccupied) != 0 {
		return false
	}
	if ksq := scratch.KingSquare[them]; ksq != NoSquare && scratch.AttackersByColor(ksq, us, scratch.AllOccupied) != 0 {
		return false
	}
	return true
}

// gridLegal: a move must cross a grid line, and the grid-masked attack rules
// decide self-check.
func (p *Position) gridLegal(m Move) bool {
	if !m.IsDrop() && !m.IsCastling() && gridCells[m.From()].IsSet(m.To()) {
		return false
	}
	return p.appliedKingSafe(m)
}

// appliedKingSafe applies the move to a scratch copy and reports whether the
// mover's primary king is safe afterwards. AttackersByColor already folds in
// the grid visibility rules when they apply.
func (p *Position) appliedKingSafe(m Move) bool {
	us := p.SideToMove

	scratch := *p
	if undo := scratch.MakeMove(m); !undo.Valid {
		return false
	}
	ksq := scratch.KingSquare[us]
	if ksq == NoSquare {
		return true
	}
	return scratch.AttackersByColor(ksq, us.Other(), scratch.AllOccupied) == 0
}
