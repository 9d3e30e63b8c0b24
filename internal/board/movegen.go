package board

import "log"

// GenType selects what the generator emits.
//
//	GenCaptures     pseudo-legal captures and queen promotions
//	GenQuiets       pseudo-legal non-captures and underpromotions
//	GenNonEvasions  all pseudo-legal moves
//	GenEvasions     pseudo-legal check evasions (side to move is in check)
//	GenQuietChecks  pseudo-legal non-captures giving check
//	GenLegal        all legal moves for the active variant
type GenType uint8

const (
	GenCaptures GenType = iota
	GenQuiets
	GenNonEvasions
	GenEvasions
	GenQuietChecks
	GenLegal
)

// Generate appends the moves of the given mode to ml. The position is only
// read; the caller owns the buffer. Move order within the list is
// unspecified.
func Generate(gt GenType, p *Position, ml *MoveList) {
	us := p.SideToMove

	switch gt {
	case GenCaptures, GenQuiets, GenNonEvasions:
		if DebugMoveValidation && p.Checkers != 0 {
			log.Printf("movegen: mode %d on a position in check, hash=%x", gt, p.Hash)
		}

		var target Bitboard
		switch gt {
		case GenCaptures:
			target = p.Occupied[us.Other()]
		case GenQuiets:
			target = ^p.AllOccupied
		case GenNonEvasions:
			target = ^p.Occupied[us]
		}

		// Variant overlays on the target mask
		switch {
		case p.IsAnti():
			if p.CanCapture() {
				target &= p.Occupied[us.Other()]
			}
		case p.IsAtomic():
			// Capturing next to one's own king would blow it up.
			if gt == GenCaptures || gt == GenNonEvasions {
				target &^= p.Occupied[us.Other()] & p.Pieces[us][King].Adjacent()
			}
		case p.IsLosers():
			if p.CanCaptureLosers() {
				target &= p.Occupied[us.Other()]
			}
		}

		generateAll(p, ml, us, gt, target)

	case GenEvasions:
		// Variants without evasions
		if p.IsAnti() || p.IsExtinction() || p.IsRace() {
			return
		}
		if p.IsPlacement() && p.Hands[us][King] > 0 {
			return
		}
		if DebugMoveValidation && p.Checkers == 0 {
			log.Printf("movegen: evasions on a position not in check, hash=%x", p.Hash)
		}
		generateEvasions(p, ml)

	case GenQuietChecks:
		switch {
		case p.IsAnti() || p.IsExtinction() || p.IsRace():
			return
		case p.IsHorde() && p.IsHordeColor(us.Other()):
			return
		case p.IsLosers() && p.CanCaptureLosers():
			return
		case p.IsPlacement() && p.Hands[us.Other()][King] > 0:
			return
		}
		if DebugMoveValidation && p.Checkers != 0 {
			log.Printf("movegen: quiet checks on a position in check, hash=%x", p.Hash)
		}
		generateQuietChecks(p, ml)

	case GenLegal:
		generateLegal(p, ml)
	}
}

// makePromotions expands a pawn arriving on the last rank into the
// promotion set the variant and mode call for. d is the direction the pawn
// moved; ksq is the enemy king square (NoSquare against a horde army).
func makePromotions(p *Position, ml *MoveList, gt GenType, to Square, d Direction, ksq Square) {
	from := to.Sub(d)

	if p.IsAnti() {
		if gt == GenQuiets || gt == GenCaptures || gt == GenNonEvasions {
			ml.Add(NewPromotion(from, to, Queen))
			ml.Add(NewPromotion(from, to, Rook))
			ml.Add(NewPromotion(from, to, Bishop))
			ml.Add(NewPromotion(from, to, Knight))
			ml.Add(NewPromotion(from, to, King))
		}
		return
	}
	if p.IsLosers() {
		if gt != GenQuietChecks {
			ml.Add(NewPromotion(from, to, Queen))
			ml.Add(NewPromotion(from, to, Rook))
			ml.Add(NewPromotion(from, to, Bishop))
			ml.Add(NewPromotion(from, to, Knight))
		}
		return
	}

	if gt == GenCaptures || gt == GenEvasions || gt == GenNonEvasions {
		ml.Add(NewPromotion(from, to, Queen))
	}

	if gt == GenQuiets || gt == GenEvasions || gt == GenNonEvasions {
		ml.Add(NewPromotion(from, to, Rook))
		ml.Add(NewPromotion(from, to, Bishop))
		ml.Add(NewPromotion(from, to, Knight))
		if p.IsExtinction() {
			ml.Add(NewPromotion(from, to, King))
		}
	}

	// The knight is the only promotion giving a direct check that the queen
	// promotion does not already cover.
	if gt == GenQuietChecks && ksq != NoSquare && knightAttacks[to].IsSet(ksq) {
		ml.Add(NewPromotion(from, to, Knight))
	}
}

// generatePawnMoves emits pushes, captures, promotions and en passant for
// the side us, constrained by target.
func generatePawnMoves(p *Position, ml *MoveList, us Color, gt GenType, target Bitboard) {
	them := us.Other()
	up := PawnPush(us)
	upRight, upLeft := NorthEast, NorthWest
	if us == Black {
		upRight, upLeft = SouthWest, SouthEast
	}
	tRank7 := RelativeRankBB(us, 6)
	tRank3 := RelativeRankBB(us, 2)
	tRank2 := RelativeRankBB(us, 1)

	ksq := NoSquare
	if !p.IsHordeColor(them) {
		ksq = p.KingSquare[them]
	}

	pawnsOn7 := p.Pieces[us][Pawn] & tRank7
	pawnsNotOn7 := p.Pieces[us][Pawn] &^ tRank7

	var enemies Bitboard
	switch gt {
	case GenEvasions:
		enemies = p.Occupied[them] & target
	case GenCaptures:
		enemies = target
	default:
		enemies = p.Occupied[them]
	}
	if p.IsAtomic() {
		if gt == GenCaptures || gt == GenNonEvasions {
			enemies &= target
		} else {
			enemies &^= p.Pieces[us][King].Adjacent()
		}
	}

	var empty Bitboard

	// Single and double pushes, no promotions
	if gt != GenCaptures {
		if gt == GenQuiets || gt == GenQuietChecks {
			empty = target
		} else {
			empty = ^p.AllOccupied
		}
		if p.IsAnti() {
			empty &= target
		}

		b1 := pawnsNotOn7.Shift(up) & empty
		b2 := (b1 & tRank3).Shift(up) & empty
		if p.IsHorde() {
			// The army's back-rank pawns keep the double step.
			b2 = (b1 & (tRank2 | tRank3)).Shift(up) & empty
		}

		if p.IsLosers() {
			b1 &= target
			b2 &= target
		}
		if gt == GenEvasions {
			// Only blocking squares
			b1 &= target
			b2 &= target
		}

		if gt == GenQuietChecks && ksq != NoSquare {
			b1 &= pawnAttacksBB[them][ksq]
			b2 &= pawnAttacksBB[them][ksq]

			// Pushes that give discovered check. Possible only when the
			// pawn leaves the king's file, since captures are not
			// generated here; a discovery by promotion already sits among
			// the captures.
			dcCandidates := p.BlockersForKing(them) & pawnsNotOn7
			if dcCandidates != 0 {
				dc1 := dcCandidates.Shift(up) & empty &^ FileMask[ksq.File()]
				dc2 := (dc1 & tRank3).Shift(up) & empty
				b1 |= dc1
				b2 |= dc2
			}
		}

		for b1 != 0 {
			to := b1.PopLSB()
			ml.Add(NewMove(to.Sub(up), to))
		}
		for b2 != 0 {
			to := b2.PopLSB()
			ml.Add(NewMove(to.Sub(up).Sub(up), to))
		}
	}

	// Promotions and underpromotions
	if pawnsOn7 != 0 {
		if gt == GenCaptures {
			empty = ^p.AllOccupied
			// Push promotions only if they win or explode a checker
			if p.IsAtomic() && p.Checkers != 0 {
				empty &= target
			}
		}
		if p.IsAnti() || p.IsLosers() {
			empty &= target
		}
		if gt == GenEvasions {
			empty &= target
		}

		b1 := pawnsOn7.Shift(upRight) & enemies
		b2 := pawnsOn7.Shift(upLeft) & enemies
		b3 := pawnsOn7.Shift(up) & empty

		for b1 != 0 {
			makePromotions(p, ml, gt, b1.PopLSB(), upRight, ksq)
		}
		for b2 != 0 {
			makePromotions(p, ml, gt, b2.PopLSB(), upLeft, ksq)
		}
		for b3 != 0 {
			makePromotions(p, ml, gt, b3.PopLSB(), up, ksq)
		}
	}

	// Standard and en passant captures
	if gt == GenCaptures || gt == GenEvasions || gt == GenNonEvasions {
		b1 := pawnsNotOn7.Shift(upRight) & enemies
		b2 := pawnsNotOn7.Shift(upLeft) & enemies

		for b1 != 0 {
			to := b1.PopLSB()
			ml.Add(NewMove(to.Sub(upRight), to))
		}
		for b2 != 0 {
			to := b2.PopLSB()
			ml.Add(NewMove(to.Sub(upLeft), to))
		}

		if p.EnPassant != NoSquare {
			if DebugMoveValidation && p.EnPassant.RelativeRank(us) != 5 {
				log.Printf("movegen: en passant square %v on wrong rank, hash=%x", p.EnPassant, p.Hash)
			}

			// An en passant capture can evade only when the checker is the
			// double-pushed pawn itself; anything else is a discovered
			// check that the capture cannot address.
			if gt == GenEvasions && !target.IsSet(p.EnPassant.Sub(up)) {
				return
			}

			attackers := pawnsNotOn7 & pawnAttacksBB[them][p.EnPassant]
			for attackers != 0 {
				ml.Add(NewEnPassant(attackers.PopLSB(), p.EnPassant))
			}
		}
	}
}

// generatePieceMoves emits knight, bishop, rook and queen moves. With checks
// set (quiet-check mode) it keeps only direct checks and leaves discovered
// checks to the dedicated pass.
func generatePieceMoves(p *Position, ml *MoveList, us Color, pt PieceType, checks bool, target Bitboard) {
	var checkSqs, dcExcluded Bitboard
	if checks {
		checkSqs = p.CheckSquares(pt)
		dcExcluded = p.BlockersForKing(us.Other())
	}

	pieces := p.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()

		if checks {
			if pt != Knight && pseudoAttacks[pt][from]&target&checkSqs == 0 {
				continue
			}
			// Discovered-check candidates are handled separately.
			if dcExcluded.IsSet(from) {
				continue
			}
		}

		b := PieceAttacks(pt, from, p.AllOccupied) & target
		if checks {
			b &= checkSqs
		}

		for b != 0 {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}
}

// generateKingsMoves emits plain king moves for every king the side owns.
// Used by the multi-king variants.
func generateKingsMoves(p *Position, ml *MoveList, us Color, target Bitboard) {
	kings := p.Pieces[us][King]
	for kings != 0 {
		ksq := kings.PopLSB()
		b := kingAttacks[ksq] & target
		for b != 0 {
			ml.Add(NewMove(ksq, b.PopLSB()))
		}
	}
}

// generateDrops emits drops of pt onto the squares of b. The placement
// phase constrains bishop drops so one bishop ends on each square color.
func generateDrops(p *Position, ml *MoveList, us Color, pt PieceType, checks bool, b Bitboard) {
	if p.Hands[us][pt] == 0 {
		return
	}

	if p.IsPlacement() && p.Hands[us][Bishop] > 0 {
		onDark := p.Pieces[us][Bishop]&DarkSquares != 0
		onLight := p.Pieces[us][Bishop]&LightSquares != 0
		if pt == Bishop {
			if onDark {
				b &^= DarkSquares
			}
			if onLight {
				b &= DarkSquares
			}
		} else {
			// Keep a square free for the bishop still in hand.
			if !onDark && (b&DarkSquares).PopCount() <= 1 {
				b &^= DarkSquares
			}
			if !onLight && (b&LightSquares).PopCount() <= 1 {
				b &= DarkSquares
			}
		}
	}

	if checks {
		b &= p.CheckSquares(pt)
	}

	pc := NewPiece(pt, us)
	for b != 0 {
		ml.Add(NewDrop(pc, b.PopLSB()))
	}
}

// generateAll composes the per-piece emitters for one (variant, color, mode)
// combination. target has already received the mode and variant overlays.
func generateAll(p *Position, ml *MoveList, us Color, gt GenType, target Bitboard) {
	checks := gt == GenQuietChecks
	them := us.Other()

	// During the placement phase only drops are available.
	placing := p.IsPlacement() && p.CountInHand(us, AllPieces) > 0
	if !placing {
		generatePawnMoves(p, ml, us, gt, target)
		generatePieceMoves(p, ml, us, Knight, checks, target)
		generatePieceMoves(p, ml, us, Bishop, checks, target)
		generatePieceMoves(p, ml, us, Rook, checks, target)
		generatePieceMoves(p, ml, us, Queen, checks, target)
	}

	if p.IsHouse() && gt != GenCaptures && p.CountInHand(us, AllPieces) > 0 {
		b := target
		switch gt {
		case GenEvasions:
			b = target ^ p.Checkers
		case GenNonEvasions:
			b = target ^ p.Occupied[them]
		}
		if p.IsPlacement() {
			b &= RelativeRankBB(us, 0)
		}
		generateDrops(p, ml, us, Pawn, checks, b&^PromotionRanks)
		generateDrops(p, ml, us, Knight, checks, b)
		generateDrops(p, ml, us, Bishop, checks, b)
		generateDrops(p, ml, us, Rook, checks, b)
		generateDrops(p, ml, us, Queen, checks, b)
		if p.IsPlacement() {
			generateDrops(p, ml, us, King, checks, b)
		}
	}

	// The horde army has no king: no king moves, no castling.
	if p.IsHordeColor(us) {
		return
	}

	switch {
	case p.IsAnti():
		generateKingsMoves(p, ml, us, target)
		if p.CanCapture() {
			return
		}
	case p.IsExtinction():
		generateKingsMoves(p, ml, us, target)
	case p.IsTwoKings():
		if gt != GenEvasions {
			generateKingsMoves(p, ml, us, target)
		}
	default:
		if gt != GenQuietChecks && gt != GenEvasions {
			ksq := p.KingSquare[us]
			if ksq == NoSquare {
				break
			}
			b := kingAttacks[ksq] & target
			if p.IsRace() {
				// Both kings race toward rank 8, so the span is always
				// White-relative. Advances ride along with the captures and
				// are dropped from the quiets to keep the partition exact.
				if gt == GenCaptures {
					b |= kingAttacks[ksq] & PassedPawnSpan(White, ksq) &^ p.AllOccupied
				}
				if gt == GenQuiets {
					b &^= PassedPawnSpan(White, ksq)
				}
			}
			for b != 0 {
				ml.Add(NewMove(ksq, b.PopLSB()))
			}
		}
	}

	if gt != GenQuietChecks && gt != GenEvasions && gt != GenCaptures {
		if p.IsLosers() && p.CanCaptureLosers() {
			return
		}
		oo := KingSideRights(us)
		ooo := QueenSideRights(us)
		if p.CanCastle(oo | ooo) {
			ksq := p.KingSquare[us]
			if p.IsGiveaway() || p.IsExtinction() || p.IsTwoKings() {
				ksq = p.CastlingKingSquare(us)
			}
			if ksq == NoSquare {
				return
			}
			if p.CanCastle(oo) && !p.CastlingImpeded(oo) {
				ml.Add(NewCastling(ksq, p.CastlingRookSquare(oo)))
			}
			if p.CanCastle(ooo) && !p.CastlingImpeded(ooo) {
				ml.Add(NewCastling(ksq, p.CastlingRookSquare(ooo)))
			}
		}
	}
}

// generateEvasions emits king flights plus blocks/captures of a lone
// checker. Atomic chess adds the explosion pre-pass: blasting the checkers
// or the enemy king also lifts the check.
func generateEvasions(p *Position, ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]

	var kingRing Bitboard
	if p.IsAtomic() {
		kingRing = p.Pieces[them][King].Adjacent()

		// Blasts that explode the opposing king or all checkers count as
		// evasions.
		target := p.Occupied[them] & (p.Checkers | p.Checkers.Adjacent())
		target |= kingRing
		target &= p.Occupied[them] &^ p.Pieces[us][King].Adjacent()
		generateAll(p, ml, us, GenCaptures, target)
	}

	// Squares attacked by slider checkers: the king may not retreat along
	// the check ray.
	var sliderAttacks Bitboard
	sliders := p.Checkers &^ (p.Pieces[them][Knight] | p.Pieces[them][Pawn])
	for sliders != 0 {
		checksq := sliders.PopLSB()
		ray := Line(checksq, ksq) ^ SquareBB(checksq)
		if p.IsGrid() {
			// Grid walls block the checker's sight of its own cell.
			ray &^= gridCells[checksq]
		}
		sliderAttacks |= ray
	}

	var b Bitboard
	if p.IsAtomic() {
		// The king never captures (the blast would take it along), but
		// squares on the check ray inside the enemy king's ring are fine:
		// arriving there ends the check by adjacency.
		b = kingAttacks[ksq] &^ p.AllOccupied &^ (sliderAttacks &^ kingRing)
	} else {
		b = kingAttacks[ksq] &^ p.Occupied[us] &^ sliderAttacks
	}
	if p.IsLosers() && p.CanCaptureLosers() {
		b &= p.Occupied[them]
	}

	if p.IsTwoKings() {
		// Either king may run; the legality oracle sorts out which flights
		// stand.
		kings := p.Pieces[us][King]
		for kings != 0 {
			k2 := kings.PopLSB()
			b2 := kingAttacks[k2] &^ p.Occupied[us]
			for b2 != 0 {
				ml.Add(NewMove(k2, b2.PopLSB()))
			}
		}
	} else {
		for b != 0 {
			ml.Add(NewMove(ksq, b.PopLSB()))
		}
	}

	if p.Checkers.MoreThanOne() {
		return // Double check: only a king move can save the day
	}

	// Block the check or capture the checker
	checksq := p.Checkers.LSB()
	var target Bitboard
	if p.IsAtomic() {
		// Captures were covered by the explosion pre-pass
		target = Between(checksq, ksq)
	} else {
		target = Between(checksq, ksq) | SquareBB(checksq)
	}
	if p.IsLosers() && p.CanCaptureLosers() {
		target &= p.Occupied[them]
	}

	generateAll(p, ml, us, GenEvasions, target)
}

// generateQuietChecks emits discovered checks from the king-blockers, then
// delegates direct checks to generateAll.
func generateQuietChecks(p *Position, ml *MoveList) {
	us := p.SideToMove
	them := us.Other()

	dc := p.BlockersForKing(them) & p.Occupied[us]
	for dc != 0 {
		from := dc.PopLSB()
		pt := p.PieceAt(from).Type()

		if pt == Pawn {
			continue // Generated together with the direct checks
		}

		b := PieceAttacks(pt, from, p.AllOccupied) &^ p.AllOccupied

		// A king discovery must leave the shared ray, or the check stays
		// hidden.
		if pt == King {
			b &^= pseudoAttacks[Queen][p.KingSquare[them]]
		}

		for b != 0 {
			ml.Add(NewMove(from, b.PopLSB()))
		}
	}

	generateAll(p, ml, us, GenQuietChecks, ^p.AllOccupied)
}

// generateLegal runs the pseudo-legal generator for the position's check
// status and filters through the legality oracle. Only moves that can be
// illegal pay for the oracle call.
func generateLegal(p *Position, ml *MoveList) {
	if p.IsVariantEnd() {
		return
	}

	us := p.SideToMove
	pinned := p.BlockersForKing(us) & p.Occupied[us]
	validate := pinned != 0 || p.IsGrid() || p.IsRace() || p.IsTwoKings()

	ksq := NoSquare
	if !p.IsHordeColor(us) {
		ksq = p.KingSquare[us]
	}

	start := ml.Len()
	if p.Checkers != 0 {
		Generate(GenEvasions, p, ml)
	} else {
		Generate(GenNonEvasions, p, ml)
	}

	for i := start; i < ml.Len(); {
		m := ml.Get(i)
		needsCheck := validate || m.From() == ksq || m.IsEnPassant()
		if p.IsHouse() && m.IsDrop() {
			needsCheck = false
		}
		if p.IsAtomic() && p.IsCapture(m) {
			needsCheck = true
		}
		if needsCheck && !p.Legal(m) {
			ml.remove(i)
			continue
		}
		i++
	}
}

// Convenience wrappers in the caller-facing style of the engine packages.

// GenerateLegalMoves returns all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	Generate(GenLegal, p, ml)
	return ml
}

// GeneratePseudoLegalMoves returns all pseudo-legal moves for the position's
// check status.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	if p.Checkers != 0 {
		Generate(GenEvasions, p, ml)
	} else {
		Generate(GenNonEvasions, p, ml)
	}
	return ml
}

// GenerateCaptures returns the pseudo-legal captures.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	Generate(GenCaptures, p, ml)
	return ml
}

// GenerateQuietChecks returns the pseudo-legal quiet checking moves.
func (p *Position) GenerateQuietChecks() *MoveList {
	ml := NewMoveList()
	Generate(GenQuietChecks, p, ml)
	return ml
}
