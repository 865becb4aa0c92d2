package board

// PseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
// Moves are produced in board scan order, A8 to H1.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 64)
	us := p.SideToMove
	for from := A8; from < NoSquare; from++ {
		piece := p.Board[from]
		if piece == NoPiece || piece.Color() != us {
			continue
		}
		moves = p.pieceMoves(moves, from, piece, false)
	}
	return moves
}

// LegalMoves generates all legal moves for the position.
// Each pseudo-legal move is simulated on a clone and rejected if it leaves
// the mover's king attacked.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if p.isLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	for _, m := range p.PseudoLegalMoves() {
		if p.isLegal(m) {
			return true
		}
	}
	return false
}

// isLegal simulates m on a clone and checks the mover's king.
func (p *Position) isLegal(m Move) bool {
	us := p.SideToMove
	clone := *p
	clone.ApplyMove(m)
	return !clone.IsInCheck(us)
}

// pieceMoves appends the moves of the piece on from to moves.
// In attacks-only mode pawn pushes and castling are suppressed and pawns
// yield both diagonals.
func (p *Position) pieceMoves(moves []Move, from Square, piece Piece, attacksOnly bool) []Move {
	switch piece.Type() {
	case Pawn:
		return p.pawnMoves(moves, from, piece.Color(), attacksOnly)
	case Knight:
		return p.stepMoves(moves, from, piece.Color(), knightOffsets[:])
	case Bishop:
		return p.slideMoves(moves, from, piece.Color(), bishopDirections)
	case Rook:
		return p.slideMoves(moves, from, piece.Color(), rookDirections)
	case Queen:
		return p.slideMoves(moves, from, piece.Color(), queenDirections)
	case King:
		moves = p.stepMoves(moves, from, piece.Color(), kingOffsets[:])
		if !attacksOnly {
			moves = p.castlingMoves(moves, from, piece.Color())
		}
		return moves
	}
	return moves
}

// addPawnMove adds a pawn move, branching into promotions on the last row.
func addPawnMove(moves []Move, from, to Square, c Color) []Move {
	if to.Row() == promotionRow(c) {
		for _, promo := range PromotionTypes {
			moves = append(moves, NewPromotion(from, to, promo))
		}
		return moves
	}
	return append(moves, NewMove(from, to))
}

// pawnMoves generates pushes, double pushes, captures and en passant.
func (p *Position) pawnMoves(moves []Move, from Square, us Color, attacksOnly bool) []Move {
	row, file := from.Row(), from.File()
	forward := pawnForward(us)
	nextRow := row + forward

	if !attacksOnly && inBounds(nextRow, file) {
		to := NewSquare(nextRow, file)
		if p.Board[to] == NoPiece {
			moves = addPawnMove(moves, from, to, us)

			// Double push
			if row == pawnStartRow(us) {
				to2 := NewSquare(row+2*forward, file)
				if p.Board[to2] == NoPiece {
					moves = append(moves, NewMove(from, to2))
				}
			}
		}
	}

	for _, dFile := range [2]int{-1, 1} {
		if !inBounds(nextRow, file+dFile) {
			continue
		}
		to := NewSquare(nextRow, file+dFile)
		target := p.Board[to]
		switch {
		case target != NoPiece && target.Color() != us:
			moves = addPawnMove(moves, from, to, us)
		case to == p.EnPassant:
			moves = append(moves, NewMove(from, to))
		case attacksOnly && target == NoPiece:
			moves = append(moves, NewMove(from, to))
		}
	}

	return moves
}

// stepMoves generates single-step moves from a fixed offset table.
func (p *Position) stepMoves(moves []Move, from Square, us Color, offsets []offset) []Move {
	row, file := from.Row(), from.File()
	for _, o := range offsets {
		r, f := row+o.dRow, file+o.dFile
		if !inBounds(r, f) {
			continue
		}
		to := NewSquare(r, f)
		target := p.Board[to]
		if target == NoPiece || target.Color() != us {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

// slideMoves casts rays until the board edge or a blocker, including
// a capture of an enemy blocker.
func (p *Position) slideMoves(moves []Move, from Square, us Color, directions []offset) []Move {
	row, file := from.Row(), from.File()
	for _, d := range directions {
		r, f := row+d.dRow, file+d.dFile
		for inBounds(r, f) {
			to := NewSquare(r, f)
			target := p.Board[to]
			if target == NoPiece {
				moves = append(moves, NewMove(from, to))
			} else {
				if target.Color() != us {
					moves = append(moves, NewMove(from, to))
				}
				break
			}
			r += d.dRow
			f += d.dFile
		}
	}
	return moves
}

// castlingMoves generates castling moves.
// Only the right and the empty squares between king and rook are required;
// attacked squares are checked only with StrictCastling.
func (p *Position) castlingMoves(moves []Move, from Square, us Color) []Move {
	row := 7
	if us == Black {
		row = 0
	}
	kingFrom := NewSquare(row, 4)
	if from != kingFrom {
		return moves
	}
	them := us.Other()

	// Kingside (O-O)
	if p.CastlingRights.CanCastle(us, true) &&
		p.IsEmpty(NewSquare(row, 5)) && p.IsEmpty(NewSquare(row, 6)) {
		if !p.StrictCastling || !p.anyAttacked(them, kingFrom, NewSquare(row, 5), NewSquare(row, 6)) {
			moves = append(moves, NewMove(kingFrom, NewSquare(row, 6)))
		}
	}

	// Queenside (O-O-O)
	if p.CastlingRights.CanCastle(us, false) &&
		p.IsEmpty(NewSquare(row, 3)) && p.IsEmpty(NewSquare(row, 2)) && p.IsEmpty(NewSquare(row, 1)) {
		if !p.StrictCastling || !p.anyAttacked(them, kingFrom, NewSquare(row, 3), NewSquare(row, 2)) {
			moves = append(moves, NewMove(kingFrom, NewSquare(row, 2)))
		}
	}

	return moves
}

// anyAttacked returns true if any of the squares is attacked by byColor.
func (p *Position) anyAttacked(byColor Color, squares ...Square) bool {
	for _, sq := range squares {
		if p.SquareAttacked(sq, byColor) {
			return true
		}
	}
	return false
}

// ApplyMove applies a move to the position in place. It performs no
// legality checking: the caller must only pass moves generated for this
// position.
func (p *Position) ApplyMove(m Move) {
	us := p.SideToMove
	from, to := m.From, m.To
	piece := p.Board[from]
	captured := p.Board[to]
	pt := piece.Type()

	// En passant: the captured pawn sits beside the moving pawn, behind to.
	if pt == Pawn && to == p.EnPassant && captured == NoPiece {
		capturedSq := NewSquare(from.Row(), to.File())
		captured = p.Board[capturedSq]
		p.Board[capturedSq] = NoPiece
	}

	// Move the piece
	p.Board[to] = piece
	p.Board[from] = NoPiece

	// Handle promotion
	if pt == Pawn && m.IsPromotion() {
		p.Board[to] = NewPiece(m.Promotion, us)
	}

	// Handle castling
	if pt == King && abs(to.File()-from.File()) == 2 {
		var rookFrom, rookTo Square
		if to.File() == 6 {
			// Kingside
			rookFrom = NewSquare(to.Row(), 7)
			rookTo = NewSquare(to.Row(), 5)
		} else {
			// Queenside
			rookFrom = NewSquare(to.Row(), 0)
			rookTo = NewSquare(to.Row(), 3)
		}
		p.Board[rookTo] = p.Board[rookFrom]
		p.Board[rookFrom] = NoPiece
	}

	// Set en passant square for double pawn push
	p.EnPassant = NoSquare
	if pt == Pawn && abs(to.Row()-from.Row()) == 2 {
		p.EnPassant = NewSquare((from.Row()+to.Row())/2, from.File())
	}

	// Update castling rights
	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}

	// Rook moves or captures affect castling
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}

	// Update half-move clock
	if pt == Pawn || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	// Update full-move number
	if us == Black {
		p.FullMoveNumber++
	}

	// Switch side to move
	p.SideToMove = us.Other()
}

// ApplyIfLegal applies m only if it is currently legal.
// It returns false and leaves the position untouched otherwise.
func (p *Position) ApplyIfLegal(m Move) bool {
	if !ContainsMove(p.LegalMoves(), m) {
		return false
	}
	p.ApplyMove(m)
	return true
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return !p.HasLegalMoves() && p.InCheck()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.HasLegalMoves() && !p.InCheck()
}
