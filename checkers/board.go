package checkers

import (
	"fmt"
	"strings"
)

type Piece uint8

const (
	Empty Piece = iota
	DarkMan
	DarkKing
	LightMan
	LightKing
)

// Side returns the seat owning the piece: 0 for dark, 1 for light, -1 for an
// empty square.
func (p Piece) Side() int {
	switch p {
	case DarkMan, DarkKing:
		return 0
	case LightMan, LightKing:
		return 1
	}
	return -1
}

func (p Piece) IsKing() bool {
	return p == DarkKing || p == LightKing
}

func (p Piece) crown() Piece {
	switch p {
	case DarkMan:
		return DarkKing
	case LightMan:
		return LightKing
	}
	return p
}

// forward is the row direction men of the piece's side move in.
func (p Piece) forward() int {
	if p.Side() == 0 {
		return 1
	}
	return -1
}

func (p Piece) rune() rune {
	return []rune(".dDlL")[p]
}

func pieceOf(r rune) (Piece, bool) {
	switch r {
	case '.', ' ', '_':
		return Empty, true
	case 'd':
		return DarkMan, true
	case 'D':
		return DarkKing, true
	case 'l':
		return LightMan, true
	case 'L':
		return LightKing, true
	}
	return Empty, false
}

// Square indexes the board row-major from the dark side's back rank.
type Square int

const NoSquare Square = -1

// SquareAt returns the square at row and col of a board of the given width.
func SquareAt(width, row, col int) Square {
	return Square(row*width + col)
}

// Name renders a square as its column letter and one-based row.
func (sq Square) Name(width int) string {
	if sq < 0 {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+rune(int(sq)%width), int(sq)/width+1)
}

type direction struct {
	dr, dc int
}

var diagonals = []direction{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}

// board is a width x width grid; only squares with an even row+col are
// played on.
type board struct {
	width  int
	pieces []Piece
}

func newBoard(width int) board {
	return board{width: width, pieces: make([]Piece, width*width)}
}

func (b board) clone() board {
	pieces := make([]Piece, len(b.pieces))
	copy(pieces, b.pieces)
	return board{width: b.width, pieces: pieces}
}

func (b board) at(sq Square) Piece {
	return b.pieces[sq]
}

func (b board) rowCol(sq Square) (int, int) {
	return int(sq) / b.width, int(sq) % b.width
}

// offset returns the square k steps along d from sq, or false off the board.
func (b board) offset(sq Square, d direction, k int) (Square, bool) {
	row, col := b.rowCol(sq)
	row, col = row+k*d.dr, col+k*d.dc
	if row < 0 || row >= b.width || col < 0 || col >= b.width {
		return NoSquare, false
	}
	return SquareAt(b.width, row, col), true
}

// lastRow reports whether sq is the promotion row for side.
func (b board) lastRow(sq Square, side int) bool {
	row, _ := b.rowCol(sq)
	if side == 0 {
		return row == b.width-1
	}
	return row == 0
}

func (b board) count(side int) int {
	n := 0
	for _, p := range b.pieces {
		if p.Side() == side {
			n++
		}
	}
	return n
}

func (b board) compare(o board) int {
	if b.width != o.width {
		return b.width - o.width
	}
	for i := range b.pieces {
		if b.pieces[i] != o.pieces[i] {
			return int(b.pieces[i]) - int(o.pieces[i])
		}
	}
	return 0
}

// String draws the board with the last row first.
func (b board) String() string {
	var sb strings.Builder
	for row := b.width - 1; row >= 0; row-- {
		for col := 0; col < b.width; col++ {
			sb.WriteRune(b.at(SquareAt(b.width, row, col)).rune())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
