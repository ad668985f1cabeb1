// Package tictactoe is the tic-tac-toe API: its operations, their outcome
// contracts, and an in-memory implementation.
package tictactoe

import "time"

// Mark is the content of one square.
type Mark string

const (
	Empty  Mark = "."
	Cross  Mark = "X"
	Nought Mark = "O"
)

// Winner is "." while nobody has won, "X" or "O" once somebody has,
// and "draw" when the board is full without a winner.
type Winner string

const (
	NoWinner Winner = "."
	Draw     Winner = "draw"
)

// Board is indexed [row][column], both zero-based.
type Board [3][3]Mark

func newBoard() Board {
	var b Board
	for r := range b {
		for c := range b[r] {
			b[r][c] = Empty
		}
	}
	return b
}

// Game is one tic-tac-toe match.
type Game struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Board     Board     `json:"board"`
	Next      Mark      `json:"next"`
	Winner    Winner    `json:"winner"`
	CreatedAt time.Time `json:"createdAt"`
}

// Finished reports whether no more moves can be made.
func (g *Game) Finished() bool {
	return g.Winner != NoWinner
}

// GameSummary is the list representation of a game.
type GameSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Winner    Winner    `json:"winner"`
	CreatedAt time.Time `json:"createdAt"`
}

// Status is the board and winner of a game.
type Status struct {
	Winner Winner `json:"winner"`
	Board  Board  `json:"board"`
}

// Square is the mark at one position. Row and Column are one-based.
type Square struct {
	Row    int  `json:"row"`
	Column int  `json:"column"`
	Mark   Mark `json:"mark"`
}

var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// winner computes the winner of b.
func winner(b Board) Winner {
	for _, l := range lines {
		m := b[l[0][0]][l[0][1]]
		if m != Empty && m == b[l[1][0]][l[1][1]] && m == b[l[2][0]][l[2][1]] {
			return Winner(m)
		}
	}
	for r := range b {
		for c := range b[r] {
			if b[r][c] == Empty {
				return NoWinner
			}
		}
	}
	return Draw
}
