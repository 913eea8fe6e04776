package main

import "fmt"

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

const (
	MinAxisSize = 1
	MaxAxisSize = 15
)

type BoardSize struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
	W int `json:"w"`
}

func UniformSize(n int) BoardSize {
	return BoardSize{X: n, Y: n, Z: n, W: n}
}

func (s BoardSize) Volume() int {
	return s.X * s.Y * s.Z * s.W
}

func (s BoardSize) Validate() error {
	for _, n := range [4]int{s.X, s.Y, s.Z, s.W} {
		if n < MinAxisSize || n > MaxAxisSize {
			return fmt.Errorf("%w: %d not in %d..%d", ErrInvalidBoardSize, n, MinAxisSize, MaxAxisSize)
		}
	}
	return nil
}

func (s BoardSize) String() string {
	return fmt.Sprintf("%dx%dx%dx%d", s.X, s.Y, s.Z, s.W)
}

// Board is a dense 4D grid stored as a flat slice.
type Board struct {
	size  BoardSize
	cells []Cell
}

func NewBoard(size BoardSize) Board {
	b := Board{}
	b.Reset(size)
	return b
}

func (b *Board) Reset(size BoardSize) {
	b.size = size
	b.cells = make([]Cell, size.Volume())
}

func (b Board) At(m Move) Cell {
	return b.cells[b.index(m)]
}

func (b *Board) Set(m Move, value Cell) {
	b.cells[b.index(m)] = value
}

func (b *Board) Remove(m Move) {
	b.cells[b.index(m)] = CellEmpty
}

func (b Board) InBounds(m Move) bool {
	return m.IsValid(b.size)
}

func (b Board) IsEmpty(m Move) bool {
	return b.InBounds(m) && b.At(m) == CellEmpty
}

// Owns reports whether m is on the board and holds cell.
func (b Board) Owns(m Move, cell Cell) bool {
	return b.InBounds(m) && b.At(m) == cell
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) CountStones() int {
	return len(b.cells) - b.CountEmpty()
}

func (b Board) Size() BoardSize {
	return b.size
}

func (b Board) Volume() int {
	return len(b.cells)
}

// Center is the integer centre, floor(length/2) on each axis.
func (b Board) Center() Move {
	return Move{X: b.size.X / 2, Y: b.size.Y / 2, Z: b.size.Z / 2, W: b.size.W / 2}
}

func (b Board) Clone() Board {
	clone := Board{size: b.size}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// Cells returns a copy of the raw cell slice in index order.
func (b Board) Cells() []Cell {
	return append([]Cell(nil), b.cells...)
}

func (b Board) index(m Move) int {
	return ((m.X*b.size.Y+m.Y)*b.size.Z+m.Z)*b.size.W + m.W
}

// Index is the packed linear key of m. It is unique per cell.
func (b Board) Index(m Move) int {
	return b.index(m)
}

func (b Board) MoveAt(index int) Move {
	w := index % b.size.W
	index /= b.size.W
	z := index % b.size.Z
	index /= b.size.Z
	y := index % b.size.Y
	x := index / b.size.Y
	return Move{X: x, Y: y, Z: z, W: w}
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}

// cellSet is a bit set keyed by packed board index.
type cellSet []uint64

func newCellSet(volume int) cellSet {
	return make(cellSet, (volume+63)/64)
}

// add reports whether index was newly inserted.
func (s cellSet) add(index int) bool {
	word, bit := index/64, uint64(1)<<(index%64)
	if s[word]&bit != 0 {
		return false
	}
	s[word] |= bit
	return true
}

func (s cellSet) has(index int) bool {
	return s[index/64]&(uint64(1)<<(index%64)) != 0
}
