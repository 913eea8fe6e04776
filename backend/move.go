package main

import "fmt"

type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
	W int `json:"w"`
}

func NewMove(x, y, z, w int) Move {
	return Move{X: x, Y: y, Z: z, W: w}
}

func (m Move) IsValid(size BoardSize) bool {
	return m.X >= 0 && m.Y >= 0 && m.Z >= 0 && m.W >= 0 &&
		m.X < size.X && m.Y < size.Y && m.Z < size.Z && m.W < size.W
}

// Equals compares coordinates only.
func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y && m.Z == other.Z && m.W == other.W
}

// Step returns the cell k steps away along dir.
func (m Move) Step(dir Direction, k int) Move {
	return Move{
		X: m.X + dir[0]*k,
		Y: m.Y + dir[1]*k,
		Z: m.Z + dir[2]*k,
		W: m.W + dir[3]*k,
	}
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", m.X, m.Y, m.Z, m.W)
}
