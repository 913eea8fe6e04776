package main

// Direction is a step along one of the lattice lines through a cell.
// Components are -1, 0 or 1.
type Direction [4]int

var lineDirections = generateDirections()

// 8 axis-aligned unit steps, used by sticky adjacency.
var neumannDirections = [8]Direction{
	{1, 0, 0, 0}, {-1, 0, 0, 0},
	{0, 1, 0, 0}, {0, -1, 0, 0},
	{0, 0, 1, 0}, {0, 0, -1, 0},
	{0, 0, 0, 1}, {0, 0, 0, -1},
}

// Directions returns the 40 canonical line directions in scan order.
// The first non-zero component of every entry is positive, so each line
// through a cell appears exactly once.
func Directions() []Direction {
	return append([]Direction(nil), lineDirections...)
}

func generateDirections() []Direction {
	dirs := make([]Direction, 0, 40)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				for dw := -1; dw <= 1; dw++ {
					dir := Direction{dx, dy, dz, dw}
					if dir.isCanonical() {
						dirs = append(dirs, dir)
					}
				}
			}
		}
	}
	return dirs
}

func (d Direction) isCanonical() bool {
	for _, c := range d {
		if c != 0 {
			return c > 0
		}
	}
	return false
}

func (d Direction) Negate() Direction {
	return Direction{-d[0], -d[1], -d[2], -d[3]}
}
