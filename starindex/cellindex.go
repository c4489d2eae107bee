package starindex

import (
	"cmp"
	"slices"

	"github.com/forestrie/go-skyindex/mesh"
)

// CellIndex files resident stars by trixel. Every cell is kept in ascending
// magnitude, ties in ascending StarID, so a scan can stop at the first star
// fainter than its limit.
type CellIndex struct {
	cells [][]StarID
}

func newCellIndex(size int) CellIndex {
	return CellIndex{cells: make([][]StarID, size)}
}

func compareStars(stars []Star, a, b StarID) int {
	if c := cmp.Compare(stars[a].Mag, stars[b].Mag); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// Cell returns the ids filed under t. The slice must not be modified.
func (ci *CellIndex) Cell(t mesh.Trixel) []StarID {
	if int(t) >= len(ci.cells) {
		return nil
	}
	return ci.cells[t]
}

func (ci *CellIndex) Size() int { return len(ci.cells) }

// insert files id under t keeping the cell order.
func (ci *CellIndex) insert(stars []Star, t mesh.Trixel, id StarID) {
	cell := ci.cells[t]
	i, _ := slices.BinarySearchFunc(cell, id, func(e, target StarID) int {
		return compareStars(stars, e, target)
	})
	ci.cells[t] = slices.Insert(cell, i, id)
}

func (ci *CellIndex) remove(stars []Star, t mesh.Trixel, id StarID) bool {
	cell := ci.cells[t]
	i, found := slices.BinarySearchFunc(cell, id, func(e, target StarID) int {
		return compareStars(stars, e, target)
	})
	if !found {
		return false
	}
	ci.cells[t] = slices.Delete(cell, i, i+1)
	return true
}

// appendUnsorted adds id to the end of t. Callers must sort the cell before
// the index is read again.
func (ci *CellIndex) appendUnsorted(t mesh.Trixel, id StarID) {
	ci.cells[t] = append(ci.cells[t], id)
}

func (ci *CellIndex) sortCell(stars []Star, t mesh.Trixel) {
	slices.SortFunc(ci.cells[t], func(a, b StarID) int {
		return compareStars(stars, a, b)
	})
}

func (ci *CellIndex) sorted(stars []Star) bool {
	for _, cell := range ci.cells {
		if !slices.IsSortedFunc(cell, func(a, b StarID) int { return compareStars(stars, a, b) }) {
			return false
		}
	}
	return true
}
