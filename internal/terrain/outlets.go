package terrain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOutlet is returned when the mesh has no boundary site to drain to.
	ErrNoOutlet = errors.New("terrain: no outlet determinable")
	// ErrDegenerateMesh is returned when per-site inputs do not line up with
	// the mesh.
	ErrDegenerateMesh = errors.New("terrain: degenerate mesh")
)

// Graph is the adjacency the outlet flood fill walks.
type Graph interface {
	Len() int
	Neighbors(i int) []int
}

// DetermineOutlets marks every site that is connected to a seeding boundary
// site through ocean candidates. Seeds are all boundary sites when
// hullAlwaysOutlet is set, otherwise only the ocean-candidate ones. When
// nothing gets marked, the first boundary site in the given order becomes the
// only outlet.
func DetermineOutlets(g Graph, oceanCandidate []bool, boundary []int, hullAlwaysOutlet bool) ([]bool, error) {
	n := g.Len()
	if len(oceanCandidate) != n {
		return nil, fmt.Errorf("%w: %d classifications for %d sites", ErrDegenerateMesh, len(oceanCandidate), n)
	}
	if len(boundary) == 0 {
		return nil, ErrNoOutlet
	}

	outlet := make([]bool, n)
	queued := make([]bool, n)
	stack := make([]int, 0, len(boundary))
	for _, b := range boundary {
		if b < 0 || b >= n {
			return nil, fmt.Errorf("%w: boundary site %d of %d", ErrDegenerateMesh, b, n)
		}
		if (hullAlwaysOutlet || oceanCandidate[b]) && !queued[b] {
			queued[b] = true
			stack = append(stack, b)
		}
	}

	marked := 0
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		outlet[cur] = true
		marked++
		for _, j := range g.Neighbors(cur) {
			if !queued[j] && oceanCandidate[j] {
				queued[j] = true
				stack = append(stack, j)
			}
		}
	}

	if marked == 0 {
		outlet[boundary[0]] = true
	}
	return outlet, nil
}
