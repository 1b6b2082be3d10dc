package solver

import (
	"container/heap"
	"fmt"
	"math"

	"lemterrain/internal/mesh"
)

type queueItem struct {
	key float64
	idx int
}

type siteQueue []queueItem

func (q siteQueue) Len() int { return len(q) }
func (q siteQueue) Less(a, b int) bool {
	if q[a].key != q[b].key {
		return q[a].key < q[b].key
	}
	return q[a].idx < q[b].idx
}
func (q siteQueue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }
func (q *siteQueue) Push(x any)   { *q = append(*q, x.(queueItem)) }
func (q *siteQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// drainage is a forest rooted at the outlets. order lists sites from the
// outlets upstream, so every site appears after its receiver.
type drainage struct {
	receiver []int
	length   []float64
	order    []int
}

// floodReceivers grows the drainage forest outwards from the outlets, always
// extending the lowest frontier site. Depressions are crossed as if filled to
// their spill level.
func floodReceivers(m *mesh.Mesh, params []Parameters, elev []float64) drainage {
	n := m.Len()
	d := drainage{
		receiver: make([]int, n),
		length:   make([]float64, n),
		order:    make([]int, 0, n),
	}
	visited := make([]bool, n)
	q := make(siteQueue, 0, n)
	for i, p := range params {
		d.receiver[i] = -1
		if p.IsOutlet {
			visited[i] = true
			q = append(q, queueItem{key: elev[i], idx: i})
		}
	}
	heap.Init(&q)
	for q.Len() > 0 {
		cur := heap.Pop(&q).(queueItem)
		d.order = append(d.order, cur.idx)
		w := m.Weights(cur.idx)
		for k, nb := range m.Neighbors(cur.idx) {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			d.receiver[nb] = cur.idx
			d.length[nb] = w[k]
			heap.Push(&q, queueItem{key: math.Max(elev[nb], cur.key), idx: nb})
		}
	}
	return d
}

// distanceFromOutlets returns the shortest path length from every site to
// its nearest outlet.
func distanceFromOutlets(m *mesh.Mesh, params []Parameters) ([]float64, error) {
	n := m.Len()
	dist := make([]float64, n)
	done := make([]bool, n)
	q := make(siteQueue, 0, n)
	for i, p := range params {
		dist[i] = math.Inf(1)
		if p.IsOutlet {
			dist[i] = 0
			q = append(q, queueItem{idx: i})
		}
	}
	heap.Init(&q)
	reached := 0
	for q.Len() > 0 {
		cur := heap.Pop(&q).(queueItem)
		if done[cur.idx] {
			continue
		}
		done[cur.idx] = true
		reached++
		w := m.Weights(cur.idx)
		for k, nb := range m.Neighbors(cur.idx) {
			if nd := cur.key + w[k]; nd < dist[nb] {
				dist[nb] = nd
				heap.Push(&q, queueItem{key: nd, idx: nb})
			}
		}
	}
	if reached < n {
		return nil, fmt.Errorf("%w: %d of %d sites connected", ErrUnreachable, reached, n)
	}
	return dist, nil
}
