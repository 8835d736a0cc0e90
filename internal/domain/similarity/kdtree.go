package similarity

import (
	"container/heap"
	"sort"
)

// k-d tree over the scaled matrix.
//
// Ordering of candidates: squared distance ASC, then rank ASC, where rank
// is the row position in the source table except for an optional
// preferred row that ranks before every other row. In-order extraction of
// the bounded heap therefore yields nearest-first with stable ties.

type node struct {
	idx   int
	axis  int
	left  *node
	right *node
}

type kdTree struct {
	root   *node
	points [][]float64
	size   int
}

func newKDTree(points [][]float64) *kdTree {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t := &kdTree{points: points, size: len(points)}
	if len(points) > 0 {
		t.root = t.build(idx, 0, len(points[0]))
	}
	return t
}

// build splits on the median along axis depth%dim. Rows equal on the axis
// are ordered by row position, so left <= node <= right along the axis.
func (t *kdTree) build(idx []int, depth, dim int) *node {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % dim
	sort.Slice(idx, func(a, b int) bool {
		pa, pb := t.points[idx[a]][axis], t.points[idx[b]][axis]
		if pa != pb {
			return pa < pb
		}
		return idx[a] < idx[b]
	})
	m := len(idx) / 2
	n := &node{idx: idx[m], axis: axis}
	n.left = t.build(idx[:m], depth+1, dim)
	n.right = t.build(idx[m+1:], depth+1, dim)
	return n
}

type candidate struct {
	idx  int
	dist float64 // squared
}

// searcher keeps the k best candidates in a max-heap (worst on top).
type searcher struct {
	tree      *kdTree
	query     []float64
	k         int
	preferred int
	best      []candidate
}

func (s *searcher) rank(idx int) int {
	if idx == s.preferred {
		return -1
	}
	return idx
}

// better reports whether a ranks before b.
func (s *searcher) better(a, b candidate) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return s.rank(a.idx) < s.rank(b.idx)
}

func (s *searcher) Len() int           { return len(s.best) }
func (s *searcher) Less(i, j int) bool { return s.better(s.best[j], s.best[i]) }
func (s *searcher) Swap(i, j int)      { s.best[i], s.best[j] = s.best[j], s.best[i] }
func (s *searcher) Push(x any)         { s.best = append(s.best, x.(candidate)) }
func (s *searcher) Pop() any {
	old := s.best
	c := old[len(old)-1]
	s.best = old[:len(old)-1]
	return c
}

func (s *searcher) consider(c candidate) {
	if len(s.best) < s.k {
		heap.Push(s, c)
		return
	}
	if s.better(c, s.best[0]) {
		s.best[0] = c
		heap.Fix(s, 0)
	}
}

func (s *searcher) visit(n *node) {
	if n == nil {
		return
	}
	p := s.tree.points[n.idx]
	s.consider(candidate{idx: n.idx, dist: sqDist(s.query, p)})

	diff := s.query[n.axis] - p[n.axis]
	near, far := n.left, n.right
	if diff >= 0 {
		near, far = n.right, n.left
	}
	s.visit(near)
	// Keep equal-distance rows reachable so ties resolve by rank.
	if len(s.best) < s.k || diff*diff <= s.best[0].dist {
		s.visit(far)
	}
}

// nearest returns up to k candidates, nearest first. preferred is a row
// that wins distance ties, or -1.
func (t *kdTree) nearest(query []float64, k, preferred int) []candidate {
	if k <= 0 || t.root == nil {
		return nil
	}
	if k > t.size {
		k = t.size
	}
	s := &searcher{tree: t, query: query, k: k, preferred: preferred, best: make([]candidate, 0, k)}
	s.visit(t.root)

	out := s.best
	sort.Slice(out, func(i, j int) bool { return s.better(out[i], out[j]) })
	return out
}

func sqDist(a, b []float64) float64 {
	var d float64
	for i := range a {
		x := a[i] - b[i]
		d += x * x
	}
	return d
}
