package physics

import (
	"container/heap"
	"math"

	"github.com/pixil98/go-stealth/internal/geom"
)

// NavGrid is a uniform walkability grid over the XZ plane used to plan paths
// around walls.
type NavGrid struct {
	origin   geom.Vec3
	cellSize float64
	cols     int
	rows     int
	blocked  []bool
}

// NewNavGrid rasterises every movement-blocking collider in the space, grown
// by clearance, into a grid covering [min, max].
func NewNavGrid(s *Space, min, max geom.Vec3, cellSize, clearance float64) *NavGrid {
	if cellSize <= 0 {
		cellSize = 0.5
	}
	cols := int(math.Ceil((max.X - min.X) / cellSize))
	rows := int(math.Ceil((max.Z - min.Z) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &NavGrid{
		origin:   geom.Vec3{X: min.X, Z: min.Z},
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		blocked:  make([]bool, cols*rows),
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := g.center(c, r)
			for _, col := range s.colliders {
				if !MaskMovement.Contains(col.Layer) || col.Degenerate() {
					continue
				}
				if p.X > col.Min.X-clearance && p.X < col.Max.X+clearance &&
					p.Z > col.Min.Z-clearance && p.Z < col.Max.Z+clearance {
					g.blocked[r*cols+c] = true
					break
				}
			}
		}
	}
	return g
}

func (g *NavGrid) center(c, r int) geom.Vec3 {
	return geom.Vec3{
		X: g.origin.X + (float64(c)+0.5)*g.cellSize,
		Z: g.origin.Z + (float64(r)+0.5)*g.cellSize,
	}
}

func (g *NavGrid) cell(p geom.Vec3) (int, int, bool) {
	c := int(math.Floor((p.X - g.origin.X) / g.cellSize))
	r := int(math.Floor((p.Z - g.origin.Z) / g.cellSize))
	if c < 0 || r < 0 || c >= g.cols || r >= g.rows {
		return 0, 0, false
	}
	return c, r, true
}

// Walkable reports whether the cell containing p is free.
func (g *NavGrid) Walkable(p geom.Vec3) bool {
	c, r, ok := g.cell(p)
	return ok && !g.blocked[r*g.cols+c]
}

// FindPath returns the waypoints from start to goal, ending exactly at goal.
// It fails when either end is off the grid or no route exists.
func (g *NavGrid) FindPath(start, goal geom.Vec3) ([]geom.Vec3, bool) {
	sc, sr, ok := g.cell(start)
	if !ok {
		return nil, false
	}
	gc, gr, ok := g.cell(goal)
	if !ok || g.blocked[gr*g.cols+gc] {
		return nil, false
	}

	startIdx, goalIdx := sr*g.cols+sc, gr*g.cols+gc
	if startIdx == goalIdx {
		return []geom.Vec3{goal}, true
	}

	cost := map[int]float64{startIdx: 0}
	came := map[int]int{}
	open := &nodeHeap{}
	heap.Push(open, node{idx: startIdx, f: g.heuristic(startIdx, goalIdx)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(node)
		if cur.idx == goalIdx {
			return g.reconstruct(came, goalIdx, startIdx, goal), true
		}
		cc, cr := cur.idx%g.cols, cur.idx/g.cols
		for _, d := range neighbours {
			nc, nr := cc+d[0], cr+d[1]
			if nc < 0 || nr < 0 || nc >= g.cols || nr >= g.rows {
				continue
			}
			ni := nr*g.cols + nc
			if g.blocked[ni] {
				continue
			}
			// No corner cutting.
			if d[0] != 0 && d[1] != 0 && (g.blocked[cr*g.cols+nc] || g.blocked[nr*g.cols+cc]) {
				continue
			}
			step := 1.0
			if d[0] != 0 && d[1] != 0 {
				step = math.Sqrt2
			}
			nextCost := cost[cur.idx] + step
			if old, seen := cost[ni]; seen && nextCost >= old {
				continue
			}
			cost[ni] = nextCost
			came[ni] = cur.idx
			heap.Push(open, node{idx: ni, f: nextCost + g.heuristic(ni, goalIdx)})
		}
	}
	return nil, false
}

func (g *NavGrid) heuristic(a, b int) float64 {
	dx := float64(a%g.cols - b%g.cols)
	dz := float64(a/g.cols - b/g.cols)
	return math.Hypot(dx, dz)
}

func (g *NavGrid) reconstruct(came map[int]int, goalIdx, startIdx int, goal geom.Vec3) []geom.Vec3 {
	var cells []int
	for idx := goalIdx; idx != startIdx; idx = came[idx] {
		cells = append(cells, idx)
	}
	pts := make([]geom.Vec3, 0, len(cells))
	for i := len(cells) - 1; i > 0; i-- {
		p := g.center(cells[i]%g.cols, cells[i]/g.cols)
		p.Y = goal.Y
		pts = append(pts, p)
	}
	return append(pts, goal)
}

var neighbours = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

type node struct {
	idx int
	f   float64
}

type nodeHeap []node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}
