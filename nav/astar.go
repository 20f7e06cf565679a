package nav

import "math"

// Cell is a grid coordinate in an A* path.
type Cell struct {
	X int
	Y int
}

var neighbors = [...][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// AStar finds a path from start to goal on a 4-way grid.
// isBlocked should return true for cells that cannot be traversed.
// maxNodes limits the number of processed nodes to avoid runaway searches.
func AStar(start, goal Cell, width, height int, isBlocked func(x, y int) bool, maxNodes int) []Cell {
	if width <= 0 || height <= 0 {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}
	if goal.X < 0 || goal.Y < 0 || goal.X >= width || goal.Y >= height {
		return nil
	}
	if isBlocked != nil && isBlocked(goal.X, goal.Y) {
		return nil
	}

	startIdx := start.Y*width + start.X
	goalIdx := goal.Y*width + goal.X

	open := make([]Cell, 0, 64)
	open = append(open, start)
	openSet := map[int]bool{startIdx: true}

	cameFrom := make(map[int]int, 128)
	gScore := make(map[int]float64, 128)
	fScore := make(map[int]float64, 128)
	gScore[startIdx] = 0
	fScore[startIdx] = manhattan(start, goal)

	for iterations := 0; len(open) > 0 && iterations < maxNodes; iterations++ {
		bestIdx := 0
		bestScore := math.MaxFloat64
		for i, n := range open {
			if f, ok := fScore[n.Y*width+n.X]; ok && f < bestScore {
				bestScore = f
				bestIdx = i
			}
		}
		current := open[bestIdx]
		currentIdx := current.Y*width + current.X
		open = append(open[:bestIdx], open[bestIdx+1:]...)
		delete(openSet, currentIdx)

		if currentIdx == goalIdx {
			return reconstructPath(cameFrom, currentIdx, startIdx, width)
		}

		for _, d := range neighbors {
			next := Cell{X: current.X + d[0], Y: current.Y + d[1]}
			if next.X < 0 || next.Y < 0 || next.X >= width || next.Y >= height {
				continue
			}
			if isBlocked != nil && isBlocked(next.X, next.Y) {
				continue
			}
			nextIdx := next.Y*width + next.X
			tentative := gScore[currentIdx] + 1
			if prev, seen := gScore[nextIdx]; seen && tentative >= prev {
				continue
			}
			cameFrom[nextIdx] = currentIdx
			gScore[nextIdx] = tentative
			fScore[nextIdx] = tentative + manhattan(next, goal)
			if !openSet[nextIdx] {
				open = append(open, next)
				openSet[nextIdx] = true
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom map[int]int, currentIdx, startIdx, width int) []Cell {
	path := make([]Cell, 0, 32)
	for {
		path = append(path, Cell{X: currentIdx % width, Y: currentIdx / width})
		if currentIdx == startIdx {
			break
		}
		prev, ok := cameFrom[currentIdx]
		if !ok {
			return nil
		}
		currentIdx = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func manhattan(a, b Cell) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}
