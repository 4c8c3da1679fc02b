package visualization

import (
	"math"
	"math/rand"
)

// Defaults for iterative layouts
const (
	DefaultIterations = 50
	DefaultSeed       = 1
)

// ForceDirectedLayout implements Fruchterman–Reingold style layout. Output
// depends only on the inputs and the configured seed.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = DefaultIterations
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	if config.Seed == 0 {
		config.Seed = DefaultSeed
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using repulsion between every pair of
// nodes and attraction along links between nodes being placed.
func (fdl *ForceDirectedLayout) ComputeLayout(nodeIDs []string, links []Link) map[string]Position {
	cfg := fdl.config

	if len(nodeIDs) == 0 {
		return make(map[string]Position)
	}
	if len(nodeIDs) == 1 {
		return map[string]Position{
			nodeIDs[0]: {X: cfg.Width / 2, Y: cfg.Height / 2},
		}
	}

	index := make(map[string]int, len(nodeIDs))
	for i, id := range nodeIDs {
		index[id] = i
	}

	type pair struct{ a, b int }
	edges := make([]pair, 0, len(links))
	for _, l := range links {
		a, okA := index[l[0]]
		b, okB := index[l[1]]
		if okA && okB && a != b {
			edges = append(edges, pair{a, b})
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	pos := make([]Position, len(nodeIDs))
	for i := range pos {
		pos[i] = Position{
			X: rng.Float64()*math.Max(cfg.Width-2*cfg.Padding, 1) + cfg.Padding,
			Y: rng.Float64()*math.Max(cfg.Height-2*cfg.Padding, 1) + cfg.Padding,
		}
	}

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(nodeIDs))) // optimal distance
	temperature := cfg.Width / 10.0
	forces := make([]Position, len(nodeIDs))

	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range forces {
			forces[i] = Position{}
		}

		// repulsion
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Max(math.Hypot(dx, dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force
				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// attraction
		for _, e := range edges {
			dx := pos[e.a].X - pos[e.b].X
			dy := pos[e.a].Y - pos[e.b].Y
			dist := math.Hypot(dx, dy)
			if dist < 0.01 {
				continue
			}

			force := (dist * dist) / k
			fx := (dx / dist) * force
			fy := (dy / dist) * force
			forces[e.a].X -= fx
			forces[e.a].Y -= fy
			forces[e.b].X += fx
			forces[e.b].Y += fy
		}

		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for i, f := range forces {
			force := math.Hypot(f.X, f.Y)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				pos[i].X += (f.X / force) * step
				pos[i].Y += (f.Y / force) * step
			}
		}

		temperature *= 0.95
	}

	positions := make(map[string]Position, len(nodeIDs))
	for i, id := range nodeIDs {
		positions[id] = pos[i]
	}
	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding)
}
