package visualization

import (
	"math"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout places nodes evenly on a circle, in the given order, starting
// at angle zero. A single node is centred. Links are not used.
func (cl *CircularLayout) ComputeLayout(nodeIDs []string, _ []Link) map[string]Position {
	positions := make(map[string]Position, len(nodeIDs))

	if len(nodeIDs) == 0 {
		return positions
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2

	if len(nodeIDs) == 1 {
		positions[nodeIDs[0]] = Position{X: centerX, Y: centerY}
		return positions
	}

	radius := math.Max(math.Min(centerX, centerY)-cl.config.Padding, 0)
	angleStep := 2 * math.Pi / float64(len(nodeIDs))

	for i, nodeID := range nodeIDs {
		angle := float64(i) * angleStep
		positions[nodeID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions
}
