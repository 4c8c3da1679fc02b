package visualization

import "fmt"

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Link is an undirected connection between two node IDs
type Link [2]string

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Padding    float64 // Padding from edges
	Iterations int     // Number of iterations for iterative algorithms
	Seed       int64   // Seed for initial placement in iterative algorithms
}

// Layout assigns positions to an ordered list of node IDs. links may
// mention nodes outside nodeIDs; layouts ignore those.
type Layout interface {
	ComputeLayout(nodeIDs []string, links []Link) map[string]Position
}

// Algorithm names accepted by New
const (
	AlgorithmCircular = "circular"
	AlgorithmForce    = "force"
)

// New returns the layout registered under name
func New(name string, config *LayoutConfig) (Layout, error) {
	switch name {
	case AlgorithmCircular, "":
		return NewCircularLayout(config), nil
	case AlgorithmForce:
		return NewForceDirectedLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm %q", name)
	}
}
