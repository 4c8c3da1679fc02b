package algorithms

// Community represents a detected community
type Community struct {
	ID      int      `json:"id" yaml:"id"`
	Nodes   []string `json:"nodes" yaml:"nodes"`
	Size    int      `json:"size" yaml:"size"`
	Density float64  `json:"density" yaml:"density"` // Edge density within community
}

// CommunityDetectionResult contains detected communities. Community IDs are
// positions in discovery order and carry no meaning beyond grouping.
type CommunityDetectionResult struct {
	Communities   []*Community   `json:"communities" yaml:"communities"`
	NodeCommunity map[string]int `json:"node_community" yaml:"node_community"` // Node ID -> Community ID
}

// CommunityOf returns the community index of a node.
func (r *CommunityDetectionResult) CommunityOf(nodeID string) (int, bool) {
	id, ok := r.NodeCommunity[nodeID]
	return id, ok
}
