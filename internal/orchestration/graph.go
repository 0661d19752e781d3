package orchestration

// GraphMetadata describes the fixed shape of the analysis chain for
// the API, so clients can render the pipeline without running it.
func GraphMetadata() map[string]interface{} {
	nodes := []string{"data_agent", "analysis_agent", "visualization_agent", "report_agent"}
	edges := make([]map[string]string, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		edges = append(edges, map[string]string{"from": nodes[i], "to": nodes[i+1]})
	}
	return map[string]interface{}{
		"nodes":     nodes,
		"edges":     edges,
		"structure": "linear",
	}
}
