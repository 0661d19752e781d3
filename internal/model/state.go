package model

import "time"

// PipelineState is the shared mapping threaded through the four-step
// analysis chain. Steps read the keys they need and add new keys; no step
// deletes state.
type PipelineState map[string]interface{}

// Well-known pipeline state keys.
const (
	StateInputFile     = "input_file"
	StateDatasetType   = "dataset_type"
	StateCleanedFile   = "cleaned_file"
	StateCleaningStats = "cleaning_stats"
	StateDataResult    = "data_result"
	StateAnalysis      = "analysis_result"
	StateVisualization = "visualization_summary"
	StateReport        = "report_summary"
	StateLogs          = "logs"
	StateStatus        = "status"
)

// Clone copies the state map so a step can extend it without aliasing the
// caller's view.
func (s PipelineState) Clone() PipelineState {
	next := make(PipelineState, len(s))
	for k, v := range s {
		next[k] = v
	}
	return next
}

// String fetches a string-valued key, with ok=false when absent or not a
// string.
func (s PipelineState) String(key string) (string, bool) {
	v, ok := s[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok && str != ""
}

// AppendLog records a step log line into the state's log slice. Existing
// entries are preserved whether the slice was built in process or arrived
// as []interface{} through a JSON decode.
func (s PipelineState) AppendLog(node, message string) {
	var logs []map[string]interface{}
	switch existing := s[StateLogs].(type) {
	case []map[string]interface{}:
		logs = existing
	case []interface{}:
		for _, entry := range existing {
			if m, ok := entry.(map[string]interface{}); ok {
				logs = append(logs, m)
			}
		}
	}
	logs = append(logs, map[string]interface{}{
		"node":      node,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	s[StateLogs] = logs
}
