package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineStateString(t *testing.T) {
	s := PipelineState{
		StateInputFile:   "data.csv",
		StateDatasetType: "",
		"count":          3,
	}

	v, ok := s.String(StateInputFile)
	assert.True(t, ok)
	assert.Equal(t, "data.csv", v)

	_, ok = s.String(StateDatasetType)
	assert.False(t, ok, "empty strings count as absent")
	_, ok = s.String("count")
	assert.False(t, ok)
	_, ok = s.String("missing")
	assert.False(t, ok)
}

func TestPipelineStateClone(t *testing.T) {
	s := PipelineState{StateInputFile: "a.csv"}
	c := s.Clone()
	c[StateInputFile] = "b.csv"
	v, _ := s.String(StateInputFile)
	assert.Equal(t, "a.csv", v)
}

func TestPipelineStateAppendLog(t *testing.T) {
	s := PipelineState{}
	s.AppendLog("data_agent", "started")
	s.AppendLog("data_agent", "finished")

	logs := s[StateLogs].([]map[string]interface{})
	assert.Len(t, logs, 2)
	assert.Equal(t, "started", logs[0]["message"])
	assert.Equal(t, "data_agent", logs[1]["node"])
	assert.NotEmpty(t, logs[0]["timestamp"])
}

func TestAppendLogKeepsDecodedEntries(t *testing.T) {
	// Logs posted as JSON decode to []interface{}; appending must not
	// discard them.
	s := PipelineState{
		StateLogs: []interface{}{
			map[string]interface{}{"node": "client", "message": "submitted"},
		},
	}
	s.AppendLog("data_agent", "started")

	logs := s[StateLogs].([]map[string]interface{})
	assert.Len(t, logs, 2)
	assert.Equal(t, "submitted", logs[0]["message"])
	assert.Equal(t, "data_agent", logs[1]["node"])
}
