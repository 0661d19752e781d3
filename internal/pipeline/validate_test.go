package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-data-pipeline/internal/model"
)

func TestValidateStructureEmptyTable(t *testing.T) {
	table := model.NewTable([]string{"a", "b"}, nil)

	err := ValidateStructure(table, nil, "empty.csv")
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "empty.csv", verr.Filename)
	assert.Len(t, verr.Issues, 1)
}

func TestValidateStructureFullyNullColumns(t *testing.T) {
	table := model.NewTable(
		[]string{"title", "ghost", "phantom"},
		[][]interface{}{
			{"a", nil, nil},
			{"b", nil, nil},
		},
	)

	err := ValidateStructure(table, nil, "nulls.csv")
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 2, "both empty columns reported at once")
	assert.Equal(t, "ghost", verr.Issues[0].Column)
	assert.Equal(t, "phantom", verr.Issues[1].Column)
}

func TestValidateStructureMissingExpectedColumnsIsSoft(t *testing.T) {
	table := model.NewTable(
		[]string{"title", "pages"},
		[][]interface{}{{"a", 10}},
	)

	err := ValidateStructure(table, []string{"title", "year", "citations"}, "thesis.csv")
	assert.NoError(t, err, "missing expected columns only warn")
}

func TestValidateStructureNegativesAndTextAreSoft(t *testing.T) {
	table := model.NewTable(
		[]string{"pages", "diff_score", "abstract"},
		[][]interface{}{
			{-3, -1.5, "résumé with {braces}"},
			{10, 2.0, "plain text"},
		},
	)

	assert.NoError(t, ValidateStructure(table, nil, "soft.csv"))
}
