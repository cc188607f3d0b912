package production

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/transitionx/testutil"
)

func TestRows(t *testing.T) {
	sys, _, err := testutil.NewShiftReduce()
	require.NoError(t, err)
	_, err = sys.AddAction(testutil.Reduce, "NP")
	require.NoError(t, err)

	rows := Rows(sys)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{ID: 2, Name: "REDUCE:NP", Kind: "REDUCE", Label: "NP", Frequency: rows[2].Frequency}, rows[2])
	assert.Less(t, rows[2].Frequency, 0)
	assert.Equal(t, "SHIFT", rows[0].Name)
}

func TestExportText(t *testing.T) {
	rows := []Row{
		{ID: 0, Name: "SHIFT", Frequency: 12},
		{ID: 1, Name: "LEFT:nsubj", Frequency: 7},
	}
	var buf bytes.Buffer
	require.NoError(t, ExportText(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "LEFT:nsubj")
	// columns line up
	assert.Equal(t, strings.Index(lines[0], "MOVE"), strings.Index(lines[1], "SHIFT"))
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = ExportJSON([]Row{{ID: 3, Name: "TAG:NOUN", Kind: "TAG", Label: "NOUN", Frequency: 2}})
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "TAG:NOUN", decoded[0]["name"])
	assert.Equal(t, float64(2), decoded[0]["frequency"])
}
