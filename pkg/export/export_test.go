package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}

func TestRenderCSVFollowsHeaderOrder(t *testing.T) {
	data := Dataset{
		Headers: []string{"topic", "accuracy"},
		Rows: []map[string]string{
			{"accuracy": "75", "topic": "Arrays"},
			{"topic": "Trees"},
		},
	}

	out, err := Render(FormatCSV, data, "")
	require.NoError(t, err)
	assert.Equal(t, "topic,accuracy\nArrays,75\nTrees,\n", string(out))
}

func TestRenderPDF(t *testing.T) {
	data := Dataset{
		Headers: []string{"topic", "accuracy"},
		Rows:    []map[string]string{{"topic": "Arrays", "accuracy": "75"}},
	}

	out, err := Render(FormatPDF, data, "Progress")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := Render(FormatCSV, Dataset{}, "")
	require.Error(t, err)
}
