package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeftoverMeta(t *testing.T) {
	out := leftoverMeta(map[string]string{
		"Title":        "Ignored",
		"Author":       "Ignored Too",
		"Producer":     "pdfTeX-1.40",
		"CreationDate": "2024-11-02",
		"Blank":        "  ",
	})

	var extra map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &extra))
	assert.Equal(t, map[string]string{
		"Producer":     "pdfTeX-1.40",
		"CreationDate": "2024-11-02",
	}, extra)
}

func TestLeftoverMeta_Empty(t *testing.T) {
	assert.Empty(t, leftoverMeta(nil))
	assert.Empty(t, leftoverMeta(map[string]string{"Title": "x", "Author": "y"}))
}
