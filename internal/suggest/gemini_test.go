package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestionsPlainJSON(t *testing.T) {
	text := `[{"serviceName":"Oil change","reason":"Due at this mileage"}]`

	got, err := ParseSuggestions(text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Oil change", got[0].ServiceName)
	assert.Equal(t, "Due at this mileage", got[0].Reason)
}

func TestParseSuggestionsFencedJSON(t *testing.T) {
	text := "```json\n[{\"serviceName\":\"Brake inspection\",\"reason\":\"Squealing noise reported\"}]\n```"

	got, err := ParseSuggestions(text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Brake inspection", got[0].ServiceName)
}

func TestParseSuggestionsGarbage(t *testing.T) {
	_, err := ParseSuggestions("sorry, I cannot help with that")
	assert.Error(t, err)
}
