package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChangedFields(t *testing.T) {
	assert.Equal(t, []string{"description", "number"}, ParseChangedFields([]byte(`["description","number"]`)))
	assert.Empty(t, ParseChangedFields(nil))
	assert.Empty(t, ParseChangedFields([]byte(``)))
	// Garbage degrades to an empty list rather than an error.
	assert.Empty(t, ParseChangedFields([]byte(`{"not":"a list"}`)))
	assert.Empty(t, ParseChangedFields([]byte(`description,number`)))
}
