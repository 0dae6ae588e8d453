package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableUnmarshal(t *testing.T) {
	var in struct {
		Absent  Nullable[string] `json:"absent"`
		Cleared Nullable[string] `json:"cleared"`
		Given   Nullable[string] `json:"given"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"cleared": null, "given": "Caracas"}`), &in))

	assert.False(t, in.Absent.Set)
	assert.True(t, in.Cleared.Set)
	assert.False(t, in.Cleared.Valid)
	assert.Equal(t, Some("Caracas"), in.Given)

	var bad struct {
		N Nullable[int] `json:"n"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"n": "x"}`), &bad))
}

func TestNullableMerge(t *testing.T) {
	current := Ptr("old")

	assert.Same(t, current, Nullable[string]{}.Merge(current))
	assert.Nil(t, Null[string]().Merge(current))
	assert.Equal(t, "new", *Some("new").Merge(current))
}
