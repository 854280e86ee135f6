package wire_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chesswatch/telemetry/internal/wire"
)

func TestMetadata_MarshalBareScalars(t *testing.T) {
	meta := wire.Metadata{
		"platform": wire.Str("linux"),
		"cores":    wire.Num(8),
		"virtual":  wire.Bool(true),
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"platform":"linux","cores":8,"virtual":true}`, string(data))
}

func TestMetadata_UnmarshalScalars(t *testing.T) {
	var meta wire.Metadata
	require.NoError(t, json.Unmarshal(
		[]byte(`{"platform":"linux","cores":8,"virtual":true}`), &meta))

	text, ok := meta["platform"].Text()
	require.True(t, ok)
	assert.Equal(t, "linux", text)

	num, ok := meta["cores"].Number()
	require.True(t, ok)
	assert.Equal(t, 8.0, num)

	flag, ok := meta["virtual"].Flag()
	require.True(t, ok)
	assert.True(t, flag)
}

func TestMetadata_RejectsNestedValues(t *testing.T) {
	var meta wire.Metadata
	assert.Error(t, json.Unmarshal([]byte(`{"nested":{"a":1}}`), &meta))
	assert.Error(t, json.Unmarshal([]byte(`{"list":[1,2]}`), &meta))
	assert.Error(t, json.Unmarshal([]byte(`{"nothing":null}`), &meta))
}

func TestMetaValue_UnsetVariantFailsToMarshal(t *testing.T) {
	var v wire.MetaValue
	_, err := json.Marshal(map[string]wire.MetaValue{"x": v})
	assert.Error(t, err)
}
