package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBindlessTableDescDefaults(t *testing.T) {
	desc := NewBindlessTableDesc()

	assert.Equal(t, DefaultMaxTextures, desc.MaxTextures)
	assert.Equal(t, DefaultMaxBuffers, desc.MaxBuffers)
	assert.Equal(t, DefaultMaxSamplers, desc.MaxSamplers)
	assert.True(t, desc.DynamicIndexing)
}

func TestNewBindlessTableResourceDesc(t *testing.T) {
	resource := NewBindlessTableResourceDesc(NewBindlessTableDesc())

	assert.Equal(t, ResourceTypeBindlessTable, resource.Type)
	assert.Equal(t, ResourceStateGeneral, resource.InitialState)
	assert.False(t, resource.Transient)
	require.NotNil(t, resource.BindlessTable)
	assert.Equal(t, DefaultMaxTextures, resource.BindlessTable.MaxTextures)
}
