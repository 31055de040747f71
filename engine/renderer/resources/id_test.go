package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceIDValidity(t *testing.T) {
	invalid := InvalidResourceID()
	assert.False(t, invalid.IsValid())

	id := NewResourceID(0, 1)
	assert.True(t, id.IsValid())

	// Only the index determines validity; the generation is a freshness tag.
	assert.True(t, NewResourceID(3, 0).IsValid())
	assert.False(t, NewResourceID(InvalidIndex, 7).IsValid())
}

func TestResourceIDGenerationDistinguishesReuse(t *testing.T) {
	// Same slot, different lifetimes. A stale handle must not equal the
	// resource currently living in the slot.
	stale := NewResourceID(5, 1)
	current := NewResourceID(5, 2)

	assert.NotEqual(t, stale, current)
	assert.Equal(t, stale.Index, current.Index)
}

func TestResourceIDAsMapKey(t *testing.T) {
	m := map[ResourceID]string{
		NewResourceID(0, 1): "first",
		NewResourceID(0, 2): "second",
		NewResourceID(1, 1): "third",
	}

	assert.Len(t, m, 3)
	assert.Equal(t, "second", m[NewResourceID(0, 2)])
}
