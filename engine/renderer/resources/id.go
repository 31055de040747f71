package resources

import (
	"fmt"
	"math"
)

// InvalidIndex marks an invalid ResourceID regardless of generation.
const InvalidIndex uint32 = math.MaxUint32

// ResourceID is a handle to a resource that combines an index with a
// generation counter. The generation is incremented each time a resource slot
// is recycled, so stale handles to a reused slot compare unequal to fresh
// ones (the ABA problem).
//
// ResourceID is a comparable value type and can be used directly as a map key.
type ResourceID struct {
	Index      uint32
	Generation uint32
}

// InvalidResourceID returns the canonical invalid resource identifier.
func InvalidResourceID() ResourceID {
	return ResourceID{Index: InvalidIndex, Generation: 0}
}

// NewResourceID builds a handle with a specific index and generation.
func NewResourceID(index, generation uint32) ResourceID {
	return ResourceID{Index: index, Generation: generation}
}

// IsValid reports whether the handle refers to a real slot.
func (r ResourceID) IsValid() bool {
	return r.Index != InvalidIndex
}

func (r ResourceID) String() string {
	return fmt.Sprintf("ResourceID(index=%d, generation=%d)", r.Index, r.Generation)
}
