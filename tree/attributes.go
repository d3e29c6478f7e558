package tree

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
)

/*
Attributes is an immutable set of attribute indices that are still available
to split on. Its methods never modify the receiver: Without returns a new set,
so sets handed to different branches of a tree never interfere.

The zero value is an empty set.
*/
type Attributes struct {
	set *treeset.Set
}

// NewAttributes returns a set with the given attribute indices.
func NewAttributes(indices ...int) Attributes {
	set := treeset.NewWithIntComparator()
	for _, i := range indices {
		set.Add(i)
	}
	return Attributes{set}
}

// AttributeRange returns a set with the attribute indices in [0, n).
func AttributeRange(n int) Attributes {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return NewAttributes(indices...)
}

// Len returns the number of attribute indices in the set.
func (a Attributes) Len() int {
	if a.set == nil {
		return 0
	}
	return a.set.Size()
}

// Contains returns whether the given index belongs to the set.
func (a Attributes) Contains(i int) bool {
	return a.set != nil && a.set.Contains(i)
}

// Indices returns the attribute indices in the set in ascending order.
func (a Attributes) Indices() []int {
	result := make([]int, 0, a.Len())
	if a.set == nil {
		return result
	}
	it := a.set.Iterator()
	for it.Next() {
		result = append(result, it.Value().(int))
	}
	return result
}

// Without returns a new set with every index in the receiver but the given one.
func (a Attributes) Without(i int) Attributes {
	set := treeset.NewWithIntComparator()
	for _, j := range a.Indices() {
		if j != i {
			set.Add(j)
		}
	}
	return Attributes{set}
}

func (a Attributes) String() string {
	return fmt.Sprintf("%v", a.Indices())
}
