package alignment

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedKey is returned by [NewIndex] for an unknown [Key].
var ErrUnsupportedKey = errors.New("unsupported index key")

// Key selects the attribute records are grouped by.
type Key int

const (
	ByNodeID Key = iota + 1 // fragment ID of the query
	ByStart                 // subject start, in decimal
)

// String returns the key name.
func (k Key) String() string {
	switch k {
	case ByNodeID:
		return "node id"
	case ByStart:
		return "start position"
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Of returns the key of r.
func (k Key) Of(r *Record) (string, error) {
	switch k {
	case ByNodeID:
		return r.NodeID, nil
	case ByStart:
		return strconv.Itoa(r.SubjectStart), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedKey, k)
}

// Index maps a key to the positions of the records carrying it, in input
// order.
type Index map[string][]int

// NewIndex groups records by key.
func NewIndex(records []*Record, key Key) (Index, error) {
	idx := make(Index)
	for i, r := range records {
		k, err := key.Of(r)
		if err != nil {
			return nil, err
		}
		idx[k] = append(idx[k], i)
	}
	return idx, nil
}
