package party

import (
	"io"
	"sort"
)

// IDSlice is a sorted slice of IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of the given IDs.
func NewIDSlice(partyIDs []ID) IDSlice {
	ids := IDSlice(partyIDs).Copy()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Copy returns an identical copy of the received.
func (partyIDs IDSlice) Copy() IDSlice {
	ids := make(IDSlice, len(partyIDs))
	copy(ids, partyIDs)
	return ids
}

// Valid returns true if the slice is sorted and does not contain duplicates
// or empty IDs.
func (partyIDs IDSlice) Valid() bool {
	n := len(partyIDs)
	for i := 1; i < n; i++ {
		if partyIDs[i-1] >= partyIDs[i] {
			return false
		}
	}
	return n == 0 || partyIDs[0] != ""
}

// Contains returns true if partyIDs contains all of the given ids.
func (partyIDs IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if partyIDs.search(id) < 0 {
			return false
		}
	}
	return true
}

func (partyIDs IDSlice) search(id ID) int {
	i := sort.Search(len(partyIDs), func(j int) bool { return partyIDs[j] >= id })
	if i < len(partyIDs) && partyIDs[i] == id {
		return i
	}
	return -1
}

// WriteTo implements io.WriterTo interface.
func (partyIDs IDSlice) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, id := range partyIDs {
		n, err := id.WriteTo(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (IDSlice) Domain() string {
	return "IDSlice"
}
