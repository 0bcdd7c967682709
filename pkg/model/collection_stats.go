package model

import "fmt"

// CollectionStats describe the space a collection takes in the
// storage engine.
type CollectionStats struct {
	// Name of the collection
	Name string `json:"name"`
	// Documents number of documents in the collection
	Documents uint64 `json:"doc_count"`
	// Sequence is increased on every write to the collection
	Sequence uint64 `json:"update_seq"`
	// Used number of bytes used by the collection
	Used uint64 `json:"used"`
	// Allocated number of bytes allocated by the collection
	Allocated uint64 `json:"allocated"`
}

func (s CollectionStats) String() string {
	return fmt.Sprintf("<Stats name=%q docs=%d seq=%d used=%d allocated=%d>",
		s.Name, s.Documents, s.Sequence, s.Used, s.Allocated)
}
