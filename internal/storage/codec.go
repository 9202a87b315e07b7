package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/draftboard/internal/model"
)

// Encode serializes a snapshot the way every backend stores it
func Encode(snap *model.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", model.ErrInvalidSnapshot)
	}
	return json.Marshal(snap)
}

// Decode parses a stored snapshot
func Decode(data []byte) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidSnapshot, err)
	}
	return &snap, nil
}
