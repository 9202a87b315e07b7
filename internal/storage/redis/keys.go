package redis

import (
	"fmt"

	"github.com/mcoot/draftboard/internal/model"
)

// Key prefix for all draft data
const keyPrefix = "draftboard"

// snapshotKey returns the Redis key for a session's snapshot
func snapshotKey(id model.SessionID) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, id)
}

// sessionsIndexKey returns the Redis key for the SET of stored session ids
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}
