package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotAvailable   = errors.New("player is not available")
	ErrNotKeeper      = errors.New("player is not a keeper")

	// Draft errors
	ErrPickReserved     = errors.New("current pick is reserved for a keeper")
	ErrCannotUndoKeeper = errors.New("cannot undo a keeper pick")
	ErrStalePick        = errors.New("draft cursor moved before the pick was made")
	ErrDraftComplete    = errors.New("draft is complete")
	ErrRosterOverflow   = errors.New("team roster is full")

	// Keeper errors
	ErrInvalidTeam   = errors.New("invalid team")
	ErrInvalidRound  = errors.New("invalid round")
	ErrPickCollision = errors.New("pick is already taken")

	// Settings errors
	ErrInvalidSettings  = errors.New("invalid league settings")
	ErrSettingsConflict = errors.New("settings conflict with existing picks")

	// Auto-draft errors
	ErrStrategyUnavailable = errors.New("draft strategy unavailable")
	ErrUnknownStrategy     = errors.New("unknown draft strategy")
	ErrAutoDraftBusy       = errors.New("auto-draft is already running")

	// Persistence errors
	ErrPersistenceFailure = errors.New("failed to persist draft state")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrInvalidSnapshot    = errors.New("invalid snapshot")

	// Input errors
	ErrInvalidImport  = errors.New("invalid player import")
	ErrInvalidRequest = errors.New("invalid request")
)
