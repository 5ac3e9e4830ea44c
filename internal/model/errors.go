package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Name validation errors
	ErrNameEmpty   = errors.New("player name is empty")
	ErrNameProfane = errors.New("player name contains inappropriate language")
	ErrNameTaken   = errors.New("player name is already taken")

	// Hunt progression errors
	ErrMustScanFirst   = errors.New("the hunt must be started by scanning the first tag")
	ErrUnknownTag      = errors.New("tag is not part of the hunt")
	ErrAlreadyStarted  = errors.New("the hunt has already been started")
	ErrAlreadyFinished = errors.New("the hunt has already been completed")
	ErrScanConflict    = errors.New("player state changed since the scan was read")

	// Admin errors
	ErrNotAdmin = errors.New("admin authorization required")
)
