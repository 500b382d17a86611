package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrFetchFailed       = errors.New("fetch failed")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrSnapshotMalformed = errors.New("snapshot malformed")
)
