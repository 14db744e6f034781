package external

import "errors"

var (
	// ErrConfig indicates a malformed source or an unresolved template variable.
	ErrConfig = errors.New("invalid configuration")

	// ErrResourceConflict indicates a symlink target is occupied by something else.
	ErrResourceConflict = errors.New("resource conflict")

	// ErrUnknownExternal indicates a named external is absent from the merged set.
	ErrUnknownExternal = errors.New("unknown external")

	// ErrCollaborator indicates a non-zero exit from an invoked VCS command.
	ErrCollaborator = errors.New("command failed")
)
