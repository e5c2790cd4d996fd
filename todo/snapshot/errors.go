package snapshot

import (
	"errors"
	"io/fs"
)

// ErrNotExist Returned by Load when the snapshot was never saved. It is the same
// value as [fs.ErrNotExist], so [os.IsNotExist] style checks keep working
var ErrNotExist = fs.ErrNotExist

// ErrEmptyPath Returned when a [File] is created without a destination
var ErrEmptyPath = errors.New("snapshot path must not be empty")
