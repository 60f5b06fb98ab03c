package core

import (
	"errors"
	"io/fs"
)

// ErrNotExist is the error every ReadFS returns for a missing file. Readers
// treat it as absence rather than failure.
var ErrNotExist = fs.ErrNotExist

// IsNotExist reports whether err means the file is absent.
func IsNotExist(err error) bool {
	return err != nil && errors.Is(err, ErrNotExist)
}
