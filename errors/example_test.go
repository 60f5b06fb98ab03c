package errors_test

import (
	"fmt"

	"github.com/jmgilman/nodeenv/errors"
)

func ExampleNew() {
	err := errors.New(errors.CodeNotFound, "no version requirement found")
	fmt.Println(err.Error())
	// Output: [NOT_FOUND] no version requirement found
}

func ExampleWrap() {
	cause := fmt.Errorf("exit status 127")
	err := errors.Wrap(cause, errors.CodeProbeFailed, "fnm probe failed")

	fmt.Println(errors.GetCode(err), errors.IsRetryable(err))
	// Output: PROBE_FAILED true
}

func ExampleWithContext() {
	err := errors.New(errors.CodeReadFailed, "failed to read pin file")
	err = errors.WithContext(err, "path", "/work/app/.nvmrc")

	fmt.Println(err.Context()["path"])
	// Output: /work/app/.nvmrc
}
