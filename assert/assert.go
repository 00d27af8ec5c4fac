package assert

import "github.com/oomph-ac/pmove/oerror"

// IsTrue panics with a formatted MovementError when ok is false. It guards programmer errors only; runtime
// conditions are reported through error returns.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
