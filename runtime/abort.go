package runtime

// Abort stops the guest call in progress. The entry point that made the
// call returns a trap error wrapping err. Only valid inside a capability
// handler.
func Abort(err error) {
	panic(err)
}
