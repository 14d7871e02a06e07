//go:build cell_unchecked

package cell

// Built with -tags cell_unchecked the reentrancy guard is compiled out.
const checked = false
