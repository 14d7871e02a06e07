//go:build !cell_unchecked

package cell

const checked = true
