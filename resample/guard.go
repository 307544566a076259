// SPDX-License-Identifier: MIT

package resample

import (
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/mem"
)

// bytesPerCell is the output cost of one float64 cell.
const bytesPerCell = 8

// checkFootprint refuses rows×cols outputs that exceed the cell cap, the
// explicit budget or the memory the host reports as available. A failing host
// query is not an error; the remaining limits still apply.
func checkFootprint(rows, cols int, o Options) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, rows, cols)
	}
	if rows > o.maxCells/cols {
		return fmt.Errorf("%w: %dx%d cells exceeds cap %d", ErrTooLarge, rows, cols, o.maxCells)
	}
	need := uint64(rows) * uint64(cols) * bytesPerCell
	if o.memBudget > 0 && need > o.memBudget {
		return fmt.Errorf("%w: needs %d bytes, budget %d", ErrTooLarge, need, o.memBudget)
	}
	if o.checkHost {
		if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 && need > vm.Available {
			return fmt.Errorf("%w: needs %d bytes, host has %d available", ErrTooLarge, need, vm.Available)
		}
	}
	return nil
}

// scaledCount multiplies n by k, failing instead of overflowing.
func scaledCount(n, k int) (int, error) {
	if k <= 0 || n > math.MaxInt32/k {
		return 0, fmt.Errorf("%w: %d×%d overflows", ErrTooLarge, n, k)
	}
	return n * k, nil
}
