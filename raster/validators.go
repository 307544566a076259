// SPDX-License-Identifier: MIT
// Package: raster
//
// Purpose:
//   - Single source of truth for the co-registration checks every compositing
//     stage relies on.
//   - Shape equality alone does not prove alignment: a column offset between
//     two grids of equal shape silently shifts the merge. ValidateCoRegistered
//     therefore also compares origin and cell size.
//
// Note:
//   - Composite validators run in a fixed order: NotNil → Shape → Alignment.

package raster

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures every raster reference is non-nil.
func ValidateNotNil(rs ...*Raster) error {
	for _, r := range rs {
		if r == nil {
			return validatorErrorf("ValidateNotNil", ErrNilRaster)
		}
	}
	return nil
}

// ValidateSameShape ensures a and b have equal row and column counts.
// Assumes a and b are not nil.
func ValidateSameShape(a, b *Raster) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf(fmt.Sprintf("ValidateSameShape: rows %d != %d", a.Rows(), b.Rows()), ErrShapeMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf(fmt.Sprintf("ValidateSameShape: cols %d != %d", a.Cols(), b.Cols()), ErrShapeMismatch)
	}
	return nil
}

// ValidateAligned ensures two headers share origin and cell size within tol,
// expressed as a fraction of the smaller cell size on each axis.
func ValidateAligned(a, b Header, tol float64) error {
	if tol < 0 || math.IsNaN(tol) {
		tol = DefaultAlignTolerance
	}
	dx := math.Min(a.DX, b.DX)
	dy := math.Min(a.DY, b.DY)
	switch {
	case !Near(a.DX, b.DX, tol*dx/math.Max(1, float64(a.Cols))):
		return validatorErrorf(fmt.Sprintf("ValidateAligned: dx %g != %g", a.DX, b.DX), ErrMisalignedGrids)
	case !Near(a.DY, b.DY, tol*dy/math.Max(1, float64(a.Rows))):
		return validatorErrorf(fmt.Sprintf("ValidateAligned: dy %g != %g", a.DY, b.DY), ErrMisalignedGrids)
	case !Near(a.XLL, b.XLL, tol*dx):
		return validatorErrorf(fmt.Sprintf("ValidateAligned: xll %g != %g", a.XLL, b.XLL), ErrMisalignedGrids)
	case !Near(a.YLL, b.YLL, tol*dy):
		return validatorErrorf(fmt.Sprintf("ValidateAligned: yll %g != %g", a.YLL, b.YLL), ErrMisalignedGrids)
	}
	return nil
}

// ValidateCoRegistered runs NotNil → SameShape → Aligned.
// Returns ErrNilRaster, ErrShapeMismatch or ErrMisalignedGrids (wrapped).
func ValidateCoRegistered(a, b *Raster, tol float64) error {
	if err := ValidateNotNil(a, b); err != nil {
		return err
	}
	if err := ValidateSameShape(a, b); err != nil {
		return err
	}
	return ValidateAligned(a.Header(), b.Header(), tol)
}
