// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

//go:build !linux

package executer

// Reset is only implemented through the Linux sg driver.
func Reset(device string, kind ResetKind) error {
	return &UnsupportedOperationError{Op: kind.String()}
}
