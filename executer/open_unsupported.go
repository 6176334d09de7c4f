// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

//go:build !linux && !windows && !solaris && !aix

package executer

import "runtime"

// Open fails on platforms without a pass-through transport.
func Open(device string) (Executer, error) {
	return nil, &UnsupportedPlatformError{Platform: runtime.GOOS}
}
