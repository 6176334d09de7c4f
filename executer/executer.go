// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Package executer opens execution channels to SCSI devices and drives
// command sequences over them. Open selects the transport from the device
// identifier; the per-platform implementations live in their build-tagged
// files.
package executer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/asiutil/asiutil/scsi"
)

const (
	// SCSI status CHECK CONDITION
	statusCheckCondition = 0x02

	senseBufLen = 32
)

// Executer is an open, exclusively owned channel to a device. A channel
// lives for exactly one command invocation: Open immediately before use,
// Close unconditionally afterwards.
type Executer interface {
	Call(ctx context.Context, call *scsi.ChannelCall) ([]byte, error)
	Close() error
}

// Wait drives a command's sequence to completion against an open channel
// and returns its final result. Suspension never escapes this loop: each
// channel call is issued, its result resumes the sequence, and errors
// propagate unchanged. There are no retries.
func Wait(ctx context.Context, ex Executer, cmd scsi.Command) (scsi.Result, error) {
	seq := cmd.Sequence()

	var data []byte
	for {
		step, err := seq.Resume(data)
		if err != nil {
			return nil, err
		}
		if step.Done {
			return step.Result, nil
		}

		data, err = ex.Call(ctx, step.Call)
		if err != nil {
			return nil, err
		}
	}
}

// UnsupportedPlatformError reports that no transport exists for the host
// operating system.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform %s is not supported", e.Platform)
}

// UnsupportedOperationError reports an operation the current platform has
// no implementation for, e.g. reset on a non-Linux host.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported on %s", e.Op, runtime.GOOS)
}

// ResetKind selects the scope of a reset task-management request.
type ResetKind int

const (
	ResetDevice ResetKind = iota // logical unit
	ResetTarget
	ResetHost // bus adapter
)

func (k ResetKind) String() string {
	switch k {
	case ResetTarget:
		return "target reset"
	case ResetHost:
		return "host reset"
	default:
		return "device reset"
	}
}
