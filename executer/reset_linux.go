// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

//go:build linux

package executer

import (
	"fmt"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	SG_SCSI_RESET = 0x2284

	SG_SCSI_RESET_DEVICE = 1
	SG_SCSI_RESET_HOST   = 3
	SG_SCSI_RESET_TARGET = 4
)

// Reset issues a task-management reset through the sg driver. The device
// node is opened for the duration of the ioctl only.
func Reset(device string, kind ResetKind) error {
	var op int32
	switch kind {
	case ResetTarget:
		op = SG_SCSI_RESET_TARGET
	case ResetHost:
		op = SG_SCSI_RESET_HOST
	default:
		op = SG_SCSI_RESET_DEVICE
	}

	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NONBLOCK, 0600)
	if err != nil {
		return fmt.Errorf("cannot open device %s: %w", device, err)
	}
	defer unix.Close(fd)

	log.Debugf("issuing %s on %s", kind, device)
	if err := ioctl(fd, SG_SCSI_RESET, uintptr(unsafe.Pointer(&op))); err != nil {
		return fmt.Errorf("%s on %s: %w", kind, device, err)
	}

	return nil
}
