// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Solaris channel, backed by the USCSI ioctl.

//go:build solaris

package executer

import (
	"context"
	"fmt"
	"syscall"
	"unsafe"

	log "github.com/sirupsen/logrus"

	"github.com/asiutil/asiutil/scsi"
)

const (
	// USCSICMD = USCSIOC|201, USCSIOC = 0x04 << 8 (sys/scsi/impl/uscsi.h)
	USCSICMD = (0x04 << 8) | 201

	USCSI_SILENT   = 0x0001
	USCSI_READ     = 0x0008
	USCSI_RQENABLE = 0x10000

	uscsiSenseLen = 32
	uscsiTimeout  = 20 // seconds
)

type uscsiCmd struct {
	flags              int32
	status             int16
	timeout            int16
	cdb                unsafe.Pointer
	buf                unsafe.Pointer
	bufLen             int64
	resid              int64
	cdbLen             int8
	senseRequestLen    int8
	senseRequestStatus int8
	senseRequestResid  int8
	senseBuf           unsafe.Pointer
	pathInstance       int64
}

type uscsiExecuter struct {
	name string
	fd   int
}

// Open opens a USCSI channel on a Solaris raw device path, e.g.
// /dev/rdsk/c0t0d0s2.
func Open(device string) (Executer, error) {
	fd, err := syscall.Open(device, syscall.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open device %s: %w", device, err)
	}

	log.Debugf("opened uscsi channel on %s", device)
	return &uscsiExecuter{name: device, fd: fd}, nil
}

func (e *uscsiExecuter) Call(ctx context.Context, call *scsi.ChannelCall) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	senseBuf := make([]byte, uscsiSenseLen)
	cmd := uscsiCmd{
		flags:           USCSI_SILENT | USCSI_RQENABLE,
		timeout:         uscsiTimeout,
		cdb:             unsafe.Pointer(&call.CDB[0]),
		cdbLen:          int8(len(call.CDB)),
		senseBuf:        unsafe.Pointer(&senseBuf[0]),
		senseRequestLen: int8(len(senseBuf)),
	}

	var buf []byte
	switch call.Direction {
	case scsi.DirIn:
		cmd.flags |= USCSI_READ
		if call.AllocLen > 0 {
			buf = make([]byte, call.AllocLen)
		}
	case scsi.DirOut:
		buf = call.Data
	}

	if len(buf) > 0 {
		cmd.buf = unsafe.Pointer(&buf[0])
		cmd.bufLen = int64(len(buf))
	}

	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(e.fd), USCSICMD,
		uintptr(unsafe.Pointer(&cmd))); errno != 0 {
		return nil, fmt.Errorf("uscsi on %s: %w", e.name, errno)
	}

	log.Debugf("uscsi on %s: status %#02x", e.name, cmd.status)

	if cmd.status == statusCheckCondition {
		return nil, &scsi.CheckConditionError{Sense: scsi.ParseSense(senseBuf)}
	}
	if cmd.status != 0 {
		return nil, fmt.Errorf("SCSI status %#02x", cmd.status)
	}

	if call.Direction == scsi.DirIn {
		return buf[:int64(len(buf))-cmd.resid], nil
	}
	return nil, nil
}

func (e *uscsiExecuter) Close() error {
	log.Debugf("closing channel on %s", e.name)
	return syscall.Close(e.fd)
}
