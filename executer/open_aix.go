// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// AIX channel, backed by the DK_PASSTHRU ioctl (sys/scsi_buf.h).

//go:build aix

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
	DK_PASSTHRU = 0x76d9

	// sc_passthru.flags transfer directions
	B_READ  = 0x0001
	B_WRITE = 0x0000

	aixTimeout = 20 // seconds
)

// sc_passthru (abridged to the fields the pass-through path uses)
type scPassthru struct {
	version        uint32
	status         uint8
	adapterStatus  uint8
	adapFlags      uint8
	cdbLen         uint8
	cdb            [32]byte
	timeout        uint32
	flags          uint32
	dataLen        uint64
	dataPtr        unsafe.Pointer
	scsiStatus     uint8
	senseLen       uint8
	_              [2]byte
	autosensePtr   unsafe.Pointer
	residual       uint64
	deviceFlags    uint32
	qTag           uint8
	_              [3]byte
}

type aixExecuter struct {
	name string
	fd   int
}

// Open opens a pass-through channel on an AIX hdisk path, e.g. /dev/hdisk0.
func Open(device string) (Executer, error) {
	fd, err := syscall.Open(device, syscall.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open device %s: %w", device, err)
	}

	log.Debugf("opened passthru channel on %s", device)
	return &aixExecuter{name: device, fd: fd}, nil
}

func (e *aixExecuter) Call(ctx context.Context, call *scsi.ChannelCall) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(call.CDB) > 32 {
		return nil, fmt.Errorf("pass-through limited to 32-byte CDBs, got %d", len(call.CDB))
	}

	senseBuf := make([]byte, senseBufLen)
	pt := scPassthru{
		cdbLen:       uint8(len(call.CDB)),
		timeout:      aixTimeout,
		senseLen:     senseBufLen,
		autosensePtr: unsafe.Pointer(&senseBuf[0]),
	}
	copy(pt.cdb[:], call.CDB)

	var buf []byte
	switch call.Direction {
	case scsi.DirIn:
		pt.flags = B_READ
		if call.AllocLen > 0 {
			buf = make([]byte, call.AllocLen)
		}
	case scsi.DirOut:
		pt.flags = B_WRITE
		buf = call.Data
	}

	if len(buf) > 0 {
		pt.dataLen = uint64(len(buf))
		pt.dataPtr = unsafe.Pointer(&buf[0])
	}

	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(e.fd), DK_PASSTHRU,
		uintptr(unsafe.Pointer(&pt))); errno != 0 {
		return nil, fmt.Errorf("passthru on %s: %w", e.name, errno)
	}

	log.Debugf("passthru on %s: scsi status %#02x", e.name, pt.scsiStatus)

	if pt.scsiStatus == statusCheckCondition {
		return nil, &scsi.CheckConditionError{Sense: scsi.ParseSense(senseBuf)}
	}
	if pt.scsiStatus != 0 || pt.status != 0 {
		return nil, fmt.Errorf("SCSI status %#02x, adapter status %#02x", pt.scsiStatus, pt.status)
	}

	if call.Direction == scsi.DirIn {
		return buf[:uint64(len(buf))-pt.residual], nil
	}
	return nil, nil
}

func (e *aixExecuter) Close() error {
	log.Debugf("closing channel on %s", e.name)
	return syscall.Close(e.fd)
}
