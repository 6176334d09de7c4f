// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Windows channel, backed by the SCSI_PASS_THROUGH_DIRECT DeviceIoControl.

//go:build windows

package executer

import (
	"context"
	"fmt"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/asiutil/asiutil/scsi"
)

const (
	IOCTL_SCSI_PASS_THROUGH_DIRECT = 0x4d014

	SCSI_IOCTL_DATA_OUT         = 0
	SCSI_IOCTL_DATA_IN          = 1
	SCSI_IOCTL_DATA_UNSPECIFIED = 2

	// Timeout in seconds
	sptTimeout = 20

	sptSenseLen = 32
)

// SCSI_PASS_THROUGH_DIRECT plus the sense buffer that
// SenseInfoOffset points into.
type scsiPassThroughDirect struct {
	length             uint16
	scsiStatus         uint8
	pathId             uint8
	targetId           uint8
	lun                uint8
	cdbLength          uint8
	senseInfoLength    uint8
	dataIn             uint8
	_                  [3]byte
	dataTransferLength uint32
	timeOutValue       uint32
	dataBuffer         uintptr
	senseInfoOffset    uint32
	cdb                [16]byte
	senseBuf           [sptSenseLen]byte
}

type sptExecuter struct {
	name   string
	handle windows.Handle
}

// Open opens a pass-through channel on a Windows physical device path,
// e.g. \\.\PhysicalDrive0.
func Open(device string) (Executer, error) {
	path, err := windows.UTF16PtrFromString(device)
	if err != nil {
		return nil, fmt.Errorf("invalid device path %s: %w", device, err)
	}

	handle, err := windows.CreateFile(path,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open device %s: %w", device, err)
	}

	log.Debugf("opened pass-through channel on %s", device)
	return &sptExecuter{name: device, handle: handle}, nil
}

func (e *sptExecuter) Call(ctx context.Context, call *scsi.ChannelCall) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(call.CDB) > 16 {
		return nil, fmt.Errorf("pass-through limited to 16-byte CDBs, got %d", len(call.CDB))
	}

	spt := scsiPassThroughDirect{
		cdbLength:       uint8(len(call.CDB)),
		senseInfoLength: sptSenseLen,
		timeOutValue:    sptTimeout,
	}
	spt.length = uint16(unsafe.Offsetof(spt.senseBuf))
	spt.senseInfoOffset = uint32(unsafe.Offsetof(spt.senseBuf))
	copy(spt.cdb[:], call.CDB)

	var buf []byte
	switch call.Direction {
	case scsi.DirIn:
		spt.dataIn = SCSI_IOCTL_DATA_IN
		if call.AllocLen > 0 {
			buf = make([]byte, call.AllocLen)
		}
	case scsi.DirOut:
		spt.dataIn = SCSI_IOCTL_DATA_OUT
		buf = call.Data
	default:
		spt.dataIn = SCSI_IOCTL_DATA_UNSPECIFIED
	}

	if len(buf) > 0 {
		spt.dataTransferLength = uint32(len(buf))
		spt.dataBuffer = uintptr(unsafe.Pointer(&buf[0]))
	}

	var returned uint32
	err := windows.DeviceIoControl(e.handle, IOCTL_SCSI_PASS_THROUGH_DIRECT,
		(*byte)(unsafe.Pointer(&spt)), uint32(unsafe.Sizeof(spt)),
		(*byte)(unsafe.Pointer(&spt)), uint32(unsafe.Sizeof(spt)),
		&returned, nil)
	if err != nil {
		return nil, fmt.Errorf("pass-through on %s: %w", e.name, err)
	}

	log.Debugf("pass-through on %s: status %#02x", e.name, spt.scsiStatus)

	if spt.scsiStatus == statusCheckCondition {
		return nil, &scsi.CheckConditionError{Sense: scsi.ParseSense(spt.senseBuf[:])}
	}
	if spt.scsiStatus != 0 {
		return nil, fmt.Errorf("SCSI status %#02x", spt.scsiStatus)
	}

	if call.Direction == scsi.DirIn {
		n := int(spt.dataTransferLength)
		if n > len(buf) {
			n = len(buf)
		}
		return buf[:n], nil
	}
	return nil, nil
}

func (e *sptExecuter) Close() error {
	log.Debugf("closing channel on %s", e.name)
	return windows.CloseHandle(e.handle)
}
