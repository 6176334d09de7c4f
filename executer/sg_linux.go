// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// SCSI generic (sg) and device-mapper channels, both backed by the SG_IO
// ioctl.

//go:build linux

package executer

import (
	"context"
	"fmt"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/asiutil/asiutil/scsi"
)

const (
	SG_DXFER_NONE     = -1
	SG_DXFER_TO_DEV   = -2
	SG_DXFER_FROM_DEV = -3

	SG_IO = 0x2285

	// Timeout in milliseconds
	defaultTimeout = 20000
)

// SCSI generic IO header (sg_io_hdr_t)
type sgIoHdr struct {
	interface_id    int32
	dxfer_direction int32
	cmd_len         uint8
	mx_sb_len       uint8
	iovec_count     uint16
	dxfer_len       uint32
	dxferp          uintptr
	cmdp            uintptr
	sbp             uintptr // Sense buf pointer
	timeout         uint32
	flags           uint32
	pack_id         int32
	usr_ptr         uintptr
	status          uint8
	masked_status   uint8
	msg_status      uint8
	sb_len_wr       uint8
	host_status     uint16
	driver_status   uint16
	resid           int32
	duration        uint32
	info            uint32
}

// sgExecuter issues commands through the SG_IO ioctl. It backs both the
// SCSI generic and the device-mapper transports, which differ only in how
// the node is resolved and opened.
type sgExecuter struct {
	name string
	fd   int
}

func openSG(device string) (Executer, error) {
	fd, err := unix.Open(device, unix.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open device %s: %w", device, err)
	}

	log.Debugf("opened sg channel on %s", device)
	return &sgExecuter{name: device, fd: fd}, nil
}

func openDM(device string) (Executer, error) {
	// Device-mapper nodes take SG_IO too, but must not be opened with
	// O_EXCL held by the mapper; read-write access suffices.
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NONBLOCK, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open device %s: %w", device, err)
	}

	log.Debugf("opened dm channel on %s", device)
	return &sgExecuter{name: device, fd: fd}, nil
}

func (e *sgExecuter) Call(ctx context.Context, call *scsi.ChannelCall) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hdr := sgIoHdr{
		interface_id: 'S',
		timeout:      defaultTimeout,
		cmd_len:      uint8(len(call.CDB)),
		cmdp:         uintptr(unsafe.Pointer(&call.CDB[0])),
	}

	senseBuf := make([]byte, senseBufLen)
	hdr.mx_sb_len = senseBufLen
	hdr.sbp = uintptr(unsafe.Pointer(&senseBuf[0]))

	var buf []byte
	switch call.Direction {
	case scsi.DirIn:
		hdr.dxfer_direction = SG_DXFER_FROM_DEV
		if call.AllocLen > 0 {
			buf = make([]byte, call.AllocLen)
		}
	case scsi.DirOut:
		hdr.dxfer_direction = SG_DXFER_TO_DEV
		buf = call.Data
	default:
		hdr.dxfer_direction = SG_DXFER_NONE
	}

	if len(buf) > 0 {
		hdr.dxfer_len = uint32(len(buf))
		hdr.dxferp = uintptr(unsafe.Pointer(&buf[0]))
	}

	if err := ioctl(e.fd, SG_IO, uintptr(unsafe.Pointer(&hdr))); err != nil {
		return nil, fmt.Errorf("SG_IO on %s: %w", e.name, err)
	}

	log.Debugf("SG_IO on %s: status %#02x, %dms", e.name, hdr.status, hdr.duration)

	if hdr.status == statusCheckCondition && hdr.sb_len_wr > 0 {
		return nil, &scsi.CheckConditionError{Sense: scsi.ParseSense(senseBuf[:hdr.sb_len_wr])}
	}
	// See http://www.t10.org/lists/2status.htm for SCSI status codes
	if hdr.status != 0 {
		return nil, fmt.Errorf("SCSI status %#02x, host status %#02x, driver status %#02x",
			hdr.status, hdr.host_status, hdr.driver_status)
	}

	if call.Direction == scsi.DirIn {
		return buf[:len(buf)-int(hdr.resid)], nil
	}
	return nil, nil
}

func (e *sgExecuter) Close() error {
	log.Debugf("closing channel on %s", e.name)
	return unix.Close(e.fd)
}

// ioctl executes an ioctl command on the specified file descriptor
func ioctl(fd int, cmd, ptr uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), cmd, ptr)
	if errno != 0 {
		return errno
	}
	return nil
}
