// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Broadcom (formerly Avago, LSI) MegaRAID vendor channel. Commands are
// wrapped in MegaRAID Firmware Interface (MFI) pass-through frames and
// issued to the megaraid_sas ioctl node.

//go:build linux

package executer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/asiutil/asiutil/scsi"
	"github.com/asiutil/asiutil/utils"
)

const (
	MAX_IOCTL_SGE = 16

	MFI_CMD_PD_SCSI_IO = 0x04

	MFI_FRAME_DIR_NONE  = 0x0000
	MFI_FRAME_DIR_WRITE = 0x0008
	MFI_FRAME_DIR_READ  = 0x0010

	// 0xc1944d01 - ioctl number of the firmware pass-through command.
	// Cannot be derived with unsafe.Sizeof(megasasIocpacket{}) because of
	// Go struct padding.
	MEGASAS_IOC_FIRMWARE = 0xc1944d01

	megaraidNode = "/dev/megaraid_sas_ioctl_node"
)

type megasasSge64 struct {
	phys_addr uint32
	length    uint32
	_padding  uint32
}

type iovec struct {
	base uint64 // not portable to 32-bit platforms
	len  uint64
}

type megasasPthruFrame struct {
	cmd                    uint8
	sense_len              uint8
	cmd_status             uint8
	scsi_status            uint8
	target_id              uint8
	lun                    uint8
	cdb_len                uint8
	sge_count              uint8
	context                uint32
	pad_0                  uint32
	flags                  uint16
	timeout                uint16
	data_xfer_len          uint32
	sense_buf_phys_addr_lo uint32
	sense_buf_phys_addr_hi uint32
	cdb                    [16]byte
	sgl                    megasasSge64
}

type megasasIocpacket struct {
	host_no   uint16
	_pad1     uint16
	sgl_off   uint32
	sge_count uint32
	sense_off uint32
	sense_len uint32
	// union of megasas_header / megasas_pthru_frame / megasas_dcmd_frame
	frame [128]byte
	sgl   [MAX_IOCTL_SGE]iovec
}

// packedBytes packs a megasasIocpacket in host-endian format without the
// alignment padding Go inserts before the sgl member.
func (ioc *megasasIocpacket) packedBytes() []byte {
	b := new(bytes.Buffer)
	binary.Write(b, utils.NativeEndian, ioc.host_no)
	binary.Write(b, utils.NativeEndian, ioc._pad1)
	binary.Write(b, utils.NativeEndian, ioc.sgl_off)
	binary.Write(b, utils.NativeEndian, ioc.sge_count)
	binary.Write(b, utils.NativeEndian, ioc.sense_off)
	binary.Write(b, utils.NativeEndian, ioc.sense_len)
	b.Write(ioc.frame[:])
	for i := range ioc.sgl {
		binary.Write(b, utils.NativeEndian, ioc.sgl[i].base)
		binary.Write(b, utils.NativeEndian, ioc.sgl[i].len)
	}
	return b.Bytes()
}

// megaraidExecuter is the vendor channel for megaraid<host>_<disk> ids.
type megaraidExecuter struct {
	host uint16
	disk uint8
	fd   int
}

// openMegaraid determines the device ID for the MegaRAID SAS ioctl device,
// creates the node if necessary, and opens it.
func openMegaraid(host uint16, disk uint8) (Executer, error) {
	major, err := megaraidMajor()
	if err != nil {
		return nil, err
	}

	unix.Mknod(megaraidNode, unix.S_IFCHR, int(unix.Mkdev(uint32(major), 0)))

	fd, err := unix.Open(megaraidNode, unix.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", megaraidNode, err)
	}

	log.Debugf("opened megaraid channel, host %d disk %d", host, disk)
	return &megaraidExecuter{host: host, disk: disk, fd: fd}, nil
}

// megaraidMajor scans /proc/devices for the megaraid_sas ioctl major
// number; the driver does not create its device node automatically.
func megaraidMajor() (int, error) {
	file, err := os.Open("/proc/devices")
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.HasSuffix(scanner.Text(), "megaraid_sas_ioctl") {
			var major int
			if _, err := fmt.Sscanf(scanner.Text(), "%d", &major); err == nil {
				return major, nil
			}
		}
	}

	return 0, fmt.Errorf("megaraid_sas ioctl device not registered")
}

func (e *megaraidExecuter) Call(ctx context.Context, call *scsi.ChannelCall) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(call.CDB) > 16 {
		return nil, fmt.Errorf("megaraid pass-through limited to 16-byte CDBs, got %d", len(call.CDB))
	}

	ioc := megasasIocpacket{host_no: e.host}

	// Approximation of C union behaviour
	pthru := (*megasasPthruFrame)(unsafe.Pointer(&ioc.frame))
	pthru.cmd = MFI_CMD_PD_SCSI_IO
	pthru.cmd_status = 0xff
	pthru.target_id = e.disk
	pthru.cdb_len = uint8(len(call.CDB))
	copy(pthru.cdb[:], call.CDB)

	var buf []byte
	switch call.Direction {
	case scsi.DirIn:
		pthru.flags = MFI_FRAME_DIR_READ
		if call.AllocLen > 0 {
			buf = make([]byte, call.AllocLen)
		}
	case scsi.DirOut:
		pthru.flags = MFI_FRAME_DIR_WRITE
		buf = call.Data
	default:
		pthru.flags = MFI_FRAME_DIR_NONE
	}

	senseBuf := make([]byte, senseBufLen)
	pthru.sense_len = senseBufLen
	senseAddr := uint64(uintptr(unsafe.Pointer(&senseBuf[0])))
	pthru.sense_buf_phys_addr_lo = uint32(senseAddr)
	pthru.sense_buf_phys_addr_hi = uint32(senseAddr >> 32)

	if len(buf) > 0 {
		pthru.data_xfer_len = uint32(len(buf))
		pthru.sge_count = 1
		ioc.sge_count = 1
		ioc.sgl_off = uint32(unsafe.Offsetof(pthru.sgl))
		ioc.sgl[0] = iovec{uint64(uintptr(unsafe.Pointer(&buf[0]))), uint64(len(buf))}
	}

	iocBuf := ioc.packedBytes()
	if err := ioctl(e.fd, MEGASAS_IOC_FIRMWARE, uintptr(unsafe.Pointer(&iocBuf[0]))); err != nil {
		return nil, fmt.Errorf("megaraid pass-through: %w", err)
	}

	// The driver writes completion status back into the frame inside iocBuf.
	result := (*megasasPthruFrame)(unsafe.Pointer(&iocBuf[20]))
	log.Debugf("megaraid pass-through: cmd status %#02x, scsi status %#02x",
		result.cmd_status, result.scsi_status)

	if result.scsi_status == statusCheckCondition {
		return nil, &scsi.CheckConditionError{Sense: scsi.ParseSense(senseBuf)}
	}
	if result.cmd_status != 0 {
		return nil, fmt.Errorf("megaraid command status %#02x", result.cmd_status)
	}

	if call.Direction == scsi.DirIn {
		return buf, nil
	}
	return nil, nil
}

func (e *megaraidExecuter) Close() error {
	log.Debugf("closing megaraid channel, host %d disk %d", e.host, e.disk)
	return unix.Close(e.fd)
}
