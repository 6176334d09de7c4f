// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// READ CAPACITY (10) and (16) commands.

package scsi

import (
	"encoding/binary"
	"fmt"
)

const readCap16AllocLen = 32

// ReadCapacityCommand reads the last LBA and block length of a device.
// Long selects the 16-byte CDB form, which additionally reports protection
// and provisioning attributes.
type ReadCapacityCommand struct {
	Long bool
}

func (c *ReadCapacityCommand) String() string {
	if c.Long {
		return "READ CAPACITY (16)"
	}
	return "READ CAPACITY (10)"
}

func (c *ReadCapacityCommand) Datagram() []byte {
	if c.Long {
		cdb := CDB16{SCSI_SERVICE_ACTION_IN_16, SA_READ_CAPACITY_16}
		binary.BigEndian.PutUint32(cdb[10:14], readCap16AllocLen)
		return cdb[:]
	}

	cdb := CDB10{SCSI_READ_CAPACITY_10}
	return cdb[:]
}

func (c *ReadCapacityCommand) Sequence() Sequence {
	allocLen := 8
	if c.Long {
		allocLen = readCap16AllocLen
	}

	return readSequence(c.Datagram(), allocLen, func(data []byte) (Result, error) {
		return decodeCapacity(data, c.Long)
	})
}

// Capacity is the decoded READ CAPACITY response.
type Capacity struct {
	LastLBA     uint64 `json:"last_lba"`
	BlockLength uint32 `json:"block_length"`

	// 16-byte form only
	ProtectionEnabled bool `json:"protection_enabled,omitempty"`
	ProtectionType    byte `json:"protection_type,omitempty"`
	ThinProvisioned   bool `json:"thin_provisioned,omitempty"`

	raw []byte
}

func decodeCapacity(data []byte, long bool) (Result, error) {
	if !long {
		if len(data) < 8 {
			return nil, fmt.Errorf("short READ CAPACITY(10) response: %d bytes", len(data))
		}
		return Capacity{
			LastLBA:     uint64(binary.BigEndian.Uint32(data[0:4])),
			BlockLength: binary.BigEndian.Uint32(data[4:8]),
			raw:         data[:8],
		}, nil
	}

	if len(data) < 32 {
		return nil, fmt.Errorf("short READ CAPACITY(16) response: %d bytes", len(data))
	}

	return Capacity{
		LastLBA:           binary.BigEndian.Uint64(data[0:8]),
		BlockLength:       binary.BigEndian.Uint32(data[8:12]),
		ProtectionEnabled: data[12]&0x01 != 0,
		ProtectionType:    (data[12] >> 1) & 0x07,
		ThinProvisioned:   data[14]&0x80 != 0,
		raw:               data[:32],
	}, nil
}

func (r Capacity) Raw() []byte { return r.raw }

// TotalBytes is the device size implied by last LBA and block length.
func (r Capacity) TotalBytes() uint64 {
	return (r.LastLBA + 1) * uint64(r.BlockLength)
}

func (r Capacity) String() string {
	s := fmt.Sprintf("Last LBA = %d, block length = %d\nDevice size: %d bytes",
		r.LastLBA, r.BlockLength, r.TotalBytes())
	if len(r.raw) == 32 {
		s += fmt.Sprintf("\nProtection: enabled=%t type=%d, thin provisioned: %t",
			r.ProtectionEnabled, r.ProtectionType, r.ThinProvisioned)
	}
	return s
}
