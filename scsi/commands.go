// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// SCSI command definitions.

package scsi

const (
	// SCSI commands used by this package
	SCSI_TEST_UNIT_READY      = 0x00
	SCSI_INQUIRY              = 0x12
	SCSI_READ_CAPACITY_10     = 0x25
	SCSI_LOG_SENSE            = 0x4d
	SCSI_SERVICE_ACTION_IN_16 = 0x9e
	SCSI_REPORT_LUNS          = 0xa0
	SCSI_MAINTENANCE_IN       = 0xa3

	// Service actions
	SA_REPORT_TARGET_PORT_GROUPS = 0x0a
	SA_READ_CAPACITY_16          = 0x10

	// Allocation length of a standard INQUIRY issued by the inq command
	STD_INQ_ALLOC_LEN = 219
)

// SCSI CDB types
type CDB6 [6]byte
type CDB10 [10]byte
type CDB12 [12]byte
type CDB16 [16]byte

// Direction is the data-transfer direction of a channel call. It is fixed
// when the command is built and never changes during execution.
type Direction int

const (
	DirNone Direction = iota
	DirIn             // data-in, device to host
	DirOut            // data-out, host to device
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	default:
		return "none"
	}
}
