// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// REPORT LUNS command.

package scsi

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const reportLunsAllocLen = 8192

// ReportLunsCommand enumerates the logical units of a target.
type ReportLunsCommand struct {
	SelectReport byte
}

// NewReportLunsCommand resolves the select-report value via the numeric
// grammar (default 0).
func NewReportLunsCommand(selectReport string) (*ReportLunsCommand, error) {
	sr, err := ParseLength("select report", selectReport)
	if err != nil {
		return nil, err
	}
	if sr > 0xff {
		return nil, &FormatError{What: "select report", Value: selectReport}
	}

	return &ReportLunsCommand{SelectReport: byte(sr)}, nil
}

func (c *ReportLunsCommand) String() string {
	return fmt.Sprintf("REPORT LUNS (select report %d)", c.SelectReport)
}

func (c *ReportLunsCommand) Datagram() []byte {
	cdb := CDB12{SCSI_REPORT_LUNS, 0, c.SelectReport}
	binary.BigEndian.PutUint32(cdb[6:10], reportLunsAllocLen)
	return cdb[:]
}

func (c *ReportLunsCommand) Sequence() Sequence {
	return readSequence(c.Datagram(), reportLunsAllocLen, decodeLunList)
}

// LunList is the decoded REPORT LUNS response.
type LunList struct {
	Luns []uint64 `json:"luns"`

	raw []byte
}

func decodeLunList(data []byte) (Result, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("short REPORT LUNS response: %d bytes", len(data))
	}

	listLen := int(binary.BigEndian.Uint32(data[0:4]))
	end := 8 + listLen
	if end > len(data) {
		end = len(data)
	}

	l := LunList{raw: data[:end]}
	for off := 8; off+8 <= end; off += 8 {
		l.Luns = append(l.Luns, binary.BigEndian.Uint64(data[off:off+8]))
	}

	return l, nil
}

func (r LunList) Raw() []byte { return r.raw }

func (r LunList) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lun list length = %d, %d lun entries", len(r.Luns)*8, len(r.Luns))
	for _, lun := range r.Luns {
		fmt.Fprintf(&b, "\n    %s", formatLun(lun))
	}
	return b.String()
}

// formatLun renders a SAM-5 LUN: the common single-level peripheral and
// flat-space addressing forms decode to a small integer, everything else
// stays a 16-digit hex value.
func formatLun(lun uint64) string {
	top := lun >> 48
	switch top >> 14 { // addressing method of the first level
	case 0: // peripheral device addressing, bus 0
		if top>>8 == 0 {
			return fmt.Sprintf("%d", top&0xff)
		}
	case 1: // flat space addressing
		return fmt.Sprintf("%d", top&0x3fff)
	}
	return fmt.Sprintf("%016x", lun)
}
