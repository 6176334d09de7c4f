// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// REPORT TARGET PORT GROUPS command (MAINTENANCE IN service action 0x0a).

package scsi

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const rtpgAllocLen = 1024

// asymmetric access states, SPC-5 table 306
var accessStates = map[byte]string{
	0x0: "active/optimized",
	0x1: "active/non-optimized",
	0x2: "standby",
	0x3: "unavailable",
	0x4: "logical block dependent",
	0xe: "offline",
	0xf: "transitioning",
}

// RTPGCommand reports the target port groups of a logical unit. Extended
// selects the extended header parameter data format.
type RTPGCommand struct {
	Extended bool
}

func (c *RTPGCommand) String() string {
	if c.Extended {
		return "REPORT TARGET PORT GROUPS (extended)"
	}
	return "REPORT TARGET PORT GROUPS"
}

func (c *RTPGCommand) Datagram() []byte {
	cdb := CDB12{SCSI_MAINTENANCE_IN, SA_REPORT_TARGET_PORT_GROUPS}
	if c.Extended {
		cdb[1] |= 0x20 // PARAMETER DATA FORMAT = 1
	}
	binary.BigEndian.PutUint32(cdb[6:10], rtpgAllocLen)
	return cdb[:]
}

func (c *RTPGCommand) Sequence() Sequence {
	return readSequence(c.Datagram(), rtpgAllocLen, func(data []byte) (Result, error) {
		return decodePortGroups(data, c.Extended)
	})
}

// PortGroup is one target port group descriptor.
type PortGroup struct {
	State     byte     `json:"asymmetric_access_state"`
	Preferred bool     `json:"preferred"`
	GroupID   uint16   `json:"group_id"`
	Status    byte     `json:"status"`
	Ports     []uint16 `json:"relative_port_ids"`
}

// PortGroupList is the decoded REPORT TARGET PORT GROUPS response.
type PortGroupList struct {
	Extended bool        `json:"extended"`
	Groups   []PortGroup `json:"groups"`

	raw []byte
}

func decodePortGroups(data []byte, extended bool) (Result, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("short RTPG response: %d bytes", len(data))
	}

	dataLen := int(binary.BigEndian.Uint32(data[0:4]))
	end := 4 + dataLen
	if end > len(data) {
		end = len(data)
	}

	off := 4
	if extended {
		off += 4 // extended header: format, implicit transition time
	}

	l := PortGroupList{Extended: extended, raw: data[:end]}
	for off+8 <= end {
		g := PortGroup{
			State:     data[off] & 0x0f,
			Preferred: data[off]&0x80 != 0,
			GroupID:   binary.BigEndian.Uint16(data[off+2 : off+4]),
			Status:    data[off+5],
		}

		portCount := int(data[off+7])
		off += 8
		for i := 0; i < portCount && off+4 <= end; i++ {
			g.Ports = append(g.Ports, binary.BigEndian.Uint16(data[off+2:off+4]))
			off += 4
		}

		l.Groups = append(l.Groups, g)
	}

	return l, nil
}

func (r PortGroupList) Raw() []byte { return r.raw }

func (r PortGroupList) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d target port groups", len(r.Groups))
	for _, g := range r.Groups {
		state, ok := accessStates[g.State]
		if !ok {
			state = fmt.Sprintf("%#x", g.State)
		}
		pref := ""
		if g.Preferred {
			pref = " (preferred)"
		}
		fmt.Fprintf(&b, "\n  group %d: %s%s, status %#02x, ports %v",
			g.GroupID, state, pref, g.Status, g.Ports)
	}
	return b.String()
}
