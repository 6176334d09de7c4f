// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// LOG SENSE command.

package scsi

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const logSenseAllocLen = 4096

// LogSenseCommand retrieves a log page (current cumulative values).
type LogSenseCommand struct {
	Page byte
}

// NewLogSenseCommand resolves the page selector via the numeric grammar
// (default page 0, the supported-pages page).
func NewLogSenseCommand(page string) (*LogSenseCommand, error) {
	pg, err := ParseLength("log page", page)
	if err != nil {
		return nil, err
	}
	if pg > 0x3f {
		return nil, &FormatError{What: "log page", Value: page}
	}

	return &LogSenseCommand{Page: byte(pg)}, nil
}

func (c *LogSenseCommand) String() string {
	return fmt.Sprintf("LOG SENSE (page %#02x)", c.Page)
}

func (c *LogSenseCommand) Datagram() []byte {
	cdb := CDB10{SCSI_LOG_SENSE}
	cdb[2] = 0x40 | c.Page // PC = 01b, current cumulative values
	binary.BigEndian.PutUint16(cdb[7:9], logSenseAllocLen)
	return cdb[:]
}

func (c *LogSenseCommand) Sequence() Sequence {
	return readSequence(c.Datagram(), logSenseAllocLen, decodeLogPage)
}

// LogParameter is one parameter of a log page.
type LogParameter struct {
	Code  uint16 `json:"code"`
	Value []byte `json:"value"`
}

// LogPage is a decoded LOG SENSE response.
type LogPage struct {
	Page       byte           `json:"page"`
	Subpage    byte           `json:"subpage,omitempty"`
	Parameters []LogParameter `json:"parameters"`

	raw []byte
}

func decodeLogPage(data []byte) (Result, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("short LOG SENSE response: %d bytes", len(data))
	}

	pageLen := int(binary.BigEndian.Uint16(data[2:4]))
	end := 4 + pageLen
	if end > len(data) {
		end = len(data)
	}

	p := LogPage{Page: data[0] & 0x3f, raw: data[:end]}
	if data[0]&0x40 != 0 { // SPF
		p.Subpage = data[1]
	}

	for off := 4; off+4 <= end; {
		paramLen := int(data[off+3])
		valEnd := off + 4 + paramLen
		if valEnd > end {
			valEnd = end
		}
		p.Parameters = append(p.Parameters, LogParameter{
			Code:  binary.BigEndian.Uint16(data[off : off+2]),
			Value: data[off+4 : valEnd],
		})
		off = valEnd
	}

	return p, nil
}

func (r LogPage) Raw() []byte { return r.raw }

func (r LogPage) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Log page %#02x", r.Page)
	if r.Subpage != 0 {
		fmt.Fprintf(&b, ", subpage %#02x", r.Subpage)
	}
	fmt.Fprintf(&b, ", %d parameters", len(r.Parameters))
	for _, p := range r.Parameters {
		fmt.Fprintf(&b, "\n  param %#04x: % x", p.Code, p.Value)
	}
	return b.String()
}
