// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Sense data parsing. Handles both the fixed format (response codes 0x70,
// 0x71) and the descriptor format (0x72, 0x73).

package scsi

import (
	"fmt"

	"github.com/asiutil/asiutil/sensedb"
)

// sense keys, SPC-5 table 48
var senseKeys = [16]string{
	"NO SENSE", "RECOVERED ERROR", "NOT READY", "MEDIUM ERROR",
	"HARDWARE ERROR", "ILLEGAL REQUEST", "UNIT ATTENTION", "DATA PROTECT",
	"BLANK CHECK", "VENDOR SPECIFIC", "COPY ABORTED", "ABORTED COMMAND",
	"RESERVED", "VOLUME OVERFLOW", "MISCOMPARE", "COMPLETED",
}

// SenseData is a decoded sense buffer.
type SenseData struct {
	ResponseCode byte   `json:"response_code"`
	Key          byte   `json:"key"`
	ASC          byte   `json:"asc"`
	ASCQ         byte   `json:"ascq"`
	Buf          []byte `json:"-"`
}

// ParseSense decodes a sense buffer. Buffers too short to carry the
// additional sense codes decode with those fields zero.
func ParseSense(buf []byte) SenseData {
	s := SenseData{Buf: buf}
	if len(buf) == 0 {
		return s
	}

	s.ResponseCode = buf[0] & 0x7f
	switch s.ResponseCode {
	case 0x70, 0x71: // fixed format
		if len(buf) > 2 {
			s.Key = buf[2] & 0x0f
		}
		if len(buf) > 13 {
			s.ASC = buf[12]
			s.ASCQ = buf[13]
		}
	case 0x72, 0x73: // descriptor format
		if len(buf) > 3 {
			s.Key = buf[1] & 0x0f
			s.ASC = buf[2]
			s.ASCQ = buf[3]
		}
	}

	return s
}

// KeyString returns the sense key mnemonic.
func (s SenseData) KeyString() string {
	return senseKeys[s.Key&0x0f]
}

// Description looks up the additional sense code meaning.
func (s SenseData) Description() string {
	return sensedb.Lookup(s.ASC, s.ASCQ)
}

func (s SenseData) String() string {
	desc := s.Description()
	if desc == "" {
		return fmt.Sprintf("%s asc=%#02x ascq=%#02x", s.KeyString(), s.ASC, s.ASCQ)
	}
	return fmt.Sprintf("%s asc=%#02x ascq=%#02x (%s)", s.KeyString(), s.ASC, s.ASCQ, desc)
}
