// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package scsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSenseFixed(t *testing.T) {
	assert := assert.New(t)

	// fixed format: ILLEGAL REQUEST, INVALID FIELD IN CDB
	buf := make([]byte, 18)
	buf[0] = 0x70
	buf[2] = 0x05
	buf[12] = 0x24
	buf[13] = 0x00

	s := ParseSense(buf)
	assert.Equal(byte(0x70), s.ResponseCode)
	assert.Equal(byte(0x05), s.Key)
	assert.Equal(byte(0x24), s.ASC)
	assert.Equal(byte(0x00), s.ASCQ)
	assert.Equal("ILLEGAL REQUEST", s.KeyString())
	assert.Equal("INVALID FIELD IN CDB", s.Description())
}

func TestParseSenseDescriptor(t *testing.T) {
	assert := assert.New(t)

	// descriptor format: NOT READY, becoming ready
	s := ParseSense([]byte{0x72, 0x02, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00})
	assert.Equal(byte(0x02), s.Key)
	assert.Equal(byte(0x04), s.ASC)
	assert.Equal(byte(0x01), s.ASCQ)
	assert.Equal("NOT READY", s.KeyString())
}

func TestParseSenseShortBuffer(t *testing.T) {
	assert := assert.New(t)

	s := ParseSense(nil)
	assert.Equal(byte(0), s.Key)

	// fixed header without the additional sense bytes
	s = ParseSense([]byte{0x70, 0x00, 0x06})
	assert.Equal(byte(0x06), s.Key)
	assert.Equal(byte(0), s.ASC)
}

func TestCheckConditionError(t *testing.T) {
	err := &CheckConditionError{Sense: SenseData{ResponseCode: 0x70, Key: 0x06, ASC: 0x29, ASCQ: 0x00}}
	assert.Contains(t, err.Error(), "UNIT ATTENTION")
}
