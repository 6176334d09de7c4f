// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package scsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stdInquiryFixture is a 36-byte standard INQUIRY response.
var stdInquiryFixture = append(
	[]byte{0x00, 0x00, 0x06, 0x02, 0x1f, 0x00, 0x00, 0x02},
	[]byte("ASIUTIL virtual disk    0401")...,
)

func TestInquiryCommand(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd, err := NewInquiryCommand("")
	require.NoError(err)
	assert.Equal([]byte{SCSI_INQUIRY, 0, 0, 0, STD_INQ_ALLOC_LEN, 0}, cmd.Datagram())

	res, err := drive(t, cmd, stdInquiryFixture)
	require.NoError(err)
	inq := res.(StandardInquiryData)
	assert.Equal("ASIUTIL", inq.Vendor)
	assert.Equal("virtual disk", inq.Product)
	assert.Equal("0401", inq.Revision)
	assert.Equal(byte(0x00), inq.PeripheralType)
	assert.Equal(byte(0x06), inq.Version)
}

func TestInquiryVPDPage(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd, err := NewInquiryCommand("0x80")
	require.NoError(err)
	assert.Equal([]byte{SCSI_INQUIRY, 0x01, 0x80, 0x00, 0xff, 0x00}, cmd.Datagram())

	res, err := drive(t, cmd, append([]byte{0x00, 0x80, 0x00, 0x08}, []byte("SN123456")...))
	require.NoError(err)
	page := res.(VPDPageData)
	assert.Equal(byte(0x80), page.Page)
	assert.Equal("SN123456", page.Serial)

	// page selector must fit a byte
	_, err = NewInquiryCommand("0x100")
	var ferr *FormatError
	assert.ErrorAs(err, &ferr)
}

func TestReportLuns(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd, err := NewReportLunsCommand("2")
	require.NoError(err)
	cdb := cmd.Datagram()
	assert.Equal(byte(SCSI_REPORT_LUNS), cdb[0])
	assert.Equal(byte(2), cdb[2])

	fixture := []byte{
		0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, // 16 bytes of entries
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // lun 0
		0x40, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // flat-space lun 1
	}
	res, err := drive(t, cmd, fixture)
	require.NoError(err)
	luns := res.(LunList)
	require.Len(luns.Luns, 2)
	assert.Equal(uint64(0), luns.Luns[0])
	assert.Equal(uint64(0x4001)<<48, luns.Luns[1])

	assert.Equal("0", formatLun(luns.Luns[0]))
	assert.Equal("1", formatLun(luns.Luns[1]))
}

func TestRTPG(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd := &RTPGCommand{}
	cdb := cmd.Datagram()
	assert.Equal(byte(SCSI_MAINTENANCE_IN), cdb[0])
	assert.Equal(byte(SA_REPORT_TARGET_PORT_GROUPS), cdb[1])

	ext := &RTPGCommand{Extended: true}
	assert.Equal(byte(SA_REPORT_TARGET_PORT_GROUPS|0x20), ext.Datagram()[1])

	fixture := []byte{
		0x00, 0x00, 0x00, 0x10, // 16 bytes of descriptors
		0x80, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x02, // group 1, preferred, 2 ports
		0x00, 0x00, 0x00, 0x03, // relative port 3
		0x00, 0x00, 0x00, 0x04, // relative port 4
	}
	res, err := drive(t, cmd, fixture)
	require.NoError(err)
	groups := res.(PortGroupList)
	require.Len(groups.Groups, 1)
	g := groups.Groups[0]
	assert.True(g.Preferred)
	assert.Equal(byte(0x0), g.State)
	assert.Equal(uint16(1), g.GroupID)
	assert.Equal(byte(0x01), g.Status)
	assert.Equal([]uint16{3, 4}, g.Ports)
}

func TestReadCapacity(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd := &ReadCapacityCommand{}
	assert.Equal(byte(SCSI_READ_CAPACITY_10), cmd.Datagram()[0])

	res, err := drive(t, cmd, []byte{0x00, 0x00, 0x00, 0xff, 0x00, 0x00, 0x02, 0x00})
	require.NoError(err)
	c := res.(Capacity)
	assert.Equal(uint64(255), c.LastLBA)
	assert.Equal(uint32(512), c.BlockLength)
	assert.Equal(uint64(256*512), c.TotalBytes())

	long := &ReadCapacityCommand{Long: true}
	cdb := long.Datagram()
	assert.Equal(byte(SCSI_SERVICE_ACTION_IN_16), cdb[0])
	assert.Equal(byte(SA_READ_CAPACITY_16), cdb[1])

	fixture := make([]byte, 32)
	copy(fixture, []byte{0, 0, 0, 0, 0, 0, 0x03, 0xff, 0x00, 0x00, 0x10, 0x00})
	fixture[12] = 0x03 // P_TYPE 1, PROT_EN
	fixture[14] = 0x80 // LBPME
	res, err = drive(t, long, fixture)
	require.NoError(err)
	c = res.(Capacity)
	assert.Equal(uint64(0x3ff), c.LastLBA)
	assert.Equal(uint32(4096), c.BlockLength)
	assert.True(c.ProtectionEnabled)
	assert.Equal(byte(1), c.ProtectionType)
	assert.True(c.ThinProvisioned)
}

func TestLogSense(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd, err := NewLogSenseCommand("0x0d")
	require.NoError(err)
	cdb := cmd.Datagram()
	assert.Equal(byte(SCSI_LOG_SENSE), cdb[0])
	assert.Equal(byte(0x40|0x0d), cdb[2]) // current cumulative values

	fixture := []byte{
		0x0d, 0x00, 0x00, 0x06, // page 0x0d, 6 parameter bytes
		0x00, 0x00, 0x60, 0x02, 0x00, 0x23, // param 0, 2 value bytes
	}
	res, err := drive(t, cmd, fixture)
	require.NoError(err)
	page := res.(LogPage)
	assert.Equal(byte(0x0d), page.Page)
	require.Len(page.Parameters, 1)
	assert.Equal(uint16(0), page.Parameters[0].Code)
	assert.Equal([]byte{0x00, 0x23}, page.Parameters[0].Value)

	_, err = NewLogSenseCommand("0x40")
	var ferr *FormatError
	assert.ErrorAs(err, &ferr)
}

func TestTestUnitReady(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd := &TestUnitReadyCommand{}
	assert.Equal(make([]byte, 6), cmd.Datagram())

	seq := cmd.Sequence()
	step, err := seq.Resume(nil)
	require.NoError(err)
	assert.Equal(DirNone, step.Call.Direction)

	res, err := drive(t, cmd, nil)
	require.NoError(err)
	assert.Equal(ReadyResult{Ready: true}, res)
}

// drive runs a command's sequence against a canned response datagram.
func drive(t *testing.T, cmd Command, response []byte) (Result, error) {
	t.Helper()

	seq := cmd.Sequence()
	var data []byte
	for {
		step, err := seq.Resume(data)
		if err != nil {
			return nil, err
		}
		if step.Done {
			return step.Result, nil
		}
		data = response
	}
}
