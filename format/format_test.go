// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package format

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asiutil/asiutil/scsi"
)

func newTestContext(family Family, opts Options) (*OutputContext, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return New(family, opts, stdout, stderr), stdout, stderr
}

func TestCommandEchoVerbosity(t *testing.T) {
	assert := assert.New(t)
	cmd := &scsi.TestUnitReadyCommand{}

	// silent unless verbose, on every call
	ctx, stdout, _ := newTestContext(FamilyGeneric, Options{})
	assert.NoError(ctx.Command(cmd))
	assert.NoError(ctx.Command(cmd))
	assert.Empty(stdout.String())

	ctx, stdout, _ = newTestContext(FamilyGeneric, Options{Verbose: true})
	assert.NoError(ctx.Command(cmd))
	first := stdout.String()
	assert.NoError(ctx.Command(cmd))
	assert.Equal(first+first, stdout.String())
	assert.Equal("TEST UNIT READY\n", first)
}

func TestFormatterPrecedence(t *testing.T) {
	assert := assert.New(t)
	res := scsi.RawResult([]byte{0x01, 0x02})

	// hex beats raw beats json, regardless of declaration order
	ctx, stdout, _ := newTestContext(FamilyGeneric, Options{Hex: true, JSON: true})
	assert.NoError(ctx.Result(res))
	assert.Equal(hex.Dump([]byte{0x01, 0x02})+"\n", stdout.String())

	ctx, stdout, _ = newTestContext(FamilyGeneric, Options{Hex: true, Raw: true, JSON: true})
	assert.NoError(ctx.Result(res))
	assert.Equal(hex.Dump([]byte{0x01, 0x02})+"\n", stdout.String())

	ctx, stdout, _ = newTestContext(FamilyGeneric, Options{Raw: true, JSON: true})
	assert.NoError(ctx.Result(res))
	assert.Equal(string([]byte{0x01, 0x02})+"\n", stdout.String())

	ctx, stdout, _ = newTestContext(FamilyGeneric, Options{JSON: true})
	assert.NoError(ctx.Result(res))
	assert.Contains(stdout.String(), "\"data\"")
}

func TestFamilyFormatters(t *testing.T) {
	assert := assert.New(t)

	ctx, stdout, _ := newTestContext(FamilyReadcap, Options{})
	assert.NoError(ctx.Result(scsi.Capacity{LastLBA: 2047, BlockLength: 512}))
	assert.Contains(stdout.String(), "Last LBA=2047")
	assert.Contains(stdout.String(), "1048576 bytes")
	assert.Contains(stdout.String(), "1.05 MB")

	// the hex flag overrides the family formatter
	ctx, stdout, _ = newTestContext(FamilyReadcap, Options{Hex: true})
	assert.NoError(ctx.Result(scsi.RawResult([]byte{0xaa})))
	assert.Equal(hex.Dump([]byte{0xaa})+"\n", stdout.String())

	ctx, stdout, _ = newTestContext(FamilyLuns, Options{})
	assert.NoError(ctx.Result(scsi.LunList{Luns: []uint64{0}}))
	assert.Contains(stdout.String(), "1 lun entries")

	ctx, stdout, _ = newTestContext(FamilyRTPG, Options{})
	assert.NoError(ctx.Result(scsi.PortGroupList{Groups: []scsi.PortGroup{{GroupID: 7}}}))
	assert.Contains(stdout.String(), "target port group id: 7")
}

func TestErrorFormatterIsFixed(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	sense := scsi.SenseData{ResponseCode: 0x70, Key: 0x05, ASC: 0x24, ASCQ: 0x00}

	// errors keep the dedicated rendering even under the hex override
	ctx, stdout, stderr := newTestContext(FamilyGeneric, Options{Hex: true})
	require.NoError(ctx.Error(sense))
	assert.Empty(stdout.String())

	lines := strings.SplitN(stderr.String(), "\n", 2)
	assert.Equal("Sense: ILLEGAL REQUEST, asc=0x24, ascq=0x00", lines[0])
	assert.Contains(stderr.String(), "INVALID FIELD IN CDB")
}

func TestJSONFormatter(t *testing.T) {
	assert := assert.New(t)

	out, err := JSONFormatter{}.Format(scsi.Capacity{LastLBA: 99, BlockLength: 512})
	assert.NoError(err)
	assert.Contains(out, "\"last_lba\": 99")
	assert.Contains(out, "\"block_length\": 512")
}

func TestHexFormatterOnCommand(t *testing.T) {
	assert := assert.New(t)

	cmd := &scsi.TestUnitReadyCommand{}
	out, err := HexFormatter{}.Format(cmd)
	assert.NoError(err)
	assert.Equal(hex.Dump(cmd.Datagram()), out)
}
