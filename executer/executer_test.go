// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package executer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asiutil/asiutil/scsi"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) Call(ctx context.Context, call *scsi.ChannelCall) ([]byte, error) {
	args := m.Called(ctx, call)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestWaitRawRead(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cmd, err := scsi.NewRawCommand([]string{"12", "00", "00", "00", "24", "00"}, "0x24", "", "")
	require.NoError(err)

	response := make([]byte, 36)
	copy(response[8:], "ASIUTIL virtual disk")

	ch := &mockChannel{}
	ch.On("Call", mock.Anything, mock.MatchedBy(func(c *scsi.ChannelCall) bool {
		return bytes.Equal(c.CDB, []byte{0x12, 0x00, 0x00, 0x00, 0x24, 0x00}) &&
			c.Direction == scsi.DirIn && c.AllocLen == 0x24
	})).Return(response, nil).Once()

	res, err := Wait(context.Background(), ch, cmd)
	require.NoError(err)
	assert.Equal(response, res.Raw())
	ch.AssertExpectations(t)
}

func TestWaitCallError(t *testing.T) {
	assert := assert.New(t)

	fail := errors.New("channel closed")
	ch := &mockChannel{}
	ch.On("Call", mock.Anything, mock.Anything).Return(nil, fail).Once()

	res, err := Wait(context.Background(), ch, &scsi.TestUnitReadyCommand{})
	assert.Nil(res)
	assert.Equal(fail, err)
	ch.AssertExpectations(t)
}

// twoReads issues two data-in calls and concatenates their responses,
// exercising Wait across more than one suspension.
type twoReads struct{}

func (twoReads) String() string   { return "TWO READS" }
func (twoReads) Datagram() []byte { return []byte{0x12, 0x00} }

func (c twoReads) Sequence() scsi.Sequence { return &twoReadsSeq{} }

type twoReadsSeq struct {
	state int
	first []byte
}

func (s *twoReadsSeq) Resume(data []byte) (scsi.Step, error) {
	switch s.state {
	case 0:
		s.state++
		return scsi.Step{Call: &scsi.ChannelCall{CDB: []byte{0x12, 0x00}, Direction: scsi.DirIn, AllocLen: 4}}, nil
	case 1:
		s.state++
		s.first = data
		return scsi.Step{Call: &scsi.ChannelCall{CDB: []byte{0x12, 0x01}, Direction: scsi.DirIn, AllocLen: 4}}, nil
	default:
		return scsi.Step{Result: scsi.RawResult(append(s.first, data...)), Done: true}, nil
	}
}

func TestWaitMultiStep(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ch := &mockChannel{}
	ch.On("Call", mock.Anything, mock.MatchedBy(func(c *scsi.ChannelCall) bool {
		return c.CDB[1] == 0x00
	})).Return([]byte{0x01, 0x02}, nil).Once()
	ch.On("Call", mock.Anything, mock.MatchedBy(func(c *scsi.ChannelCall) bool {
		return c.CDB[1] == 0x01
	})).Return([]byte{0x03, 0x04}, nil).Once()

	res, err := Wait(context.Background(), ch, twoReads{})
	require.NoError(err)
	assert.Equal([]byte{0x01, 0x02, 0x03, 0x04}, res.Raw())
	ch.AssertExpectations(t)
}

func TestWaitCheckCondition(t *testing.T) {
	assert := assert.New(t)

	sense := scsi.SenseData{ResponseCode: 0x70, Key: 0x06, ASC: 0x29, ASCQ: 0x00}
	ch := &mockChannel{}
	ch.On("Call", mock.Anything, mock.Anything).Return(nil, &scsi.CheckConditionError{Sense: sense}).Once()

	_, err := Wait(context.Background(), ch, &scsi.TestUnitReadyCommand{})

	var check *scsi.CheckConditionError
	assert.ErrorAs(err, &check)
	assert.Equal(byte(0x29), check.Sense.ASC)
	ch.AssertExpectations(t)
}

func TestResetKindString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("device reset", ResetDevice.String())
	assert.Equal("target reset", ResetTarget.String())
	assert.Equal("host reset", ResetHost.String())
}
