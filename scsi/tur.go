// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package scsi

// TestUnitReadyCommand polls device readiness. It transfers no data; a
// device that is not ready answers with CHECK CONDITION instead.
type TestUnitReadyCommand struct{}

func (c *TestUnitReadyCommand) String() string { return "TEST UNIT READY" }

func (c *TestUnitReadyCommand) Datagram() []byte {
	cdb := CDB6{SCSI_TEST_UNIT_READY}
	return cdb[:]
}

func (c *TestUnitReadyCommand) Sequence() Sequence {
	return &singleCall{
		call: ChannelCall{CDB: c.Datagram(), Direction: DirNone},
		decode: func([]byte) (Result, error) {
			return ReadyResult{Ready: true}, nil
		},
	}
}

// ReadyResult is the (empty) result of a successful TEST UNIT READY.
type ReadyResult struct {
	Ready bool `json:"ready"`
}

func (r ReadyResult) Raw() []byte    { return nil }
func (r ReadyResult) String() string { return "Unit is ready" }
