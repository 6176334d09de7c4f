// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Command execution protocol. A Command describes a device transaction as a
// Sequence of channel calls; the sequence suspends at each call and is
// resumed with the call's result until it yields a final Result. The driver
// loop lives in the executer package.

package scsi

import "fmt"

// ChannelCall is a single sub-operation issued to an execution channel:
// one CDB, one transfer.
type ChannelCall struct {
	CDB       []byte
	Direction Direction
	AllocLen  int    // data-in transfer size
	Data      []byte // data-out payload
}

// Result is the final value of a command sequence.
type Result interface {
	// Raw returns the undecoded result datagram.
	Raw() []byte
}

// Step is one suspension point of a Sequence: either a channel call to
// perform, or the final result.
type Step struct {
	Call   *ChannelCall
	Result Result
	Done   bool
}

// Sequence is the resumable state machine of one command invocation.
// Resume is first called with nil; every subsequent call carries the data
// returned by the channel for the previously yielded call.
type Sequence interface {
	Resume(data []byte) (Step, error)
}

// Command is a device-management command: it renders itself for echoing,
// encodes its CDB datagram, and produces a fresh execution sequence.
type Command interface {
	fmt.Stringer
	Datagram() []byte
	Sequence() Sequence
}

// singleCall is a Sequence for commands that issue exactly one channel
// call and decode its result datagram. All built-in commands use it.
type singleCall struct {
	call   ChannelCall
	decode func([]byte) (Result, error)
	issued bool
}

func (s *singleCall) Resume(data []byte) (Step, error) {
	if !s.issued {
		s.issued = true
		return Step{Call: &s.call}, nil
	}

	res, err := s.decode(data)
	if err != nil {
		return Step{}, err
	}

	return Step{Result: res, Done: true}, nil
}

// readSequence builds a single data-in call decoded by decode.
func readSequence(cdb []byte, allocLen int, decode func([]byte) (Result, error)) Sequence {
	return &singleCall{
		call:   ChannelCall{CDB: cdb, Direction: DirIn, AllocLen: allocLen},
		decode: decode,
	}
}

// RawResult is an undecoded result datagram.
type RawResult []byte

func (r RawResult) Raw() []byte { return r }

func (r RawResult) String() string {
	return fmt.Sprintf("% x", []byte(r))
}

func (r RawResult) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("{\"data\": \"%x\"}", []byte(r))), nil
}
