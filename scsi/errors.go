// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package scsi

import "fmt"

// FormatError reports malformed user input: a bad numeric length, hex CDB
// token, or page selector.
type FormatError struct {
	What  string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.What, e.Value)
}

// IncompleteInputError reports that a data-out payload source yielded fewer
// bytes than the requested send length.
type IncompleteInputError struct {
	Want int
	Got  int
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("short read on input: wanted %d bytes, got %d", e.Want, e.Got)
}

// CheckConditionError is returned when the device terminates a command with
// CHECK CONDITION status. It carries the decoded sense data; rendering it is
// the output layer's business.
type CheckConditionError struct {
	Sense SenseData
}

func (e *CheckConditionError) Error() string {
	return fmt.Sprintf("check condition: %s", e.Sense)
}
