// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Package format renders commands and results for the user. Formatters are
// pure: a value in, its rendering out, no state and no side effects.
package format

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/asiutil/asiutil/scsi"
)

// Formatter renders a command or result value. The value is either a
// scsi.Command or a scsi.Result.
type Formatter interface {
	Format(v interface{}) (string, error)
}

// rawBytes extracts the datagram of a command or result.
func rawBytes(v interface{}) []byte {
	switch t := v.(type) {
	case scsi.Command:
		return t.Datagram()
	case scsi.Result:
		return t.Raw()
	}
	return nil
}

// DefaultFormatter renders a value through its String method.
type DefaultFormatter struct{}

func (DefaultFormatter) Format(v interface{}) (string, error) {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return fmt.Sprintf("%v", v), nil
}

// HexFormatter renders the raw datagram as a hex dump.
type HexFormatter struct{}

func (HexFormatter) Format(v interface{}) (string, error) {
	return hex.Dump(rawBytes(v)), nil
}

// RawFormatter passes the raw datagram through unmodified.
type RawFormatter struct{}

func (RawFormatter) Format(v interface{}) (string, error) {
	return string(rawBytes(v)), nil
}

// JSONFormatter renders the typed value as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Format(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ErrorFormatter renders sense data. It is fixed: error output never takes
// the hex/raw/json shape of the active result formatter.
type ErrorFormatter struct{}

func (ErrorFormatter) Format(v interface{}) (string, error) {
	sense, ok := v.(scsi.SenseData)
	if !ok {
		return fmt.Sprintf("%v", v), nil
	}

	s := fmt.Sprintf("Sense: %s, asc=0x%02x, ascq=0x%02x", sense.KeyString(), sense.ASC, sense.ASCQ)
	if desc := sense.Description(); desc != "" {
		s += "\n  " + desc
	}
	return s, nil
}
