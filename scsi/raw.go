// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Raw pass-through command: CDB bytes supplied by the user, direction and
// transfer lengths resolved at build time.

package scsi

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stdin is the --infile value selecting the standard input stream.
const Stdin = "<stdin>"

// ParseLength resolves a textual length specification: empty means zero,
// all-decimal digits are base 10, a 0x prefix is base 16. Anything else is
// a FormatError. what names the field in the error message.
func ParseLength(what, s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") {
		base = 16
		digits = s[2:]
	}

	n := 0
	for _, c := range digits {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			return 0, &FormatError{What: what, Value: s}
		}
		n = n*base + d
	}

	if digits == "" {
		return 0, &FormatError{What: what, Value: s}
	}

	return n, nil
}

// ParseCDB decodes hex-byte tokens into a CDB buffer. A single token may
// also be a whole hex dump ("12 00 00 ..."). Malformed tokens are a
// FormatError.
func ParseCDB(tokens []string) ([]byte, error) {
	if len(tokens) == 1 {
		tokens = strings.Fields(tokens[0])
	}

	cdb := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		b, err := hex.DecodeString(tok)
		if err != nil || len(b) == 0 {
			return nil, &FormatError{What: "cdb byte", Value: tok}
		}
		cdb = append(cdb, b...)
	}

	if len(cdb) == 0 {
		return nil, &FormatError{What: "cdb", Value: strings.Join(tokens, " ")}
	}

	return cdb, nil
}

// RawCommand issues a user-supplied CDB with a single data transfer. A
// nonzero send length makes it a write command; otherwise it reads up to
// the request length.
type RawCommand struct {
	cdb        []byte
	direction  Direction
	requestLen int
	data       []byte
}

// NewRawCommand builds a RawCommand from textual parameters. The request
// and send lengths follow the ParseLength grammar. When sendLen resolves
// nonzero, exactly that many bytes are read from infile (or standard input
// for the value "<stdin>"); a short read is an IncompleteInputError.
func NewRawCommand(cdbTokens []string, requestLen, sendLen, infile string) (*RawCommand, error) {
	cdb, err := ParseCDB(cdbTokens)
	if err != nil {
		return nil, err
	}

	rlen, err := ParseLength("request length", requestLen)
	if err != nil {
		return nil, err
	}

	slen, err := ParseLength("send length", sendLen)
	if err != nil {
		return nil, err
	}

	cmd := &RawCommand{cdb: cdb, direction: DirIn, requestLen: rlen}
	if slen > 0 {
		cmd.direction = DirOut
		cmd.data, err = readPayload(infile, slen)
		if err != nil {
			return nil, err
		}
	}

	return cmd, nil
}

func readPayload(infile string, n int) ([]byte, error) {
	var src io.Reader = os.Stdin
	if infile != Stdin && infile != "" {
		f, err := os.Open(infile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}

	buf := make([]byte, n)
	got, err := io.ReadFull(src, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return nil, &IncompleteInputError{Want: n, Got: got}
	}
	if err != nil {
		return nil, err
	}

	return buf, nil
}

func (c *RawCommand) String() string {
	return fmt.Sprintf("RAW % x (%s)", c.cdb, c.direction)
}

func (c *RawCommand) Datagram() []byte { return c.cdb }

// Direction reports whether the command was built as a read or a write.
func (c *RawCommand) Direction() Direction { return c.direction }

func (c *RawCommand) Sequence() Sequence {
	call := ChannelCall{CDB: c.cdb, Direction: c.direction}
	if c.direction == DirOut {
		call.Data = c.data
	} else {
		call.AllocLen = c.requestLen
	}

	return &singleCall{
		call:   call,
		decode: func(data []byte) (Result, error) { return RawResult(data), nil },
	}
}

func (c *RawCommand) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("{\"cdb\": \"%x\", \"direction\": \"%s\"}", c.cdb, c.direction)), nil
}
