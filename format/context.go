// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"io"

	"github.com/asiutil/asiutil/scsi"
)

// Family selects the dedicated result formatter of a command family.
type Family int

const (
	FamilyGeneric Family = iota
	FamilyReadcap
	FamilyLuns
	FamilyRTPG
)

// Options are the output-related command-line flags.
type Options struct {
	Verbose bool
	Hex     bool
	Raw     bool
	JSON    bool
}

// OutputContext mediates all user-visible output. It is built once at
// startup and read-only afterwards: formatter selection happens here,
// before any command executes, and never again.
type OutputContext struct {
	verbose bool
	command Formatter
	result  Formatter
	stdout  io.Writer
	stderr  io.Writer
}

// New builds an OutputContext. The family picks a dedicated result
// formatter first; the hex, raw and json flags then override both
// formatters, in exactly that precedence (hex beats raw beats json) when
// several are set at once.
func New(family Family, opts Options, stdout, stderr io.Writer) *OutputContext {
	o := &OutputContext{
		verbose: opts.Verbose,
		command: DefaultFormatter{},
		result:  DefaultFormatter{},
		stdout:  stdout,
		stderr:  stderr,
	}

	switch family {
	case FamilyReadcap:
		o.result = CapacityFormatter{}
	case FamilyLuns:
		o.result = LunsFormatter{}
	case FamilyRTPG:
		o.result = PortGroupsFormatter{}
	}

	switch {
	case opts.Hex:
		o.command, o.result = HexFormatter{}, HexFormatter{}
	case opts.Raw:
		o.command, o.result = RawFormatter{}, RawFormatter{}
	case opts.JSON:
		o.command, o.result = JSONFormatter{}, JSONFormatter{}
	}

	return o
}

// Command echoes a command about to execute. It is a no-op unless verbose
// output was selected.
func (o *OutputContext) Command(cmd scsi.Command) error {
	if !o.verbose {
		return nil
	}

	s, err := o.command.Format(cmd)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.stdout, s)
	return err
}

// Result prints a command result through the active result formatter.
func (o *OutputContext) Result(res scsi.Result) error {
	s, err := o.result.Format(res)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.stdout, s)
	return err
}

// Error renders sense data to the error stream. The error formatter is
// fixed and not subject to the hex/raw/json overrides.
func (o *OutputContext) Error(sense scsi.SenseData) error {
	s, err := ErrorFormatter{}.Format(sense)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.stderr, s)
	return err
}
