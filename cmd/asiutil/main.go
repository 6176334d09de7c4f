// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// asiutil is a partial cross-platform implementation of sg3-utils: it
// issues SCSI device-management commands over the platform's pass-through
// transport and renders the responses.
package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/asiutil/asiutil/format"
	"github.com/asiutil/asiutil/scsi"
)

const version = "0.4.0"

var (
	verbose bool
	hexOut  bool
	rawOut  bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:     "asiutil",
	Short:   "SCSI device-management utility",
	Version: version,

	// Errors are reported once, at the boundary in main.
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.WarnLevel)
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "increase verbosity")
	pf.BoolVar(&hexOut, "hex", false, "output response in hexadecimal")
	pf.BoolVarP(&rawOut, "raw", "r", false, "output response in binary")
	pf.BoolVarP(&jsonOut, "json", "j", false, "output response in json")

	rootCmd.AddCommand(tursCmd, inqCmd, lunsCmd, rtpgCmd, readcapCmd, rawCmd, logsCmd, resetCmd)
}

// newContext builds the output context for one invocation. Formatter
// selection happens here, once, before the command executes.
func newContext(family format.Family) *format.OutputContext {
	opts := format.Options{Verbose: verbose, Hex: hexOut, Raw: rawOut, JSON: jsonOut}
	return format.New(family, opts, os.Stdout, os.Stderr)
}

// main is the single error boundary: nothing below it catches and
// suppresses an error. A device-reported check condition is informative
// output rendered through the error formatter; everything else is a
// process failure.
func main() {
	if err := rootCmd.Execute(); err != nil {
		var check *scsi.CheckConditionError
		if errors.As(err, &check) {
			newContext(format.FamilyGeneric).Error(check.Sense)
			return
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
