// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asiutil/asiutil/executer"
	"github.com/asiutil/asiutil/format"
	"github.com/asiutil/asiutil/scsi"
)

// withChannel opens the execution channel for one invocation and releases
// it when the invocation ends, on every path.
func withChannel(device string, fn func(ex executer.Executer) error) error {
	ex, err := executer.Open(device)
	if err != nil {
		return err
	}
	defer ex.Close()

	return fn(ex)
}

// syncWait echoes the command when verbosity asks for it, drives the
// command to completion, and prints the result unless suppressed (the raw
// command suppresses it to write binary results to a file instead).
func syncWait(out *format.OutputContext, ex executer.Executer, cmd scsi.Command, suppress bool) (scsi.Result, error) {
	if err := out.Command(cmd); err != nil {
		return nil, err
	}

	res, err := executer.Wait(context.Background(), ex, cmd)
	if err != nil {
		return nil, err
	}

	if !suppress {
		if err := out.Result(res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

var tursCmd = func() *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "turs <device>",
		Short: "issue TEST UNIT READY commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := scsi.ParseLength("number", number)
			if err != nil {
				return err
			}

			out := newContext(format.FamilyGeneric)
			return withChannel(args[0], func(ex executer.Executer) error {
				for i := 0; i < n; i++ {
					if _, err := syncWait(out, ex, &scsi.TestUnitReadyCommand{}, false); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&number, "number", "n", "1", "number of test_unit_ready commands")
	return cmd
}()

var inqCmd = func() *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "inq <device>",
		Short: "issue an INQUIRY command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inq, err := scsi.NewInquiryCommand(page)
			if err != nil {
				return err
			}

			out := newContext(format.FamilyGeneric)
			return withChannel(args[0], func(ex executer.Executer) error {
				_, err := syncWait(out, ex, inq, false)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "vpd page number")
	return cmd
}()

var lunsCmd = func() *cobra.Command {
	var selectReport string

	cmd := &cobra.Command{
		Use:   "luns <device>",
		Short: "issue a REPORT LUNS command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			luns, err := scsi.NewReportLunsCommand(selectReport)
			if err != nil {
				return err
			}

			out := newContext(format.FamilyLuns)
			return withChannel(args[0], func(ex executer.Executer) error {
				_, err := syncWait(out, ex, luns, false)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&selectReport, "select", "s", "0", "select report")
	return cmd
}()

var rtpgCmd = func() *cobra.Command {
	var extended bool

	cmd := &cobra.Command{
		Use:   "rtpg <device>",
		Short: "issue a REPORT TARGET PORT GROUPS command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newContext(format.FamilyRTPG)
			return withChannel(args[0], func(ex executer.Executer) error {
				_, err := syncWait(out, ex, &scsi.RTPGCommand{Extended: extended}, false)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&extended, "extended", false, "get rtpg extended response instead of length only")
	return cmd
}()

var readcapCmd = func() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "readcap <device>",
		Short: "issue a READ CAPACITY command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newContext(format.FamilyReadcap)
			return withChannel(args[0], func(ex executer.Executer) error {
				_, err := syncWait(out, ex, &scsi.ReadCapacityCommand{Long: long}, false)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "use READ CAPACITY (16) cdb")
	return cmd
}()

var rawCmd = func() *cobra.Command {
	var requestLen, sendLen, infile, outfile string

	cmd := &cobra.Command{
		Use:   "raw <device> <cdb>...",
		Short: "issue an arbitrary CDB",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := scsi.NewRawCommand(args[1:], requestLen, sendLen, infile)
			if err != nil {
				return err
			}

			out := newContext(format.FamilyGeneric)
			return withChannel(args[0], func(ex executer.Executer) error {
				res, err := syncWait(out, ex, raw, outfile != "")
				if err != nil {
					return err
				}
				if outfile != "" {
					return os.WriteFile(outfile, res.Raw(), 0644)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&requestLen, "request", "", "request up to RLEN bytes of data (data-in)")
	cmd.Flags().StringVar(&sendLen, "send", "", "send SLEN bytes of data (data-out)")
	cmd.Flags().StringVar(&infile, "infile", scsi.Stdin, "read data to send from IFILE")
	cmd.Flags().StringVar(&outfile, "outfile", "", "write binary data to OFILE")
	return cmd
}()

var logsCmd = func() *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "logs <device>",
		Short: "issue a LOG SENSE command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := scsi.NewLogSenseCommand(page)
			if err != nil {
				return err
			}

			out := newContext(format.FamilyGeneric)
			return withChannel(args[0], func(ex executer.Executer) error {
				_, err := syncWait(out, ex, logs, false)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "log page number")
	return cmd
}()

var resetCmd = func() *cobra.Command {
	var target, host, device bool

	cmd := &cobra.Command{
		Use:   "reset <device>",
		Short: "issue a task-management reset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind executer.ResetKind
			switch {
			case target && !host && !device:
				kind = executer.ResetTarget
			case host && !target && !device:
				kind = executer.ResetHost
			case device && !target && !host:
				kind = executer.ResetDevice
			default:
				return fmt.Errorf("reset requires exactly one of --target, --host, --device")
			}

			return executer.Reset(args[0], kind)
		},
	}

	cmd.Flags().BoolVar(&target, "target", false, "target reset")
	cmd.Flags().BoolVar(&host, "host", false, "host (bus adapter: HBA) reset")
	cmd.Flags().BoolVar(&device, "device", false, "device (logical unit) reset")
	return cmd
}()
