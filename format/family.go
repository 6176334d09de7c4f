// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Family formatters: dedicated renderings for the capacity, logical-unit
// list, and port-group command families.

package format

import (
	"fmt"
	"strings"

	"github.com/asiutil/asiutil/scsi"
)

// CapacityFormatter renders READ CAPACITY results with a human-readable
// device size.
type CapacityFormatter struct{}

func (CapacityFormatter) Format(v interface{}) (string, error) {
	c, ok := v.(scsi.Capacity)
	if !ok {
		return DefaultFormatter{}.Format(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Read Capacity results:\n")
	fmt.Fprintf(&b, "   Last LBA=%d (%#x), Number of logical blocks=%d\n",
		c.LastLBA, c.LastLBA, c.LastLBA+1)
	fmt.Fprintf(&b, "   Logical block length=%d bytes\n", c.BlockLength)
	if c.ProtectionEnabled {
		fmt.Fprintf(&b, "   Protection: enabled, type %d\n", c.ProtectionType)
	}
	if c.ThinProvisioned {
		fmt.Fprintf(&b, "   Thin provisioned\n")
	}
	fmt.Fprintf(&b, "Device size: %d bytes, %s", c.TotalBytes(), formatBytes(c.TotalBytes()))

	return b.String(), nil
}

// LunsFormatter renders REPORT LUNS results one logical unit per line.
type LunsFormatter struct{}

func (LunsFormatter) Format(v interface{}) (string, error) {
	luns, ok := v.(scsi.LunList)
	if !ok {
		return DefaultFormatter{}.Format(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lun list length = %d which implies %d lun entries", len(luns.Luns)*8, len(luns.Luns))
	for _, lun := range luns.Luns {
		fmt.Fprintf(&b, "\nReport luns [select_report]: %016x", lun)
	}

	return b.String(), nil
}

// PortGroupsFormatter renders REPORT TARGET PORT GROUPS results with one
// block per group.
type PortGroupsFormatter struct{}

func (PortGroupsFormatter) Format(v interface{}) (string, error) {
	groups, ok := v.(scsi.PortGroupList)
	if !ok {
		return DefaultFormatter{}.Format(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Report target port groups:")
	for _, g := range groups.Groups {
		pref := ""
		if g.Preferred {
			pref = " [preferred]"
		}
		fmt.Fprintf(&b, "\n  target port group id: %d%s", g.GroupID, pref)
		fmt.Fprintf(&b, "\n    asymmetric access state: %#02x, status code: %#02x", g.State, g.Status)
		for _, p := range g.Ports {
			fmt.Fprintf(&b, "\n    relative target port: %#04x", p)
		}
	}

	return b.String(), nil
}

// formatBytes formats a uint64 byte quantity using human-readble units,
// e.g. kilobyte, megabyte.
func formatBytes(v uint64) string {
	var i int

	suffixes := [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}
	d := uint64(1)

	for i = 0; i < len(suffixes)-1; i++ {
		if v >= d*1000 {
			d *= 1000
		} else {
			break
		}
	}

	if i == 0 {
		return fmt.Sprintf("%d %s", v, suffixes[i])
	}

	// Print 3 significant digits
	return fmt.Sprintf("%.3g %s", float64(v)/float64(d), suffixes[i])
}
