// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

//go:build linux

package executer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// sysfs root, overridable in tests
var sysBlockPath = "/sys/class/block"

// Open resolves a device identifier to a transport and opens a channel.
// MegaRAID ids ("megaraid<host>_<disk>") use the vendor ioctl channel,
// /dev/sg* the SCSI generic channel, /dev/sd* its sg twin, and any other
// path the device-mapper channel.
func Open(device string) (Executer, error) {
	if host, disk, ok := parseMegaraidID(device); ok {
		return openMegaraid(host, disk)
	}

	if strings.HasPrefix(device, "/dev/sd") {
		sg, err := sgFromSD(device)
		if err != nil {
			return nil, err
		}
		log.Debugf("translated %s to %s", device, sg)
		device = sg
	}

	if strings.HasPrefix(device, "/dev/sg") {
		return openSG(device)
	}

	return openDM(device)
}

// parseMegaraidID matches vendor device ids of the form megaraid<host>_<disk>.
func parseMegaraidID(device string) (host uint16, disk uint8, ok bool) {
	if !strings.HasPrefix(device, "megaraid") {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(device, "megaraid%d_%d", &host, &disk); err != nil {
		return 0, 0, false
	}
	return host, disk, true
}

// sgFromSD maps a block device node to its SCSI generic twin through
// sysfs, e.g. /dev/sda -> /dev/sg0. Partition suffixes are stripped.
func sgFromSD(device string) (string, error) {
	base := strings.TrimRight(filepath.Base(device), "0123456789")

	entries, err := os.ReadDir(filepath.Join(sysBlockPath, base, "device", "scsi_generic"))
	if err != nil {
		return "", fmt.Errorf("no sg device for %s: %w", device, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no sg device for %s", device)
	}

	return "/dev/" + entries[0].Name(), nil
}
