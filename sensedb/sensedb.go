// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// Package sensedb maps SCSI additional sense codes to their T10
// descriptions. The database is a YAML file compiled into the binary.
package sensedb

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v2"
)

//go:embed sensedb.yaml
var dbFile []byte

type entry struct {
	ASC         uint8  `yaml:"asc"`
	ASCQ        uint8  `yaml:"ascq"`
	Description string `yaml:"description"`
}

type database struct {
	Codes []entry `yaml:"codes"`
}

var (
	once  sync.Once
	codes map[uint16]string
)

func load() {
	var db database
	codes = make(map[uint16]string)

	if err := yaml.Unmarshal(dbFile, &db); err != nil {
		// An unparsable embedded database is a build defect; lookups
		// degrade to empty descriptions.
		return
	}

	for _, e := range db.Codes {
		codes[uint16(e.ASC)<<8|uint16(e.ASCQ)] = e.Description
	}
}

// Lookup returns the description for an ASC/ASCQ pair, or "" when the pair
// is not in the database.
func Lookup(asc, ascq uint8) string {
	once.Do(load)
	return codes[uint16(asc)<<8|uint16(ascq)]
}
