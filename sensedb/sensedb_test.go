// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

package sensedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("NO ADDITIONAL SENSE INFORMATION", Lookup(0x00, 0x00))
	assert.Equal("INVALID FIELD IN CDB", Lookup(0x24, 0x00))
	assert.Equal("LOGICAL UNIT IS IN PROCESS OF BECOMING READY", Lookup(0x04, 0x01))

	// unknown pairs degrade to an empty description
	assert.Equal("", Lookup(0xff, 0xff))
}
