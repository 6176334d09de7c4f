// Copyright 2026 asiutil authors. All rights reserved.
// Use of this source code is governed by an MIT license that can be found in the LICENSE file.

// INQUIRY command, standard and EVPD page forms.

package scsi

import (
	"fmt"
	"strings"
)

// peripheral device types, SPC-5 table 159 (abridged)
var peripheralTypes = map[byte]string{
	0x00: "disk",
	0x01: "tape",
	0x03: "processor",
	0x05: "cd/dvd",
	0x08: "medium changer",
	0x0c: "storage array controller",
	0x0d: "enclosure services",
	0x11: "object-based storage",
	0x14: "zoned block device",
}

// InquiryCommand issues a standard INQUIRY, or an EVPD INQUIRY when a VPD
// page is selected.
type InquiryCommand struct {
	EVPD bool
	Page byte
}

// NewInquiryCommand resolves the page selector: empty selects the standard
// inquiry, otherwise the numeric grammar applies and the value must fit a
// byte.
func NewInquiryCommand(page string) (*InquiryCommand, error) {
	if page == "" {
		return &InquiryCommand{}, nil
	}

	pg, err := ParseLength("vpd page", page)
	if err != nil {
		return nil, err
	}
	if pg > 0xff {
		return nil, &FormatError{What: "vpd page", Value: page}
	}

	return &InquiryCommand{EVPD: true, Page: byte(pg)}, nil
}

func (c *InquiryCommand) String() string {
	if c.EVPD {
		return fmt.Sprintf("INQUIRY (EVPD page %#02x)", c.Page)
	}
	return "INQUIRY (standard)"
}

func (c *InquiryCommand) Datagram() []byte {
	cdb := CDB6{SCSI_INQUIRY, 0, 0, 0, STD_INQ_ALLOC_LEN, 0}
	if c.EVPD {
		cdb[1] = 0x01
		cdb[2] = c.Page
		cdb[3] = 0x00
		cdb[4] = 0xff
	}
	return cdb[:]
}

func (c *InquiryCommand) Sequence() Sequence {
	allocLen := STD_INQ_ALLOC_LEN
	if c.EVPD {
		allocLen = 0xff
	}

	return readSequence(c.Datagram(), allocLen, func(data []byte) (Result, error) {
		if c.EVPD {
			return decodeVPDPage(data)
		}
		return decodeStandardInquiry(data)
	})
}

// StandardInquiryData is the decoded fixed part of a standard INQUIRY
// response.
type StandardInquiryData struct {
	PeripheralType byte   `json:"peripheral_type"`
	Removable      bool   `json:"removable"`
	Version        byte   `json:"version"`
	Vendor         string `json:"vendor"`
	Product        string `json:"product"`
	Revision       string `json:"revision"`

	raw []byte
}

func decodeStandardInquiry(data []byte) (Result, error) {
	if len(data) < 36 {
		return nil, fmt.Errorf("short INQUIRY response: %d bytes", len(data))
	}

	return StandardInquiryData{
		PeripheralType: data[0] & 0x1f,
		Removable:      data[1]&0x80 != 0,
		Version:        data[2],
		Vendor:         strings.TrimSpace(string(data[8:16])),
		Product:        strings.TrimSpace(string(data[16:32])),
		Revision:       strings.TrimSpace(string(data[32:36])),
		raw:            data,
	}, nil
}

func (r StandardInquiryData) Raw() []byte { return r.raw }

func (r StandardInquiryData) String() string {
	devType, ok := peripheralTypes[r.PeripheralType]
	if !ok {
		devType = fmt.Sprintf("%#02x", r.PeripheralType)
	}

	return fmt.Sprintf("Vendor:    %s\nProduct:   %s\nRevision:  %s\nType:      %s\nSCSI rev:  %d",
		r.Vendor, r.Product, r.Revision, devType, r.Version)
}

// VPDPageData is a decoded EVPD INQUIRY response. The page payload is kept
// raw; page 0x80 additionally decodes the unit serial number.
type VPDPageData struct {
	Page    byte   `json:"page"`
	Serial  string `json:"serial,omitempty"`
	Payload []byte `json:"-"`

	raw []byte
}

func decodeVPDPage(data []byte) (Result, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("short VPD response: %d bytes", len(data))
	}

	pageLen := int(data[2])<<8 | int(data[3])
	end := 4 + pageLen
	if end > len(data) {
		end = len(data)
	}

	v := VPDPageData{Page: data[1], Payload: data[4:end], raw: data[:end]}
	if v.Page == 0x80 {
		v.Serial = strings.TrimSpace(string(v.Payload))
	}

	return v, nil
}

func (r VPDPageData) Raw() []byte { return r.raw }

func (r VPDPageData) String() string {
	if r.Serial != "" {
		return fmt.Sprintf("VPD page %#02x\nSerial: %s", r.Page, r.Serial)
	}
	return fmt.Sprintf("VPD page %#02x\n% x", r.Page, r.Payload)
}
