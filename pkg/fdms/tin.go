// Package fdms: helpers for Zimbabwe's ZIMRA Fiscal Device Management System
// (FDMS). Covers taxpayer identifier validation, virtual fiscal device
// identifier derivation and the receipt verification payload.
package fdms

import (
	"fmt"
	"strconv"
	"time"
)

// ValidateTIN checks that a ZIMRA Taxpayer Identification Number is exactly
// 10 ASCII digits. Separators are not accepted: the FDMS registration API
// rejects anything that is not the bare digit string.
func ValidateTIN(tin string) error {
	if len(tin) != 10 {
		return fmt.Errorf("fdms: TIN must be exactly 10 digits, got %d characters", len(tin))
	}
	for _, r := range tin {
		if r < '0' || r > '9' {
			return fmt.Errorf("fdms: TIN must contain only ASCII digits")
		}
	}
	return nil
}

// DeviceID derives the virtual fiscal device identifier for a configuration:
// VFD_<TIN>_<unix-ms timestamp>.
func DeviceID(tin string, now time.Time) string {
	return "VFD_" + tin + "_" + strconv.FormatInt(now.UnixMilli(), 10)
}

// DeviceSerial derives the device serial from the TIN suffix and the
// timestamp suffix, matching the provisioning scheme used on first enable.
func DeviceSerial(tin string, now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	tinSuffix := tin
	if len(tinSuffix) > 4 {
		tinSuffix = tinSuffix[len(tinSuffix)-4:]
	}
	msSuffix := ms
	if len(msSuffix) > 6 {
		msSuffix = msSuffix[len(msSuffix)-6:]
	}
	return "SN" + tinSuffix + msSuffix
}
