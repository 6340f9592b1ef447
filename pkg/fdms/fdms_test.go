package fdms_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/pos-api/pkg/fdms"
)

func TestValidateTIN_Valid(t *testing.T) {
	assert.NoError(t, fdms.ValidateTIN("1234567890"))
	assert.NoError(t, fdms.ValidateTIN("0000000000"))
}

func TestValidateTIN_Invalid(t *testing.T) {
	cases := []struct {
		name string
		tin  string
	}{
		{"too short", "123456789"},
		{"too long", "12345678901"},
		{"letters", "12345678AB"},
		{"separator", "123456-890"},
		{"empty", ""},
		{"unicode digits", "١٢٣٤٥٦٧٨٩٠"}, // Arabic-Indic digits must be rejected
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, fdms.ValidateTIN(tc.tin))
		})
	}
}

func TestDeviceID_Shape(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := fdms.DeviceID("1234567890", now)
	assert.Equal(t, "VFD_1234567890_1700000000000", id)
}

func TestDeviceSerial_SuffixDerivation(t *testing.T) {
	now := time.UnixMilli(1700000123456)
	serial := fdms.DeviceSerial("1234567890", now)
	// last 4 TIN digits + last 6 timestamp digits
	assert.Equal(t, "SN7890123456", serial)
}

func TestReceiptHash_Deterministic(t *testing.T) {
	p := &fdms.QRParams{
		DeviceID:      "VFD_1234567890_1700000000000",
		ReceiptGlobal: 42,
		InvoiceNo:     "INV-1",
		IssuedAt:      time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		Total:         decimal.NewFromFloat(115.50),
		TaxAmount:     decimal.NewFromFloat(15.50),
	}
	h1 := fdms.ReceiptHash(p)
	h2 := fdms.ReceiptHash(p)
	require.Len(t, h1, 64, "SHA-256 hex must be 64 characters")
	assert.Equal(t, h1, h2, "hash must be deterministic for identical receipts")

	p2 := *p
	p2.ReceiptGlobal = 43
	assert.NotEqual(t, h1, fdms.ReceiptHash(&p2),
		"a different receipt global number must change the signature input")
}

func TestBuildQR_FieldsAndEnvironment(t *testing.T) {
	p := &fdms.QRParams{
		DeviceID:      "VFD_1234567890_1700000000000",
		ReceiptGlobal: 7,
		InvoiceNo:     " INV-9 ",
		IssuedAt:      time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		Total:         decimal.NewFromFloat(100),
		TaxAmount:     decimal.NewFromFloat(15),
		TestEnv:       true,
	}
	qr := fdms.BuildQR(p)
	parts := strings.Split(qr, "|")
	require.Len(t, parts, 8)
	assert.Equal(t, "VFD_1234567890_1700000000000", parts[0])
	assert.Equal(t, "7", parts[1])
	assert.Equal(t, "INV-9", parts[2], "invoice number must be trimmed")
	assert.Equal(t, "2025-03-15", parts[3])
	assert.Equal(t, "100.00", parts[4])
	assert.Equal(t, "15.00", parts[5])
	assert.Len(t, parts[6], 16, "QR carries the first 16 hex chars of the hash")
	assert.Contains(t, parts[7], "fdmstest.zimra.co.zw")

	p.TestEnv = false
	qr = fdms.BuildQR(p)
	assert.Contains(t, qr, "https://fdms.zimra.co.zw/receipt?deviceId=")
	assert.NotContains(t, qr, "fdmstest")
}
