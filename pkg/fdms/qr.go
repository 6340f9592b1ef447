package fdms

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FDMS receipt verification portals.
const (
	verifyURLTest = "https://fdmstest.zimra.co.zw/receipt?deviceId="
	verifyURLProd = "https://fdms.zimra.co.zw/receipt?deviceId="
)

// QRParams holds the fields that go into the receipt verification payload,
// in the order FDMS expects them.
type QRParams struct {
	DeviceID      string
	ReceiptGlobal int64
	InvoiceNo     string
	IssuedAt      time.Time
	Total         decimal.Decimal
	TaxAmount     decimal.Decimal
	TestEnv       bool
}

// ReceiptHash computes the SHA-256 device signature input for a receipt:
// deviceId + receiptGlobalNo + issue date (ddMMyyyy) + total in cents.
// Output is lowercase hexadecimal.
func ReceiptHash(p *QRParams) string {
	var b strings.Builder
	b.WriteString(p.DeviceID)
	b.WriteString(strconv.FormatInt(p.ReceiptGlobal, 10))
	b.WriteString(p.IssuedAt.Format("02012006"))
	b.WriteString(p.Total.Mul(decimal.NewFromInt(100)).Round(0).String())
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// BuildQR assembles the pipe-delimited verification payload embedded in the
// printed receipt QR code:
//
//	deviceId|receiptGlobalNo|invoiceNo|date|total|tax|hash16|verifyURL
//
// hash16 is the first 16 hex characters of ReceiptHash, which is what the
// FDMS portal matches against.
func BuildQR(p *QRParams) string {
	base := verifyURLTest
	if !p.TestEnv {
		base = verifyURLProd
	}
	hash := ReceiptHash(p)[:16]
	return strings.Join([]string{
		p.DeviceID,
		strconv.FormatInt(p.ReceiptGlobal, 10),
		strings.TrimSpace(p.InvoiceNo),
		p.IssuedAt.Format("2006-01-02"),
		p.Total.Round(2).StringFixed(2),
		p.TaxAmount.Round(2).StringFixed(2),
		hash,
		base + p.DeviceID,
	}, "|")
}
