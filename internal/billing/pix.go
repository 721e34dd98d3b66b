package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PixPayload is the synthetic QR / copy-paste / link triple attached to every
// charge. It mimics the shape of an EMV PIX payload well enough for a demo UI
// but is NOT BACEN-compliant and is never validated by any bank.
type PixPayload struct {
	QrCode      string
	CopyPaste   string
	PaymentLink string
}

const (
	pixPrefix      = "00020126580014br.gov.bcb.pix0136"
	pixAmountField = "520400005303986540"
	pixSuffix      = "5802BR5913BPay Pagamentos6009SAO PAULO62070503***6304"
	pixLinkBase    = "https://bpay.example.com/pix/"
)

// NewChargeToken returns a fresh charge identifier. Millisecond timestamp
// plus a random suffix keeps collisions negligible without being
// cryptographic.
func NewChargeToken() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("CHG-%d-%s", time.Now().UnixMilli(), suffix)
}

// NewPixPayload builds the payload for one charge token and amount. The
// output is deterministic for a given token/amount pair; CopyPaste is by
// definition the same string as the QR code.
func NewPixPayload(token string, amount decimal.Decimal) PixPayload {
	qr := pixPrefix + token + pixAmountField + amount.StringFixed(2) + pixSuffix
	return PixPayload{
		QrCode:      qr,
		CopyPaste:   qr,
		PaymentLink: pixLinkBase + token,
	}
}
