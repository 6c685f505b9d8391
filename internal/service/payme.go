package service

import (
	"encoding/base64"
	"fmt"
)

const (
	paymeCheckoutURL = "https://checkout.paycom.uz/"
	paymeTestURL     = "https://test.paycom.uz/"
)

type PaymeConfig struct {
	MerchantID   string
	TestMode     bool
	AccountField string
}

// PaymeURLBuilder renders the Payme checkout link: the base URL followed by
// base64("m=<merchant>;ac.<field>=<payment id>;a=<amount in tiyin>").
type PaymeURLBuilder struct {
	base         string
	merchantID   string
	accountField string
}

func NewPaymeURLBuilder(cfg PaymeConfig) *PaymeURLBuilder {
	base := paymeCheckoutURL
	if cfg.TestMode {
		base = paymeTestURL
	}
	field := cfg.AccountField
	if field == "" {
		field = "payment_id"
	}
	return &PaymeURLBuilder{base: base, merchantID: cfg.MerchantID, accountField: field}
}

func (b *PaymeURLBuilder) PaymentURL(paymentID, amount int64) string {
	params := fmt.Sprintf("m=%s;ac.%s=%d;a=%d", b.merchantID, b.accountField, paymentID, amount)
	return b.base + base64.StdEncoding.EncodeToString([]byte(params))
}
