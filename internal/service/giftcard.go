package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const maxGiftMessage = 200

var (
	minGiftAmount = decimal.NewFromInt(5)
	maxGiftAmount = decimal.NewFromInt(500)
)

// GiftCardRequest is the body of POST /giftcard. Amount accepts a JSON
// number or a numeric string.
type GiftCardRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	RecipientEmail string          `json:"recipient_email"`
	Message        string          `json:"message"`
}

type GiftCard struct {
	Message        string          `json:"message"`
	Code           string          `json:"code"`
	Amount         decimal.Decimal `json:"amount"`
	RecipientEmail string          `json:"recipient_email"`
}

// ParseGiftCardRequest decodes a POST /giftcard body. A field of the wrong
// type is reported against that field.
func ParseGiftCardRequest(raw []byte) (GiftCardRequest, error) {
	var req GiftCardRequest
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return req, invalid("body", "must be a JSON object")
	}
	body := gjson.ParseBytes(raw)

	amount := body.Get("amount")
	switch amount.Type {
	case gjson.Null:
	case gjson.Number, gjson.String:
		text := amount.Raw
		if amount.Type == gjson.String {
			text = strings.TrimSpace(amount.Str)
		}
		d, err := decimal.NewFromString(text)
		if err != nil {
			return req, invalid("amount", "must be a number")
		}
		req.Amount = d
	default:
		return req, invalid("amount", "must be a number")
	}

	var err error
	if req.RecipientEmail, err = stringField(body, "recipient_email"); err != nil {
		return req, err
	}
	if req.Message, err = stringField(body, "message"); err != nil {
		return req, err
	}
	return req, nil
}

func stringField(body gjson.Result, field string) (string, error) {
	v := body.Get(field)
	switch v.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return v.Str, nil
	}
	return "", invalid(field, "must be a string")
}

// Validate checks the request field by field and reports the first violation.
func (r GiftCardRequest) Validate() error {
	if r.Amount.LessThan(minGiftAmount) || r.Amount.GreaterThan(maxGiftAmount) {
		return invalid("amount", fmt.Sprintf("must be between %s and %s", minGiftAmount, maxGiftAmount))
	}
	if r.RecipientEmail == "" || !strings.Contains(r.RecipientEmail, "@") {
		return invalid("recipient_email", "a valid email address is required")
	}
	if utf8.RuneCountInString(r.Message) > maxGiftMessage {
		return invalid("message", fmt.Sprintf("must be at most %d characters", maxGiftMessage))
	}
	return nil
}

// IssueGiftCard validates the request and generates a card code. Nothing is
// persisted.
func IssueGiftCard(req GiftCardRequest) (*GiftCard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &GiftCard{
		Message:        "Gift card created",
		Code:           GiftCardCode(uuid.New()),
		Amount:         req.Amount,
		RecipientEmail: req.RecipientEmail,
	}, nil
}

// GiftCardCode renders the first 16 hex digits of id as XXXX-XXXX-XXXX-XXXX.
func GiftCardCode(id uuid.UUID) string {
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:16]
	return hex[0:4] + "-" + hex[4:8] + "-" + hex[8:12] + "-" + hex[12:16]
}
