package service

import (
	"regexp"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiftCardValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   GiftCardRequest
		field string
	}{
		{"too small", GiftCardRequest{Amount: decimal.NewFromFloat(4.99), RecipientEmail: "a@b.c"}, "amount"},
		{"too large", GiftCardRequest{Amount: decimal.NewFromInt(501), RecipientEmail: "a@b.c"}, "amount"},
		{"missing email", GiftCardRequest{Amount: decimal.NewFromInt(10)}, "recipient_email"},
		{"bad email", GiftCardRequest{Amount: decimal.NewFromInt(10), RecipientEmail: "nobody"}, "recipient_email"},
		{"long message", GiftCardRequest{Amount: decimal.NewFromInt(10), RecipientEmail: "a@b.c", Message: strings.Repeat("x", 201)}, "message"},
		{"lower bound", GiftCardRequest{Amount: decimal.NewFromInt(5), RecipientEmail: "a@b.c"}, ""},
		{"upper bound", GiftCardRequest{Amount: decimal.NewFromInt(500), RecipientEmail: "a@b.c", Message: strings.Repeat("é", 200)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestParseGiftCardRequest(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		field  string
		amount string
	}{
		{"number amount", `{"amount": 25.5, "recipient_email": "a@b.c", "message": "hi"}`, "", "25.5"},
		{"string amount", `{"amount": " 10 ", "recipient_email": "a@b.c"}`, "", "10"},
		{"missing amount", `{"recipient_email": "a@b.c"}`, "", "0"},
		{"word amount", `{"amount": "abc", "recipient_email": "a@b.c"}`, "amount", ""},
		{"object amount", `{"amount": {}, "recipient_email": "a@b.c"}`, "amount", ""},
		{"numeric email", `{"amount": 10, "recipient_email": 5}`, "recipient_email", ""},
		{"array message", `{"amount": 10, "recipient_email": "a@b.c", "message": []}`, "message", ""},
		{"not an object", `[1, 2]`, "body", ""},
		{"empty", ``, "body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseGiftCardRequest([]byte(tt.body))
			if tt.field != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.field, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.True(t, req.Amount.Equal(decimal.RequireFromString(tt.amount)), req.Amount.String())
		})
	}
}

func TestGiftCardRequestAcceptsStringAmount(t *testing.T) {
	var req GiftCardRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount": "25.50", "recipient_email": "a@b.c"}`), &req))
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("25.5")))
}

func TestIssueGiftCard(t *testing.T) {
	card, err := IssueGiftCard(GiftCardRequest{Amount: decimal.NewFromInt(50), RecipientEmail: "a@b.c"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`), card.Code)
	assert.Equal(t, "a@b.c", card.RecipientEmail)
}

func TestGiftCardCode(t *testing.T) {
	id := uuid.MustParse("0123abcd-4567-89ef-0123-456789abcdef")
	assert.Equal(t, "0123-ABCD-4567-89EF", GiftCardCode(id))
}
