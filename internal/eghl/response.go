package eghl

import (
	"net/http"
	"net/url"
	"time"
)

// Gateway transaction status codes.
const (
	TxnStatusSuccess = "0"
	TxnStatusFailed  = "1"
	TxnStatusPending = "2"
)

// TokenTypeOCP is the only saved-card token type this integration recognizes.
const TokenTypeOCP = "OCP"

var paidAtZone = time.FixedZone("GMT+8", 8*60*60)

const paidAtLayout = "2006-01-02 15:04:05"

// Response is the signed key/value payload the gateway sends for one payment
// attempt, whether it arrives as a callback, a browser return, or a status
// query answer. Consumed once; never persisted as-is.
type Response struct {
	TransactionType string
	PymtMethod      string
	ServiceID       string
	PaymentID       string
	OrderNumber     string
	Amount          string
	CurrencyCode    string
	TxnID           string
	TxnStatus       string
	TxnMessage      string
	AuthCode        string
	BankRefNo       string
	HashValue       string

	// Saved-card token fields, present only when the gateway tokenized.
	Token      string
	TokenType  string
	CardNoMask string
	CardExp    string
	CardBrand  string
	CardHolder string

	// Gateway timestamps; either may be absent.
	TxnDateTime string
	TranDate    string

	Param6 string
	Param7 string
}

func (r *Response) IsSuccess() bool { return r.TxnStatus == TxnStatusSuccess }
func (r *Response) IsFailed() bool  { return r.TxnStatus == TxnStatusFailed }
func (r *Response) IsPending() bool { return r.TxnStatus == TxnStatusPending }

// HasToken reports whether the response carries a recognized token with all
// companion card fields needed to save it.
func (r *Response) HasToken() bool {
	return r.TokenType == TokenTypeOCP && r.Token != "" && r.CardNoMask != "" && r.CardExp != ""
}

// HasBareToken reports a token without the card metadata needed to create a
// saved method. Only an existing method's LastUsedAt may be refreshed.
func (r *Response) HasBareToken() bool {
	return r.TokenType == TokenTypeOCP && r.Token != "" && !r.HasToken()
}

// PaidAt resolves the payment timestamp: TxnDateTime first, then TranDate,
// both in the gateway's fixed regional offset; current time if neither parses.
func (r *Response) PaidAt() time.Time {
	for _, raw := range []string{r.TxnDateTime, r.TranDate} {
		if raw == "" {
			continue
		}
		if t, err := time.ParseInLocation(paidAtLayout, raw, paidAtZone); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// ParseResponse validates raw gateway form values against the response
// schema. It never panics on malformed input; every rejection is a
// ResponseParseError naming the offending field.
func ParseResponse(values url.Values) (*Response, error) {
	resp := &Response{
		TransactionType: values.Get("TransactionType"),
		PymtMethod:      values.Get("PymtMethod"),
		ServiceID:       values.Get("ServiceID"),
		PaymentID:       values.Get("PaymentID"),
		OrderNumber:     values.Get("OrderNumber"),
		Amount:          values.Get("Amount"),
		CurrencyCode:    values.Get("CurrencyCode"),
		TxnID:           values.Get("TxnID"),
		TxnStatus:       values.Get("TxnStatus"),
		TxnMessage:      values.Get("TxnMessage"),
		AuthCode:        values.Get("AuthCode"),
		BankRefNo:       values.Get("BankRefNo"),
		HashValue:       values.Get("HashValue"),
		Token:           values.Get("Token"),
		TokenType:       values.Get("TokenType"),
		CardNoMask:      values.Get("CardNoMask"),
		CardExp:         values.Get("CardExp"),
		CardBrand:       values.Get("CardType"),
		CardHolder:      values.Get("CardHolder"),
		TxnDateTime:     values.Get("TxnDateTime"),
		TranDate:        values.Get("TranDate"),
		Param6:          values.Get("Param6"),
		Param7:          values.Get("Param7"),
	}

	required := []struct{ name, value string }{
		{"ServiceID", resp.ServiceID},
		{"PaymentID", resp.PaymentID},
		{"OrderNumber", resp.OrderNumber},
		{"Amount", resp.Amount},
		{"CurrencyCode", resp.CurrencyCode},
		{"TxnID", resp.TxnID},
		{"TxnStatus", resp.TxnStatus},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, &ResponseParseError{Field: f.name, Reason: "missing"}
		}
	}

	if !amountPattern.MatchString(resp.Amount) {
		return nil, &ResponseParseError{Field: "Amount", Reason: "not a fixed two-decimal amount"}
	}

	switch resp.TxnStatus {
	case TxnStatusSuccess, TxnStatusFailed, TxnStatusPending:
	default:
		return nil, &ResponseParseError{Field: "TxnStatus", Reason: "unknown status code"}
	}

	return resp, nil
}

// ParseCallbackRequest extracts and validates a gateway response from an
// inbound HTTP request. GET carries the payload in the query string, POST in
// a form-encoded body; any other method is rejected before parsing.
func ParseCallbackRequest(r *http.Request) (*Response, error) {
	switch r.Method {
	case http.MethodGet:
		return ParseResponse(r.URL.Query())
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			return nil, &ReadError{Err: err}
		}
		return ParseResponse(r.PostForm)
	default:
		return nil, &InvalidMethodError{Method: r.Method}
	}
}
