package eghl

import (
	"fmt"
	"net/url"
)

func NewRequestBuilder(gatewayURL, returnURL, callbackURL, currency string, signer *Signer) *RequestBuilder {
	return &RequestBuilder{
		GatewayURL:  gatewayURL,
		ReturnURL:   returnURL,
		CallbackURL: callbackURL,
		Currency:    currency,
		signer:      signer,
	}
}

// RequestBuilder produces the signed redirect URL that sends a donor to the
// gateway's payment page. Pure function of its inputs plus the configured
// URLs, currency and shared secret.
type RequestBuilder struct {
	GatewayURL  string
	ReturnURL   string
	CallbackURL string
	Currency    string
	signer      *Signer
}

type PaymentRequest struct {
	TransactionID string
	Amount        int64
	Description   string
	CustomerName  string
	CustomerEmail string
	Token         string
}

// PaymentURL builds the fully query-encoded gateway redirect target,
// including the request-side HashValue.
func (b *RequestBuilder) PaymentURL(req PaymentRequest) (string, error) {
	if req.TransactionID == "" || len(req.TransactionID) > 20 {
		return "", fmt.Errorf("transaction ID %q is not gateway-safe", req.TransactionID)
	}
	if req.Amount <= 0 {
		return "", fmt.Errorf("amount must be positive, got %d", req.Amount)
	}

	amount := FormatAmount(req.Amount)

	method := "ANY"
	if req.Token != "" {
		method = "CC"
	}

	values := url.Values{}
	values.Set("TransactionType", "SALE")
	values.Set("PymtMethod", method)
	values.Set("ServiceID", b.signer.ServiceID)
	values.Set("PaymentID", req.TransactionID)
	values.Set("OrderNumber", req.TransactionID)
	values.Set("PaymentDesc", req.Description)
	values.Set("MerchantReturnURL", b.ReturnURL)
	values.Set("MerchantCallBackURL", b.CallbackURL)
	values.Set("Amount", amount)
	values.Set("CurrencyCode", b.Currency)
	values.Set("CustName", req.CustomerName)
	values.Set("CustEmail", req.CustomerEmail)
	if req.Token != "" {
		values.Set("Token", req.Token)
		values.Set("TokenType", TokenTypeOCP)
	}

	hash := b.signer.SignRequest(
		req.TransactionID,
		b.ReturnURL,
		b.CallbackURL,
		amount,
		b.Currency,
		req.Token,
	)
	values.Set("HashValue", hash)

	return b.GatewayURL + "?" + values.Encode(), nil
}
