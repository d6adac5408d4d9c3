package eghl

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

func NewClient(endpoint, currency string, signer *Signer) *Client {
	return &Client{
		Endpoint: endpoint,
		Currency: currency,
		signer:   signer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Client calls the gateway's status-lookup endpoint for the reconciliation
// sweep.
type Client struct {
	Endpoint   string
	Currency   string
	signer     *Signer
	httpClient *http.Client
}

// QueryResult is the typed answer to one status lookup. Found is false when
// the gateway has no record of the payment; Response is set only when Found.
type QueryResult struct {
	Found    bool
	Response *Response
}

// StatusQuerier is the narrow port the sweeper consumes.
type StatusQuerier interface {
	QueryStatus(ctx context.Context, paymentID string, amount int64) (*QueryResult, error)
}

// QueryStatus asks the gateway for the true status of one payment. All
// transport, read and parse failures come back as GatewayQueryError so the
// sweep can log and move on.
func (c *Client) QueryStatus(ctx context.Context, paymentID string, amount int64) (*QueryResult, error) {
	amountStr := FormatAmount(amount)

	form := url.Values{}
	form.Set("TransactionType", "QUERY")
	form.Set("PymtMethod", "ANY")
	form.Set("ServiceID", c.signer.ServiceID)
	form.Set("PaymentID", paymentID)
	form.Set("Amount", amountStr)
	form.Set("CurrencyCode", c.Currency)
	form.Set("HashValue", c.signer.digest(c.signer.Password, c.signer.ServiceID, paymentID, amountStr))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &GatewayQueryError{PaymentID: paymentID, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayQueryError{PaymentID: paymentID, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &GatewayQueryError{PaymentID: paymentID, Err: err}
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, &GatewayQueryError{PaymentID: paymentID, Err: err}
	}

	// Not-found answers are unsigned and carry no status code.
	if values.Get("TxnStatus") == "" || strings.Contains(strings.ToLower(values.Get("TxnMessage")), "not found") {
		return &QueryResult{Found: false}, nil
	}

	resp, err := ParseResponse(values)
	if err != nil {
		return nil, &GatewayQueryError{PaymentID: paymentID, Err: err}
	}
	if !c.signer.VerifyResponse(resp) {
		return nil, &GatewayQueryError{PaymentID: paymentID, Err: &VerificationError{PaymentID: paymentID}}
	}

	return &QueryResult{Found: true, Response: resp}, nil
}
