package eghl

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseValues() url.Values {
	v := url.Values{}
	v.Set("ServiceID", "SIT001")
	v.Set("PaymentID", "g1234567890abcdef123")
	v.Set("OrderNumber", "g1234567890abcdef123")
	v.Set("Amount", "99.50")
	v.Set("CurrencyCode", "MYR")
	v.Set("TxnID", "TXN-0001")
	v.Set("TxnStatus", "0")
	v.Set("HashValue", "deadbeef")
	return v
}

func TestParseResponseValid(t *testing.T) {
	resp, err := ParseResponse(baseValues())
	require.NoError(t, err)
	assert.Equal(t, "g1234567890abcdef123", resp.PaymentID)
	assert.True(t, resp.IsSuccess())
	assert.False(t, resp.IsFailed())
}

func TestParseResponseMissingRequiredField(t *testing.T) {
	for _, field := range []string{"ServiceID", "PaymentID", "OrderNumber", "Amount", "CurrencyCode", "TxnID", "TxnStatus"} {
		v := baseValues()
		v.Del(field)
		_, err := ParseResponse(v)
		var parseErr *ResponseParseError
		require.ErrorAs(t, err, &parseErr, "missing %s", field)
		assert.Equal(t, field, parseErr.Field)
	}
}

func TestParseResponseBadAmount(t *testing.T) {
	for _, amount := range []string{"99.5", "abc", "99,50", "99.500"} {
		v := baseValues()
		v.Set("Amount", amount)
		_, err := ParseResponse(v)
		var parseErr *ResponseParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "Amount", parseErr.Field)
	}
}

func TestParseResponseUnknownStatus(t *testing.T) {
	v := baseValues()
	v.Set("TxnStatus", "9")
	_, err := ParseResponse(v)
	var parseErr *ResponseParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "TxnStatus", parseErr.Field)
}

func TestParseCallbackRequestMethods(t *testing.T) {
	encoded := baseValues().Encode()

	get := httptest.NewRequest("GET", "/callback?"+encoded, nil)
	resp, err := ParseCallbackRequest(get)
	require.NoError(t, err)
	assert.Equal(t, "TXN-0001", resp.TxnID)

	post := httptest.NewRequest("POST", "/callback", strings.NewReader(encoded))
	post.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err = ParseCallbackRequest(post)
	require.NoError(t, err)
	assert.Equal(t, "TXN-0001", resp.TxnID)

	put := httptest.NewRequest("PUT", "/callback", strings.NewReader(encoded))
	_, err = ParseCallbackRequest(put)
	var methodErr *InvalidMethodError
	assert.ErrorAs(t, err, &methodErr)
}

func TestHasToken(t *testing.T) {
	full := &Response{TokenType: TokenTypeOCP, Token: "tok", CardNoMask: "512345XXXXXX1234", CardExp: "202708"}
	assert.True(t, full.HasToken())
	assert.False(t, full.HasBareToken())

	bare := &Response{TokenType: TokenTypeOCP, Token: "tok"}
	assert.False(t, bare.HasToken())
	assert.True(t, bare.HasBareToken())

	unknown := &Response{TokenType: "XYZ", Token: "tok", CardNoMask: "512345XXXXXX1234", CardExp: "202708"}
	assert.False(t, unknown.HasToken())
	assert.False(t, unknown.HasBareToken())
}

func TestPaidAtResolution(t *testing.T) {
	primary := &Response{TxnDateTime: "2026-08-01 17:30:00", TranDate: "2026-08-02 09:00:00"}
	// 17:30 GMT+8 is 09:30 UTC.
	assert.Equal(t, time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC), primary.PaidAt())

	fallback := &Response{TxnDateTime: "garbage", TranDate: "2026-08-02 09:00:00"}
	assert.Equal(t, time.Date(2026, 8, 2, 1, 0, 0, 0, time.UTC), fallback.PaidAt())

	neither := &Response{}
	assert.WithinDuration(t, time.Now().UTC(), neither.PaidAt(), 5*time.Second)
}
