package eghl

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

func NewSigner(serviceID, password string) *Signer {
	return &Signer{
		ServiceID: serviceID,
		Password:  password,
	}
}

// Signer computes the gateway's SHA-256 hash over a delimiter-free field
// concatenation. Request and response directions use different field orders
// and different field sets; both orders are fixed by the gateway contract.
type Signer struct {
	ServiceID string
	Password  string
}

func (s *Signer) digest(fields ...string) string {
	h := sha256.New()
	for _, field := range fields {
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SignRequest hashes the outbound payment request. The empty strings are
// reserved slots the gateway includes in its hash input even when unused; the
// saved-card token occupies its dedicated slot when present.
func (s *Signer) SignRequest(paymentID, returnURL, callbackURL, amount, currency, token string) string {
	return s.digest(
		s.Password,
		s.ServiceID,
		paymentID,
		returnURL,
		"", // MerchantApprovalURL
		"", // MerchantUnApprovalURL
		callbackURL,
		amount,
		currency,
		"", // CustIP
		"", // PageTimeout
		token,
		"", // CardNo
		"", // RecurringCriteria
	)
}

// SignResponse hashes a gateway response using the response-side field order.
func (s *Signer) SignResponse(txnID, paymentID, txnStatus, amount, currency, authCode, orderNumber, param6, param7 string) string {
	return s.digest(
		s.Password,
		txnID,
		s.ServiceID,
		paymentID,
		txnStatus,
		amount,
		currency,
		authCode,
		orderNumber,
		param6,
		param7,
	)
}

// VerifyResponse reports whether resp carries a valid signature. An absent
// signature is invalid, never a reason to skip verification.
func (s *Signer) VerifyResponse(resp *Response) bool {
	if resp.HashValue == "" {
		return false
	}
	want := s.SignResponse(
		resp.TxnID,
		resp.PaymentID,
		resp.TxnStatus,
		resp.Amount,
		resp.CurrencyCode,
		resp.AuthCode,
		resp.OrderNumber,
		resp.Param6,
		resp.Param7,
	)
	return subtle.ConstantTimeCompare([]byte(want), []byte(resp.HashValue)) == 1
}
