package client

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"storefront-checkout/internal/config"
	"strings"
	"time"
)

type PayUClient interface {
	// BuildParams returns the full form the gateway expects, including key and hash.
	BuildParams(req *PaymentRequest) url.Values
	// VerifyCallback checks the reverse hash the gateway attaches to a result.
	VerifyCallback(fields map[string]string) bool
	// CreatePaymentURL returns the URL the customer's browser must be sent to.
	CreatePaymentURL(ctx context.Context, params url.Values) (string, error)
}

type PaymentRequest struct {
	TxnID       string
	Amount      string // two decimals, e.g. "4999.00"
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	SuccessURL  string
	FailureURL  string
}

type payuClientImpl struct {
	httpClient  *http.Client
	baseURL     string
	merchantKey string
	salt        string
	mockMode    bool
}

func NewPayUClient(cfg *config.PayU) PayUClient {
	return &payuClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// the hosted page is the Location of the gateway's redirect, never follow it
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		merchantKey: cfg.MerchantKey,
		salt:        cfg.MerchantSalt,
		mockMode:    cfg.MockMode,
	}
}

// RequestHash is sha512(key|txnid|amount|productinfo|firstname|email|udf1..udf5||||||salt).
// udf1..udf5 are unused and stay empty, but their slots must be present.
func RequestHash(key, salt, txnID, amount, productInfo, firstName, email string) string {
	fields := []string{
		key, txnID, amount, productInfo, firstName, email,
		"", "", "", "", "", // udf1..udf5
		"", "", "", "", "",
		salt,
	}
	return sha512Hex(strings.Join(fields, "|"))
}

// ResponseHash is sha512([additional_charges|]salt|status||||||udf5..udf1|email|firstname|productinfo|amount|txnid|key).
func ResponseHash(key, salt string, fields map[string]string) string {
	parts := []string{
		salt, fields["status"],
		"", "", "", "", "",
		fields["udf5"], fields["udf4"], fields["udf3"], fields["udf2"], fields["udf1"],
		fields["email"], fields["firstname"], fields["productinfo"], fields["amount"], fields["txnid"],
		key,
	}
	if charges := fields["additional_charges"]; charges != "" {
		parts = append([]string{charges}, parts...)
	}
	return sha512Hex(strings.Join(parts, "|"))
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (c *payuClientImpl) BuildParams(req *PaymentRequest) url.Values {
	params := url.Values{}
	params.Set("key", c.merchantKey)
	params.Set("txnid", req.TxnID)
	params.Set("amount", req.Amount)
	params.Set("productinfo", req.ProductInfo)
	params.Set("firstname", req.FirstName)
	params.Set("email", req.Email)
	params.Set("phone", req.Phone)
	params.Set("surl", req.SuccessURL)
	params.Set("furl", req.FailureURL)
	params.Set("hash", RequestHash(c.merchantKey, c.salt, req.TxnID, req.Amount, req.ProductInfo, req.FirstName, req.Email))
	return params
}

func (c *payuClientImpl) VerifyCallback(fields map[string]string) bool {
	received := strings.ToLower(fields["hash"])
	if received == "" {
		return false
	}
	expected := ResponseHash(c.merchantKey, c.salt, fields)
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}

func (c *payuClientImpl) CreatePaymentURL(ctx context.Context, params url.Values) (string, error) {
	if c.mockMode {
		return c.mockPaymentURL(params)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/_payment",
		strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("create payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payu payment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("payu error %d: %s", resp.StatusCode, string(b))
	}

	location, err := resp.Location()
	if err != nil {
		return "", fmt.Errorf("payu redirect without location: %w", err)
	}
	return location.String(), nil
}

// mockPaymentURL sends the browser straight to our own success callback with a correctly signed
// "success" result, so the whole flow can run without live gateway credentials.
func (c *payuClientImpl) mockPaymentURL(params url.Values) (string, error) {
	callback, err := url.Parse(params.Get("surl"))
	if err != nil {
		return "", fmt.Errorf("parse success url: %w", err)
	}

	fields := map[string]string{
		"status":      "success",
		"txnid":       params.Get("txnid"),
		"amount":      params.Get("amount"),
		"productinfo": params.Get("productinfo"),
		"firstname":   params.Get("firstname"),
		"email":       params.Get("email"),
	}

	q := url.Values{}
	for k, v := range fields {
		q.Set(k, v)
	}
	q.Set("phone", params.Get("phone"))
	q.Set("mihpayid", "MOCK"+params.Get("txnid"))
	q.Set("PG_TYPE", "MOCK")
	q.Set("bank_ref_num", "MOCKREF"+params.Get("txnid"))
	q.Set("hash", ResponseHash(c.merchantKey, c.salt, fields))
	callback.RawQuery = q.Encode()

	return callback.String(), nil
}
