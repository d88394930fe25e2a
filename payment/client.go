package payment

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// LineItem describes one priced cart entry handed to the hosted payment page.
// Amounts are integer minor currency units.
type LineItem struct {
	Name            string
	Description     string
	UnitAmountCents int64
	Currency        string
	Quantity        int
}

// Client talks to the hosted-checkout gateway. Session retrieval and webhook
// verification are out of scope; the storefront only creates sessions.
type Client struct {
	apiURL    string
	secretKey string
	http      *http.Client
}

// NewClientFromEnv reads PAYMENT_API_URL and PAYMENT_SECRET_KEY.
func NewClientFromEnv() (*Client, error) {
	apiURL := os.Getenv("PAYMENT_API_URL")
	secret := os.Getenv("PAYMENT_SECRET_KEY")
	if apiURL == "" || secret == "" {
		return nil, fmt.Errorf("payment configuration missing")
	}
	return NewClient(apiURL, secret), nil
}

func NewClient(apiURL, secretKey string) *Client {
	return &Client{apiURL: strings.TrimRight(apiURL, "/"), secretKey: secretKey, http: &http.Client{}}
}

type sessionResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateCheckoutSession registers the priced line items with the gateway and
// returns the id of the hosted session the customer is redirected to.
func (c *Client) CreateCheckoutSession(items []LineItem, successURL, cancelURL string) (string, error) {
	form := url.Values{}
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	for i, it := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[name]", it.Name)
		form.Set(prefix+"[description]", it.Description)
		form.Set(prefix+"[amount]", strconv.FormatInt(it.UnitAmountCents, 10))
		form.Set(prefix+"[currency]", it.Currency)
		form.Set(prefix+"[quantity]", strconv.Itoa(it.Quantity))
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment API error (%d): %s", resp.StatusCode, string(body))
	}

	var out sessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse payment response: %v", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("payment error: %s", out.Error.Message)
	}
	if out.ID == "" {
		return "", fmt.Errorf("payment gateway returned empty session id")
	}
	return out.ID, nil
}
