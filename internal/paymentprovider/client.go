package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client — клиент платёжного провайдера (Stripe-совместимый API).
// Все запросы идут form-encoded с bearer-авторизацией.
type Client struct {
	apiURL     string
	secretKey  string
	currency   string
	successURL string
	httpClient *http.Client
}

func NewClient(apiURL, secretKey, currency, successURL string) *Client {
	return &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		secretKey:  secretKey,
		currency:   currency,
		successURL: successURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateProduct регистрирует товар у провайдера и возвращает его ID.
func (c *Client) CreateProduct(ctx context.Context, name string) (*Product, error) {
	form := url.Values{}
	form.Set("name", name)

	req, err := c.newRequest(ctx, http.MethodPost, "/products", form)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := c.do(req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreatePrice создаёт цену товара. Сумма переводится в минимальные
// единицы валюты (копейки).
func (c *Client) CreatePrice(ctx context.Context, productID string, amount float64) (*Price, error) {
	form := url.Values{}
	form.Set("product", productID)
	form.Set("unit_amount", strconv.FormatInt(int64(amount*100), 10))
	form.Set("currency", c.currency)

	req, err := c.newRequest(ctx, http.MethodPost, "/prices", form)
	if err != nil {
		return nil, err
	}
	var price Price
	if err := c.do(req, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

// CreateSession открывает платёжную сессию hosted checkout по цене.
func (c *Client) CreateSession(ctx context.Context, priceID string) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")

	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	var session Session
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionStatus возвращает статус оплаты платёжной сессии.
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return "", err
	}
	var session Session
	if err := c.do(req, &session); err != nil {
		return "", fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return session.PaymentStatus, nil
}
