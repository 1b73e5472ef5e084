package api

// BACKEND API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Client talks to the storefront backend. Every call takes an explicit
// bearer token; an empty token falls back to the process-wide service
// token, which the backend accepts for read operations and admin-side
// status updates.
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
	logger       *zap.Logger
}

func NewClient(baseURL, serviceToken string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ItemKind discriminates catalog nodes. It is assigned exactly once, when
// the backend response is decoded; nothing downstream re-inspects fields.
type ItemKind string

const (
	KindGroup   ItemKind = "group"
	KindProduct ItemKind = "product"
)

// CatalogItem is one entry of a catalog level: a group or a product.
type CatalogItem struct {
	ID     string   `json:"id"`
	Kind   ItemKind `json:"kind"`
	NameUz string   `json:"name_uz"`
	NameRu string   `json:"name_ru"`
	NameEn string   `json:"name_en"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
}

// DisplayName resolves the item name for lang, falling back to Russian,
// then the untranslated name, then a generic placeholder. Catalog data may
// be missing translations.
func (i CatalogItem) DisplayName(lang string) string {
	var name string
	switch lang {
	case "uz":
		name = i.NameUz
	case "en":
		name = i.NameEn
	default:
		name = i.NameRu
	}
	if name == "" {
		name = i.NameRu
	}
	if name == "" {
		name = i.Name
	}
	if name == "" {
		name = "Unknown"
	}
	return name
}

type rawCatalogItem struct {
	ID     string   `json:"id"`
	NameUz string   `json:"name_uz"`
	NameRu string   `json:"name_ru"`
	NameEn string   `json:"name_en"`
	Name   string   `json:"name"`
	Price  *float64 `json:"price"`
	Images []string `json:"images"`
}

func (r rawCatalogItem) classify() CatalogItem {
	item := CatalogItem{
		ID:     r.ID,
		Kind:   KindGroup,
		NameUz: r.NameUz,
		NameRu: r.NameRu,
		NameEn: r.NameEn,
		Name:   r.Name,
		Images: r.Images,
	}
	if r.Price != nil {
		item.Kind = KindProduct
		item.Price = *r.Price
	}
	return item
}

// Product is the full product record returned by GET /products/{id}.
type Product struct {
	ID             string   `json:"id"`
	NameUz         string   `json:"name_uz"`
	NameRu         string   `json:"name_ru"`
	NameEn         string   `json:"name_en"`
	DescriptionUz  string   `json:"description_uz"`
	DescriptionRu  string   `json:"description_ru"`
	DescriptionEn  string   `json:"description_en"`
	Price          float64  `json:"price"`
	Images         []string `json:"images"`
	OrganizationID string   `json:"organization_id"`
}

func (p Product) DisplayName(lang string) string {
	return CatalogItem{NameUz: p.NameUz, NameRu: p.NameRu, NameEn: p.NameEn}.DisplayName(lang)
}

func (p Product) Description(lang string) string {
	switch lang {
	case "uz":
		if p.DescriptionUz != "" {
			return p.DescriptionUz
		}
	case "en":
		if p.DescriptionEn != "" {
			return p.DescriptionEn
		}
	}
	return p.DescriptionRu
}

type User struct {
	ID          string `json:"id"`
	TelegramID  string `json:"telegram_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	CurrentLang string `json:"current_lang"`
	IsActive    bool   `json:"is_active"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type RegisterRequest struct {
	TelegramID  string `json:"telegram_id"`
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
	CurrentLang string `json:"current_lang"`
}

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

type OrderRequest struct {
	OrganizationID string      `json:"organization_id,omitempty"`
	Items          []OrderItem `json:"items"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	UserID         string      `json:"user_id,omitempty"`
}

type Order struct {
	ID                string      `json:"id"`
	OrderNumber       json.Number `json:"order_number"`
	Status            string      `json:"status"`
	TotalAmount       float64     `json:"total_amount"`
	Items             []OrderItem `json:"items"`
	CreatedAt         string      `json:"created_at"`
	TelegramMessageID int         `json:"telegram_message_id"`
}

type itemsEnvelope struct {
	Items []rawCatalogItem `json:"items"`
	Total int              `json:"total"`
}

// apiError carries the backend's own error text to the caller.
type apiError struct {
	Detail string `json:"detail"`
}

func (c *Client) do(req *http.Request, token string) (*http.Response, error) {
	if token == "" {
		token = c.serviceToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, err
	}
	c.logger.Debug("Backend request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode))
	return resp, nil
}

func decodeError(resp *http.Response, fallback string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Detail != "" {
		return fmt.Errorf("%s", e.Detail)
	}
	return fmt.Errorf("%s: status %d", fallback, resp.StatusCode)
}

// Login authenticates a user by Telegram id.
func (c *Client) Login(ctx context.Context, telegramID string) (*LoginResult, error) {
	body, _ := json.Marshal(map[string]string{"telegram_id": telegramID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/telegram/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, "")
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "login failed")
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// Register creates a new user account from a shared Telegram contact.
func (c *Client) Register(ctx context.Context, r RegisterRequest) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/telegram/register", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, "")
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return decodeError(resp, "registration failed")
	}
	return nil
}

// GetUser looks a user up by Telegram id. A missing user is (nil, nil).
func (c *Client) GetUser(ctx context.Context, telegramID string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/users/telegram/"+url.PathEscape(telegramID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, "")
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "get user failed")
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &user, nil
}

// GetGroups fetches groups under parentID; empty parentID means root.
func (c *Client) GetGroups(ctx context.Context, token, parentID string) ([]CatalogItem, error) {
	parent := "null"
	if parentID != "" {
		parent = url.QueryEscape(parentID)
	}
	u := fmt.Sprintf("%s/groups?parent_id=%s&limit=100", c.baseURL, parent)
	return c.fetchItems(ctx, token, u, "get groups failed")
}

// GetProducts fetches a group's direct products.
func (c *Client) GetProducts(ctx context.Context, token, groupID string) ([]CatalogItem, error) {
	u := fmt.Sprintf("%s/products?group_id=%s&limit=100", c.baseURL, url.QueryEscape(groupID))
	return c.fetchItems(ctx, token, u, "get products failed")
}

// SearchProducts finds products by name.
func (c *Client) SearchProducts(ctx context.Context, token, query string, limit int) ([]CatalogItem, error) {
	u := fmt.Sprintf("%s/products?search=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)
	return c.fetchItems(ctx, token, u, "search products failed")
}

func (c *Client) fetchItems(ctx context.Context, token, u, what string) ([]CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, token)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, what)
	}

	var envelope itemsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]CatalogItem, 0, len(envelope.Items))
	for _, raw := range envelope.Items {
		items = append(items, raw.classify())
	}
	return items, nil
}

// GetProduct fetches a single product's full record.
func (c *Client) GetProduct(ctx context.Context, token, productID string) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/products/"+url.PathEscape(productID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, token)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "get product failed")
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &product, nil
}

// CreateOrder submits a cart snapshot as a new order.
func (c *Client) CreateOrder(ctx context.Context, token string, r OrderRequest) (*Order, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, token)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp, "order creation failed")
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &order, nil
}

// GetUserOrders fetches a user's order history, newest first.
func (c *Client) GetUserOrders(ctx context.Context, token, userID string, skip, limit int) ([]Order, error) {
	u := fmt.Sprintf("%s/orders?user_id=%s&skip=%d&limit=%d",
		c.baseURL, url.QueryEscape(userID), skip, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, token)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "get orders failed")
	}

	var envelope struct {
		Items []Order `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Items, nil
}

// UpdateOrderStatus transitions an order to the given status.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*Order, error) {
	return c.patchOrder(ctx, token, orderID, map[string]any{"status": status})
}

// SetOrderMessageID records the operator notification's message id on the
// order so the approval relay can edit it later.
func (c *Client) SetOrderMessageID(ctx context.Context, token, orderID string, messageID int) error {
	_, err := c.patchOrder(ctx, token, orderID, map[string]any{"telegram_message_id": messageID})
	return err
}

func (c *Client) patchOrder(ctx context.Context, token, orderID string, payload map[string]any) (*Order, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/orders/"+url.PathEscape(orderID), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, token)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "order update failed")
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &order, nil
}

// UpdateLanguage persists the user's interface language on their profile.
func (c *Client) UpdateLanguage(ctx context.Context, token, lang string) error {
	body, _ := json.Marshal(map[string]string{"current_lang": lang})
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.baseURL+"/users/me/profile", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req, token)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp, "language update failed")
	}
	return nil
}
