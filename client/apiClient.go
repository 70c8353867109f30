package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go-restaurant-tracker/models"
)

// Client is the typed wrapper around the remote order-management API: one
// method per capability, bearer auth on every call, envelope unwrapping and
// the error taxonomy applied uniformly. It does not log and does not persist
// anything; the session store owns the token lifecycle.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs (or clears, with "") the bearer token for all following
// requests. Called by the session store only.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: apiMessage(raw)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &ApiError{Status: resp.StatusCode, Message: apiMessage(raw)}
	}

	if out == nil {
		return nil
	}
	data, err := unwrapEnvelope(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{Message: err.Error()}
	}
	return nil
}

// apiMessage digs a human-readable message out of an error response. The
// backend uses "error" and "message" interchangeably.
func apiMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = "no response body"
	}
	return msg
}

// --- auth ---

type LoginResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	User_id   string `json:"user_id,omitempty"`
	User_type string `json:"user_type"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	User_type string `json:"user_type"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// --- orders ---

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus is the admin-only raw status write.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status models.Status) error {
	body := map[string]string{"status": string(status)}
	return c.do(ctx, http.MethodPatch, "/orders/"+orderID+"/status", body, nil)
}

// --- driver ---

func (c *Client) DriverAvailable(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/driver/available", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) DriverAssigned(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/driver/assigned", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) DriverTimeline(ctx context.Context, orderID string) ([]models.WorkflowStep, error) {
	var steps []models.WorkflowStep
	if err := c.do(ctx, http.MethodGet, "/driver/timeline/"+orderID, nil, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (c *Client) DriverStats(ctx context.Context) (*models.DriverStats, error) {
	var stats models.DriverStats
	if err := c.do(ctx, http.MethodGet, "/driver/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) DriverPickup(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/driver/pickup/"+orderID, nil, nil)
}

func (c *Client) DriverComplete(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/driver/complete/"+orderID, nil, nil)
}

func (c *Client) DriverCancel(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/driver/cancel/"+orderID, nil, nil)
}

func (c *Client) SetDriverAvailability(ctx context.Context, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPost, "/driver/availability", body, nil)
}

// --- chef ---

func (c *Client) ChefAssigned(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/chef/assigned", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ChefCompleteCooking(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/chef/complete-cooking/"+orderID, nil, nil)
}

func (c *Client) ChefCompletePacking(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/chef/complete-packing/"+orderID, nil, nil)
}

func (c *Client) SetChefAvailability(ctx context.Context, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPost, "/chef/availability", body, nil)
}

// --- dashboard / admin ---

func (c *Client) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) AdminChefs(ctx context.Context) ([]models.StaffMember, error) {
	var staff []models.StaffMember
	if err := c.do(ctx, http.MethodGet, "/admin/chefs", nil, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) AdminDrivers(ctx context.Context) ([]models.StaffMember, error) {
	var staff []models.StaffMember
	if err := c.do(ctx, http.MethodGet, "/admin/drivers", nil, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// --- workflow ---

func (c *Client) Workflows(ctx context.Context) ([]models.OrderWorkflow, error) {
	var workflows []models.OrderWorkflow
	if err := c.do(ctx, http.MethodGet, "/workflow", nil, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

func (c *Client) WorkflowSteps(ctx context.Context, orderID string) ([]models.WorkflowStep, error) {
	var steps []models.WorkflowStep
	if err := c.do(ctx, http.MethodGet, "/workflow/"+orderID+"/steps", nil, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (c *Client) UpdateWorkflowStep(ctx context.Context, orderID, stepID string, patch models.StepPatch) error {
	if patch.Updated_at == "" {
		patch.Updated_at = time.Now().UTC().Format(time.RFC3339)
	}
	return c.do(ctx, http.MethodPatch, "/workflow/"+orderID+"/steps/"+stepID, patch, nil)
}
