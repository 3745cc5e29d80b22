// AngelaMos | 2026
// endpoints.go

package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	var out AuthResult
	if err := c.send(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := map[string]string{"email": email, "password": password}

	var out AuthResult
	if err := c.send(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// CheckAuth asks the server who the stored cookie belongs to.
func (c *Client) CheckAuth(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.get(ctx, "/auth/check-auth", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyEmail(ctx context.Context, code string) (*User, error) {
	var out User
	in := map[string]string{"code": code}
	if err := c.send(ctx, http.MethodPost, "/auth/verify-email", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	in := map[string]string{"email": email}
	return c.send(ctx, http.MethodPost, "/auth/forgot-password", in, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	in := map[string]string{"password": password}
	path := "/auth/reset-password/" + url.PathEscape(token)
	return c.send(ctx, http.MethodPost, path, in, nil)
}

func (c *Client) PendingDealers(ctx context.Context) ([]User, error) {
	var out struct {
		PendingDealers []User `json:"pendingDealers"`
	}
	if err := c.get(ctx, "/auth/pending-dealers", &out); err != nil {
		return nil, err
	}
	return out.PendingDealers, nil
}

// ApproveDealer takes the bulk discount rate as a decimal string such as
// "12.5".
func (c *Client) ApproveDealer(ctx context.Context, userID, bulkDiscountRate string) (*User, error) {
	in := map[string]any{"userId": userID, "bulkDiscountRate": bulkDiscountRate}

	var out User
	if err := c.send(ctx, http.MethodPost, "/auth/approve-dealer", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RejectDealer(ctx context.Context, userID string) error {
	in := map[string]string{"userId": userID}
	return c.send(ctx, http.MethodPost, "/auth/reject-dealer", in, nil)
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.get(ctx, "/products/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var out struct {
		Cart Cart `json:"cart"`
	}
	if err := c.get(ctx, "/cart", &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*Cart, error) {
	in := map[string]any{"productId": productID, "quantity": quantity}

	var out struct {
		Cart Cart `json:"cart"`
	}
	if err := c.send(ctx, http.MethodPost, "/cart/add", in, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*Cart, error) {
	var out struct {
		Cart Cart `json:"cart"`
	}
	path := "/cart/remove/" + url.PathEscape(productID)
	if err := c.send(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) SendMessage(ctx context.Context, email, message string) (*Message, error) {
	in := map[string]string{"email": email, "message": message}

	var out Message
	if err := c.send(ctx, http.MethodPost, "/messages", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyMessages(ctx context.Context) ([]Message, error) {
	var out []Message
	if err := c.get(ctx, "/messages/my", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMessages(ctx context.Context) ([]Message, error) {
	var out []Message
	if err := c.get(ctx, "/messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/messages/"+url.PathEscape(id), nil, nil)
}
