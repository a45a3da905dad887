package sdk

import "context"

// Register registers a new user
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.post(ctx, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates a user and returns a token
// The token is automatically stored in the client for subsequent requests
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.post(ctx, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	// Auto-set token for subsequent requests
	c.SetToken(result.Token)
	return &result, nil
}

// LoginWithPassword is a convenience wrapper around Login
func (c *Client) LoginWithPassword(ctx context.Context, username, password string) (*LoginResponse, error) {
	return c.Login(ctx, &LoginRequest{
		Username: username,
		Password: password,
	})
}

// Logout invalidates the current token on the server
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}
