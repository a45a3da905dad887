package sdk

import (
	"context"
	"strconv"
)

// GetMyInfo returns the authenticated user's own profile
func (c *Client) GetMyInfo(ctx context.Context) (*UserInfo, error) {
	var result UserInfo
	if err := c.get(ctx, "/user/info", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserInfo returns another user's profile
func (c *Client) GetUserInfo(ctx context.Context, userId int64) (*UserInfo, error) {
	var result UserInfo
	if err := c.get(ctx, "/user/info/"+strconv.FormatInt(userId, 10), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListUsers returns every other user with presence fields
func (c *Client) ListUsers(ctx context.Context) ([]*UserInfo, error) {
	var result []*UserInfo
	if err := c.get(ctx, "/user/list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetOnlineUsers returns the ids of currently connected users
func (c *Client) GetOnlineUsers(ctx context.Context) (*OnlineUsers, error) {
	var result OnlineUsers
	if err := c.get(ctx, "/user/online", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMyInfo updates the authenticated user's profile
func (c *Client) UpdateMyInfo(ctx context.Context, req *UpdateUserRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.put(ctx, "/user/update", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
