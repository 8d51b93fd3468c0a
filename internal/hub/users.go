package hub

import (
	"context"
	"strconv"

	"github.com/stellarbit/hubclient/internal/models"
)

const (
	userPath           = "/api/users/{id}"
	userByUsernamePath = "/api/users/by_username/{username}"
)

func (c *Client) User(ctx context.Context, id int64) (*models.UserData, error) {
	return callJSON[models.UserData](ctx, c, Get(userPath, map[string]string{
		"id": strconv.FormatInt(id, 10),
	}))
}

func (c *Client) UserByUsername(ctx context.Context, username string) (*models.UserData, error) {
	return callJSON[models.UserData](ctx, c, Get(userByUsernamePath, map[string]string{
		"username": username,
	}))
}

// Me returns the authenticated user's own record.
func (c *Client) Me(ctx context.Context) (*models.UserData, error) {
	if c.userID == 0 {
		return c.UserByUsername(ctx, c.Username())
	}
	return c.User(ctx, c.userID)
}
