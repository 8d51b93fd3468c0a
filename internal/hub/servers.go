package hub

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/stellarbit/hubclient/internal/models"
)

const (
	serversPath   = "/api/servers"
	keepAlivePath = "/api/servers/keep_alive/{server_id}/{server_addr}"
	accessPath    = "/api/servers/access/{server_id}"
	verifyPath    = "/api/servers/verify/{server_id}/{user_id}/{token}"
)

// Servers lists every server registered with the hub. Offline servers have
// a nil Addr.
func (c *Client) Servers(ctx context.Context) ([]models.ServerDetails, error) {
	servers, err := callJSON[[]models.ServerDetails](ctx, c, Get(serversPath, nil))
	if err != nil {
		return nil, err
	}
	return *servers, nil
}

// KeepAlive tells the hub the server is alive and reachable at serverAddr.
func (c *Client) KeepAlive(ctx context.Context, serverID int64, serverAddr string) error {
	_, err := c.call(ctx, Post(keepAlivePath, map[string]string{
		"server_id":   strconv.FormatInt(serverID, 10),
		"server_addr": serverAddr,
	}))
	return err
}

// AccessServer asks the hub for an access token to the given server.
func (c *Client) AccessServer(ctx context.Context, serverID int64) (*models.ServerAccess, error) {
	return callJSON[models.ServerAccess](ctx, c, Get(accessPath, map[string]string{
		"server_id": strconv.FormatInt(serverID, 10),
	}))
}

// VerifyToken checks an access token presented to serverID by userID.
// An invalid token is a normal outcome reported as false; only unexpected
// statuses become errors.
func (c *Client) VerifyToken(ctx context.Context, serverID int64, userID int64, token string) (bool, error) {

	req := Get(verifyPath, map[string]string{
		"server_id": strconv.FormatInt(serverID, 10),
		"user_id":   strconv.FormatInt(userID, 10),
		"token":     token,
	})

	resp, err := c.executor.Execute(ctx, req)
	if err != nil {
		return false, err
	}

	switch {
	case resp.StatusCode() == http.StatusPreconditionFailed:
		logrus.WithFields(logrus.Fields{
			"serverId": serverID,
			"userId":   userID,
		}).Debugln("Hub rejected access token")
		return false, nil
	case resp.IsSuccess():
		return true, nil
	default:
		return false, newRequestError(req, resp)
	}
}
