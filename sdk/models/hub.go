// Package models provides public SDK types for the hub client.
// These types are re-exported from the internal models package to provide
// a stable public API for external consumers.
package models

import internal "github.com/stellarbit/hubclient/internal/models"

// ServerDetails describes a game server registered with the hub. Addr is
// nil while the server is offline.
type ServerDetails = internal.ServerDetails

// UserData identifies a hub user.
type UserData = internal.UserData

// ServerAccess carries a one-off access token for a game server.
type ServerAccess = internal.ServerAccess

// HubSession is the exported, persistable state of a hub session.
type HubSession = internal.HubSession

// Cookie is a persisted session cookie.
type Cookie = internal.Cookie
