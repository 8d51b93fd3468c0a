package models

import "fmt"

// ServerDetails describes a game server registered with the hub.
type ServerDetails struct {
	Name    string  `json:"name" yaml:"name"`
	ID      int64   `json:"id" yaml:"id"`
	Addr    *string `json:"addr" yaml:"addr,omitempty"` // nil when the server is offline
	OwnerID int64   `json:"owner_id" yaml:"owner_id"`
}

// Online reports whether the hub currently knows an address for the server.
func (s *ServerDetails) Online() bool {
	return s.Addr != nil && len(*s.Addr) > 0
}

func (s *ServerDetails) GetAddr() string {
	if s.Addr == nil {
		return ""
	}
	return *s.Addr
}

func (s ServerDetails) String() string {
	if !s.Online() {
		return fmt.Sprintf("%s (#%d, offline)", s.Name, s.ID)
	}
	return fmt.Sprintf("%s (#%d, %s)", s.Name, s.ID, *s.Addr)
}

type UserData struct {
	Username string `json:"username" yaml:"username"`
	ID       int64  `json:"id" yaml:"id"`
}

// ServerAccess is a short-lived capability granting the current user
// access to a specific server. The hub issues it on demand and the
// caller owns its lifetime.
type ServerAccess struct {
	ServerID    int64  `json:"server_id" yaml:"server_id"`
	ServerAddr  string `json:"server_addr" yaml:"server_addr"`
	AccessToken string `json:"access_token" yaml:"access_token"`
}
