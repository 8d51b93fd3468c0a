package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerDetails_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		expectAddr string
		online     bool
	}{
		{
			name:       "online server",
			payload:    `{"name":"Alpha","id":1,"addr":"10.0.0.1:9000","owner_id":7}`,
			expectAddr: "10.0.0.1:9000",
			online:     true,
		},
		{
			name:    "null address is offline",
			payload: `{"name":"Beta","id":2,"addr":null,"owner_id":7}`,
			online:  false,
		},
		{
			name:    "missing address is offline",
			payload: `{"name":"Gamma","id":3,"owner_id":9}`,
			online:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var server ServerDetails
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &server))

			assert.Equal(t, tt.online, server.Online())
			assert.Equal(t, tt.expectAddr, server.GetAddr())
			if !tt.online {
				assert.Nil(t, server.Addr)
				assert.Contains(t, server.String(), "offline")
			}
		})
	}
}

func TestServerAccess_Unmarshal(t *testing.T) {
	var access ServerAccess
	err := json.Unmarshal([]byte(`{"server_id":5,"server_addr":"10.0.0.5:9000","access_token":"abc"}`), &access)
	require.NoError(t, err)

	assert.Equal(t, ServerAccess{ServerID: 5, ServerAddr: "10.0.0.5:9000", AccessToken: "abc"}, access)
}
