package common

import (
	"os"
	"os/user"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

const clientIdentifierApp = "stellarbit-hubclient"

var clientIdentifier = newClientIdentifier()

// GetClientIdentifier returns a UUID that identifies this host towards the
// hub. It is stable across runs on the same machine.
func GetClientIdentifier() uuid.UUID {
	return clientIdentifier
}

func newClientIdentifier() uuid.UUID {

	// The raw machine id is never sent, only an app specific HMAC of it
	if id, err := machineid.ProtectedID(clientIdentifierApp); err == nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
	}

	hostname, err := os.Hostname()
	if err != nil || len(hostname) == 0 {
		// Fallback to a random ephemeral UUID if the host cannot be named
		return uuid.New()
	}

	name := hostname
	if usr, err := user.Current(); err == nil {
		name = usr.Username + "@" + hostname
	}

	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name))
}
