package adapters

import (
	"errors"
	"fmt"
	"time"

	"smart-dispatch/internal/features/delivery/domain"

	"github.com/golang-jwt/jwt/v5"
)

// doorDashTokenLifetime is the maximum lifetime DoorDash accepts.
const doorDashTokenLifetime = 30 * time.Minute

// NewDoorDashToken signs a DD-JWT-V1 bearer token for DoorDash Drive.
func NewDoorDashToken(creds domain.DoorDashCredentials, now time.Time) (string, error) {
	if !creds.Configured() {
		return "", errors.New("missing DoorDash credentials: developer id, key id and signing secret are required")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aud": "doordash",
		"iss": creds.DeveloperID,
		"kid": creds.KeyID,
		"iat": now.Unix(),
		"exp": now.Add(doorDashTokenLifetime).Unix(),
	})
	token.Header["dd-ver"] = "DD-JWT-V1"

	signed, err := token.SignedString([]byte(creds.SigningSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign DoorDash token: %w", err)
	}
	return signed, nil
}
