package session

import (
	"crypto/rand"
	"fmt"
	"net/url"
)

// passwordCharset excludes nothing: the password is read off the badge
// display, and the validator compares byte-exact, so every character
// must be typed exactly as shown.
const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// passwordLength is fixed at 4: the password is an anti-accident gate,
// not a cryptographic secret, and it has to fit on a small display.
const passwordLength = 4

// GeneratePassword returns a fresh 4-character alphanumeric device
// password. Generated once per boot; never persisted, never placed on
// the BLE surface.
func GeneratePassword() (string, error) {
	// Rejection sampling: 36 does not divide 256, so a plain modulo
	// would skew toward the low end of the charset.
	const limit = 256 - 256%len(passwordCharset)
	out := make([]byte, passwordLength)
	var b [1]byte
	for i := 0; i < passwordLength; {
		if _, err := rand.Read(b[:]); err != nil {
			return "", fmt.Errorf("session: generate password: %w", err)
		}
		if int(b[0]) >= limit {
			continue
		}
		out[i] = passwordCharset[int(b[0])%len(passwordCharset)]
		i++
	}
	return string(out), nil
}

// PairingURL builds the QR-code URL shown next to the password on the
// local display: <base-url>?password=<4chars>.
func PairingURL(baseURL, password string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set("password", password)
	u.RawQuery = q.Encode()
	return u.String()
}
