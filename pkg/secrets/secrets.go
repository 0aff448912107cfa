// Package secrets holds the gateway's own credentials: the dashboard
// cookie signing key and the hashed ops token protecting the operational
// endpoints.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "studioadmin/pkg/domain-errors"
)

const signingKeyBytes = 32

// GenerateSigningKey creates a random key for signing dashboard session
// cookies, base64-encoded. Used at startup when no key is configured;
// such a key does not survive a restart, so existing sessions drop.
func GenerateSigningKey() (string, error) {
	buf := make([]byte, signingKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate signing key")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashOpsToken creates the bcrypt hash of an ops token. The hash, not
// the plaintext, goes into the environment of the running process.
func HashOpsToken(token string) (string, error) {
	if token == "" {
		return "", dErrors.New(dErrors.CodeValidation, "ops token cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "ops token is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash ops token")
	}
	return string(hashed), nil
}

// VerifyOpsToken checks a presented ops token against the configured
// bcrypt hash.
func VerifyOpsToken(token, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid ops token")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not verify ops token")
	}
	return nil
}
