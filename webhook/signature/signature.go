package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// HeaderName is the header Checkout.com uses to carry the body signature
	HeaderName = "Cko-Signature"

	// MinSecretBytes is the minimum size of a generated secret (192 bits)
	MinSecretBytes = 24

	// MaxSecretBytes is the maximum size of a generated secret (512 bits)
	MaxSecretBytes = 64
)

// ErrMissingSecret is returned when a signature is computed without a secret
var ErrMissingSecret = errors.New("webhook secret is not configured")

// GenerateSecret creates a random hex-encoded signing secret of size bytes
// between MinSecretBytes and MaxSecretBytes.
func GenerateSecret(size int) (string, error) {
	if size < MinSecretBytes || size > MaxSecretBytes {
		return "", fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	bytes := make([]byte, size)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}

// Sign returns the lowercase hex HMAC-SHA256 of body keyed with secret
func Sign(secret, body []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

/* Check verifies provided against the HMAC of body
 * An absent or malformed signature is a plain mismatch (false, nil).
 * The error is reserved for faults in computing the expected digest.
 */
func Check(body []byte, provided string, secret []byte) (bool, error) {
	if provided == "" {
		return false, nil
	}

	expected, err := Sign(secret, body)
	if err != nil {
		return false, fmt.Errorf("calculating signature: %w", err)
	}

	// Decoding accepts both hex casings, so comparison is case-insensitive
	providedBytes, err := hex.DecodeString(provided)
	if err != nil {
		return false, nil
	}
	expectedBytes, err := hex.DecodeString(expected)
	if err != nil {
		return false, fmt.Errorf("decoding calculated signature: %w", err)
	}

	// Constant-time comparison to prevent timing attacks
	return hmac.Equal(providedBytes, expectedBytes), nil
}

// Verify reports whether provided is the signature of body under secret.
// Internal faults count as a failed verification.
func Verify(body []byte, provided string, secret []byte) bool {
	ok, err := Check(body, provided, secret)
	return err == nil && ok
}

/* Verifier holds the shared secrets for the lifetime of the process
 * Several secrets may be configured during a rotation: the current one first,
 * then the previous ones. A delivery signed with any of them is accepted.
 */
type Verifier struct {
	secrets [][]byte
	logger  zerolog.Logger
}

// NewVerifier creates a Verifier for the given secrets; empty secrets are skipped
func NewVerifier(logger zerolog.Logger, secrets ...[]byte) *Verifier {
	kept := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		if len(s) > 0 {
			kept = append(kept, s)
		}
	}
	return &Verifier{
		secrets: kept,
		logger:  logger,
	}
}

// Verify checks the provided signature header value against body
func (v *Verifier) Verify(body []byte, provided string) bool {
	if provided == "" {
		v.logger.Warn().Msg("missing webhook signature header")
		return false
	}

	if len(v.secrets) == 0 {
		v.logger.Error().Err(ErrMissingSecret).Msg("verifying webhook signature")
		return false
	}

	for _, secret := range v.secrets {
		ok, err := Check(body, provided, secret)
		if err != nil {
			v.logger.Error().Err(err).Msg("verifying webhook signature")
			continue
		}
		if ok {
			v.logger.Debug().Msg("webhook signature is valid")
			return true
		}
	}

	v.logger.Warn().Int("body_bytes", len(body)).Msg("invalid webhook signature")
	return false
}
