package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// otpSecretLength is the raw entropy behind each generated code, in bytes.
const otpSecretLength = 20

// GenerateOTP returns a 6-digit one-time code for email verification. Each
// call derives the code from a fresh random secret, so codes are independent
// and carry no state beyond the stored value and its expiry.
func GenerateOTP() (string, error) {
	raw := make([]byte, otpSecretLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate otp secret: %w", err)
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)

	code, err := hotp.GenerateCodeCustom(secret, 0, hotp.ValidateOpts{
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to generate otp: %w", err)
	}
	return code, nil
}
