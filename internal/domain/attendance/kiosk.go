package attendance

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const kioskCodePeriod = 30

// ValidateKioskCode checks a scanned code against the station secret,
// tolerating one period of clock skew.
func ValidateKioskCode(station Station, code string, now time.Time) bool {
	if station.TOTPSecret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, station.TOTPSecret, now, totp.ValidateOpts{
		Period: kioskCodePeriod,
		Skew:   1,
		Digits: otp.DigitsSix,
	})
	return err == nil && ok
}

// CurrentKioskCode returns the code the station displays right now.
func CurrentKioskCode(station Station, now time.Time) (string, error) {
	return totp.GenerateCodeCustom(station.TOTPSecret, now, totp.ValidateOpts{
		Period: kioskCodePeriod,
		Digits: otp.DigitsSix,
	})
}
