package validators

import "errors"

var (
	ErrMobileEmpty   = errors.New("no mobile number provided")
	ErrMobileInvalid = errors.New("mobile number must be 10 digits")
)

// MobileValidator accepts the bare 10-digit subscriber number, without a
// country prefix. The SMS dispatcher prepends the prefix itself.
func MobileValidator(m string) error {
	if m == "" {
		return ErrMobileEmpty
	}

	if len(m) != 10 {
		return ErrMobileInvalid
	}

	for _, r := range m {
		if r < '0' || r > '9' {
			return ErrMobileInvalid
		}
	}

	return nil
}
