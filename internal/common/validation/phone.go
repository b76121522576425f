package validation

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidPhone = errors.New("INVALID_PHONE")

var (
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	e164Pattern     = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	digitsPattern   = regexp.MustCompile(`^\d+$`)
)

// NormalizePhone returns phone in E.164 form. Bare ten digit numbers, with or
// without a leading trunk zero, get countryCode prepended.
func NormalizePhone(phone, countryCode string) (string, error) {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "whatsapp:")
	p = phoneSeparators.Replace(p)

	if strings.HasPrefix(p, "00") {
		p = "+" + p[2:]
	}

	if !strings.HasPrefix(p, "+") {
		if !digitsPattern.MatchString(p) {
			return "", ErrInvalidPhone
		}
		switch {
		case len(p) == 10:
			p = countryCode + p
		case len(p) == 11 && p[0] == '0':
			p = countryCode + p[1:]
		case len(p) == 12 && "+"+p[:2] == countryCode:
			p = "+" + p
		default:
			return "", ErrInvalidPhone
		}
	}

	if !e164Pattern.MatchString(p) {
		return "", ErrInvalidPhone
	}
	return p, nil
}
