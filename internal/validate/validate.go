// Package validate checks and normalizes single order fields. Each function
// returns either a normalized value or a reason the engine can quote back to
// the customer. Inputs are sanitized here regardless of what the transport
// already did.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxInputLen = 500

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	// Permissive UK postcode shape: SW1A 1AA, M1 1AE, CR2 6XH, ...
	postcodePattern = regexp.MustCompile(`^[A-Z]{1,2}\d{1,2}[A-Z]?\s?\d[A-Z]{2}$`)
	orderIDPattern  = regexp.MustCompile(`^[A-F0-9]{6}$`)
	spaces          = regexp.MustCompile(`\s+`)
)

// Sanitize strips control characters, collapses whitespace and caps length.
func Sanitize(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	out := spaces.ReplaceAllString(b.String(), " ")
	out = strings.TrimSpace(out)
	if len(out) > maxInputLen {
		cut := maxInputLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

func Name(text string) (string, error) {
	name := Sanitize(text)
	if len(name) < 2 {
		return "", errors.New("please provide your full name")
	}
	if len(name) > 50 {
		return "", errors.New("name is too long, please use a shorter format")
	}
	if !hasLetter.MatchString(name) {
		return "", errors.New("please provide a valid name")
	}
	return name, nil
}

func BundleCount(text string, max int) (int, error) {
	count, err := strconv.Atoi(Sanitize(text))
	if err != nil {
		return 0, errors.New("please enter a valid number (e.g. 1, 2, 3)")
	}
	if count <= 0 {
		return 0, errors.New("please enter a positive number of bundles")
	}
	if count > max {
		return 0, fmt.Errorf("please order %d or fewer bundles, or contact us directly for bulk orders", max)
	}
	return count, nil
}

func Address(text string) (string, error) {
	addr := Sanitize(text)
	if len(addr) < 5 {
		return "", errors.New("please provide a complete address (street, house number, etc.)")
	}
	if len(addr) > 200 {
		return "", errors.New("address is too long, please use a shorter format")
	}
	if !hasLetter.MatchString(addr) {
		return "", errors.New("please provide a valid address with street name")
	}
	return addr, nil
}

// Postcode validates a UK postcode and normalizes it to upper case with the
// single space reinserted when missing.
func Postcode(text string) (string, error) {
	pc := strings.ToUpper(Sanitize(text))
	if !postcodePattern.MatchString(pc) {
		return "", errors.New("please enter a valid UK postcode (e.g. SW1A 1AA, M1 1AE)")
	}
	if !strings.Contains(pc, " ") {
		pc = pc[:len(pc)-3] + " " + pc[len(pc)-3:]
	}
	return pc, nil
}

// SlotChoice resolves a 1-based menu number against the configured slots.
func SlotChoice(text string, slots []string) (int, error) {
	n, err := strconv.Atoi(Sanitize(text))
	if err != nil {
		return 0, errors.New("please enter the number of your preferred delivery slot")
	}
	idx := n - 1
	if idx < 0 || idx >= len(slots) {
		return 0, fmt.Errorf("please choose a number between 1 and %d", len(slots))
	}
	return idx, nil
}

// OrderID checks the 6-character uppercase-hex order token.
func OrderID(text string) (string, error) {
	id := strings.ToUpper(Sanitize(text))
	if len(id) != 6 {
		return "", errors.New("order ID should be 6 characters")
	}
	if !orderIDPattern.MatchString(id) {
		return "", errors.New("invalid order ID format, order IDs contain only letters A-F and numbers 0-9")
	}
	return id, nil
}
