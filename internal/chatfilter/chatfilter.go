// Package chatfilter blocks outbound chat text that leaks contact details.
package chatfilter

import "regexp"

// WarningMessage is shown to the sender when a message is blocked.
const WarningMessage = "⚠️ Warning: Sharing contact details is not allowed before purchase. Keep deals inside for protection."

// Rule is one named banned pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Rules are evaluated in order; the first match blocks the message.
// Digit and symbol rules are case-sensitive, keyword rules are not.
var Rules = []Rule{
	{"local-mobile", regexp.MustCompile(`\b05\d-?\d{7}\b`)},
	{"us-phone", regexp.MustCompile(`\d{3}-\d{3}-\d{4}`)},
	{"digit-run", regexp.MustCompile(`\b\d{9,11}\b`)},
	{"at-sign", regexp.MustCompile(`@`)},
	{"whatsapp", regexp.MustCompile(`(?i)\bwhatsapp\b`)},
	{"insta", regexp.MustCompile(`(?i)\binsta\b`)},
	{"instagram", regexp.MustCompile(`(?i)\binstagram\b`)},
	{"phone", regexp.MustCompile(`(?i)\bphone\b`)},
	{"call-me", regexp.MustCompile(`(?i)\bcall\s+me\b`)},
	{"number", regexp.MustCompile(`(?i)\bnumber\b`)},
	{"email", regexp.MustCompile(`(?i)\bemail\b`)},
	{"gmail", regexp.MustCompile(`(?i)\bgmail\b`)},
	{"paybox", regexp.MustCompile(`(?i)\bpaybox\b`)},
	{"bit", regexp.MustCompile(`(?i)\bbit\b`)},
}

// Check returns the name of the first rule text violates, or "" when the
// text is allowed. Empty text is always allowed.
func Check(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range Rules {
		if r.Pattern.MatchString(text) {
			return r.Name
		}
	}
	return ""
}

// ViolatesPolicy reports whether text must not be sent.
func ViolatesPolicy(text string) bool {
	return Check(text) != ""
}
