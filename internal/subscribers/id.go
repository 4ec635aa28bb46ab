// Package subscribers keeps the registry of newsletter and push
// notification subscribers.
package subscribers

import "strings"

const tokenPrefixLen = 20

// SubscriberID derives the storage key for a subscriber. The email wins
// when both are given; the same address in any letter case maps to the
// same key, which makes re-subscribing an overwrite.
func SubscriberID(email, token string) string {
	if email != "" {
		var b strings.Builder
		b.WriteString("email_")
		for _, r := range strings.ToLower(email) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			} else {
				b.WriteByte('_')
			}
		}
		return b.String()
	}
	if token != "" {
		return "fcm_" + truncateRunes(token, tokenPrefixLen)
	}
	return "fcm_unknown"
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
