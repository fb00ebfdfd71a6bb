package log

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that identify a visitor or a click.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"dclid":   true,
	"gbraid":  true,
	"wbraid":  true,
	"msclkid": true,
	"yclid":   true,
	"igshid":  true,
	"mc_eid":  true,
	"_ga":     true,
	"_gl":     true,
}

// sanitizeURL masks tracking identifiers, credential parameters and the
// userinfo password of an http(s) URL. Parameter order and unmasked values
// are kept byte for byte. The second result is false when value is not an
// http(s) URL or nothing was masked.
func sanitizeURL(value string) (string, bool) {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return value, false
	}
	u, err := url.Parse(value)
	if err != nil {
		return value, false
	}

	changed := false
	maskPassword := false
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			// url.UserPassword would percent-encode the mask.
			u.User = url.User(u.User.Username())
			maskPassword = true
			changed = true
		}
	}

	if u.RawQuery != "" {
		pairs := strings.Split(u.RawQuery, "&")
		for i, pair := range pairs {
			rawKey, _, hasValue := strings.Cut(pair, "=")
			key, err := url.QueryUnescape(rawKey)
			if err != nil {
				key = rawKey
			}
			if hasValue && isSensitiveParam(strings.ToLower(key)) {
				pairs[i] = rawKey + "=" + MaskValue
				changed = true
			}
		}
		u.RawQuery = strings.Join(pairs, "&")
	}

	if !changed {
		return value, false
	}
	out := u.String()
	if maskPassword {
		user := u.User.String() + "@"
		out = strings.Replace(out, user, u.User.String()+":"+MaskValue+"@", 1)
	}
	return out, true
}

// isSensitiveParam reports whether a lowercased query parameter name
// carries a tracking identifier or a credential.
func isSensitiveParam(key string) bool {
	return strings.HasPrefix(key, "utm_") ||
		trackingParams[key] ||
		isSensitiveKey(key)
}
