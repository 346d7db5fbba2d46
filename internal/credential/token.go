package credential

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether the token carries a decodable exp claim (Unix
// seconds) that is in the past at the given instant.
//
// The check is deliberately fail-open: tokens that are not three-segment,
// whose payload does not decode, or that carry no exp claim are treated as
// not expired. The upstream API is the authority on token validity; this
// check only exists to skip requests that are guaranteed to 401.
func TokenExpired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
