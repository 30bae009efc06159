// Package guard decides who may reach the dashboard.
//
// Two independent tiers run for every protected request. Edge only checks that a session
// cookie is present and is cheap enough to run in front of every route. Authorize is the
// source of truth: it receives the fully resolved session and checks the admin role.
// Both are pure functions; callers compose them.
package guard

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/spec-kit/catalog-admin/internal/domain"
)

// Session cookie names. The prefixed variant is issued over HTTPS.
const (
	SessionCookie       = "authjs.session-token"
	SecureSessionCookie = "__Secure-authjs.session-token"
)

// LoginPath is where rejected page requests are sent.
const LoginPath = "/login"

var protectedPrefixes = []string{"/dashboard", "/admin"}

// Outcome enumerates guard results.
type Outcome int

const (
	Allow Outcome = iota
	RedirectToLogin
	Unauthorized
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Decision is the result of one guard tier. Location is set for RedirectToLogin.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Surface tells the authoritative tier how a rejection is delivered.
type Surface int

const (
	SurfacePage Surface = iota
	SurfaceAPI
)

// Protected reports whether path falls under the edge tier.
func Protected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Edge is the outer tier. cookie returns the value of the named cookie or "".
// It never inspects the token itself.
func Edge(path string, cookie func(name string) string) Decision {
	if !Protected(path) {
		return Decision{Outcome: Allow}
	}
	if SessionToken(cookie) != "" {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: RedirectToLogin, Location: LoginURL(path)}
}

// Authorize is the inner tier. A resolution error is treated exactly like a missing session.
func Authorize(sess *domain.Session, err error, surface Surface) Decision {
	if err == nil && sess.IsAdmin() {
		return Decision{Outcome: Allow}
	}
	if surface == SurfaceAPI {
		return Decision{Outcome: Unauthorized}
	}
	return Decision{Outcome: RedirectToLogin, Location: LoginPath}
}

// SessionToken returns the first non-empty session cookie value.
func SessionToken(cookie func(name string) string) string {
	if token := cookie(SessionCookie); token != "" {
		return token
	}
	return cookie(SecureSessionCookie)
}

// LoginURL builds the login redirect that returns the caller to callbackPath afterwards.
func LoginURL(callbackPath string) string {
	return LoginPath + "?" + url.Values{"callbackUrl": {callbackPath}}.Encode()
}

// SafeCallback returns target when it is a same-origin absolute path, otherwise fallback.
// Browsers drop tab and newline characters and treat a backslash as a slash, so any of them
// could turn "/x/evil.example" into a protocol-relative URL; such targets are refused outright.
func SafeCallback(target, fallback string) string {
	if target == "" || strings.IndexFunc(target, unsafeCallbackRune) >= 0 {
		return fallback
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return fallback
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}
	return target
}

func unsafeCallbackRune(r rune) bool {
	return r == '\\' || unicode.IsControl(r) || unicode.IsSpace(r)
}
