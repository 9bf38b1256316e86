// Package access holds the per-request authorization decision table. The
// table is built once at startup and consulted exactly once per request by
// the access-control middleware; handlers never re-derive page-level
// authorization on their own.
package access

import (
	"net/url"
	"strings"
)

// Subject identifies an authenticated caller. A nil *Subject means the
// request is anonymous.
type Subject struct {
	ID    string
	Email string
	Role  string
}

// Kind tags the outcome of a decision
type Kind int

const (
	KindAllow Kind = iota
	// KindDenyRedirect sends an unauthenticated caller to sign-in, keeping
	// the original path as the callbackUrl parameter.
	KindDenyRedirect
	// KindForbidden sends an authenticated but under-privileged caller to
	// home. Distinct from KindDenyRedirect: the subject is known, just not
	// allowed.
	KindForbidden
)

// Decision is the tagged outcome of evaluating the table
type Decision struct {
	Kind     Kind
	Location string
}

// Allow is the zero decision
var Allow = Decision{Kind: KindAllow}

var mutatingMethods = map[string]bool{
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// Table evaluates {path, method, subject} in a fixed precedence order.
// Immutable after construction.
type Table struct {
	authCallbackPrefix string
	publicPrefixes     []string
	publicExact        []string
	apiPrefix          string
	subjectScopedAPI   []string
	protectedPrefixes  []string
	adminPrefix        string
	signInPath         string
	homePath           string
}

// NewTable builds the decision table with the application's route layout.
func NewTable() *Table {
	return &Table{
		authCallbackPrefix: "/api/auth/",
		publicPrefixes: []string{
			"/static/",
			"/techs",
			"/companies",
			"/posts",
			"/auth/",
		},
		publicExact: []string{"/", "/favicon.ico", "/health"},
		apiPrefix:   "/api/",
		subjectScopedAPI: []string{
			"/api/users",
			"/api/profile",
			"/api/notifications",
		},
		protectedPrefixes: []string{
			"/profile",
			"/settings",
			"/admin",
			"/write",
		},
		adminPrefix: "/admin",
		signInPath:  "/auth/signin",
		homePath:    "/",
	}
}

// Decide evaluates the table; first match wins.
func (t *Table) Decide(path, method string, subject *Subject) Decision {
	// 1. The identity provider's own callback prefix is never gated,
	//    else sign-in itself breaks.
	if strings.HasPrefix(path, t.authCallbackPrefix) {
		return Allow
	}

	// 2. Static assets and explicitly public pages.
	for _, p := range t.publicExact {
		if path == p {
			return Allow
		}
	}
	if !strings.HasPrefix(path, t.apiPrefix) {
		for _, p := range t.publicPrefixes {
			if strings.HasPrefix(path, p) {
				return Allow
			}
		}
	}

	// 3. API paths: GET is public except for subject-scoped resources;
	//    mutating methods always need a subject.
	if strings.HasPrefix(path, t.apiPrefix) {
		if mutatingMethods[method] && subject == nil {
			return t.denyRedirect(path)
		}
		if method == "GET" && subject == nil && t.isSubjectScoped(path) {
			return t.denyRedirect(path)
		}
		return Allow
	}

	// 4. Protected pages require a subject.
	for _, p := range t.protectedPrefixes {
		if strings.HasPrefix(path, p) {
			if subject == nil {
				return t.denyRedirect(path)
			}
			// 5. Admin pages additionally require the admin role. The
			// subject is authenticated, so send them home, not to sign-in.
			if strings.HasPrefix(path, t.adminPrefix) && subject.Role != "admin" {
				return Decision{Kind: KindForbidden, Location: t.homePath}
			}
			return Allow
		}
	}

	// 6. Default allow.
	return Allow
}

func (t *Table) isSubjectScoped(path string) bool {
	for _, p := range t.subjectScopedAPI {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (t *Table) denyRedirect(path string) Decision {
	return Decision{
		Kind:     KindDenyRedirect,
		Location: t.signInPath + "?callbackUrl=" + url.QueryEscape(path),
	}
}
