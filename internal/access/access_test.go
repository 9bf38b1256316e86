package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	table := NewTable()

	member := &Subject{ID: "u1", Email: "u1@example.com", Role: "user"}
	admin := &Subject{ID: "a1", Email: "a1@example.com", Role: "admin"}

	tests := []struct {
		name         string
		path         string
		method       string
		subject      *Subject
		wantKind     Kind
		wantLocation string
	}{
		{
			name:    "auth callback prefix is never gated",
			path:    "/api/auth/signin",
			method:  "POST",
			subject: nil, wantKind: KindAllow,
		},
		{
			name:    "home is public",
			path:    "/",
			method:  "GET",
			subject: nil, wantKind: KindAllow,
		},
		{
			name:    "public catalog page",
			path:    "/techs/react",
			method:  "GET",
			subject: nil, wantKind: KindAllow,
		},
		{
			name:    "anonymous API GET to public resource",
			path:    "/api/posts/7",
			method:  "GET",
			subject: nil, wantKind: KindAllow,
		},
		{
			name:         "anonymous API GET to subject-scoped resource",
			path:         "/api/users/42",
			method:       "GET",
			subject:      nil,
			wantKind:     KindDenyRedirect,
			wantLocation: "/auth/signin?callbackUrl=%2Fapi%2Fusers%2F42",
		},
		{
			name:         "anonymous API mutation",
			path:         "/api/posts",
			method:       "POST",
			subject:      nil,
			wantKind:     KindDenyRedirect,
			wantLocation: "/auth/signin?callbackUrl=%2Fapi%2Fposts",
		},
		{
			name:    "authenticated reaction toggle",
			path:    "/api/comments/5/like",
			method:  "POST",
			subject: member, wantKind: KindAllow,
		},
		{
			name:         "anonymous protected page preserves callback",
			path:         "/profile/settings",
			method:       "GET",
			subject:      nil,
			wantKind:     KindDenyRedirect,
			wantLocation: "/auth/signin?callbackUrl=%2Fprofile%2Fsettings",
		},
		{
			name:    "authenticated protected page",
			path:    "/settings",
			method:  "GET",
			subject: member, wantKind: KindAllow,
		},
		{
			name:         "anonymous admin page goes to sign-in",
			path:         "/admin/techs",
			method:       "GET",
			subject:      nil,
			wantKind:     KindDenyRedirect,
			wantLocation: "/auth/signin?callbackUrl=%2Fadmin%2Ftechs",
		},
		{
			name:         "authenticated non-admin goes home, not to sign-in",
			path:         "/admin/techs",
			method:       "GET",
			subject:      member,
			wantKind:     KindForbidden,
			wantLocation: "/",
		},
		{
			name:    "admin reaches admin pages",
			path:    "/admin/techs",
			method:  "GET",
			subject: admin, wantKind: KindAllow,
		},
		{
			name:         "anonymous notifications API",
			path:         "/api/notifications",
			method:       "GET",
			subject:      nil,
			wantKind:     KindDenyRedirect,
			wantLocation: "/auth/signin?callbackUrl=%2Fapi%2Fnotifications",
		},
		{
			name:    "unknown page defaults to allow",
			path:    "/about",
			method:  "GET",
			subject: nil, wantKind: KindAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := table.Decide(tt.path, tt.method, tt.subject)
			assert.Equal(t, tt.wantKind, decision.Kind)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, decision.Location)
			}
		})
	}
}

func TestDecideAnonymousAndUnderPrivilegedAreDistinct(t *testing.T) {
	table := NewTable()

	anonymous := table.Decide("/admin", "GET", nil)
	nonAdmin := table.Decide("/admin", "GET", &Subject{ID: "u1", Role: "user"})

	assert.Equal(t, KindDenyRedirect, anonymous.Kind)
	assert.Equal(t, KindForbidden, nonAdmin.Kind)
	assert.NotEqual(t, anonymous.Location, nonAdmin.Location)
}
