package authz_test

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
)

var (
	allTypes      = authz.MustAllowedTypes(authz.AuthTypeUser, authz.AuthTypeAPIKey, authz.AuthTypeInternal)
	apiKeyOrInt   = authz.MustAllowedTypes(authz.AuthTypeAPIKey, authz.AuthTypeInternal)
	internalOnly  = authz.MustAllowedTypes(authz.AuthTypeInternal)
	userOnly      = authz.MustAllowedTypes(authz.AuthTypeUser)
	apiKeyOnly    = authz.MustAllowedTypes(authz.AuthTypeAPIKey)
	userOrAPIKeys = authz.MustAllowedTypes(authz.AuthTypeUser, authz.AuthTypeAPIKey)
)

func TestDecider_Decide(t *testing.T) {
	decider := authz.NewDecider()

	tests := []struct {
		name        string
		allowed     authz.AllowedTypes
		headers     authz.HeaderBundle
		routeUserID string
		want        bool
		wantBranch  authz.AuthType
	}{
		{
			name:        "user branch for matching owner",
			allowed:     allTypes,
			headers:     authz.HeaderBundle{UserID: "u1"},
			routeUserID: "u1",
			want:        true,
			wantBranch:  authz.AuthTypeUser,
		},
		{
			name:        "api-key ignores user mismatch",
			allowed:     apiKeyOrInt,
			headers:     authz.HeaderBundle{AuthType: "api-key"},
			routeUserID: "u2",
			want:        true,
			wantBranch:  authz.AuthTypeAPIKey,
		},
		{
			name:       "internal regardless of route user",
			allowed:    internalOnly,
			headers:    authz.HeaderBundle{Gateway: "internal"},
			want:       true,
			wantBranch: authz.AuthTypeInternal,
		},
		{
			name:        "user mismatch denied",
			allowed:     userOnly,
			headers:     authz.HeaderBundle{UserID: "u1"},
			routeUserID: "u2",
			want:        false,
		},
		{
			name:        "internal wins over other headers",
			allowed:     allTypes,
			headers:     authz.HeaderBundle{Gateway: "internal", AuthType: "api-key", UserID: "someone"},
			routeUserID: "u9",
			want:        true,
			wantBranch:  authz.AuthTypeInternal,
		},
		{
			name:        "case insensitive header values",
			allowed:     apiKeyOnly,
			headers:     authz.HeaderBundle{AuthType: "API-KEY"},
			routeUserID: "u1",
			want:        true,
			wantBranch:  authz.AuthTypeAPIKey,
		},
		{
			name:        "case insensitive gateway",
			allowed:     internalOnly,
			headers:     authz.HeaderBundle{Gateway: " Internal "},
			routeUserID: "u1",
			want:        true,
			wantBranch:  authz.AuthTypeInternal,
		},
		{
			name:        "case insensitive user id",
			allowed:     userOnly,
			headers:     authz.HeaderBundle{UserID: "User-ABC"},
			routeUserID: "user-abc",
			want:        true,
			wantBranch:  authz.AuthTypeUser,
		},
		{
			name:        "empty user id never owns",
			allowed:     userOnly,
			headers:     authz.HeaderBundle{},
			routeUserID: "",
			want:        false,
		},
		{
			name:        "no headers at all",
			allowed:     allTypes,
			headers:     authz.HeaderBundle{},
			routeUserID: "u1",
			want:        false,
		},
		{
			name:        "internal call to api-key route is denied",
			allowed:     apiKeyOnly,
			headers:     authz.HeaderBundle{Gateway: "internal", AuthType: "api-key"},
			routeUserID: "u1",
			want:        false,
		},
		{
			name:        "internal call to user route is denied even for owner",
			allowed:     userOnly,
			headers:     authz.HeaderBundle{Gateway: "internal", UserID: "u1"},
			routeUserID: "u1",
			want:        false,
		},
		{
			name:        "api-key call does not fall through to user",
			allowed:     userOnly,
			headers:     authz.HeaderBundle{AuthType: "api-key", UserID: "u1"},
			routeUserID: "u1",
			want:        false,
		},
		{
			name:        "user auth type header is accepted for owner",
			allowed:     userOrAPIKeys,
			headers:     authz.HeaderBundle{AuthType: "user", UserID: "u1"},
			routeUserID: "u1",
			want:        true,
			wantBranch:  authz.AuthTypeUser,
		},
		{
			name:        "owner denied on internal-only route",
			allowed:     internalOnly,
			headers:     authz.HeaderBundle{UserID: "u1"},
			routeUserID: "u1",
			want:        false,
		},
		{
			name:        "unknown gateway value is not internal",
			allowed:     internalOnly,
			headers:     authz.HeaderBundle{Gateway: "external"},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decider.Decide(tt.allowed, tt.headers, tt.routeUserID)
			if got.Authorized != tt.want {
				t.Fatalf("expected authorized=%v, got %+v", tt.want, got)
			}
			if got.Branch != tt.wantBranch {
				t.Errorf("expected branch %q, got %q", tt.wantBranch, got.Branch)
			}
			if !got.Authorized && got.Message != authz.UnauthorizedMessage {
				t.Errorf("expected message %q, got %q", authz.UnauthorizedMessage, got.Message)
			}
		})
	}
}

func TestDecider_DeclarationOrderDoesNotMatter(t *testing.T) {
	decider := authz.NewDecider()
	forward := authz.MustAllowedTypes(authz.AuthTypeUser, authz.AuthTypeAPIKey, authz.AuthTypeInternal)
	reverse := authz.MustAllowedTypes(authz.AuthTypeInternal, authz.AuthTypeAPIKey, authz.AuthTypeUser)

	bundles := []authz.HeaderBundle{
		{Gateway: "internal"},
		{AuthType: "api-key"},
		{UserID: "u1"},
		{UserID: "u2"},
		{Gateway: "internal", AuthType: "api-key", UserID: "u1"},
	}

	for _, h := range bundles {
		a := decider.Decide(forward, h, "u1")
		b := decider.Decide(reverse, h, "u1")
		if a != b {
			t.Errorf("decision differs for %+v: %+v vs %+v", h, a, b)
		}
	}
}

func TestDecider_ConcurrentUse(t *testing.T) {
	decider := authz.NewDecider()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := decider.Decide(allTypes, authz.HeaderBundle{UserID: "u1"}, "u1")
			if !d.Authorized {
				t.Error("expected concurrent decision to be authorized")
			}
		}()
	}
	wg.Wait()
}

func TestHeadersFrom_CaseInsensitiveNames(t *testing.T) {
	h := http.Header{}
	h.Set("gateway", "internal")
	h.Set("AUTH-TYPE", "api-key")
	h.Set("user-id", "u1")

	got := authz.HeadersFrom(h, authz.DefaultHeaderKeys())
	want := authz.HeaderBundle{Gateway: "internal", AuthType: "api-key", UserID: "u1"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestHeadersFrom_MissingHeadersAreEmpty(t *testing.T) {
	got := authz.HeadersFrom(http.Header{}, authz.DefaultHeaderKeys())
	if got != (authz.HeaderBundle{}) {
		t.Errorf("expected empty bundle, got %+v", got)
	}
}

func TestTargetUser(t *testing.T) {
	headers := authz.HeaderBundle{UserID: "caller"}

	if got := authz.TargetUser("owner", true, headers); got != "owner" {
		t.Errorf("expected path user, got %q", got)
	}
	if got := authz.TargetUser("", true, headers); got != "" {
		t.Errorf("expected empty path user to be kept, got %q", got)
	}
	if got := authz.TargetUser("", false, headers); got != "caller" {
		t.Errorf("expected header user fallback, got %q", got)
	}
}

func TestParseAllowedTypes(t *testing.T) {
	a, err := authz.ParseAllowedTypes("USER", "api-key", "user", " Internal ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.String(); got != "user,api-key,internal" {
		t.Errorf("expected de-duplicated declaration order, got %q", got)
	}

	if _, err := authz.ParseAllowedTypes(); !errors.Is(err, authz.ErrEmptyAllowedTypes) {
		t.Errorf("expected ErrEmptyAllowedTypes, got %v", err)
	}
	if _, err := authz.ParseAllowedTypes("app"); !errors.Is(err, authz.ErrUnknownAuthType) {
		t.Errorf("expected ErrUnknownAuthType, got %v", err)
	}
}
