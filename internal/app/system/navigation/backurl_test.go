package navigation_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/ksef/internal/app/system/navigation"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name string
		ret  string
		opts navigation.BackURLOptions
		want string
	}{
		{"filtered listing kept", "/requests?status=open", navigation.RequestsBackURL, "/requests?status=open"},
		{"empty uses fallback", "", navigation.RequestsBackURL, "/requests"},
		{"wrong prefix", "/dashboard", navigation.RequestsBackURL, "/requests"},
		{"excluded subpath", "/requests/new", navigation.RequestsBackURL, "/requests"},
		{"offsite rejected", "https://evil.example/requests", navigation.RequestsBackURL, "/requests"},
		{"category edit excluded", "/categories/abc/edit", navigation.CategoriesBackURL, "/categories"},
		{"no prefix constraint", "/dashboard", navigation.BackURLOptions{Fallback: "/"}, "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/x?return="+url.QueryEscape(tt.ret), nil)
			if got := navigation.SafeBackURL(r, tt.opts); got != tt.want {
				t.Errorf("SafeBackURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSafeBackURL_FormValue(t *testing.T) {
	body := url.Values{"return": {"/requests?q=garden"}}.Encode()
	r := httptest.NewRequest("POST", "/requests/abc", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if got := navigation.SafeBackURL(r, navigation.RequestsBackURL); got != "/requests?q=garden" {
		t.Errorf("SafeBackURL = %q", got)
	}
}
