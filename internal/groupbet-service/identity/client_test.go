package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func userinfoServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/userinfo" {
			t.Errorf("path inesperado: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("authorization = %q", got)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestResolvePreferredUsernameWins(t *testing.T) {
	srv := userinfoServer(t, `{"sub":"abc","preferred_username":"moviefan","name":"Ana","email":"a@b.c"}`, http.StatusOK)
	defer srv.Close()

	u, err := NewClient(srv.URL).Resolve(context.Background(), "tok-123")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "abc" || u.DisplayName != "moviefan" || !u.Verified {
		t.Errorf("user inesperado: %+v", u)
	}
}

func TestResolveFallbackChain(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"sub":"abc","name":"Ana","email":"a@b.c"}`, "Ana"},
		{`{"sub":"abc","email":"a@b.c"}`, "a@b.c"},
		{`{"sub":"user-9f3kz2"}`, "Alien 9F3KZ2"},
		{`{"sub":"xy"}`, "Alien XY"},
	}
	for _, c := range cases {
		srv := userinfoServer(t, c.body, http.StatusOK)
		u, err := NewClient(srv.URL).Resolve(context.Background(), "tok-123")
		srv.Close()
		if err != nil {
			t.Fatal(err)
		}
		if u.DisplayName != c.want {
			t.Errorf("displayName = %q, esperado %q (body %s)", u.DisplayName, c.want, c.body)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	srv := userinfoServer(t, `{"error":"invalid_token"}`, http.StatusUnauthorized)
	defer srv.Close()
	if _, err := NewClient(srv.URL).Resolve(context.Background(), "tok-123"); err == nil {
		t.Error("esperado erro com http 401")
	}

	noSub := userinfoServer(t, `{"name":"Ana"}`, http.StatusOK)
	defer noSub.Close()
	if _, err := NewClient(noSub.URL).Resolve(context.Background(), "tok-123"); err == nil {
		t.Error("esperado erro sem sub")
	}
}

func TestStaticProvider(t *testing.T) {
	p := &Static{User: User{ID: "u1", DisplayName: "Test User", Verified: true}}
	u, err := p.Resolve(context.Background(), "any")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u1" || u.DisplayName != "Test User" {
		t.Errorf("user inesperado: %+v", u)
	}
}
