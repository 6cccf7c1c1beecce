package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
	"github.com/Zephyrodes/farmacia/internal/infrastructure/store"
)

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 2, "username": "ana"}`))
	}))
	defer srv.Close()

	tokens := store.NewMemory()
	_ = tokens.Save("tok-123")
	c := New(srv.URL, tokens, 0, zerolog.Nop())

	var user domain.User
	if err := c.Do(context.Background(), http.MethodGet, "/users/me", nil, &user, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if user.Username != "ana" {
		t.Fatalf("decoded user = %+v", user)
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, store.NewMemory(), 0, zerolog.Nop())
	var products []domain.Product
	if err := c.Do(context.Background(), http.MethodGet, "/products/", nil, &products, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if hadAuth {
		t.Fatalf("expected no Authorization header without a stored token")
	}
}

func TestDo_EncodesBodyAndExtraHeaders(t *testing.T) {
	type echo struct {
		ContentType string `json:"content_type"`
	}
	var gotKey, gotCT string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotCT = r.Header.Get("Content-Type")
		payload, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(payload, &gotBody)
		_ = json.NewEncoder(w).Encode(echo{ContentType: gotCT})
	}))
	defer srv.Close()

	c := New(srv.URL, store.NewMemory(), 0, zerolog.Nop())
	headers := http.Header{}
	headers.Set("Idempotency-Key", "abc-1")

	var out echo
	body := map[string]int{"address_id": 1}
	if err := c.Do(context.Background(), http.MethodPost, "/orders/", body, &out, headers); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotKey != "abc-1" {
		t.Fatalf("Idempotency-Key = %q", gotKey)
	}
	if gotCT != "application/json" {
		t.Fatalf("Content-Type = %q", gotCT)
	}
	if gotBody["address_id"] != float64(1) {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestPostForm_SendsURLEncoded(t *testing.T) {
	var gotCT, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotUser = r.PostFormValue("username")
		_, _ = w.Write([]byte(`{"access_token": "tok", "token_type": "bearer"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store.NewMemory(), 0, zerolog.Nop())
	form := url.Values{}
	form.Set("username", "ana")
	form.Set("password", "clave123")

	var token domain.Token
	if err := c.PostForm(context.Background(), "/token", form, &token); err != nil {
		t.Fatalf("PostForm: %v", err)
	}
	if gotCT != "application/x-www-form-urlencoded" {
		t.Fatalf("Content-Type = %q", gotCT)
	}
	if gotUser != "ana" {
		t.Fatalf("username = %q", gotUser)
	}
	if token.AccessToken != "tok" {
		t.Fatalf("token = %+v", token)
	}
}

func TestDo_NonSuccessBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Producto no encontrado"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, store.NewMemory(), 0, zerolog.Nop())
	err := c.Do(context.Background(), http.MethodGet, "/products/99", nil, nil, nil)
	if err == nil {
		t.Fatalf("expected an error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Detail() != "Producto no encontrado" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
}

func TestDo_EmptyBodySkipsDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, store.NewMemory(), 0, zerolog.Nop())
	var out domain.Product
	if err := c.Do(context.Background(), http.MethodDelete, "/products/1", nil, &out, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
}
