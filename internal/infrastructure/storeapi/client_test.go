package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/ports"
)

type capture struct {
	method string
	path   string
	query  string
	body   []byte
}

func newCaptureServer(t *testing.T, status int, response string) (*httptest.Server, *capture) {
	t.Helper()

	cap := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.method = r.Method
		cap.path = r.URL.Path
		cap.query = r.URL.RawQuery
		cap.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, cap
}

func TestGetIncludePassword(t *testing.T) {
	t.Parallel()

	server, cap := newCaptureServer(t, http.StatusOK,
		`{"id":"42","title":"T","author":"A","content":"C","tags":["x"],"password":"swordfish"}`)
	client := NewClient(server.URL)

	blog, err := client.Get(context.Background(), "42", true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if cap.method != http.MethodGet || cap.path != "/blogs/42" {
		t.Fatalf("unexpected request: %s %s", cap.method, cap.path)
	}
	if cap.query != "includePassword=true" {
		t.Fatalf("expected includePassword query, got %q", cap.query)
	}
	if blog.Password == nil || *blog.Password != "swordfish" {
		t.Fatalf("password not decoded: %v", blog.Password)
	}
}

func TestGetWithoutPasswordFlag(t *testing.T) {
	t.Parallel()

	server, cap := newCaptureServer(t, http.StatusOK, `{"id":"42","title":"T"}`)
	client := NewClient(server.URL)

	if _, err := client.Get(context.Background(), "42", false); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cap.query != "" {
		t.Fatalf("plain reads must not request the password, got query %q", cap.query)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	server, _ := newCaptureServer(t, http.StatusNotFound, `{"error":"blog not found"}`)
	client := NewClient(server.URL)

	if _, err := client.Get(context.Background(), "missing", true); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOmitsNilPassword(t *testing.T) {
	t.Parallel()

	server, cap := newCaptureServer(t, http.StatusCreated, `{"id":"1","title":"T"}`)
	client := NewClient(server.URL)

	_, err := client.Create(context.Background(), domain.Blog{
		Title: "T", Author: "A", Content: "C", Tags: []string{"x"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if cap.method != http.MethodPost || cap.path != "/blogs" {
		t.Fatalf("unexpected request: %s %s", cap.method, cap.path)
	}

	var sent map[string]json.RawMessage
	if err := json.Unmarshal(cap.body, &sent); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if _, ok := sent["password"]; ok {
		t.Fatalf("password key must be omitted entirely, body %s", cap.body)
	}
	if _, ok := sent["createdAt"]; ok {
		t.Fatalf("createdAt is store-owned and must not be sent, body %s", cap.body)
	}
	if _, ok := sent["id"]; ok {
		t.Fatalf("id is store-owned and must not be sent, body %s", cap.body)
	}
}

func TestUpdateSendsCarriedPassword(t *testing.T) {
	t.Parallel()

	server, cap := newCaptureServer(t, http.StatusOK, `{"id":"42","title":"T"}`)
	client := NewClient(server.URL)

	pw := "swordfish"
	_, err := client.Update(context.Background(), "42", domain.Blog{
		Title: "T", Author: "A", Content: "C", Tags: []string{"x"}, Password: &pw,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if cap.method != http.MethodPut || cap.path != "/blogs/42" {
		t.Fatalf("unexpected request: %s %s", cap.method, cap.path)
	}

	var sent struct {
		Password *string `json:"password"`
	}
	if err := json.Unmarshal(cap.body, &sent); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if sent.Password == nil || *sent.Password != "swordfish" {
		t.Fatalf("carried password not sent: %s", cap.body)
	}
}

func TestDeleteSendsExplicitNullPassword(t *testing.T) {
	t.Parallel()

	server, cap := newCaptureServer(t, http.StatusOK, `{"message":"blog deleted"}`)
	client := NewClient(server.URL)

	if err := client.Delete(context.Background(), "42", nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if cap.method != http.MethodDelete || cap.path != "/blogs/42" {
		t.Fatalf("unexpected request: %s %s", cap.method, cap.path)
	}

	var sent map[string]json.RawMessage
	if err := json.Unmarshal(cap.body, &sent); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	raw, ok := sent["password"]
	if !ok {
		t.Fatalf("delete body must always carry the password key, body %s", cap.body)
	}
	if string(raw) != "null" {
		t.Fatalf("nil password must serialize as null, got %s", raw)
	}
}

func TestDeleteSendsStoredPassword(t *testing.T) {
	t.Parallel()

	server, cap := newCaptureServer(t, http.StatusOK, `{"message":"blog deleted"}`)
	client := NewClient(server.URL)

	pw := "swordfish"
	if err := client.Delete(context.Background(), "42", &pw); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var sent struct {
		Password *string `json:"password"`
	}
	if err := json.Unmarshal(cap.body, &sent); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if sent.Password == nil || *sent.Password != "swordfish" {
		t.Fatalf("stored password not forwarded: %s", cap.body)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	t.Parallel()

	server, _ := newCaptureServer(t, http.StatusInternalServerError, `{"error":"storage failure"}`)
	client := NewClient(server.URL)

	if _, err := client.List(context.Background()); err == nil {
		t.Fatal("5xx must surface as an error")
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	server, cap := newCaptureServer(t, http.StatusOK,
		`[{"id":"1","title":"A"},{"id":"2","title":"B"}]`)
	client := NewClient(server.URL)

	blogs, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if cap.path != "/blogs" {
		t.Fatalf("unexpected path: %s", cap.path)
	}
	if len(blogs) != 2 || blogs[1].Title != "B" {
		t.Fatalf("unexpected blogs: %+v", blogs)
	}
}
