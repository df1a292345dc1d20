package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testCreds() Credentials {
	return Credentials{
		ClientCode: "A123456",
		PIN:        "0000",
		TOTP:       "123456",
		APIKey:     "test-api-key",
		State:      "state-1",
		LocalIP:    "192.168.1.10",
		PublicIP:   "203.0.113.7",
		MACAddress: "aa:bb:cc:dd:ee:ff",
	}
}

func TestLogin_Success(t *testing.T) {
	var gotReq loginRequest
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != LoginPath {
			t.Errorf("path = %s, want %s", r.URL.Path, LoginPath)
		}
		gotHeaders = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"SUCCESS","data":{"jwtToken":"jwt-abc","refreshToken":"r","feedToken":"feed-xyz"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds())
	tokens, err := client.Login(context.Background())
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if tokens.AuthToken != "jwt-abc" {
		t.Errorf("AuthToken = %q, want %q", tokens.AuthToken, "jwt-abc")
	}
	if tokens.FeedToken != "feed-xyz" {
		t.Errorf("FeedToken = %q, want %q", tokens.FeedToken, "feed-xyz")
	}

	if gotReq.ClientCode != "A123456" || gotReq.Password != "0000" || gotReq.TOTP != "123456" || gotReq.State != "state-1" {
		t.Errorf("request body = %+v, want credentials echoed", gotReq)
	}

	headerChecks := map[string]string{
		"X-UserType":      "USER",
		"X-SourceID":      "WEB",
		"X-ClientLocalIP": "192.168.1.10",
		"X-ClientPublicIP": "203.0.113.7",
		"X-MACAddress":    "aa:bb:cc:dd:ee:ff",
		"X-PrivateKey":    "test-api-key",
		"Content-Type":    "application/json",
	}
	for k, want := range headerChecks {
		if got := gotHeaders.Get(k); got != want {
			t.Errorf("header %s = %q, want %q", k, got, want)
		}
	}
}

func TestLogin_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":false,"message":"Invalid totp"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds())
	_, err := client.Login(context.Background())
	if err == nil {
		t.Fatal("Login should fail on 401")
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %T, want *AuthError", err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", authErr.StatusCode)
	}
}

func TestLogin_MissingTokenFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"status false", `{"status":false,"message":"locked","data":{}}`},
		{"missing jwt", `{"status":true,"data":{"feedToken":"feed"}}`},
		{"missing feed", `{"status":true,"data":{"jwtToken":"jwt"}}`},
		{"not json", `<html>gateway error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, testCreds())
			_, err := client.Login(context.Background())

			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("error = %v, want *AuthError", err)
			}
		})
	}
}

func TestLogin_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, testCreds())
	if _, err := client.Login(ctx); err == nil {
		t.Fatal("Login should fail when context is cancelled")
	}
}
