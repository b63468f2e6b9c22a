package http_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var proxyConfig = &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8", "127.0.0.1/32"}}

func TestExtractClientIP_DirectConnection_IgnoresHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.10:54321"
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	req.Header.Set("X-Real-IP", "192.168.1.1")

	assert.Equal(t, "203.0.113.10", pkghttp.ExtractClientIP(req, proxyConfig))
}

func TestExtractClientIP_TrustedProxy_UsesXForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.5")

	assert.Equal(t, "198.51.100.7", pkghttp.ExtractClientIP(req, proxyConfig))
}

func TestExtractClientIP_TrustedProxy_FallsBackToXRealIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:8080"
	req.Header.Set("X-Forwarded-For", "garbage")
	req.Header.Set("X-Real-IP", "198.51.100.9")

	assert.Equal(t, "198.51.100.9", pkghttp.ExtractClientIP(req, proxyConfig))
}

func TestExtractClientIP_NilConfig(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	assert.Equal(t, "10.0.0.5", pkghttp.ExtractClientIP(req, nil))
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","admin":true}`))

	assert.Error(t, pkghttp.DecodeJSON(req, &dst))
}

func TestDecodeJSON_OK(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com"}`))

	require.NoError(t, pkghttp.DecodeJSON(req, &dst))
	assert.Equal(t, "a@b.com", dst.Email)
}
