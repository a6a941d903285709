package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-agent/internal/api"
	"github/chapool/evm-agent/internal/api/router"
	"github/chapool/evm-agent/internal/config"
)

// Hardhat's first well-known development account.
const (
	TestKey0     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	TestAddress0 = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// WithTestServer constructs a fully-wired server against a fresh stub node
// named "devnet" (chain id 31337) and hands both to the closure.
func WithTestServer(t *testing.T, closure func(s *api.Server, node *RPCNode)) {
	t.Helper()

	node := StartRPCNode(t, 31337)

	cfg := config.Server{
		Echo: config.EchoServer{ListenAddress: ":0"},
		Chain: config.ChainServer{
			DefaultNetwork: "devnet",
			RawPrivateKeys: []string{TestKey0},
			RPCOverrides:   map[string]string{"devnet": node.URL()},
		},
	}

	s, err := api.InitServer(context.Background(), cfg)
	require.NoError(t, err)
	router.Init(s)
	t.Cleanup(s.Conns.Close)

	closure(s, node)
}

// PerformRequest sends a request through the server's full middleware chain
// and returns the recorded response. A non-nil body is sent as JSON.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// ParseResponseBody decodes the recorded JSON response into out.
func ParseResponseBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
