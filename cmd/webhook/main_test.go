package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	discordrouter "github.com/jose-valero/soundboard-bot/internal/adapters/discord"
)

type stubRouter struct {
	sig, ts, body string
	rep           discordrouter.Reply
}

func (s *stubRouter) Handle(_ context.Context, sig, ts string, body []byte) (discordrouter.Reply, error) {
	s.sig, s.ts, s.body = sig, ts, string(body)
	return s.rep, nil
}

func TestHeaderLookupIsCaseInsensitive(t *testing.T) {
	h := map[string]string{
		"x-signature-ed25519":   "sig",
		"X-Signature-Timestamp": "123",
	}
	assert.Equal(t, "sig", header(h, "X-Signature-Ed25519"))
	assert.Equal(t, "123", header(h, "x-signature-timestamp"))
	assert.Empty(t, header(h, "Authorization"))
}

func TestHandleDecodesBase64Body(t *testing.T) {
	stub := &stubRouter{rep: discordrouter.Reply{Status: http.StatusOK, Body: []byte(`{"type":1}`)}}
	res, err := newHandler(stub)(context.Background(), events.APIGatewayV2HTTPRequest{
		Headers: map[string]string{
			"x-signature-ed25519":   "abcd",
			"x-signature-timestamp": "1700000000",
		},
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"type":1}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `{"type":1}`, res.Body)
	assert.Equal(t, "application/json", res.Headers["Content-Type"])
	assert.Equal(t, "abcd", stub.sig)
	assert.Equal(t, "1700000000", stub.ts)
	assert.Equal(t, `{"type":1}`, stub.body)
}

func TestHandleBadBase64(t *testing.T) {
	res, err := handle(context.Background(), &stubRouter{}, events.APIGatewayV2HTTPRequest{Body: "%%%", IsBase64Encoded: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHandleUnauthorizedHasNoBody(t *testing.T) {
	stub := &stubRouter{rep: discordrouter.Reply{Status: http.StatusUnauthorized}}
	res, err := handle(context.Background(), stub, events.APIGatewayV2HTTPRequest{Body: `{}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Empty(t, res.Body)
	assert.Nil(t, res.Headers)
}
