package peppol_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbilling/peppolbooks/internal/model"
	"github.com/openbilling/peppolbooks/internal/peppol"
)

func newTestClient(handler http.Handler) (*peppol.Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := peppol.NewClient("test-key",
		peppol.WithEndpoint(srv.URL),
		peppol.WithHTTPClient(srv.Client()),
	)
	return client, srv
}

func TestClient_Send(t *testing.T) {
	var gotPath, gotAPIKey, gotContentType string
	var gotBody []byte

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-Api-Key")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messageId": "ABC123"}`))
	}))
	defer srv.Close()

	status, body, err := client.Send(context.Background(), []byte("<Invoice/>"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"messageId": "ABC123"}`, body)
	assert.Equal(t, "/v1/message/send", gotPath)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "application/xml", gotContentType)
	assert.Equal(t, "<Invoice/>", string(gotBody))
}

func TestClient_Send_ProviderRejection(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid document"}`))
	}))
	defer srv.Close()

	// Rejections come back as status + body, not as a transport error
	status, body, err := client.Send(context.Background(), []byte("<Invoice/>"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "invalid document")
}

func TestClient_ListMessages(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/message/list", r.URL.Path)
		assert.Equal(t, "INBOX", r.URL.Query().Get("folder"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`[{"id": "123", "sender": "0208:0123456789"}, {"id": "456"}]`))
	}))
	defer srv.Close()

	messages, err := client.ListMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "123", messages[0].ID)
	assert.Equal(t, "0208:0123456789", messages[0].Sender)
	assert.Equal(t, "456", messages[1].ID)
}

func TestClient_ListMessages_EmptyInboxIs404(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	messages, err := client.ListMessages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestClient_ListMessages_ServerError(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("backend down"))
	}))
	defer srv.Close()

	_, err := client.ListMessages(context.Background())
	require.Error(t, err)

	var transportErr *model.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	assert.Contains(t, transportErr.Body, "backend down")
}

func TestClient_GetMessage(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/message/123", r.URL.Path)
		w.Write([]byte(`{"document": "PEludm9pY2UvPg=="}`))
	}))
	defer srv.Close()

	detail, err := client.GetMessage(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "PEludm9pY2UvPg==", detail.Document)
}

func TestClient_GetMessage_NotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := client.GetMessage(context.Background(), "missing")
	require.Error(t, err)

	var transportErr *model.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "detail", transportErr.Operation)
}

func TestClient_ContextCancellation(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListMessages(ctx)
	require.Error(t, err)
}
