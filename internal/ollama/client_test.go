package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{BaseURL: baseURL})
}

func TestGenerateSuccess(t *testing.T) {
	var gotReq ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(ChatResponse{
			Model:   "llama3.2:3b",
			Message: Message{Role: "assistant", Content: "  You are not alone.  "},
			Done:    true,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	msg, err := client.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("be kind"),
		schema.UserMessage("hello"),
	})
	require.NoError(t, err)

	assert.Equal(t, schema.Assistant, msg.Role)
	assert.Equal(t, "You are not alone.", msg.Content)

	assert.Equal(t, "llama3.2:3b", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.NotNil(t, gotReq.Options)
	assert.Equal(t, 0.7, gotReq.Options.Temperature)
	assert.Equal(t, 150, gotReq.Options.NumPredict)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(APIError{Error: "model not found"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeBadStatus, clientErr.Type)
	assert.Contains(t, clientErr.Message, "model not found")
}

func TestGenerateMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
}

func TestGenerateEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{
			Message: Message{Role: "assistant", Content: "   \n"},
			Done:    true,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestGenerateServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(url)
	_, err := client.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.True(t, IsNotRunning(err))
	assert.False(t, IsTimeout(err))
}

func TestGenerateContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// r.Context() when the client disconnects; otherwise this handler
		// never unblocks and server.Close hangs.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestCheckRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.NoError(t, client.CheckRunning(context.Background()))

	server.Close()
	assert.ErrorIs(t, client.CheckRunning(context.Background()), ErrNotRunning)
}

func TestStreamAndBindToolsUnsupported(t *testing.T) {
	client := NewClient(nil)

	_, err := client.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeUnsupported, clientErr.Type)

	require.ErrorAs(t, client.BindTools(nil), &clientErr)
	assert.Equal(t, ErrTypeUnsupported, clientErr.Type)
}

func TestNewClientFillsDefaults(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://example.test:11434"})
	cfg := client.GetConfig()

	assert.Equal(t, "http://example.test:11434", cfg.BaseURL)
	assert.Equal(t, "llama3.2:3b", cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 150, cfg.NumPredict)
}
