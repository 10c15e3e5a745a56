package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, handler func(w http.ResponseWriter, req completionRequest, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeChoice(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + jsonString(content) + `},"finish_reason":"stop"}]}`))
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestClient_Advise(t *testing.T) {
	var got completionRequest
	var headers http.Header
	srv := completionServer(t, func(w http.ResponseWriter, req completionRequest, r *http.Request) {
		got = req
		headers = r.Header.Clone()
		writeChoice(w, "  Prueba Santal 33.  ")
	})

	c := NewClient(srv.URL+"/v1/",
		WithAPIKey("secret"),
		WithModel("test-model"),
		WithTemperature(0.5),
		WithSystemPrompt("Eres un experto perfumista."),
		WithRateLimit(100, 1),
	)
	history := []Message{
		{Role: RoleAssistant, Content: "¡Hola!"},
		{Role: RoleUser, Content: "Algo amaderado"},
	}

	answer, err := c.Advise(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, "Prueba Santal 33.", answer)

	assert.Equal(t, "test-model", got.Model)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.5, *got.Temperature)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, Message{Role: RoleSystem, Content: "Eres un experto perfumista."}, got.Messages[0])
	assert.Equal(t, history, got.Messages[1:])
	assert.Equal(t, "Bearer secret", headers.Get("Authorization"))
	assert.NotEmpty(t, headers.Get("X-Request-ID"))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, "advisor returned 500"},
		{"api error", http.StatusOK, `{"error":{"message":"quota"}}`, "advisor error: quota"},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrEmptyReply.Error()},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, ErrEmptyReply.Error()},
		{"garbage", http.StatusOK, `<html>`, "parse advisor response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := completionServer(t, func(w http.ResponseWriter, _ completionRequest, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewClient(srv.URL + "/v1").Advise(context.Background(), []Message{{Role: RoleUser, Content: "hola"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "http://x/v1/chat/completions", buildURL("http://x/v1"))
	assert.Equal(t, "http://x/v1/chat/completions", buildURL("http://x/v1/"))
	assert.Equal(t, "http://x/v1/chat/completions", buildURL("http://x/v1/chat/completions"))
}

func TestConversation_SendsFullHistory(t *testing.T) {
	var calls [][]Message
	a := AdviseFunc(func(_ context.Context, history []Message) (string, error) {
		calls = append(calls, history)
		return "respuesta", nil
	})
	c := NewConversation(a, WithGreeting("¡Hola!"))

	_, err := c.Send(context.Background(), "primera")
	require.NoError(t, err)
	reply, err := c.Send(context.Background(), "segunda")
	require.NoError(t, err)
	assert.Equal(t, Message{Role: RoleAssistant, Content: "respuesta"}, reply)

	require.Len(t, calls, 2)
	assert.Len(t, calls[0], 2)
	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: "¡Hola!"},
		{Role: RoleUser, Content: "primera"},
		{Role: RoleAssistant, Content: "respuesta"},
		{Role: RoleUser, Content: "segunda"},
	}, calls[1])
	assert.Len(t, c.History(), 5)
}

func TestConversation_FallbackOnFailure(t *testing.T) {
	var outcomes []bool
	c := NewConversation(AdviseFunc(func(context.Context, []Message) (string, error) {
		return "", errors.New("network down")
	}), WithReplyHook(func(fallback bool) { outcomes = append(outcomes, fallback) }))

	reply, err := c.Send(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, defaultFallback, reply.Content)
	assert.Equal(t, []bool{true}, outcomes)
	assert.False(t, c.Busy())

	// the conversation carries on after a failure
	assert.Len(t, c.History(), 2)
}

func TestConversation_TimeoutYieldsFallback(t *testing.T) {
	c := NewConversation(AdviseFunc(func(ctx context.Context, _ []Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), WithTimeout(20*time.Millisecond), WithFallback("sin conexión"))

	reply, err := c.Send(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "sin conexión", reply.Content)
}

func TestConversation_SingleInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := NewConversation(AdviseFunc(func(context.Context, []Message) (string, error) {
		close(started)
		<-release
		return "ok", nil
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.Send(context.Background(), "primera")
	}()
	<-started

	assert.True(t, c.Busy())
	_, err := c.Send(context.Background(), "segunda")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()
	assert.False(t, c.Busy())
	assert.Len(t, c.History(), 2, "rejected message is not logged")
}

func TestConversation_EmptyMessage(t *testing.T) {
	c := NewConversation(nil)
	_, err := c.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, c.History())
}

func TestConversation_UnavailableAdvisor(t *testing.T) {
	c := NewConversation(nil)
	reply, err := c.Send(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, defaultFallback, reply.Content)
}
