package trello

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpbot/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{BaseURL: srv.URL + "/1/", Key: "k", Token: "tok"})
}

func TestClient_ListBoardLists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/boards/b1/lists", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		w.Write([]byte(`[{"id":"l1","name":"Billing","idBoard":"b1"},{"id":"l2","name":"Aim","idBoard":"b1"}]`))
	})

	lists, err := client.ListBoardLists(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, []domain.RemoteList{
		{ID: "l1", Name: "Billing", BoardID: "b1"},
		{ID: "l2", Name: "Aim", BoardID: "b1"},
	}, lists)
}

func TestClient_ListCards(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/lists/l1/cards", r.URL.Path)
		w.Write([]byte(`[{
			"id":"c1","name":"Where is my invoice","desc":"Check the billing page",
			"url":"https://trello.com/c/Ab12/1-where","shortUrl":"https://trello.com/c/Ab12",
			"shortLink":"Ab12","labels":[{"color":"green","name":""}],"idList":"l1"
		}]`))
	})

	cards, err := client.ListCards(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	card := cards[0]
	assert.Equal(t, "c1", card.ID)
	assert.Equal(t, "Check the billing page", card.Desc)
	assert.Equal(t, "Ab12", card.ShortLink)
	assert.True(t, card.HasLabelColor("green"))
}

func TestClient_GetCard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1/cards/c9", r.URL.Path)
		w.Write([]byte(`{"id":"c9","name":"q","labels":[]}`))
	})

	card, err := client.GetCard(context.Background(), "c9")
	require.NoError(t, err)
	assert.Equal(t, "c9", card.ID)
}

func TestClient_RejectsEmptyIDs(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	ctx := context.Background()

	_, err := client.ListBoardLists(ctx, "")
	assert.ErrorIs(t, err, domain.ErrRemoteMalformed)
	_, err = client.ListCards(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrRemoteMalformed)
	_, err = client.GetCard(ctx, "")
	assert.ErrorIs(t, err, domain.ErrRemoteMalformed)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   error
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			wantKind:   domain.ErrRemoteUnreachable,
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "invalid key", http.StatusUnauthorized)
			},
			wantKind:   domain.ErrRemoteUnreachable,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>not json</html>`))
			},
			wantKind: domain.ErrRemoteMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.ListCards(context.Background(), "l1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)

			var remote *domain.RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, tt.wantStatus, remote.Status)
			assert.Equal(t, "list cards", remote.Op)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(ClientOptions{BaseURL: srv.URL})

	_, err := client.ListBoardLists(context.Background(), "b1")
	assert.ErrorIs(t, err, domain.ErrRemoteUnreachable)
}

func TestClient_RegisterWebhook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/webhooks", r.URL.Path)

		var body Webhook
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "b1", body.IDModel)
		assert.Equal(t, "https://bot.example.com/ping", body.CallbackURL)
		assert.True(t, body.Active)

		body.ID = "w1"
		json.NewEncoder(w).Encode(body)
	})

	hook, err := client.RegisterWebhook(context.Background(), "b1", "https://bot.example.com/ping", "helpbot")
	require.NoError(t, err)
	assert.Equal(t, "w1", hook.ID)
	assert.Equal(t, "helpbot", hook.Description)
}
