package line

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chefbot/src/model"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ReplyWithQuickReply(t *testing.T) {
	var (
		got    replyRequest
		auth   string
		path   string
		method string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, auth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	client := NewClient(model.LineConfig{APIBaseURL: srv.URL + "/", ChannelToken: "tok", Timeout: time.Second})
	long := "แกงเขียวหวานไก่ใส่มะเขือเปราะและใบโหระพา"
	err := client.Reply(context.Background(), "r1", model.Reply{
		Text:    "เลือกเมนู",
		Buttons: model.NewButtons([]string{"ข้าว", long}),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, replyPath, path)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "r1", got.ReplyToken)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "เลือกเมนู", got.Messages[0].Text)
	require.NotNil(t, got.Messages[0].QuickReply)
	items := got.Messages[0].QuickReply.Items
	require.Len(t, items, 2)
	assert.Equal(t, "message", items[1].Action.Type)
	assert.Len(t, []rune(items[1].Action.Label), model.MaxButtonLabel)
	assert.Equal(t, long, items[1].Action.Text)
}

func TestClient_PlainTextOmitsQuickReply(t *testing.T) {
	req := buildReply("r1", model.TextReply("hello"))
	payload, err := sonic.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "quickReply")
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid reply token"}`))
	}))
	defer srv.Close()

	client := NewClient(model.LineConfig{APIBaseURL: srv.URL})
	err := client.Reply(context.Background(), "r1", model.TextReply("hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid reply token")
}
