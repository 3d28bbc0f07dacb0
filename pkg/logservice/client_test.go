package logservice_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/pulseai/pulsedesk/pkg/logservice"
	"github.com/pulseai/pulsedesk/pkg/logservice/logservicetest"
	"github.com/pulseai/pulsedesk/pkg/reqctx"
)

func newFake(t *testing.T, seed ...logservice.Conversation) *logservicetest.Server {
	t.Helper()
	srv := logservicetest.NewServer(seed...)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CreateThenGet(t *testing.T) {
	srv := newFake(t)
	client := srv.Client()
	ctx := context.Background()

	saved, err := client.Create(ctx, logservice.CreateRequest{
		Chat:     []logservice.ChatTurn{logservice.NewChatTurn("User", "hello")},
		UserInfo: logservice.UserInfo{Name: "Emma Johnson", Email: "emma@example.com", PhoneNumber: "+1 555 123 4567"},
		Report:   logservice.Report{logservice.KeySummary: "first visit"},
		Matches: map[string]logservice.ConditionMatch{
			"match_1": {Name: "Check Required", Severity: logservice.SeverityModerate, Count: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected saved id")
	}

	got, err := client.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserInfo.Name != "Emma Johnson" {
		t.Errorf("unexpected name %q", got.UserInfo.Name)
	}
	if got.Report.String(logservice.KeySummary) != "first visit" {
		t.Errorf("unexpected summary %q", got.Report.String(logservice.KeySummary))
	}
	if got.Matches["match_1"].Severity != logservice.SeverityModerate {
		t.Errorf("unexpected matches %+v", got.Matches)
	}
	if got.Chat[0].Speaker() != "User" || got.Chat[0].Text() != "hello" {
		t.Errorf("unexpected chat %+v", got.Chat)
	}
}

func TestClient_GetNotFound(t *testing.T) {
	srv := newFake(t)

	_, err := srv.Client().Get(context.Background(), "missing")
	if !errors.Is(err, logservice.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var se *logservice.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("expected StatusError 404, got %v", err)
	}
}

func TestClient_List(t *testing.T) {
	srv := newFake(t,
		logservice.Conversation{ID: "a1", UserInfo: &logservice.UserInfo{Name: "A"}},
		logservice.Conversation{ID: "b2", UserInfo: &logservice.UserInfo{Name: "B"}},
	)

	convs, err := srv.Client().List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(convs) != 2 || convs[0].ID != "a1" || convs[1].ID != "b2" {
		t.Errorf("unexpected list %+v", convs)
	}
}

func TestClient_UpdatePartial(t *testing.T) {
	srv := newFake(t, logservice.Conversation{
		ID:       "c1",
		Chat:     []logservice.ChatTurn{{"User": "hi"}},
		UserInfo: &logservice.UserInfo{Name: "Old"},
		Report:   logservice.Report{"summary": "old", "custom": "kept"},
	})
	client := srv.Client()

	_, err := client.Update(context.Background(), "c1", logservice.UpdateRequest{
		UserInfo: &logservice.UserInfo{Name: "New"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := srv.Conversation("c1")
	if got.UserInfo.Name != "New" {
		t.Errorf("user_info not updated: %+v", got.UserInfo)
	}
	if got.Report.String("custom") != "kept" || len(got.Chat) != 1 {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestClient_Delete(t *testing.T) {
	srv := newFake(t, logservice.Conversation{ID: "c1"})

	if err := srv.Client().Delete(context.Background(), "c1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if srv.Len() != 0 {
		t.Errorf("expected conversation removed")
	}
	if err := srv.Client().Delete(context.Background(), "c1"); !errors.Is(err, logservice.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestClient_ServerErrors(t *testing.T) {
	srv := newFake(t)
	srv.Fail(logservicetest.OpList, http.StatusInternalServerError)

	_, err := srv.Client().List(context.Background())
	var se *logservice.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
	if errors.Is(err, logservice.ErrNotFound) {
		t.Error("500 must not match ErrNotFound")
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := logservicetest.NewServer()
	cfg := srv.Config()
	srv.Close()

	_, err := logservice.New(cfg).List(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestClient_ForwardsRequestID(t *testing.T) {
	srv := newFake(t)
	ctx := reqctx.WithRequestMeta(context.Background(), reqctx.RequestMeta{
		RequestID:  "req-123",
		ReceivedAt: time.Now(),
	})

	if _, err := srv.Client().List(ctx); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := srv.LastRequestID(); got != "req-123" {
		t.Errorf("expected forwarded request id, got %q", got)
	}
}

func TestClient_Ping(t *testing.T) {
	srv := newFake(t)
	if err := srv.Client().Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	srv.Fail(logservicetest.OpList, http.StatusServiceUnavailable)
	if err := srv.Client().Ping(context.Background()); err == nil {
		t.Error("expected ping failure")
	}
}
