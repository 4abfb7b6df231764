package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"apnagate-backend/config"
	"apnagate-backend/internal/api"
	"apnagate-backend/internal/auth"
	"apnagate-backend/internal/db"
	"apnagate-backend/internal/model"
	"apnagate-backend/internal/notification"
	"apnagate-backend/internal/realtime"
	"apnagate-backend/internal/store"
)

type expoCapture struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// TestVisitorAdmissionLifecycle exercises the whole service wired together:
// registration, login, PIN generation with push and realtime fan-out, and
// the single-grant verification.
func TestVisitorAdmissionLifecycle(t *testing.T) {
	// 1. In-memory database with the real migrations.
	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))
	appStore := store.NewGormStore(testDB)

	// 2. Mock the Expo push collaborator.
	pushed := make(chan expoCapture, 4)
	expoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg expoCapture
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		pushed <- msg
		w.WriteHeader(http.StatusOK)
	}))
	defer expoServer.Close()

	// 3. Wire the real components the way main does.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub()
	go hub.Run()

	expo := notification.NewExpoSender(expoServer.URL, 2*time.Second)
	dispatcher := notification.NewWorkerPool(2, 16, appStore, expo, nil, hub)
	dispatcher.Start(ctx)

	tokens := auth.NewTokens("integration-secret", 30*24*time.Hour)
	cfg := &config.Config{}
	cfg.Server.GateRateLimit = 1000
	cfg.Server.GateRateBurst = 1000
	cfg.Server.VehicleCacheTTL = 60
	cfg.Upload.Dir = t.TempDir()

	appServer := httptest.NewServer(api.NewRouter(appStore, tokens, dispatcher, hub, cfg))
	defer appServer.Close()

	postJSON := func(path string, body any, token string) (*http.Response, map[string]any) {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, appServer.URL+path, bytes.NewReader(raw))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var decoded map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		return resp, decoded
	}

	// 4. Register and log in the resident.
	resp, _ := postJSON("/api/resident/register", map[string]any{
		"name":         "Asha",
		"phone_number": "9999999999",
		"flat_number":  "A-101",
		"password":     "pw1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON("/api/resident/login", map[string]any{
		"flat_number": "A-101",
		"password":    "pw1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, _ = postJSON("/api/resident/update-fcm-token", map[string]any{
		"fcm_token": "ExponentPushToken[integration]",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 5. Connect a realtime client (the resident app).
	wsURL := "ws" + strings.TrimPrefix(appServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	time.Sleep(100 * time.Millisecond)

	// 6. The guard generates a PIN.
	resp, body = postJSON("/api/gate/generate-pin", map[string]any{
		"visitor_phone_number": "8888888888",
		"resident_flat_number": "A-101",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	pin, _ := body["pin_code"].(string)
	require.Len(t, pin, 4)

	// The push notification carries the PIN.
	select {
	case msg := <-pushed:
		assert.Equal(t, "ExponentPushToken[integration]", msg.To)
		assert.Contains(t, msg.Body, pin)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for push notification")
	}

	// The realtime alert carries the PIN too.
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg realtime.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	require.Equal(t, realtime.EventNewVisitorAlert, msg.Event)
	var alert realtime.VisitorAlert
	require.NoError(t, json.Unmarshal(msg.Data, &alert))
	assert.Equal(t, "A-101", alert.FlatNumber)
	assert.Equal(t, pin, alert.PinCode)

	// 7. The guard verifies the PIN: granted once, denied after.
	resp, body = postJSON("/api/gate/verify-pin", map[string]any{
		"pin_code":             pin,
		"resident_flat_number": "A-101",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACCESS GRANTED", body["message"])

	resp, _ = postJSON("/api/gate/verify-pin", map[string]any{
		"pin_code":             pin,
		"resident_flat_number": "A-101",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// 8. The visit is now part of the permanent history.
	req, err := http.NewRequest(http.MethodGet, appServer.URL+"/api/resident/history", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	histResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer histResp.Body.Close()
	require.Equal(t, http.StatusOK, histResp.StatusCode)

	var history []model.VisitorLog
	require.NoError(t, json.NewDecoder(histResp.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, model.StatusApproved, history[0].Status)
	assert.Equal(t, "8888888888", history[0].VisitorPhoneNumber)
}
