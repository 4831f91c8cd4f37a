package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"mypal/internal/config"
	"mypal/internal/db"
	"mypal/internal/pal"
	"mypal/internal/profile"
	"mypal/internal/user"
)

// fakeAuth injects an authenticated user the way the real middleware does.
func fakeAuth(userId uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userId)
		c.Next()
	}
}

func seedUser(t *testing.T, username string) user.User {
	u := user.User{Username: username, PasswordHash: "hash", Role: user.RoleUser}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func postChat(t *testing.T, r *gin.Engine, message string) pal.Result {
	t.Helper()
	b, _ := json.Marshal(ChatRequest{Message: message})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res pal.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	return res
}

func TestChatHandler_FullTurn(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	u := seedUser(t, "chatter")

	cfg := &config.Config{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", fakeAuth(u.ID), ChatHandler(cfg))

	res := postChat(t, r, "hello little one!")
	if res.Reply == "" {
		t.Fatalf("empty reply")
	}
	if res.XPGained != 10 {
		t.Errorf("expected 10 xp for first turn, got %d", res.XPGained)
	}

	// Both sides of the exchange land in the chat log.
	var msgs []profile.ChatMessage
	if err := db.DB.Order("id asc").Find(&msgs).Error; err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "pal" {
		t.Fatalf("unexpected chat log: %+v", msgs)
	}

	// State persists between turns.
	res2 := postChat(t, r, "you are doing great!")
	if res2.Reply == "" {
		t.Fatalf("empty second reply")
	}
	mgr := profile.NewManager(db.DB)
	var p profile.Profile
	if err := db.DB.Where("user_id = ?", u.ID).First(&p).Error; err != nil {
		t.Fatalf("profile missing: %v", err)
	}
	snap, err := mgr.Load(p.ID)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap.State.MessageCount != 2 {
		t.Errorf("message count = %d, want 2", snap.State.MessageCount)
	}
	if snap.State.XP != 20 {
		t.Errorf("xp = %d, want 20", snap.State.XP)
	}
	if len(snap.Vocabulary) == 0 {
		t.Errorf("vocabulary should persist across turns")
	}
}

func TestChatHandler_RejectsEmptyMessage(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	u := seedUser(t, "quiet")

	cfg := &config.Config{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", fakeAuth(u.ID), ChatHandler(cfg))

	b, _ := json.Marshal(ChatRequest{Message: ""})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty message, got %d", w.Code)
	}
}

func TestResetHandler_WipesPalAndLog(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	u := seedUser(t, "resetter")

	cfg := &config.Config{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", fakeAuth(u.ID), ChatHandler(cfg))
	r.POST("/reset", fakeAuth(u.ID), ResetHandler())

	postChat(t, r, "remember this forever!")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reset", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reset failed: %d %s", w.Code, w.Body.String())
	}

	var p profile.Profile
	if err := db.DB.Where("user_id = ?", u.ID).First(&p).Error; err != nil {
		t.Fatalf("profile missing: %v", err)
	}
	snap, err := profile.NewManager(db.DB).Load(p.ID)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap.State.XP != 0 || snap.State.MessageCount != 0 || len(snap.Vocabulary) != 0 {
		t.Errorf("reset should return pal to newborn state: %+v", snap.State)
	}
	var count int64
	db.DB.Model(&profile.ChatMessage{}).Where("profile_id = ?", p.ID).Count(&count)
	if count != 0 {
		t.Errorf("chat log should be wiped, %d rows remain", count)
	}
}
