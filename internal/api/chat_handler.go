package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mypal/internal/config"
	"mypal/internal/db"
	"mypal/internal/pal"
	"mypal/internal/profile"
)

// historyWindow bounds how much chat log feeds the Markov corpus and the
// brain graph per turn.
const historyWindow = 300

// profileFor returns the user's pal profile, creating it on first use.
func profileFor(userID uint) (*profile.Profile, error) {
	var p profile.Profile
	err := db.DB.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	p = profile.Profile{Name: "MyPal", UserID: userID}
	if err := db.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func recentMessages(profileID uint, limit int) ([]profile.ChatMessage, error) {
	var msgs []profile.ChatMessage
	err := db.DB.Where("profile_id = ?", profileID).
		Order("created_at desc").Order("id desc").
		Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// Oldest first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func newEngine(cfg *config.Config) *pal.Engine {
	e := pal.New()
	if cfg.Pal.VocabularyCap > 0 {
		e.VocabCap = cfg.Pal.VocabularyCap
	}
	if cfg.Pal.MemoryCap > 0 {
		e.MemoryCap = cfg.Pal.MemoryCap
	}
	return e
}

// runTurn is the single entry point for a chat exchange, shared by the HTTP
// and WebSocket transports.
func runTurn(cfg *config.Config, profileID uint, message string) (pal.Result, error) {
	mu := profile.Lock(profileID)
	mu.Lock()
	defer mu.Unlock()

	mgr := profile.NewManager(db.DB)
	snap, err := mgr.Load(profileID)
	if err != nil {
		return pal.Result{}, err
	}
	if snap.State.Settings.XPMultiplier == 0 {
		snap.State.Settings.XPMultiplier = cfg.Pal.XPMultiplier
	}

	history, err := recentMessages(profileID, historyWindow)
	if err != nil {
		return pal.Result{}, err
	}

	res := newEngine(cfg).ProcessTurn(message, snap, history, time.Now())

	now := time.Now()
	rows := []profile.ChatMessage{
		{ProfileID: profileID, Role: "user", Text: message, CreatedAt: now},
		{ProfileID: profileID, Role: "pal", Kind: res.Kind, Text: res.Reply, CreatedAt: now},
	}
	if err := db.DB.Create(&rows).Error; err != nil {
		return pal.Result{}, err
	}
	if err := mgr.Save(snap); err != nil {
		return pal.Result{}, err
	}
	return res, nil
}

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatHandler processes one conversational turn.
func ChatHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Message required"}})
			return
		}
		p, err := profileFor(userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Profile lookup failed"}})
			return
		}
		res, err := runTurn(cfg, p.ID, req.Message)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Turn processing failed"}})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ListMessagesHandler returns the recent chat log, oldest first.
func ListMessagesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		p, err := profileFor(userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Profile lookup failed"}})
			return
		}
		msgs, err := recentMessages(p.ID, historyWindow)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	}
}
