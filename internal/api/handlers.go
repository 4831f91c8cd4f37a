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

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// stageName labels the developmental band for human-facing reports.
func stageName(level int) string {
	switch {
	case level <= 0:
		return "babbling"
	case level == 1:
		return "holophrastic"
	case level == 2:
		return "word-modifier"
	case level == 3:
		return "telegraphic"
	default:
		return "generative"
	}
}

func loadSnapshot(c *gin.Context) (*profile.Snapshot, *profile.Profile, bool) {
	userId, _ := c.Get("userId")
	p, err := profileFor(userId.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Profile lookup failed"}})
		return nil, nil, false
	}
	snap, err := profile.NewManager(db.DB).Load(p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Pal state load failed"}})
		return nil, nil, false
	}
	return snap, p, true
}

// GET /stats
func StatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, p, ok := loadSnapshot(c)
		if !ok {
			return
		}
		st := snap.State
		c.JSON(http.StatusOK, gin.H{
			"name":        p.Name,
			"level":       st.Level,
			"stage":       stageName(st.Level),
			"xp":          st.XP,
			"xpToNext":    pal.ThresholdFor(st.Level),
			"progress":    pal.ProgressInLevel(&st),
			"cp":          st.CP,
			"emotion":     st.CurrentEmotion,
			"personality": st.Personality,
			"counts": gin.H{
				"messages":   st.MessageCount,
				"vocabulary": len(snap.Vocabulary),
				"concepts":   len(snap.Concepts),
				"memories":   len(snap.Memories),
				"journal":    len(snap.Journal),
				"pending":    len(st.PendingQuestions),
			},
		})
	}
}

// GET /settings
func GetSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, _, ok := loadSnapshot(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, snap.State.Settings)
	}
}

type SettingsRequest struct {
	XPMultiplier *float64 `json:"xpMultiplier"`
	APIProvider  *string  `json:"apiProvider"`
	Telemetry    *bool    `json:"telemetry"`
}

// maxXPMultiplier caps the settings knob; larger requests are clamped.
const maxXPMultiplier = 250

// allowedProviders is the accepted apiProvider set; anything else is ignored.
var allowedProviders = map[string]bool{
	"local":  true,
	"openai": true,
	"azure":  true,
	"gemini": true,
}

// lockedSnapshot resolves the caller's profile and loads its snapshot while
// holding the profile write lock. The returned unlock must be deferred.
func lockedSnapshot(c *gin.Context) (*profile.Snapshot, func(), bool) {
	userId, _ := c.Get("userId")
	p, err := profileFor(userId.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Profile lookup failed"}})
		return nil, nil, false
	}
	mu := profile.Lock(p.ID)
	mu.Lock()
	snap, err := profile.NewManager(db.DB).Load(p.ID)
	if err != nil {
		mu.Unlock()
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Pal state load failed"}})
		return nil, nil, false
	}
	return snap, mu.Unlock, true
}

// PUT /settings
func UpdateSettingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		snap, unlock, ok := lockedSnapshot(c)
		if !ok {
			return
		}
		defer unlock()
		if req.XPMultiplier != nil && *req.XPMultiplier > 0 {
			m := *req.XPMultiplier
			if m > maxXPMultiplier {
				m = maxXPMultiplier
			}
			snap.State.Settings.XPMultiplier = m
		}
		if req.APIProvider != nil && allowedProviders[*req.APIProvider] {
			snap.State.Settings.APIProvider = *req.APIProvider
		}
		if req.Telemetry != nil {
			snap.State.Settings.Telemetry = *req.Telemetry
		}
		if err := profile.NewManager(db.DB).Save(snap); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Save failed"}})
			return
		}
		c.JSON(http.StatusOK, snap.State.Settings)
	}
}

// POST /reinforce grants a flat encouragement bonus.
const reinforceXP = 25

func ReinforceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, unlock, ok := lockedSnapshot(c)
		if !ok {
			return
		}
		defer unlock()
		gained, leveled := pal.AddXP(&snap.State, reinforceXP)
		if err := profile.NewManager(db.DB).Save(snap); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Save failed"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"xpGained":  gained,
			"xp":        snap.State.XP,
			"level":     snap.State.Level,
			"leveledUp": leveled,
		})
	}
}

// POST /reset wipes the pal back to newborn state and clears the chat log.
func ResetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		p, err := profileFor(userId.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Profile lookup failed"}})
			return
		}
		mu := profile.Lock(p.ID)
		mu.Lock()
		defer mu.Unlock()
		if _, err := profile.NewManager(db.DB).Reset(p.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Reset failed"}})
			return
		}
		if err := db.DB.Where("profile_id = ?", p.ID).Delete(&profile.ChatMessage{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Chat log wipe failed"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reset": true})
	}
}

// GET /export returns the full pal snapshot plus chat log for backup.
func ExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, p, ok := loadSnapshot(c)
		if !ok {
			return
		}
		msgs, err := recentMessages(p.ID, historyWindow)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"exportedAt": time.Now().UTC(),
			"profile":    p,
			"state":      snap.State,
			"vocabulary": snap.Vocabulary,
			"concepts":   snap.Concepts,
			"memories":   snap.Memories,
			"journal":    snap.Journal,
			"messages":   msgs,
		})
	}
}

// GET /journal
func JournalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, _, ok := loadSnapshot(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"journal": snap.Journal})
	}
}

// GET /report builds a human-readable development summary.
func ReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, p, ok := loadSnapshot(c)
		if !ok {
			return
		}
		st := snap.State

		type wordStat struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		}
		topWords := make([]wordStat, 0, 10)
		for _, v := range snap.Vocabulary {
			if v.IsAvoid || v.IsQuoted {
				continue
			}
			topWords = append(topWords, wordStat{Word: v.Word, Count: v.Count})
		}
		// Vocabulary persists sorted by count after cap enforcement, but sort
		// defensively anyway.
		for i := 0; i < len(topWords); i++ {
			for j := i + 1; j < len(topWords); j++ {
				if topWords[j].Count > topWords[i].Count {
					topWords[i], topWords[j] = topWords[j], topWords[i]
				}
			}
		}
		if len(topWords) > 10 {
			topWords = topWords[:10]
		}

		type conceptStat struct {
			Name      string  `json:"name"`
			Kind      string  `json:"kind"`
			Mentions  int     `json:"mentions"`
			Sentiment float64 `json:"sentiment"`
		}
		topConcepts := make([]conceptStat, 0, 10)
		for i, cn := range snap.Concepts {
			if i >= 10 {
				break
			}
			topConcepts = append(topConcepts, conceptStat{
				Name: cn.Name, Kind: cn.Kind, Mentions: cn.TotalMentions, Sentiment: cn.AverageSentiment(),
			})
		}

		byImportance := gin.H{"high": 0, "medium": 0, "low": 0}
		for _, m := range snap.Memories {
			switch m.Importance.Level {
			case "high":
				byImportance["high"] = byImportance["high"].(int) + 1
			case "medium":
				byImportance["medium"] = byImportance["medium"].(int) + 1
			default:
				byImportance["low"] = byImportance["low"].(int) + 1
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"name":          p.Name,
			"generatedAt":   time.Now().UTC(),
			"level":         st.Level,
			"stage":         stageName(st.Level),
			"xp":            st.XP,
			"personality":   st.Personality,
			"emotion":       st.CurrentEmotion,
			"topWords":      topWords,
			"topConcepts":   topConcepts,
			"memoryCounts":  byImportance,
			"journalLength": len(snap.Journal),
		})
	}
}

// configHandler exposes non-sensitive config fields.
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"pal": cfg.Pal,
		})
	}
}
