package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"briefing/internal"
	"briefing/internal/dedupe"
	"briefing/internal/storage"
)

var reDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Handler struct {
	db         *storage.DB
	reconciler *dedupe.Reconciler
}

func NewHandler(db *storage.DB) *Handler {
	return &Handler{
		db:         db,
		reconciler: dedupe.NewReconciler(dedupe.NewDeduper()),
	}
}

// SubmitBriefing merges a submission into the document for its date. The
// response reports which items the merge considered new.
func (h *Handler) SubmitBriefing(c *gin.Context) {
	var briefing internal.BriefingSubmission
	if err := c.ShouldBindJSON(&briefing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if briefing.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: date"})
		return
	}
	if !reDate.MatchString(briefing.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Expected YYYY-MM-DD"})
		return
	}

	existing, err := h.db.GetBriefing(briefing.Date)
	if err != nil {
		slog.Error("database error", "operation", "get_briefing", "date", briefing.Date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	isUpdate := existing != nil

	result := h.reconciler.Reconcile(briefing.Date, existing, &briefing, dedupe.PathSubmission, time.Now())
	if err := h.db.UpsertBriefing(result.Doc); err != nil {
		slog.Error("database error", "operation", "upsert_briefing", "date", briefing.Date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	totalNew := result.TotalNew()
	verb := "created"
	if isUpdate {
		verb = "updated"
	}

	var newItems any
	if totalNew > 0 {
		newItems = result.NewItems
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("Briefing for %s %s successfully", briefing.Date, verb),
		"documentId":    briefing.Date,
		"isUpdate":      isUpdate,
		"newItems":      newItems,
		"newItemsCount": totalNew,
	})
}

// MarkAsSeen clears the new-item markers for a date after the dashboard has
// shown them.
func (h *Handler) MarkAsSeen(c *gin.Context) {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: date"})
		return
	}

	found, err := h.db.MarkBriefingSeen(body.Date, time.Now())
	if err != nil {
		slog.Error("database error", "operation", "mark_seen", "date", body.Date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Briefing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Marked items as seen for %s", body.Date),
	})
}

func (h *Handler) GetBriefing(c *gin.Context) {
	date := c.Param("date")
	if !reDate.MatchString(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Expected YYYY-MM-DD"})
		return
	}

	doc, err := h.db.GetBriefing(date)
	if err != nil {
		slog.Error("database error", "operation", "get_briefing", "date", date, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Briefing not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) GetLatestBriefing(c *gin.Context) {
	doc, err := h.db.LatestBriefing()
	if err != nil {
		slog.Error("database error", "operation", "latest_briefing", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No briefings yet"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) ListBriefings(c *gin.Context) {
	limit := 30
	docs, err := h.db.ListBriefings(limit)
	if err != nil {
		slog.Error("database error", "operation", "list_briefings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if docs == nil {
		docs = []*internal.BriefingDocument{}
	}

	c.JSON(http.StatusOK, gin.H{"briefings": docs, "count": len(docs)})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if count, err := h.db.BriefingCount(); err == nil {
		health["briefings"] = count
	}

	c.JSON(http.StatusOK, health)
}
