package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"tubeinsight/internal/auth"
	"tubeinsight/internal/middleware"
	"tubeinsight/internal/models"
	"tubeinsight/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler interface {
	ListUsers(c *gin.Context)
	GetUser(c *gin.Context)
	UpdateUserRole(c *gin.Context)
	UpdateUserStatus(c *gin.Context)
	ListModerationAnalyses(c *gin.Context)
	GetModerationAnalysis(c *gin.Context)
	UpdateModerationAnalysis(c *gin.Context)
	ListAuditLogs(c *gin.Context)
	GetAPIUsage(c *gin.Context)
}

type adminHandler struct {
	profiles repository.ProfileRepository
	analyses repository.AnalysisRepository
	audit    repository.AuditRepository
	usage    repository.UsageRepository
	logger   *zap.Logger
}

func NewAdminHandler(
	profiles repository.ProfileRepository,
	analyses repository.AnalysisRepository,
	audit repository.AuditRepository,
	usage repository.UsageRepository,
	logger *zap.Logger,
) AdminHandler {
	return &adminHandler{
		profiles: profiles,
		analyses: analyses,
		audit:    audit,
		usage:    usage,
		logger:   logger,
	}
}

func (h *adminHandler) ListUsers(c *gin.Context) {
	limit, offset := pageParams(c, defaultHistoryLimit, maxHistoryLimit)
	filter := repository.ProfileFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	profiles, total, err := h.profiles.ListProfiles(c.Request.Context(), filter, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	if profiles == nil {
		profiles = []models.Profile{}
	}
	c.JSON(http.StatusOK, gin.H{
		"users":  profiles,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *adminHandler) GetUser(c *gin.Context) {
	profile, err := h.profiles.GetProfileByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *adminHandler) UpdateUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	target, ok := h.loadTarget(c)
	if !ok {
		return
	}

	adminID := c.GetString(middleware.ContextUserID)
	adminRole := c.GetString(middleware.ContextRole)
	if !auth.CanModifyUser(adminRole, target.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify this user"})
		return
	}

	if err := h.profiles.UpdateRole(c.Request.Context(), target.ID, req.Role); err != nil {
		h.logger.Error("Failed to update user role", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	h.audit.LogAction(c.Request.Context(), repository.AuditEntry{
		AdminID:    adminID,
		ActionType: "update_user_role",
		TargetType: "user",
		TargetID:   target.ID,
		Details: map[string]interface{}{
			"old_role": target.Role,
			"new_role": req.Role,
		},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "role": req.Role})
}

type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

func (h *adminHandler) UpdateUserStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.StatusActive, models.StatusSuspended, models.StatusBanned:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	target, ok := h.loadTarget(c)
	if !ok {
		return
	}

	adminID := c.GetString(middleware.ContextUserID)
	adminRole := c.GetString(middleware.ContextRole)
	if !auth.CanModifyUser(adminRole, target.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify this user"})
		return
	}

	if err := h.profiles.UpdateStatus(c.Request.Context(), target.ID, req.Status, req.Reason); err != nil {
		h.logger.Error("Failed to update user status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	details := map[string]interface{}{
		"old_status": target.Status,
		"new_status": req.Status,
	}
	if req.Reason != nil {
		details["reason"] = *req.Reason
	}
	h.audit.LogAction(c.Request.Context(), repository.AuditEntry{
		AdminID:    adminID,
		ActionType: "update_user_status",
		TargetType: "user",
		TargetID:   target.ID,
		Details:    details,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": req.Status})
}

func (h *adminHandler) loadTarget(c *gin.Context) (*models.Profile, bool) {
	target, err := h.profiles.GetProfileByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return nil, false
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return target, true
}

func (h *adminHandler) ListModerationAnalyses(c *gin.Context) {
	limit, offset := pageParams(c, defaultHistoryLimit, maxHistoryLimit)

	analyses, total, err := h.analyses.ListForModeration(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list analyses for moderation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}

	if analyses == nil {
		analyses = []models.AnalysisSummary{}
	}
	c.JSON(http.StatusOK, gin.H{
		"analyses": analyses,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *adminHandler) GetModerationAnalysis(c *gin.Context) {
	analysis, breakdown, err := h.analyses.GetForModeration(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to load analysis for moderation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}
	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"analysis":           analysis,
		"sentimentBreakdown": breakdown,
	})
}

type ModerationActionRequest struct {
	Action string  `json:"action" binding:"required"`
	Reason *string `json:"reason"`
}

func (h *adminHandler) UpdateModerationAnalysis(c *gin.Context) {
	var req ModerationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysisID := c.Param("id")
	analysis, _, err := h.analyses.GetForModeration(c.Request.Context(), analysisID)
	if err != nil {
		h.logger.Error("Failed to load analysis for moderation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}
	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	adminID := c.GetString(middleware.ContextUserID)

	switch req.Action {
	case "disable", "enable":
		disabled := req.Action == "disable"
		if err := h.analyses.SetDisabled(c.Request.Context(), analysisID, disabled); err != nil {
			h.logger.Error("Failed to update analysis visibility", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update analysis"})
			return
		}
	case "resummary":
		// Recorded for follow-up; summaries are not regenerated in place.
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	details := map[string]interface{}{"action": req.Action}
	if req.Reason != nil {
		details["reason"] = *req.Reason
	}
	h.audit.LogAction(c.Request.Context(), repository.AuditEntry{
		AdminID:    adminID,
		ActionType: "moderate_analysis",
		TargetType: "analysis",
		TargetID:   analysisID,
		Details:    details,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Action recorded", "action": req.Action})
}

func (h *adminHandler) ListAuditLogs(c *gin.Context) {
	limit, offset := pageParams(c, defaultHistoryLimit, maxHistoryLimit)

	logs, total, err := h.audit.ListActions(c.Request.Context(), c.Query("action_type"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list audit logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit logs"})
		return
	}

	out := make([]gin.H, 0, len(logs))
	for _, entry := range logs {
		var details map[string]interface{}
		if len(entry.Details) > 0 {
			if err := json.Unmarshal(entry.Details, &details); err != nil {
				details = nil
			}
		}
		out = append(out, gin.H{
			"id":          entry.ID,
			"admin_id":    entry.AdminID,
			"action_type": entry.ActionType,
			"target_type": entry.TargetType,
			"target_id":   entry.TargetID,
			"details":     details,
			"created_at":  entry.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   out,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// usageBucket aggregates provider usage over one time bucket.
type usageBucket struct {
	Bucket          string  `json:"bucket"`
	YouTubeRequests int     `json:"youtubeRequests"`
	GeminiRequests  int     `json:"geminiRequests"`
	GeminiTokens    int64   `json:"geminiTokens"`
	CostEstimate    float64 `json:"costEstimate"`
}

func (h *adminHandler) GetAPIUsage(c *gin.Context) {
	period := c.DefaultQuery("period", "day")
	var window time.Duration
	var bucketFormat string
	switch period {
	case "day":
		window = 24 * time.Hour
		bucketFormat = "2006-01-02 15:00"
	case "week":
		window = 7 * 24 * time.Hour
		bucketFormat = "2006-01-02"
	case "month":
		window = 30 * 24 * time.Hour
		bucketFormat = "2006-01-02"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be day, week or month"})
		return
	}

	rows, err := h.usage.ListSince(c.Request.Context(), time.Now().Add(-window))
	if err != nil {
		h.logger.Error("Failed to load API usage", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load API usage"})
		return
	}

	byBucket := make(map[string]*usageBucket)
	for _, row := range rows {
		key := row.CreatedAt.Format(bucketFormat)
		bucket, ok := byBucket[key]
		if !ok {
			bucket = &usageBucket{Bucket: key}
			byBucket[key] = bucket
		}
		switch row.APIType {
		case "youtube":
			bucket.YouTubeRequests++
		case "gemini":
			bucket.GeminiRequests++
			bucket.GeminiTokens += row.TokensUsed
		}
		bucket.CostEstimate += row.CostEstimate
	}

	buckets := make([]usageBucket, 0, len(byBucket))
	for _, bucket := range byBucket {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Bucket < buckets[j].Bucket })

	c.JSON(http.StatusOK, gin.H{
		"period":  period,
		"buckets": buckets,
	})
}
