package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campaign-recommendation/internal/campaign"
)

type Handler struct {
	service      *campaign.Service
	logger       *slog.Logger
	errorCounter *prometheus.CounterVec
}

func NewHandler(service *campaign.Service, logger *slog.Logger, errorCounter *prometheus.CounterVec) *Handler {
	return &Handler{service: service, logger: logger, errorCounter: errorCounter}
}

// Health godoc
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type generateRequest struct {
	CampaignObjective string `json:"campaignObjective"`
	AdditionalPrompt  string `json:"additionalPrompt"`
	Category          string `json:"category"`
}

type variationResponse struct {
	ID         string `json:"id"`
	WidgetType string `json:"widgetType"`
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	Text       string `json:"text"`
}

// Generate godoc
// @Summary      Generate creative variations
// @Description  Produces three widget variations for a campaign objective, optionally restricted to one product category.
// @Tags         BackOffice
// @Accept       json
// @Produce      json
// @Param        request body generateRequest true "Generation request"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /backoffice/generate [post]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, &campaign.ValidationError{Field: "body", Reason: "invalid JSON payload"})
		return
	}

	variations, products, err := h.service.GenerateVariations(r.Context(), req.CampaignObjective, req.Category, req.AdditionalPrompt, 3)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]variationResponse, len(variations))
	for i, v := range variations {
		out[i] = variationResponse{
			ID:         "variation_" + strconv.Itoa(i+1),
			WidgetType: v.WidgetType,
			HTML:       v.HTML,
			CSS:        v.CSS,
			Text:       v.Text,
		}
	}

	category := req.Category
	if category == "" {
		category = "all"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"variations":        out,
		"campaignObjective": req.CampaignObjective,
		"productCount":      len(products),
		"category":          category,
		"generatedAt":       time.Now().UTC().Format(time.RFC3339),
	})
}

// SaveCampaign godoc
// @Summary      Save a campaign
// @Description  Persists a generated variation with its targeting criteria for later matching.
// @Tags         BackOffice
// @Accept       json
// @Produce      json
// @Param        request body campaign.CreateInput true "Campaign to save"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /backoffice/campaigns [post]
func (h *Handler) SaveCampaign(w http.ResponseWriter, r *http.Request) {
	var in campaign.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, &campaign.ValidationError{Field: "body", Reason: "invalid JSON payload"})
		return
	}

	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"message":      "Campaign saved successfully",
		"campaignId":   c.ID,
		"campaignName": c.Name,
		"campaign":     c,
	})
}

// ListCampaigns godoc
// @Summary      List campaigns
// @Tags         BackOffice
// @Produce      json
// @Param        limit    query  int     false  "Page size (default 20)"
// @Param        offset   query  int     false  "Offset"
// @Param        status   query  string  false  "Status filter"
// @Param        category query  string  false  "Category filter, 'all' disables"
// @Success      200  {object}  map[string]any
// @Router       /backoffice/campaigns [get]
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := queryInt(q.Get("limit"), 20)
	offset := queryInt(q.Get("offset"), 0)

	f := campaign.ListFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}

	items, total, err := h.service.List(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"campaigns": items,
		"pagination": map[string]any{
			"total":      total,
			"limit":      limit,
			"offset":     offset,
			"page":       offset/max(limit, 1) + 1,
			"totalPages": totalPages,
			"hasMore":    offset+limit < total,
		},
		"filters": map[string]string{
			"status":   orDefault(f.Status, "all"),
			"category": orDefault(f.Category, "all"),
		},
	})
}

// GetCampaign godoc
// @Summary      Get campaign detail
// @Tags         BackOffice
// @Produce      json
// @Param        id  query  string  true  "Campaign ID"
// @Success      200  {object}  campaign.Campaign
// @Failure      404  {object}  map[string]any
// @Router       /backoffice/campaigns/detail [get]
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, r, &campaign.ValidationError{Field: "id", Reason: "is required"})
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCampaign godoc
// @Summary      Update a campaign
// @Tags         BackOffice
// @Accept       json
// @Produce      json
// @Param        id       query  string                 true  "Campaign ID"
// @Param        request  body   campaign.UpdateFields  true  "Fields to update"
// @Success      200  {object}  campaign.Campaign
// @Failure      404  {object}  map[string]any
// @Router       /backoffice/campaigns [put]
func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, r, &campaign.ValidationError{Field: "id", Reason: "is required"})
		return
	}
	var u campaign.UpdateFields
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		h.writeError(w, r, &campaign.ValidationError{Field: "body", Reason: "invalid JSON payload"})
		return
	}
	c, err := h.service.Update(r.Context(), id, u)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCampaign godoc
// @Summary      Delete a campaign
// @Tags         BackOffice
// @Produce      json
// @Param        id  query  string  true  "Campaign ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /backoffice/campaigns [delete]
func (h *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeError(w, r, &campaign.ValidationError{Field: "id", Reason: "is required"})
		return
	}
	c, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"removedId":   c.ID,
		"removedName": c.Name,
	})
}

// ClearCampaigns godoc
// @Summary      Remove all campaigns
// @Tags         BackOffice
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /backoffice/campaigns/all [delete]
func (h *Handler) ClearCampaigns(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Clear(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"removed": n,
	})
}

type recommendationRequest struct {
	UserProfile json.RawMessage `json:"userProfile"`
	ProfileID   string          `json:"profileId"`
	Context     map[string]any  `json:"context"`
}

// GetRecommendation godoc
// @Summary      Get personalized recommendation
// @Description  Matches the visitor profile against active campaigns. A null recommendation means no campaign qualified; it is not an error.
// @Tags         Frontend
// @Accept       json
// @Produce      json
// @Param        request body recommendationRequest true "Visitor profile"
// @Success      200  {object}  map[string]any
// @Router       /frontend/recommendation [post]
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, &campaign.ValidationError{Field: "body", Reason: "invalid JSON payload"})
		return
	}

	var profile *campaign.VisitorProfile
	if len(req.UserProfile) > 0 && string(req.UserProfile) != "null" {
		profile = &campaign.VisitorProfile{}
		if err := json.Unmarshal(req.UserProfile, profile); err != nil {
			h.writeError(w, r, &campaign.MatchInputError{Reason: "userProfile is not an object"})
			return
		}
	}

	match, err := h.service.Recommend(r.Context(), profile, req.ProfileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if match == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":        true,
			"recommendation": nil,
			"message":        "No matching recommendations for user profile",
		})
		return
	}

	c := match.Campaign
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"recommendation": map[string]any{
			"campaignId":   c.ID,
			"campaignName": c.Name,
			"widgetType":   c.Variation.WidgetType,
			"html":         c.Variation.HTML,
			"css":          c.Variation.CSS,
			"text":         c.Variation.Text,
		},
		"matchReason": match.Reason,
	})
}

// ClientRecommendation godoc
// @Summary      Get recommendation by query
// @Description  Returns the most recent campaign matching the query parameters; name matching is a case-insensitive substring.
// @Tags         Client
// @Produce      json
// @Param        campaignName  query  string  false  "Name filter"
// @Param        status        query  string  false  "Status (default active)"
// @Success      200  {object}  map[string]any
// @Router       /client/recommendation [get]
func (h *Handler) ClientRecommendation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := orDefault(q.Get("status"), string(campaign.StatusActive))
	name := q.Get("campaignName")

	items, _, err := h.service.List(r.Context(), campaign.ListFilter{Status: status})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var matches []campaign.Campaign
	for _, c := range items {
		if name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			continue
		}
		matches = append(matches, c)
	}

	if len(matches) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":        true,
			"recommendation": nil,
			"message":        "No recommendations match the query criteria",
		})
		return
	}

	// List is already newest-first, so the best match is the head.
	c := matches[0]
	resp := map[string]any{
		"campaignId":   c.ID,
		"campaignName": c.Name,
		"category":     c.Category,
		"createdAt":    c.CreatedAt,
	}
	if c.Variation != nil {
		resp["html"] = c.Variation.HTML
		resp["css"] = c.Variation.CSS
		resp["text"] = c.Variation.Text
	}

	criteria := map[string]string{}
	if name != "" {
		criteria["campaignName"] = name
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"recommendation": resp,
		"matchCriteria":  criteria,
		"totalMatches":   len(matches),
	})
}

// Sync godoc
// @Summary      Sync store to the hot path
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /admin/sync [post]
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.SyncAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"synced":  n,
	})
}

// writeError maps service errors onto HTTP status codes and records them.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var vErr *campaign.ValidationError
	var mErr *campaign.MatchInputError
	switch {
	case errors.Is(err, campaign.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, campaign.ErrDuplicateName):
		status = http.StatusBadRequest
	case errors.As(err, &vErr):
		status = http.StatusBadRequest
	case errors.As(err, &mErr):
		// Programming error on the caller's side; log loudly, keep 500.
		h.logger.Error("malformed match input", "path", r.URL.Path, "error", err)
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.errorCounter.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(status)).Inc()
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
