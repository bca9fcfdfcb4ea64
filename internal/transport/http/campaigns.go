package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sennaseo/BOINDANG-sub000/internal/app"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

// CampaignQuerier is the minimal interface needed for campaign browsing.
type CampaignQuerier interface {
	GetCampaign(ctx context.Context, id int64) (app.CampaignView, error)
	ListCampaigns(ctx context.Context) ([]app.CampaignView, error)
}

// HandleListCampaigns returns an HTTP handler for GET /campaigns.
func HandleListCampaigns(svc CampaignQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		views, err := svc.ListCampaigns(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		out := make([]campaignResponse, 0, len(views))
		for _, v := range views {
			out = append(out, toCampaignResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// HandleCampaignRoutes dispatches the /campaigns/ subtree:
//
//	GET  /campaigns/my-applications
//	GET  /campaigns/{id}
//	POST /campaigns/{id}/apply
func HandleCampaignRoutes(applier CampaignApplier, querier CampaignQuerier, lister ApplicationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 2 || parts[0] != "campaigns" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if len(parts) == 2 && parts[1] == "my-applications" {
			handleMyApplications(lister, w, r)
			return
		}

		campaignID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || campaignID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		switch {
		case len(parts) == 2:
			handleGetCampaign(querier, w, r, campaignID)
		case len(parts) == 3 && parts[2] == "apply":
			handleApply(applier, w, r, campaignID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleGetCampaign(svc CampaignQuerier, w http.ResponseWriter, r *http.Request, campaignID int64) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	view, err := svc.GetCampaign(r.Context(), campaignID)
	if err != nil {
		if err == domain.ErrCampaignNotFound {
			writeError(w, http.StatusNotFound, codeCampaignNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(view))
}

type campaignResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Hashtags    string    `json:"hashtags"`
	Notice      string    `json:"notice"`
	Capacity    int       `json:"capacity"`
	Applicants  int       `json:"currentApplicants"`
	Status      string    `json:"status"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
}

func toCampaignResponse(v app.CampaignView) campaignResponse {
	c := v.Campaign
	return campaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Hashtags:    c.Hashtags,
		Notice:      c.Notice,
		Capacity:    c.Capacity,
		Applicants:  c.Applicants,
		Status:      string(v.Status),
		StartAt:     c.StartAt,
		EndAt:       c.EndAt,
	}
}
