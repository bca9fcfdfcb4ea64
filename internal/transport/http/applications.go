package http

import (
	"context"
	"net/http"
	"time"

	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

// ApplicationLister serves a user's decided applications from the ledger.
type ApplicationLister interface {
	ListUserApplications(ctx context.Context, userID int64) ([]domain.UserApplication, error)
}

func handleMyApplications(svc ApplicationLister, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	userID, ok := callerUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid user identity")
		return
	}

	apps, err := svc.ListUserApplications(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	out := make([]userApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, userApplicationResponse{
			CampaignID: a.CampaignID,
			Title:      a.Title,
			Selected:   a.Selected,
			AppliedAt:  a.AppliedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type userApplicationResponse struct {
	CampaignID int64     `json:"campaignId"`
	Title      string    `json:"title"`
	Selected   bool      `json:"selected"`
	AppliedAt  time.Time `json:"appliedAt"`
}
