package http

import (
	"context"
	"net/http"

	"github.com/sennaseo/BOINDANG-sub000/internal/app"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

// CampaignApplier is the minimal interface needed to decide an application.
type CampaignApplier interface {
	Apply(ctx context.Context, campaignID, userID int64) (app.ApplyResult, error)
}

func handleApply(svc CampaignApplier, w http.ResponseWriter, r *http.Request, campaignID int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	userID, ok := callerUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid user identity")
		return
	}

	res, err := svc.Apply(r.Context(), campaignID, userID)
	if err != nil {
		switch err {
		case domain.ErrCampaignNotFound:
			writeError(w, http.StatusNotFound, codeCampaignNotFound, err.Error())
		case domain.ErrCampaignNotAvailable:
			writeError(w, http.StatusBadRequest, codeCampaignNotAvailable, err.Error())
		case domain.ErrAlreadyApplied:
			writeError(w, http.StatusConflict, codeAlreadyApplied, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	status := http.StatusOK
	if res.Selected {
		status = http.StatusCreated
	}
	writeJSON(w, status, applyResponse{
		CampaignID: res.CampaignID,
		Selected:   res.Selected,
	})
}

type applyResponse struct {
	CampaignID int64 `json:"campaignId"`
	Selected   bool  `json:"selected"`
}
