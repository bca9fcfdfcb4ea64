package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sennaseo/BOINDANG-sub000/internal/app"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

type stubQueryService struct {
	views []app.CampaignView
	err   error
}

func (s *stubQueryService) GetCampaign(_ context.Context, id int64) (app.CampaignView, error) {
	if s.err != nil {
		return app.CampaignView{}, s.err
	}
	for _, v := range s.views {
		if v.Campaign.ID == id {
			return v, nil
		}
	}
	return app.CampaignView{}, domain.ErrCampaignNotFound
}

func (s *stubQueryService) ListCampaigns(_ context.Context) ([]app.CampaignView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.views, nil
}

func testView(id int64, status domain.CampaignStatus) app.CampaignView {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return app.CampaignView{
		Campaign: domain.Campaign{
			ID:       id,
			Name:     "zero-sugar week",
			Capacity: 100,
			StartAt:  start,
			EndAt:    start.Add(7 * 24 * time.Hour),
		},
		Status: status,
	}
}

func TestHandleListCampaigns(t *testing.T) {
	t.Parallel()

	svc := &stubQueryService{views: []app.CampaignView{
		testView(1, domain.CampaignStatusOpen),
		testView(2, domain.CampaignStatusClosed),
	}}

	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	rec := httptest.NewRecorder()
	HandleListCampaigns(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"OPEN"`) || !strings.Contains(body, `"status":"CLOSED"`) {
		t.Fatalf("expected derived statuses in body, got %q", body)
	}
}

func TestHandleGetCampaign(t *testing.T) {
	t.Parallel()

	svc := &stubQueryService{views: []app.CampaignView{testView(1, domain.CampaignStatusOpen)}}
	handler := HandleCampaignRoutes(&stubApplyService{}, svc, &stubApplicationLister{})

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/campaigns/1", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"id":1`) {
			t.Fatalf("expected campaign in body, got %q", rec.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/campaigns/99", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("unknown subroute", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/campaigns/1/unknown", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
