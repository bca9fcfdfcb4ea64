package app

import (
	"context"

	"github.com/sennaseo/BOINDANG-sub000/internal/clock"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
)

type CampaignLister interface {
	GetCampaign(ctx context.Context, id int64) (domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
}

type ApplicationLister interface {
	ListApplicationsByUser(ctx context.Context, userID int64) ([]domain.UserApplication, error)
}

// QueryService serves the read side: campaign browsing and a user's decided
// applications. Status is derived at read time, never stored.
type QueryService struct {
	campaigns    CampaignLister
	applications ApplicationLister
	clock        clock.Clock
}

func NewQueryService(campaigns CampaignLister, applications ApplicationLister, clk clock.Clock) *QueryService {
	return &QueryService{
		campaigns:    campaigns,
		applications: applications,
		clock:        clk,
	}
}

type CampaignView struct {
	Campaign domain.Campaign
	Status   domain.CampaignStatus
}

func (s *QueryService) GetCampaign(ctx context.Context, id int64) (CampaignView, error) {
	c, err := s.campaigns.GetCampaign(ctx, id)
	if err != nil {
		return CampaignView{}, err
	}
	return CampaignView{Campaign: c, Status: c.Status(s.clock.Now())}, nil
}

func (s *QueryService) ListCampaigns(ctx context.Context) ([]CampaignView, error) {
	campaigns, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]CampaignView, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, CampaignView{Campaign: c, Status: c.Status(now)})
	}
	return out, nil
}

func (s *QueryService) ListUserApplications(ctx context.Context, userID int64) ([]domain.UserApplication, error) {
	return s.applications.ListApplicationsByUser(ctx, userID)
}
