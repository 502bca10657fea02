package sandbox

import (
	"context"
	"time"

	"github.com/bizlink/partner-portal/internal/core/domain"
)

// Partnership links the viewing account with a partner of the other role.
type Partnership struct {
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	Vendor      *PartnerEnvelope `json:"vendor,omitempty"`
	Distributor *PartnerEnvelope `json:"distributor,omitempty"`
}

type PartnerEnvelope struct {
	User WireUser `json:"user"`
}

type Notification struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type ProductRequest struct {
	ID       string `json:"id"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

type TrainingModule struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// VendorDashboard is the payload of GET /vendor/dashboard.
type VendorDashboard struct {
	Message       string           `json:"message"`
	User          WireUser         `json:"user"`
	Partnerships  []Partnership    `json:"partnerships"`
	Requests      []ProductRequest `json:"requests"`
	Notifications []Notification   `json:"notifications"`
	Stats         VendorStats      `json:"stats"`
	Timestamp     time.Time        `json:"timestamp"`
}

type VendorStats struct {
	TotalPartnerships int `json:"totalPartnerships"`
	TotalRequests     int `json:"totalRequests"`
}

// DistributorDashboard is the payload of GET /distributor/dashboard.
type DistributorDashboard struct {
	Message           string           `json:"message"`
	User              WireUser         `json:"user"`
	Partnerships      []Partnership    `json:"partnerships"`
	AvailableRequests []ProductRequest `json:"availableRequests"`
	Training          []TrainingModule `json:"training"`
	Opportunities     []ProductRequest `json:"opportunities"`
	Notifications     []Notification   `json:"notifications"`
	Stats             DistributorStats `json:"stats"`
	Timestamp         time.Time        `json:"timestamp"`
}

type DistributorStats struct {
	TotalPartnerships  int `json:"totalPartnerships"`
	TrainingCompletion int `json:"trainingCompletion"`
}

var (
	sampleRequests = []ProductRequest{
		{ID: "req-1", Product: "Industrial sensors", Quantity: 250, Status: "open"},
		{ID: "req-2", Product: "Edge gateways", Quantity: 40, Status: "negotiating"},
	}
	sampleTraining = []TrainingModule{
		{ID: "trn-1", Title: "Product fundamentals", Progress: 100},
		{ID: "trn-2", Title: "Sales enablement", Progress: 50},
		{ID: "trn-3", Title: "Technical certification", Progress: 0},
	}
)

// VendorDashboard builds the vendor view for the account behind claims.
// Every distributor account is listed as an active partner.
func (s *Service) VendorDashboard(ctx context.Context, claims *Claims) (*VendorDashboard, error) {
	acc, partners, err := s.dashboardParties(ctx, claims, domain.RoleVendor)
	if err != nil {
		return nil, err
	}
	ships := make([]Partnership, 0, len(partners))
	for _, p := range partners {
		ships = append(ships, Partnership{ID: acc.ID + ":" + p.ID, Status: "active", Distributor: &PartnerEnvelope{User: p.Wire()}})
	}
	return &VendorDashboard{
		Message:      "Vendor dashboard data",
		User:         acc.Wire(),
		Partnerships: ships,
		Requests:     sampleRequests,
		Notifications: []Notification{
			{ID: "ntf-1", Type: "alert", Title: "Low stock", Message: "Edge gateways are below the reorder threshold"},
			{ID: "ntf-2", Type: "info", Title: "New distributor", Message: "A distributor joined your region"},
		},
		Stats:     VendorStats{TotalPartnerships: len(ships), TotalRequests: len(sampleRequests)},
		Timestamp: s.now().UTC(),
	}, nil
}

// DistributorDashboard builds the distributor view for the account behind
// claims. Every vendor account is listed as an active partner.
func (s *Service) DistributorDashboard(ctx context.Context, claims *Claims) (*DistributorDashboard, error) {
	acc, partners, err := s.dashboardParties(ctx, claims, domain.RoleDistributor)
	if err != nil {
		return nil, err
	}
	ships := make([]Partnership, 0, len(partners))
	for _, p := range partners {
		ships = append(ships, Partnership{ID: p.ID + ":" + acc.ID, Status: "active", Vendor: &PartnerEnvelope{User: p.Wire()}})
	}
	return &DistributorDashboard{
		Message:           "Distributor dashboard data",
		User:              acc.Wire(),
		Partnerships:      ships,
		AvailableRequests: sampleRequests,
		Training:          sampleTraining,
		Opportunities:     sampleRequests[:1],
		Notifications: []Notification{
			{ID: "ntf-3", Type: "info", Title: "Training", Message: "A new certification module is available"},
		},
		Stats:     DistributorStats{TotalPartnerships: len(ships), TrainingCompletion: trainingCompletion(sampleTraining)},
		Timestamp: s.now().UTC(),
	}, nil
}

// dashboardParties loads the viewer and every account of the opposite role.
func (s *Service) dashboardParties(ctx context.Context, claims *Claims, role domain.Role) (*Account, []Account, error) {
	if claims.UserType != role {
		return nil, nil, ErrForbidden
	}
	acc, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	var partners []Account
	for _, a := range all {
		if a.UserType != role {
			partners = append(partners, a)
		}
	}
	return acc, partners, nil
}

func trainingCompletion(mods []TrainingModule) int {
	if len(mods) == 0 {
		return 0
	}
	total := 0
	for _, m := range mods {
		total += m.Progress
	}
	return total / len(mods)
}
