package payment

import (
	"context"
	"time"
)

// Gateway is the card/subscription processor that also issues Pix charges.
type Gateway interface {
	TokenizeCard(ctx context.Context, card Card) (string, error)
	CreatePreapproval(ctx context.Context, req PreapprovalRequest) (*Preapproval, error)
	CreatePix(ctx context.Context, req PixRequest) (*PixCharge, error)
}

// Checkout creates hosted checkout links.
type Checkout interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}

type PreapprovalRequest struct {
	PlanID            string
	CardToken         string
	PayerEmail        string
	Reason            string
	ExternalReference string
	Amount            float64
	Months            int
}

// Preapproval is the recurring subscription created by the gateway. EndDate
// is the end of the recurrence when the gateway reports one.
type Preapproval struct {
	ID      string
	Status  string
	EndDate *time.Time
}

// PreapprovalAuthorized is the only status that activates a plan.
const PreapprovalAuthorized = "authorized"

type PixRequest struct {
	Amount      float64
	Description string
	PayerEmail  string
	PayerName   string
	Reference   string
}

type CheckoutRequest struct {
	PlanID    string
	Email     string
	UserID    string
	AthleteID string
}
