package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mercadopago/sdk-go/pkg/cardtoken"
	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
)

// MercadoPago implements Gateway with the official SDK.
type MercadoPago struct {
	cards        cardtoken.Client
	preapprovals preapproval.Client
	payments     mppayment.Client
	backURL      string
}

var _ Gateway = (*MercadoPago)(nil)

// NewMercadoPago builds the adapter. backURL is where the payer lands after
// authorizing a subscription.
func NewMercadoPago(accessToken, backURL string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		cards:        cardtoken.NewClient(cfg),
		preapprovals: preapproval.NewClient(cfg),
		payments:     mppayment.NewClient(cfg),
		backURL:      backURL,
	}, nil
}

// POST /v1/card_tokens
func (m *MercadoPago) TokenizeCard(ctx context.Context, card Card) (string, error) {
	res, err := m.cards.Create(ctx, cardtoken.Request{
		CardNumber:      card.Number,
		ExpirationMonth: card.ExpMonth,
		ExpirationYear:  card.ExpYear,
		SecurityCode:    card.SecurityCode,
		Cardholder: &cardtoken.CardholderRequest{
			Name: card.HolderName,
			Identification: &cardtoken.IdentificationRequest{
				Type:   "CPF",
				Number: card.DocumentNumber,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", fmt.Errorf("card token response without id")
	}
	return res.ID, nil
}

// POST /preapproval
func (m *MercadoPago) CreatePreapproval(ctx context.Context, req PreapprovalRequest) (*Preapproval, error) {
	body := preapproval.Request{
		PreapprovalPlanID: req.PlanID,
		CardTokenID:       req.CardToken,
		PayerEmail:        req.PayerEmail,
		Reason:            req.Reason,
		ExternalReference: req.ExternalReference,
		BackURL:           m.backURL,
		Status:            PreapprovalAuthorized,
	}
	if req.PlanID == "" {
		body.AutoRecurring = &preapproval.AutoRecurringRequest{
			Frequency:         req.Months,
			FrequencyType:     "months",
			TransactionAmount: req.Amount,
			CurrencyID:        "BRL",
		}
	}
	res, err := m.preapprovals.Create(ctx, body)
	if err != nil {
		return nil, err
	}
	return decodePreapproval(res)
}

// decodePreapproval keeps only the fields written back to the athlete,
// reading them from the response's wire form.
func decodePreapproval(res any) (*Preapproval, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	var wire struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		AutoRecurring struct {
			EndDate *time.Time `json:"end_date"`
		} `json:"auto_recurring"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode preapproval: %w", err)
	}
	p := &Preapproval{ID: wire.ID, Status: wire.Status}
	if wire.AutoRecurring.EndDate != nil && !wire.AutoRecurring.EndDate.IsZero() {
		end := wire.AutoRecurring.EndDate.UTC()
		p.EndDate = &end
	}
	return p, nil
}

// POST /v1/payments with payment_method_id=pix
func (m *MercadoPago) CreatePix(ctx context.Context, req PixRequest) (*PixCharge, error) {
	res, err := m.payments.Create(ctx, mppayment.Request{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: req.Reference,
		Payer: &mppayment.PayerRequest{
			Email:     req.PayerEmail,
			FirstName: req.PayerName,
		},
	})
	if err != nil {
		return nil, err
	}
	return &PixCharge{
		ID:           strconv.Itoa(res.ID),
		Status:       res.Status,
		TicketURL:    res.PointOfInteraction.TransactionData.TicketURL,
		QRCode:       res.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: res.PointOfInteraction.TransactionData.QRCodeBase64,
	}, nil
}
