package payment

import (
	"strings"
	"time"
)

// Plan ids, also written to the athlete's status_pagamento.
const (
	PlanMensal     = "mensal"
	PlanTrimestral = "trimestral"
	PlanSemestral  = "semestral"
	PlanAnual      = "anual"
)

type Plan struct {
	ID     string  `json:"id"`
	Nome   string  `json:"nome"`
	Months int     `json:"months"`
	Amount float64 `json:"amount"`
}

var plans = []Plan{
	{ID: PlanMensal, Nome: "Plano Mensal", Months: 1, Amount: 150},
	{ID: PlanTrimestral, Nome: "Plano Trimestral", Months: 3, Amount: 420},
	{ID: PlanSemestral, Nome: "Plano Semestral", Months: 6, Amount: 810},
	{ID: PlanAnual, Nome: "Plano Anual", Months: 12, Amount: 1500},
}

// Plans returns the catalogue in display order.
func Plans() []Plan {
	return append([]Plan{}, plans...)
}

func PlanByID(id string) (Plan, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Payment history statuses.
const (
	StatusAprovado  = "aprovado"
	StatusPendente  = "pendente"
	StatusFalhou    = "falhou"
	StatusCancelado = "cancelado"
)

// Payment methods.
const (
	MethodCartao = "cartao"
	MethodPix    = "pix"
	MethodStripe = "stripe"
)

// Historico is one entry of historico_pagamentos.
type Historico struct {
	ID          string    `firestore:"-" json:"id"`
	UserID      string    `firestore:"userId" json:"userId"`
	AthleteID   string    `firestore:"athleteId" json:"athleteId"`
	Plano       string    `firestore:"plano" json:"plano"`
	Valor       float64   `firestore:"valor" json:"valor"`
	Metodo      string    `firestore:"metodo" json:"metodo"`
	Status      string    `firestore:"status" json:"status"`
	IDTransacao string    `firestore:"id_transacao" json:"id_transacao"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}

func (h *Historico) SetID(id string) { h.ID = id }

// Card holds raw card fields. They are only forwarded to the tokenizer and
// never stored or logged.
type Card struct {
	Number         string `json:"number" validate:"required,min=12,max=19,numeric"`
	HolderName     string `json:"holderName" validate:"required"`
	ExpMonth       string `json:"expMonth" validate:"required,len=2,numeric"`
	ExpYear        string `json:"expYear" validate:"required,len=4,numeric"`
	SecurityCode   string `json:"securityCode" validate:"required,min=3,max=4,numeric"`
	DocumentNumber string `json:"documentNumber" validate:"required,cpf"`
}

type CardPaymentInput struct {
	AthleteID  string `json:"athleteId" validate:"required"`
	Plan       string `json:"plan" validate:"required"`
	PayerEmail string `json:"payerEmail" validate:"required,email"`
	Card       Card   `json:"card"`
}

func (in *CardPaymentInput) Trim() {
	in.AthleteID = strings.TrimSpace(in.AthleteID)
	in.Plan = strings.ToLower(strings.TrimSpace(in.Plan))
	in.PayerEmail = strings.TrimSpace(in.PayerEmail)
	in.Card.Number = strings.ReplaceAll(strings.TrimSpace(in.Card.Number), " ", "")
	in.Card.HolderName = strings.TrimSpace(in.Card.HolderName)
	in.Card.ExpMonth = strings.TrimSpace(in.Card.ExpMonth)
	in.Card.ExpYear = strings.TrimSpace(in.Card.ExpYear)
	in.Card.SecurityCode = strings.TrimSpace(in.Card.SecurityCode)
}

type PixInput struct {
	AthleteID  string `json:"athleteId" validate:"required"`
	Plan       string `json:"plan" validate:"required"`
	PayerEmail string `json:"payerEmail" validate:"required,email"`
	PayerName  string `json:"payerName,omitempty"`
}

func (in *PixInput) Trim() {
	in.AthleteID = strings.TrimSpace(in.AthleteID)
	in.Plan = strings.ToLower(strings.TrimSpace(in.Plan))
	in.PayerEmail = strings.TrimSpace(in.PayerEmail)
	in.PayerName = strings.TrimSpace(in.PayerName)
}

type CheckoutInput struct {
	AthleteID string `json:"athleteId" validate:"required"`
	Plan      string `json:"plan" validate:"required"`
}

func (in *CheckoutInput) Trim() {
	in.AthleteID = strings.TrimSpace(in.AthleteID)
	in.Plan = strings.ToLower(strings.TrimSpace(in.Plan))
}

// Subscription is what an authorized card payment leaves on the athlete.
type Subscription struct {
	AthleteID   string     `json:"athleteId"`
	Plan        string     `json:"plan"`
	IDTransacao string     `json:"id_transacao"`
	Status      string     `json:"status"`
	EndDate     *time.Time `json:"end_date"`
}

// PixCharge is a pending Pix payment for the payer to settle.
type PixCharge struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	TicketURL    string `json:"ticket_url"`
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
}
