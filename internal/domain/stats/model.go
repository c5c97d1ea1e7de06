package stats

// Dashboard is the home screen summary for one viewer.
type Dashboard struct {
	Date         string          `json:"date"`
	ClassesToday int             `json:"classesToday"`
	Athletes     int             `json:"athletes"`
	Payments     PaymentStats    `json:"payments"`
	ThisMonth    MonthlyCounts   `json:"thisMonth"`
	History      []MonthlyCounts `json:"history"`
}

// PaymentStats buckets athletes by plan state.
type PaymentStats struct {
	EmDia    int `json:"emDia"`
	Vencido  int `json:"vencido"`
	SemPlano int `json:"semPlano"`
}

type MonthlyCounts struct {
	Month    string `json:"month"` // MM-YYYY
	Chamadas int    `json:"chamadas"`
	Events   int    `json:"events"`
	Reports  int    `json:"reports"`
	Present  int    `json:"present"`
	Absent   int    `json:"absent"`
	Rate     string `json:"rate"`
}

// PaymentState of a single athlete.
type PaymentState string

const (
	EmDia    PaymentState = "em dia"
	Vencido  PaymentState = "vencido"
	SemPlano PaymentState = "sem plano"
)

// HistoryMonths is how many months the history covers, current included.
const HistoryMonths = 6
