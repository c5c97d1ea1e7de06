package attendance

import (
	"strings"
	"time"
)

// Chamada is one roll call of a turma on a date (DD-MM-YYYY).
type Chamada struct {
	ID            string    `firestore:"-" json:"id"`
	TurmaID       string    `firestore:"turma_id" json:"turma_id"`
	Data          string    `firestore:"data" json:"data"`
	Presentes     []string  `firestore:"presentes" json:"presentes"`
	Ausentes      []string  `firestore:"ausentes" json:"ausentes"`
	RegistradoPor string    `firestore:"registradoPor" json:"registradoPor"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (c *Chamada) SetID(id string) { c.ID = id }

func (c Chamada) IsPresent(athleteID string) bool {
	return contains(c.Presentes, athleteID)
}

func (c Chamada) IsAbsent(athleteID string) bool {
	return contains(c.Ausentes, athleteID)
}

// Mentions reports whether the athlete appears on either list.
func (c Chamada) Mentions(athleteID string) bool {
	return c.IsPresent(athleteID) || c.IsAbsent(athleteID)
}

type RecordInput struct {
	Data      string   `json:"data" validate:"ddmmyyyy"`
	Presentes []string `json:"presentes"`
	Ausentes  []string `json:"ausentes"`
}

func (in *RecordInput) Trim() {
	in.Data = strings.TrimSpace(in.Data)
	in.Presentes = dedupe(in.Presentes)
	in.Ausentes = dedupe(in.Ausentes)
}

type UpdateInput struct {
	Presentes *[]string `json:"presentes,omitempty"`
	Ausentes  *[]string `json:"ausentes,omitempty"`
}

// AthleteRecord is one chamada seen from a single athlete.
type AthleteRecord struct {
	ChamadaID string `json:"chamadaId"`
	TurmaID   string `json:"turma_id"`
	Data      string `json:"data"`
	Presente  bool   `json:"presente"`
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
