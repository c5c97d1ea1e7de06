package roster

import (
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
)

type Roster struct {
	Day     string        `json:"day"`
	Classes []ClassRoster `json:"classes"`
}

type ClassRoster struct {
	Turma       turma.Turma `json:"turma"`
	MemberCount int         `json:"memberCount"`
	Members     []MemberRow `json:"members"`
}

type DaySchedule struct {
	Day
	Classes []turma.Turma `json:"classes"`
}

type AttendanceRecord struct {
	ChamadaID string `json:"chamadaId"`
	Data      string `json:"data"`
	Presente  bool   `json:"presente"`
}

// AthleteAttendance is an athlete's history in their current class.
type AthleteAttendance struct {
	Athlete    MemberRow          `json:"athlete"`
	Frequencia string             `json:"frequencia"`
	Total      int                `json:"total"`
	Presencas  int                `json:"presencas"`
	Records    []AttendanceRecord `json:"records"`
}

// ChamadaView is a chamada with athlete names resolved.
type ChamadaView struct {
	ID        string   `json:"id"`
	TurmaID   string   `json:"turma_id"`
	Turma     string   `json:"turma"`
	Data      string   `json:"data"`
	Presentes []string `json:"presentes"`
	Ausentes  []string `json:"ausentes"`
}
