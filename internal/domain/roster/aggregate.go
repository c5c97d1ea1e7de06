// Package roster resolves which turmas a viewer sees, who is in them and the
// numbers derived from attendance and payments. The functions in this file
// are pure; Service loads their inputs.
package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/attendance"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/profile"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/turma"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

// Fallbacks shown in place of a relation that could not be resolved.
const (
	NoClassTitle   = "Nenhuma Turma"
	UnknownAthlete = "Aluno não encontrado"
	Unavailable    = "indisponível"
)

// VisibleClasses narrows classes to those the viewer may see. The result
// keeps the input order.
func VisibleClasses(v user.Viewer, classes []turma.Turma, athletes []profile.Athlete) []turma.Turma {
	if v.IsAdmin() {
		return append([]turma.Turma{}, classes...)
	}

	keep := func(turma.Turma) bool { return false }
	switch v.Role {
	case user.RoleProfissional:
		keep = func(t turma.Turma) bool { return t.HasProfessional(v.UserID) }
	case user.RoleResponsavel:
		ids := map[string]bool{}
		g := profile.Guardian{UserID: v.UserID, CPF: v.CPF}
		for _, a := range profile.LinkedAthletes(g, athletes) {
			if a.TurmaID != nil && *a.TurmaID != "" {
				ids[*a.TurmaID] = true
			}
		}
		keep = func(t turma.Turma) bool { return ids[t.ID] }
	case user.RoleAtleta:
		var turmaID string
		for _, a := range athletes {
			if a.UserID == v.UserID && a.TurmaID != nil {
				turmaID = *a.TurmaID
				break
			}
		}
		keep = func(t turma.Turma) bool { return turmaID != "" && t.ID == turmaID }
	}

	out := []turma.Turma{}
	for _, t := range classes {
		if keep(t) {
			out = append(out, t)
			if v.Role == user.RoleAtleta {
				break
			}
		}
	}
	return out
}

// DayFilter selects the classes shown for a day.
type DayFilter func(turma.Turma) bool

// AnyDay keeps every class.
func AnyDay(turma.Turma) bool { return true }

// OnWeekday keeps classes meeting on the named weekday. Case and accents are
// ignored.
func OnWeekday(name string) DayFilter {
	return func(t turma.Turma) bool { return t.MeetsOn(name) }
}

func FilterDay(classes []turma.Turma, keep DayFilter) []turma.Turma {
	if keep == nil {
		keep = AnyDay
	}
	out := []turma.Turma{}
	for _, t := range classes {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Day is one entry of the schedule window.
type Day struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Today   bool   `json:"today"`
}

// WeekWindow is the seven days from today-3 to today+3.
func WeekWindow(today time.Time) []Day {
	today = today.In(utils.Location)
	out := make([]Day, 0, 7)
	for offset := -3; offset <= 3; offset++ {
		d := today.AddDate(0, 0, offset)
		out = append(out, Day{
			Date:    utils.FormatDate(d),
			Weekday: utils.WeekdayName(d.Weekday()),
			Today:   offset == 0,
		})
	}
	return out
}

func MemberCount(classID string, athletes []profile.Athlete) int {
	return len(Members(classID, athletes))
}

func Members(classID string, athletes []profile.Athlete) []profile.Athlete {
	out := []profile.Athlete{}
	for _, a := range athletes {
		if a.InClass(classID) {
			out = append(out, a)
		}
	}
	return out
}

// AttendancePercentage is the share of chamadas where the athlete is present,
// with one decimal. "0.0" when there are no chamadas.
func AttendancePercentage(athleteID string, chamadas []attendance.Chamada) string {
	if len(chamadas) == 0 {
		return "0.0"
	}
	present := 0
	for _, c := range chamadas {
		if c.IsPresent(athleteID) {
			present++
		}
	}
	return fmt.Sprintf("%.1f", float64(present)/float64(len(chamadas))*100)
}

// ClassTitle resolves an athlete's class title.
func ClassTitle(turmaID *string, classes []turma.Turma) string {
	if turmaID == nil || *turmaID == "" {
		return NoClassTitle
	}
	for _, t := range classes {
		if t.ID == *turmaID {
			return t.Title
		}
	}
	return NoClassTitle
}

// AthleteNames maps ids to display names, in order.
func AthleteNames(ids []string, athletes []profile.Athlete) []string {
	byID := make(map[string]string, len(athletes))
	for _, a := range athletes {
		byID[a.UserID] = a.Nome
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok && strings.TrimSpace(n) != "" {
			out = append(out, n)
			continue
		}
		out = append(out, UnknownAthlete)
	}
	return out
}

// MemberRow is an athlete of a class with the derived columns.
type MemberRow struct {
	UserID          string     `json:"userId"`
	Nome            string     `json:"nome"`
	BirthDate       string     `json:"birthDate"`
	Posicao         string     `json:"posicao"`
	Avatar          string     `json:"avatar"`
	Turma           string     `json:"turma"`
	Frequencia      string     `json:"frequencia"`
	StatusPagamento string     `json:"status_pagamento"`
	EndDate         *time.Time `json:"end_date"`
}

func NewMemberRow(a profile.Athlete, classTitle string) MemberRow {
	return MemberRow{
		UserID:          a.UserID,
		Nome:            a.Nome,
		BirthDate:       a.BirthDate,
		Posicao:         a.Posicao,
		Avatar:          a.Avatar,
		Turma:           classTitle,
		StatusPagamento: a.StatusPagamento,
		EndDate:         a.EndDate,
	}
}

type SortBy string

const (
	SortByName       SortBy = "nome"
	SortByAttendance SortBy = "frequencia"
	SortByBirthDate  SortBy = "nascimento"
)

// ParseSort falls back to name order for unknown values.
func ParseSort(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortByAttendance:
		return SortByAttendance
	case SortByBirthDate:
		return SortByBirthDate
	}
	return SortByName
}

// SortMembers sorts rows in place. Names compare with Brazilian Portuguese
// collation and break ties in the other orders.
func SortMembers(rows []MemberRow, by SortBy) {
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	byName := func(i, j int) bool {
		return col.CompareString(rows[i].Nome, rows[j].Nome) < 0
	}

	switch by {
	case SortByAttendance:
		sort.SliceStable(rows, func(i, j int) bool {
			pi, pj := percent(rows[i].Frequencia), percent(rows[j].Frequencia)
			if pi != pj {
				return pi > pj
			}
			return byName(i, j)
		})
	case SortByBirthDate:
		sort.SliceStable(rows, func(i, j int) bool {
			bi, oki := birth(rows[i].BirthDate)
			bj, okj := birth(rows[j].BirthDate)
			switch {
			case oki && okj && !bi.Equal(bj):
				return bi.Before(bj)
			case oki != okj:
				return oki
			}
			return byName(i, j)
		})
	default:
		sort.SliceStable(rows, byName)
	}
}

func percent(s string) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return -1
	}
	return f
}

func birth(s string) (time.Time, bool) {
	t, err := utils.ParseTime(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
