package patients

import (
	"strings"
	"time"
)

// Species define las especies atendidas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

func ParseSpecies(s string) (Species, bool) {
	switch Species(strings.ToLower(strings.TrimSpace(s))) {
	case SpeciesDog:
		return SpeciesDog, true
	case SpeciesCat:
		return SpeciesCat, true
	}
	return "", false
}

// Owner es el tutor responsable del paciente.
type Owner struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// HistoryEntry es una consulta registrada en la historia clínica.
type HistoryEntry struct {
	ID           string
	Date         string // YYYY-MM-DD
	Reason       string
	Diagnosis    string
	Treatment    string
	Observations string
	VetID        string
	CreatedAt    time.Time
}

// Patient es una mascota atendida en la clínica.
// History se mantiene con la entrada más reciente primero.
type Patient struct {
	ID      string
	Name    string
	Species Species
	Breed   string
	Age     int     // años
	Weight  float64 // kg
	Color   string
	Owner   Owner
	History []HistoryEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}
