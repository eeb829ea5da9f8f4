package domain

import "time"

type SubstitutionStatus string

const (
	SubstitutionStatusPending  SubstitutionStatus = "PENDING"
	SubstitutionStatusApplied  SubstitutionStatus = "APPLIED"
	SubstitutionStatusApproved SubstitutionStatus = "APPROVED"
	SubstitutionStatusRejected SubstitutionStatus = "REJECTED"
	SubstitutionStatusExpired  SubstitutionStatus = "EXPIRED"
)

// Substitution è la richiesta con cui il titolare di un turno cerca un
// collega che lo copra. Al massimo una richiesta non terminale può
// esistere per turno (vincolo a livello di database).
//
// Ciclo di vita: PENDING -> APPLIED -> APPROVED | REJECTED, con
// scadenza implicita (EXPIRED) calcolata in lettura quando la deadline
// è passata senza risoluzione: non esiste nessun processo in
// background che faccia scadere le richieste.
type Substitution struct {
	ID           int64              `json:"id"`
	ShiftID      int64              `json:"shiftID"`
	RequesterID  int64              `json:"requesterID"`
	SubstituteID *int64             `json:"substituteID"`
	Status       SubstitutionStatus `json:"status"`
	RequestNote  string             `json:"requestNote"`
	ResponseNote string             `json:"responseNote"`
	Deadline     time.Time          `json:"deadline"`
	CreatedAt    time.Time          `json:"createdAt"`
	Version      int32              `json:"-"`
}

// EffectiveStatus è lo stato osservabile della richiesta: una richiesta
// ancora PENDING o APPLIED la cui deadline è passata va trattata come
// EXPIRED in ogni lettura e in ogni guardia.
func (s *Substitution) EffectiveStatus(now time.Time) SubstitutionStatus {
	if (s.Status == SubstitutionStatusPending || s.Status == SubstitutionStatusApplied) && !now.Before(s.Deadline) {
		return SubstitutionStatusExpired
	}
	return s.Status
}

// IsTerminal riporta se lo stato non ammette ulteriori transizioni.
func (s SubstitutionStatus) IsTerminal() bool {
	return s == SubstitutionStatusApproved || s == SubstitutionStatusRejected || s == SubstitutionStatusExpired
}

// SubstitutionDetail è la richiesta con il turno a cui si riferisce,
// per gli elenchi consultati da chi vuole candidarsi.
type SubstitutionDetail struct {
	Substitution
	Shift *Shift `json:"shift"`
}
