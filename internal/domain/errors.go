// Gli errori di dominio sono valori sentinella riusati da repository e
// handler: permettono agli strati superiori di distinguere i vari
// fallimenti di guardia (temporali, di identità, di unicità) senza
// ispezionare stringhe. I messaggi sono già pronti per l'utente finale.
package domain

import "errors"

var (
	ErrNotFound   = errors.New("risorsa non trovata")
	ErrValidation = errors.New("dati non validi")
	// ErrConflict indica un turno in conflitto sulla stessa
	// combinazione (settimana, giorno, servizio).
	ErrConflict  = errors.New("esiste già un turno in conflitto")
	ErrDuplicate = errors.New("il dipendente ha già un turno in quella fascia")
	ErrOverlap   = errors.New("il periodo si sovrappone a un'assenza esistente")

	ErrNotEligible = errors.New("il dipendente non ha la mansione richiesta")
	ErrNotActive   = errors.New("il dipendente non è attivo")

	ErrPastShift      = errors.New("il turno è già passato")
	ErrDeadlinePassed = errors.New("il termine per candidarsi è scaduto")
	ErrExpired        = errors.New("la richiesta di sostituzione è scaduta")

	ErrSelfAssign     = errors.New("esiste già una richiesta di sostituzione attiva per questo turno")
	ErrSelfSubstitute = errors.New("non puoi candidarti alla tua stessa richiesta")
	// ErrNotAvailable: la richiesta non è più aperta, qualcun altro si
	// è già candidato o è stata risolta.
	ErrNotAvailable = errors.New("la richiesta di sostituzione non è più disponibile")

	ErrPermission = errors.New("permesso negato")
)
