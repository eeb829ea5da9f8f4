package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/damario-dev/turni-manager/backend/internal/config"
	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

// rawNotification tiene il payload grezzo per poterlo decodificare nel
// tipo giusto solo dopo aver letto Type.
type rawNotification struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

func buildBody(notification *rawNotification) (subject string, body string, err error) {
	switch notification.Type {
	case "create_user":
		var data domain.CreateUserNotificationData
		if err := json.Unmarshal(notification.Data, &data); err != nil {
			return "", "", err
		}
		subject = "Pizzeria da Mario - il tuo account per i turni"
		body = fmt.Sprintf(
			"Ciao %s,\n\nti abbiamo creato un account sul gestionale dei turni.\n\nUsername: %s\nPassword: %s\n\nCambia la password al primo accesso.\n",
			data.FullName, data.Username, data.Password,
		)
	case "reset_password":
		var data domain.ResetPasswordNotificationData
		if err := json.Unmarshal(notification.Data, &data); err != nil {
			return "", "", err
		}
		subject = "Pizzeria da Mario - reimposta la password"
		body = fmt.Sprintf(
			"Ciao %s,\n\nil codice per reimpostare la password è: %s\n\nScade tra %d minuti. Se non hai chiesto tu il reset, ignora questa email.\n",
			data.FullName, data.OTP, data.Expiration,
		)
	case "substitution_requested":
		var data domain.SubstitutionRequestedNotificationData
		if err := json.Unmarshal(notification.Data, &data); err != nil {
			return "", "", err
		}
		subject = "Pizzeria da Mario - cercasi sostituto"
		body = fmt.Sprintf(
			"%s cerca un sostituto.\n\nGiorno: %s\nServizio: %s\nMansione: %s\nInizio: %s\nCandidature entro: %s\n\nNota: %s\n\nChi può coprire il turno si candidi dal gestionale.\n",
			data.RequesterName, data.ShiftDate, data.ShiftType, data.Role, data.StartTime, data.Deadline, data.Note,
		)
	case "substitution_applied":
		var data domain.SubstitutionAppliedNotificationData
		if err := json.Unmarshal(notification.Data, &data); err != nil {
			return "", "", err
		}
		subject = "Pizzeria da Mario - candidatura per sostituzione"
		body = fmt.Sprintf(
			"%s si è candidato per coprire il turno di %s.\n\nGiorno: %s\nServizio: %s\nMansione: %s\n\nLa candidatura è in attesa dell'approvazione del responsabile.\n",
			data.SubstituteName, data.RequesterName, data.ShiftDate, data.ShiftType, data.Role,
		)
	default:
		return "", "", fmt.Errorf("tipo di notifica non supportato: %s", notification.Type)
	}

	return subject, body, nil
}

func main() {
	/**********************************************
	 * Logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * Configurazione
	 **********************************************/
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossibile caricare la configurazione", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Client SMTP
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("impossibile creare il client SMTP", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("impossibile connettersi al server SMTP", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * Connessione a RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("impossibile connettersi a RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("impossibile aprire il canale", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"notification_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("impossibile dichiarare la coda", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("impossibile consumare i messaggi", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("messaggio ricevuto", slog.String("message", string(msg.Body)))

				notification := &rawNotification{}
				if err := json.Unmarshal(msg.Body, notification); err != nil {
					logger.Error("deserializzazione della notifica fallita", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				subject, body, err := buildBody(notification)
				if err != nil {
					logger.Error("costruzione della notifica fallita", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				email := mail.NewMsg()
				if err := email.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("impossibile impostare il mittente", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := email.To(notification.To); err != nil {
					logger.Error("impossibile impostare il destinatario", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				email.Subject(subject)
				email.SetBodyString(mail.TypeTextPlain, body)

				if err := client.DialAndSend(email); err != nil {
					logger.Error("invio dell'email fallito", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // il messaggio torna in coda
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("in attesa di messaggi... (CTRL+C per uscire)")
	<-sigChan

	slog.Info("arresto del notifier...")
	cancel()
	wg.Wait()
	slog.Info("notifier arrestato correttamente")
}
