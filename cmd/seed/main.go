package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/damario-dev/turni-manager/backend/internal/calendar"
	"github.com/damario-dev/turni-manager/backend/internal/config"
	"github.com/damario-dev/turni-manager/backend/internal/repository"
	"github.com/damario-dev/turni-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var weekStartFlag string

	flag.IntVar(&op, "op", 0, "operazione da eseguire (1: inserisci utenti casuali, 2: inserisci la configurazione di base dell'organico, 3: inserisci disponibilità casuali per una settimana)")
	flag.IntVar(&n, "n", 5, "numero di record da inserire")
	flag.StringVar(&weekStartFlag, "week-start", "", "settimana (YYYY-MM-DD) per cui generare le disponibilità")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossibile caricare la configurazione", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("impossibile creare il pool di connessioni", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open non apre davvero la connessione, serve un ping esplicito
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("impossibile connettersi al database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("nessuna operazione specificata")
	case 1:
		if n <= 0 {
			slog.Error("indicare un numero di utenti valido")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.EmailDomain)
			if err != nil {
				slog.Error("impossibile generare l'utente casuale", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("impossibile inserire l'utente", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("utenti inseriti", slog.Int("count", n-cnt))
	case 2:
		limits := utils.DefaultShiftLimits()
		if err := repo.ReplaceShiftLimits(limits); err != nil {
			slog.Error("impossibile inserire la configurazione dell'organico", slog.String("error", err.Error()))
			return
		}

		slog.Info("configurazione dell'organico inserita", slog.Int("count", len(limits)))
	case 3:
		if weekStartFlag == "" {
			slog.Error("indicare la settimana con -week-start")
			return
		}

		day, err := calendar.ParseDate(weekStartFlag)
		if err != nil {
			slog.Error("data non valida, formato atteso YYYY-MM-DD", slog.String("error", err.Error()))
			return
		}
		weekStart := calendar.NormalizeWeekStart(day)

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("impossibile recuperare gli utenti", slog.String("error", err.Error()))
			return
		}

		cnt := 0
		for _, user := range users {
			if !user.IsActive {
				continue
			}

			entries := utils.GenerateRandomWeekAvailability()
			if err := repo.ReplaceWeekAvailability(user.ID, weekStart, entries); err != nil {
				slog.Error("impossibile inserire la disponibilità", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("disponibilità inserite", slog.String("weekStart", weekStart.Format(calendar.DateLayout)), slog.Int("count", cnt))
	default:
		slog.Error("operazione non riconosciuta")
	}
}
