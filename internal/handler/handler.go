package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/it"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	it_translations "github.com/go-playground/validator/v10/translations/it"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/damario-dev/turni-manager/backend/internal/config"
	"github.com/damario-dev/turni-manager/backend/internal/repository"
)

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          *repository.Repository
	translator          ut.Translator
	notificationChannel *amqp.Channel
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	itLocale := it.New()
	uni := ut.New(itLocale, itLocale)
	trans, _ := uni.GetTranslator("it")
	if err := it_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notifCh,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// Autenticazione
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// Tutte le API seguenti richiedono il login
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.requiredAdmin).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo) // tutto lo staff può vedere i colleghi
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.requiredAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.requiredAdmin).Delete("/", h.DeleteUser)
				r.With(h.requiredAdmin).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/shift-limits", func(r chi.Router) {
			r.Get("/", h.GetShiftLimits)
			r.With(h.requiredAdmin).Put("/", h.ReplaceShiftLimits)
		})

		r.Route("/schedules/{weekStart}", func(r chi.Router) {
			r.Use(h.scheduleWeek)
			r.Get("/", h.GetWeekSchedule)
			r.With(h.requiredAdmin).Delete("/", h.DeleteSchedule)
			r.With(h.requiredAdmin).Post("/shifts", h.PlaceShift)
			r.With(h.requiredAdmin).Get("/coverage", h.GetWeekCoverage)
			r.With(h.requiredAdmin).Get("/availability", h.GetWeekAvailabilityForAllUsers)
		})

		r.Route("/shifts/{id}", func(r chi.Router) {
			r.Use(h.shiftInfo)
			r.With(h.requiredAdmin).Delete("/", h.DeleteShift)
			r.With(h.requiredAdmin).Put("/worked-hours", h.RecordWorkedHours)
			r.With(h.myInfo).With(h.preventInactiveUser).Post("/substitution", h.RequestSubstitution)
		})

		r.Route("/availability/{weekStart}", func(r chi.Router) {
			r.Use(h.scheduleWeek)
			r.Use(h.myInfo)
			r.Get("/", h.GetMyWeekAvailability)
			r.With(h.preventInactiveUser).Put("/", h.SetMyWeekAvailability)
		})

		r.Route("/absences", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyAbsences)
			r.With(h.preventInactiveUser).Post("/", h.RecordAbsence)
			r.With(h.requiredAdmin).Get("/all", h.GetAllAbsences)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.absenceInfo)
				r.Delete("/", h.DeleteMyAbsence)
				r.With(h.requiredAdmin).Patch("/approve", h.ApproveAbsence)
			})
		})

		r.Route("/substitutions", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetSubstitutions)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.substitutionInfo)
				r.Get("/", h.GetSubstitution)
				r.With(h.preventInactiveUser).Post("/apply", h.ApplyForSubstitution)
				r.With(h.requiredAdmin).Post("/approve", h.ApproveSubstitution)
				r.With(h.requiredAdmin).Post("/reject", h.RejectSubstitution)
			})
		})
	})
}
