package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"slices"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"github.com/damario-dev/turni-manager/backend/internal/utils"
)

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "elenco dello staff recuperato", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string   `json:"username" validate:"required"`
		FullName    string   `json:"fullName" validate:"required"`
		Email       string   `json:"email" validate:"required,email"`
		PrimaryRole string   `json:"primaryRole" validate:"required,oneof=FATTORINO CUCINA SALA PIZZAIOLO"`
		Roles       []string `json:"roles" validate:"required,min=1,dive,oneof=FATTORINO CUCINA SALA PIZZAIOLO ADMIN"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !slices.Contains(req.Roles, req.PrimaryRole) {
		h.errorResponse(w, r, "la mansione principale deve comparire tra le mansioni assegnate")
		return
	}

	// La password iniziale viene generata e spedita via email
	password := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	roles := make([]domain.Role, 0, len(req.Roles))
	for _, role := range req.Roles {
		roles = append(roles, domain.Role(role))
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        req.Email,
		PrimaryRole:  domain.Role(req.PrimaryRole),
		Roles:        roles,
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "users_username_key":
				h.badRequest(w, r, errors.New("username già in uso"))
			case pgErr.ConstraintName == "users_email_key":
				h.badRequest(w, r, errors.New("email già in uso"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.publishNotification(domain.NotificationMessage{
		Type: "create_user",
		To:   user.Email,
		Data: domain.CreateUserNotificationData{
			FullName: req.FullName,
			Username: req.Username,
			Password: password,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "utente creato", user)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.successResponse(w, r, "informazioni utente recuperate", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName    *string  `json:"fullName"`
		Email       *string  `json:"email" validate:"omitempty,email"`
		PrimaryRole *string  `json:"primaryRole" validate:"omitempty,oneof=FATTORINO CUCINA SALA PIZZAIOLO"`
		Roles       []string `json:"roles" validate:"omitempty,min=1,dive,oneof=FATTORINO CUCINA SALA PIZZAIOLO ADMIN"`
		IsActive    *bool    `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.PrimaryRole != nil {
		user.PrimaryRole = domain.Role(*req.PrimaryRole)
	}
	if req.Roles != nil {
		roles := make([]domain.Role, 0, len(req.Roles))
		for _, role := range req.Roles {
			roles = append(roles, domain.Role(role))
		}
		user.Roles = roles
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if !user.HasRole(user.PrimaryRole) {
		h.errorResponse(w, r, "la mansione principale deve comparire tra le mansioni assegnate")
		return
	}

	if err := h.repository.UpdateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "users_email_key":
				h.badRequest(w, r, errors.New("email già in uso"))
			case pgErr.ConstraintName == "users_username_key":
				h.badRequest(w, r, errors.New("username già in uso"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "aggiornamento non riuscito, riprova")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "informazioni utente aggiornate", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.repository.DeleteUser(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "utente eliminato", nil)
}

func (h *Handler) UpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	var req struct {
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user.PasswordHash = string(hashedPassword)
	if err := h.repository.UpdateUser(user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "password aggiornata", nil)
}
