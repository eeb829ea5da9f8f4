package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Marco", "Giulia", "Luca", "Sofia", "Alessandro", "Martina", "Francesca",
	"Davide", "Chiara", "Matteo", "Elena", "Simone", "Sara", "Andrea",
	"Valentina", "Giorgio", "Paola", "Antonio", "Ilaria", "Stefano",
}

var commonLastNames = []string{
	"Rossi", "Russo", "Ferrari", "Esposito", "Bianchi", "Romano", "Colombo",
	"Ricci", "Marino", "Greco", "Bruno", "Gallo", "Conti", "De Luca",
	"Mancini", "Costa", "Giordano", "Rizzo", "Lombardi", "Moretti",
}

func GenerateRandomFullName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	username := strings.ToLower(fullName)
	username = strings.ReplaceAll(username, " ", ".")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomRoles estrae una mansione principale e, una volta su
// tre, una seconda mansione di supporto.
func GenerateRandomRoles() (domain.Role, []domain.Role) {
	primary := domain.SchedulableRoles[rand.Intn(len(domain.SchedulableRoles))]
	roles := []domain.Role{primary}

	if rand.Intn(3) == 0 {
		extra := domain.SchedulableRoles[rand.Intn(len(domain.SchedulableRoles))]
		if extra != primary {
			roles = append(roles, extra)
		}
	}

	return primary, roles
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	primary, roles := GenerateRandomRoles()

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        strings.ReplaceAll(username, ".", "") + "@" + emailDomainName,
		PrimaryRole:  primary,
		Roles:        roles,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

// DefaultShiftLimits è la configurazione di partenza dell'organico di
// una pizzeria con consegne: la cena pesa più del pranzo e il fine
// settimana più dei feriali.
func DefaultShiftLimits() []*domain.ShiftLimit {
	limits := make([]*domain.ShiftLimit, 0, 7*2*4)

	for day := int32(0); day <= 6; day++ {
		weekend := day >= 4 // venerdì, sabato e domenica

		for _, shiftType := range domain.ShiftTypes {
			for _, role := range domain.SchedulableRoles {
				limit := &domain.ShiftLimit{
					DayOfWeek: day,
					ShiftType: shiftType,
					Role:      role,
				}

				switch role {
				case domain.RoleFattorino:
					limit.MinStaff, limit.MaxStaff = 2, 4
				case domain.RoleCucina:
					limit.MinStaff, limit.MaxStaff = 1, 2
				case domain.RoleSala:
					limit.MinStaff, limit.MaxStaff = 1, 3
				case domain.RolePizzaiolo:
					limit.MinStaff, limit.MaxStaff = 1, 2
				}

				if shiftType == domain.ShiftTypeCena && weekend {
					limit.MinStaff++
					limit.MaxStaff++
				}

				limits = append(limits, limit)
			}
		}
	}

	return limits
}

// GenerateRandomWeekAvailability compila una settimana di disponibilità
// con circa due fasce su tre disponibili.
func GenerateRandomWeekAvailability() []*domain.Availability {
	entries := make([]*domain.Availability, 0, 7*2)

	for day := int32(0); day <= 6; day++ {
		for _, shiftType := range domain.ShiftTypes {
			entries = append(entries, &domain.Availability{
				DayOfWeek:   day,
				ShiftType:   shiftType,
				IsAvailable: rand.Intn(3) > 0,
			})
		}
	}

	return entries
}
