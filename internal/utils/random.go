package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

var commonFirstNames = []string{
	"Ana", "Bruno", "Camila", "Diego", "Elisa", "Felipe", "Gabriela", "Hugo",
	"Isabela", "João", "Larissa", "Marcos", "Natália", "Otávio", "Paula",
	"Rafael", "Sofia", "Thiago", "Valentina", "William",
}
var commonSurnames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Rodrigues", "Ferreira", "Alves",
	"Pereira", "Lima", "Gomes", "Costa", "Ribeiro", "Martins", "Carvalho",
	"Almeida", "Lopes", "Soares", "Fernandes", "Vieira", "Barbosa",
}

func GenerateRandomFullName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	return first + " " + surname
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	username := strings.Join(parts, ".")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomWorker(password string, emailDomainName string) (*domain.Worker, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	worker := &domain.Worker{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleWorker,
	}

	return worker, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.Intn(len(letters))]
	}
	return string(password)
}

var serviceNames = []string{
	"Baralho", "Cozinha", "Horta", "Biblioteca", "Recepção", "Oficina",
	"Brechó", "Informática",
}

// GenerateRandomServiceType produces a development service type with a
// one-to-four-hour window starting between 08:00 and 16:00.
func GenerateRandomServiceType() *domain.ServiceType {
	startHour := rand.Intn(9) + 8
	duration := rand.Intn(4) + 1

	return &domain.ServiceType{
		Name:              serviceNames[rand.Intn(len(serviceNames))] + " " + GenerateRandomPassword(4),
		Description:       "seeded service type",
		RequiredHeadcount: 1,
		StartTime:         fmt.Sprintf("%02d:00", startHour),
		EndTime:           fmt.Sprintf("%02d:00", startHour+duration),
		Weekdays:          GenerateRandomWeekdays(),
		IsActive:          true,
	}
}

// GenerateRandomWeekdays draws a non-empty subset of the week via a
// Fisher-Yates shuffle.
func GenerateRandomWeekdays() []int32 {
	days := []int32{0, 1, 2, 3, 4, 5, 6}

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(len(days)) + 1

	return days[:n]
}

var experienceLevels = []domain.ExperienceLevel{
	domain.ExperienceBeginner,
	domain.ExperienceIntermediate,
	domain.ExperienceSenior,
}

func GenerateRandomCapability(workerID int64, serviceTypeID int64) *domain.Capability {
	return &domain.Capability{
		WorkerID:       workerID,
		ServiceTypeID:  serviceTypeID,
		Experience:     experienceLevels[rand.Intn(len(experienceLevels))],
		PriorityWeight: int32(rand.Intn(5) + 1),
		IsActive:       true,
	}
}

func GenerateRandomDateRestriction(workerID int64) *domain.DateRestriction {
	reason := "seeded restriction"
	return &domain.DateRestriction{
		WorkerID: workerID,
		Date:     time.Now().AddDate(0, 0, rand.Intn(60)).Truncate(24 * time.Hour),
		Reason:   &reason,
		IsActive: true,
	}
}
