// Package validation проверяет входные данные API и возвращает
// нормализованные значения или *apperr.Error вида KindValidation.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/issuekeeper/internal/apperr"
	"github.com/iudanet/issuekeeper/pkg/api"
)

// EmailPattern - упрощенная проверка формата email: что-то@что-то.что-то без пробелов
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// MinNameLen минимальная длина имени
	MinNameLen = 2
	// MinPasswordLen минимальная длина пароля при регистрации
	MinPasswordLen = 8
	// MinProfilePasswordLen минимальная длина нового пароля при обновлении профиля.
	// Меньше, чем при регистрации: так исторически принимает API профиля.
	MinProfilePasswordLen = 6
	// MaxPasswordBytes - предел bcrypt, длиннее пароль не захешировать
	MaxPasswordBytes = 72
)

// Registration - проверенный запрос на регистрацию
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Credentials - проверенный запрос на вход
type Credentials struct {
	Email    string
	Password string
}

// ValidateRegister проверяет запрос на регистрацию
func ValidateRegister(req api.RegisterRequest) (Registration, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return Registration{}, err
	}

	email, err := ValidateEmail(req.Email)
	if err != nil {
		return Registration{}, err
	}

	if err := validatePassword(req.Password, MinPasswordLen); err != nil {
		return Registration{}, err
	}

	return Registration{Name: name, Email: email, Password: req.Password}, nil
}

// ValidateLogin проверяет запрос на вход. Пароль только не должен быть пустым:
// правила сложности проверяются при регистрации.
func ValidateLogin(req api.LoginRequest) (Credentials, error) {
	email, err := ValidateEmail(req.Email)
	if err != nil {
		return Credentials{}, err
	}

	if req.Password == "" {
		return Credentials{}, apperr.Invalid("password", "Password is required")
	}

	return Credentials{Email: email, Password: req.Password}, nil
}

// ValidateEmail обрезает пробелы и проверяет формат
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !EmailPattern.MatchString(email) {
		return "", apperr.Invalid("email", "Invalid email format")
	}
	return email, nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinNameLen {
		return "", apperr.Invalid("name", fmt.Sprintf("Name must be at least %d characters long", MinNameLen))
	}
	return name, nil
}

func validatePassword(password string, minLen int) error {
	if utf8.RuneCountInString(password) < minLen {
		return apperr.Invalid("password", fmt.Sprintf("Password must be at least %d characters long", minLen))
	}
	if len(password) > MaxPasswordBytes {
		return apperr.Invalid("password", fmt.Sprintf("Password must not exceed %d bytes", MaxPasswordBytes))
	}
	return nil
}
