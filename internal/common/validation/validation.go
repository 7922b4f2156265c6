package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// Максимальные длины для различных полей
	MaxNameLength     = 120
	MaxEmailLength    = 254
	MaxPhoneLength    = 20
	MaxUnitLength     = 32
	MaxUsernameLength = 32
	MaxCategoryLength = 64
	MaxDetailsLength  = 2000
	MaxMessageLength  = 2000
)

// Телефон в свободном международном формате: цифры, пробелы, скобки,
// дефисы, необязательный ведущий плюс
var phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{5,20}$`)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateName проверяет отображаемое имя. Пустое значение допустимо:
// поле можно очистить.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

// ValidateEmail проверяет email. Пустое значение допустимо.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePhone проверяет телефон. Пустое значение допустимо.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	if len(phone) > MaxPhoneLength {
		return fmt.Errorf("phone cannot exceed %d characters", MaxPhoneLength)
	}
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone format")
	}
	return nil
}

// ValidateUnit проверяет номер юнита/квартиры.
func ValidateUnit(unit string) error {
	if len(strings.TrimSpace(unit)) > MaxUnitLength {
		return fmt.Errorf("unit cannot exceed %d characters", MaxUnitLength)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя Telegram.
func ValidateUsername(username string) error {
	if len(strings.TrimSpace(username)) > MaxUsernameLength {
		return fmt.Errorf("username cannot exceed %d characters", MaxUsernameLength)
	}
	return nil
}

// ValidateCategory проверяет категорию заявки.
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("category cannot be empty")
	}
	if len(category) > MaxCategoryLength {
		return fmt.Errorf("category cannot exceed %d characters", MaxCategoryLength)
	}
	return nil
}

// ValidateMessageBody проверяет текст сообщения чата.
func ValidateMessageBody(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("body cannot be empty")
	}
	if len(body) > MaxMessageLength {
		return fmt.Errorf("body cannot exceed %d characters", MaxMessageLength)
	}
	return nil
}

// ValidateDetails проверяет описание заявки.
func ValidateDetails(details string) error {
	if len(details) > MaxDetailsLength {
		return fmt.Errorf("details cannot exceed %d characters", MaxDetailsLength)
	}
	return nil
}
