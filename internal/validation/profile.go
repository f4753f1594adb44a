package validation

import (
	"github.com/iudanet/issuekeeper/internal/models"
	"github.com/iudanet/issuekeeper/pkg/api"
)

// ValidateProfileUpdate проверяет обновление профиля.
// Пустая строка считается отсутствующим полем, как и nil.
func ValidateProfileUpdate(req api.UpdateProfileRequest) (models.ProfilePatch, error) {
	var patch models.ProfilePatch

	if present(req.Name) {
		name, err := validateName(*req.Name)
		if err != nil {
			return models.ProfilePatch{}, err
		}
		patch.Name = &name
	}

	if present(req.Email) {
		email, err := ValidateEmail(*req.Email)
		if err != nil {
			return models.ProfilePatch{}, err
		}
		patch.Email = &email
	}

	if present(req.Password) {
		if err := validatePassword(*req.Password, MinProfilePasswordLen); err != nil {
			return models.ProfilePatch{}, err
		}
		password := *req.Password
		patch.Password = &password
	}

	return patch, nil
}

func present(s *string) bool {
	return s != nil && *s != ""
}
