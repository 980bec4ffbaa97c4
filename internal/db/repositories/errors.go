package repositories

import (
	"errors"

	"gorm.io/gorm"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/constants"
)

// ErrLastOrganizer rejects a change that would leave a LARP without an organizer.
var ErrLastOrganizer = apperr.New(apperr.CodeBusinessRule, constants.MsgLastOrganizer)

func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(err, apperr.CodeNotFound, message)
	}
	return nil
}
