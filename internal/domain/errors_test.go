package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"lostfound/internal/domain"
)

func TestValidationError_MatchesKind(t *testing.T) {
	err := fmt.Errorf("submit: %w", domain.NewValidationError("image", "Only image files allowed"))

	assert.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "Only image files allowed", ve.Fields["image"])
}

func TestValidationError_MessageSkipsEmptyFields(t *testing.T) {
	err := &domain.ValidationError{Fields: map[string]string{
		"name":     "Item name must be at least 3 characters",
		"location": "",
	}}
	assert.Equal(t, "validation failed: name: Item name must be at least 3 characters", err.Error())
}

func TestPersistence_KeepsSentinel(t *testing.T) {
	err := domain.Persistence(domain.ErrNotFound)

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, domain.Persistence(nil))
}

func TestNotificationFailed_CoexistsWithNotification(t *testing.T) {
	n := domain.Notification{Kind: domain.NotificationResolved, To: "owner@campus.edu"}
	err := domain.NotificationFailed(errors.New("ses throttled"))

	assert.Equal(t, domain.NotificationResolved, n.Kind)
	assert.ErrorIs(t, err, domain.ErrNotification)
	assert.Contains(t, err.Error(), "ses throttled")
	assert.Nil(t, domain.NotificationFailed(nil))
}
