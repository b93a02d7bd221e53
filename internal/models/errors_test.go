package models_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spachava753/packtool/internal/models"
)

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("loading project: %w", models.Errorf(models.ErrTypeNameConflict, "build", "action %q declared twice", "build"))

	if !errors.Is(err, models.ErrNameConflict) {
		t.Error("expected errors.Is to match name conflict")
	}
	if errors.Is(err, models.ErrUnknownAction) {
		t.Error("name conflict should not match unknown action")
	}
	if got := models.ErrorTypeOf(err); got != models.ErrTypeNameConflict {
		t.Errorf("ErrorTypeOf = %q", got)
	}
	if got := models.ErrorTypeOf(errors.New("plain")); got != "" {
		t.Errorf("expected empty type for plain error, got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := models.MissingField("package.name")
	want := `config_error: missing required field "package.name"`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	wrapped := &models.Error{Type: models.ErrTypeActionFailed, Subject: "zip", Message: "action zip", Err: errors.New("disk full")}
	if wrapped.Error() != "action_failed: action zip: disk full" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, models.ErrActionFailed) {
		t.Error("expected action failed match")
	}
}
