package domain

import (
	"errors"
	"testing"
)

func TestErrors(t *testing.T) {
	t.Run("Predefined errors", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want string
		}{
			{"ErrEventNotFound", ErrEventNotFound, "event not found"},
			{"ErrInvalidRequest", ErrInvalidRequest, "invalid request"},
			{"ErrDuplicateEvent", ErrDuplicateEvent, "event already exists"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.err.Error(); got != tt.want {
					t.Errorf("%s.Error() = %v, want %v", tt.name, got, tt.want)
				}
			})
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		err := ValidationError{
			Field:   "title",
			Message: "title is required",
		}

		expected := "validation error on field title: title is required"
		if got := err.Error(); got != expected {
			t.Errorf("ValidationError.Error() = %v, want %v", got, expected)
		}
	})

	t.Run("ValidationError through wrapping", func(t *testing.T) {
		wrapped := errors.Join(errors.New("create"), ValidationError{Field: "district", Message: "district is required"})

		var verr ValidationError
		if !errors.As(wrapped, &verr) {
			t.Fatal("expected errors.As to find ValidationError")
		}
		if verr.Field != "district" {
			t.Errorf("expected field district, got %s", verr.Field)
		}
	})
}
