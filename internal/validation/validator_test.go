package validation

import (
	"errors"
	"testing"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

func TestStructSettings(t *testing.T) {
	tests := []struct {
		name      string
		in        models.Settings
		wantField string
	}{
		{"defaults", models.DefaultSettings(), ""},
		{"empty fields allowed", models.Settings{}, ""},
		{"bad theme", models.Settings{Theme: "neon"}, "theme"},
		{"bad scheme", models.Settings{Theme: "dark", ColorScheme: "teal"}, "color_scheme"},
		{"bad size", models.Settings{TextSize: "huge"}, "text_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *utils.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *utils.ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}
