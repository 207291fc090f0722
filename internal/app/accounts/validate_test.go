package accounts

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	db, err := docstore.OpenJSONFile(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewManager(db, DefaultConfig(), zap.NewNop())
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"a@b.co",
		"first.last@example.com",
		"user+tag@sub.domain.org",
		"x_%-@host.io",
	}
	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@nodot",
		"user@domain.c",
		"user name@example.com",
	}
	for _, e := range valid {
		if !validEmail(e) {
			t.Errorf("validEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if validEmail(e) {
			t.Errorf("validEmail(%q) = true, want false", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	m := testManager(t)

	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"good", "Str0ng!Pass", nil},
		{"good all symbols", "Aa1@$!%*?&", nil},
		{"empty", "", ErrPasswordEmpty},
		{"too short", "Sh0rt!", nil}, // dynamic length message, checked below
		{"no uppercase", "alllowercase1!", ErrPasswordWeak},
		{"no lowercase", "ALLUPPERCASE1!", ErrPasswordWeak},
		{"no digits", "NoDigits!", ErrPasswordWeak},
		{"no symbol", "NoSymbol1abc", ErrPasswordWeak},
		{"disallowed symbol", "Bad#Symb0l!", ErrPasswordWeak},
		{"disallowed space", "Has Space1!", ErrPasswordWeak},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := m.validatePassword(tc.password)
			switch {
			case tc.name == "too short":
				if err == nil || err.Error() != "Password must be at least 8 characters" {
					t.Errorf("error = %v", err)
				}
			case tc.want == nil:
				if err != nil {
					t.Errorf("error = %v, want nil", err)
				}
			default:
				if !errors.Is(err, tc.want) {
					t.Errorf("error = %v, want %v", err, tc.want)
				}
			}
		})
	}
}

func TestValidatePasswordCustomMinLength(t *testing.T) {
	db, err := docstore.OpenJSONFile(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cfg := DefaultConfig()
	cfg.PasswordMinLength = 12
	m := NewManager(db, cfg, zap.NewNop())

	if err := m.validatePassword("Str0ng!Pass"); err == nil {
		t.Error("11-char password passed a 12-char minimum")
	}
	if err := m.validatePassword("Str0ng!Passw"); err != nil {
		t.Errorf("12-char password rejected: %v", err)
	}
}
