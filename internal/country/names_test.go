package country

import (
	"errors"
	"testing"
)

func TestDisplayNamesNameFor(t *testing.T) {
	names, err := NewDisplayNames("en")
	if err != nil {
		t.Fatalf("NewDisplayNames: %v", err)
	}

	tests := []struct {
		name      string
		code      string
		locale    string
		want      string
		wantError bool
	}{
		{
			name: "russia in english",
			code: "RU",
			want: "Russia",
		},
		{
			name: "lowercase code",
			code: "ru",
			want: "Russia",
		},
		{
			name:   "germany in russian",
			code:   "DE",
			locale: "ru",
			want:   "Германия",
		},
		{
			name: "canonical display name resolves to itself",
			code: "Russia",
			want: "Russia",
		},
		{
			name:      "unknown region",
			code:      "ZZ",
			wantError: true,
		},
		{
			name:      "name in another locale is rejected",
			code:      "Россия",
			wantError: true,
		},
		{
			name:      "empty code",
			code:      "",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := names.NameFor(tt.code, tt.locale)
			if (err != nil) != tt.wantError {
				t.Fatalf("NameFor(%q, %q) error = %v, wantError %v", tt.code, tt.locale, err, tt.wantError)
			}
			if tt.wantError && !errors.Is(err, ErrUnknownCountry) {
				t.Fatalf("NameFor(%q, %q) error = %v, want ErrUnknownCountry", tt.code, tt.locale, err)
			}
			if got != tt.want {
				t.Errorf("NameFor(%q, %q) = %q, want %q", tt.code, tt.locale, got, tt.want)
			}
		})
	}
}

func TestDisplayNamesRussianLocale(t *testing.T) {
	names, err := NewDisplayNames("ru")
	if err != nil {
		t.Fatalf("NewDisplayNames: %v", err)
	}

	got, err := names.NameFor("RU", "")
	if err != nil {
		t.Fatalf("NameFor: %v", err)
	}
	if got != "Россия" {
		t.Errorf("NameFor(RU) = %q, want %q", got, "Россия")
	}

	// The canonical index follows the configured locale.
	if _, err := names.NameFor("Россия", ""); err != nil {
		t.Errorf("NameFor(Россия) under ru locale: %v", err)
	}
	if _, err := names.NameFor("Russia", ""); err == nil {
		t.Error("NameFor(Russia) under ru locale: expected error")
	}
}

func TestDisplayNamesBadLocale(t *testing.T) {
	if _, err := NewDisplayNames("no-such-locale!"); err == nil {
		t.Fatal("expected error for unparsable locale")
	}
}
