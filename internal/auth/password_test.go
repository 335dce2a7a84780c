package auth

import "testing"

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "valid", raw: "Scrum.Master", want: "scrum.master"},
		{name: "trim", raw: "  a-user  ", want: "a-user"},
		{name: "invalid chars", raw: "bad space", wantErr: true},
		{name: "leading dot", raw: ".user", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUsername(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeUsername(%q)=%q want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("long-enough-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !VerifyPassword(hash, "long-enough-password") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "wrong-password-here") {
		t.Fatal("expected mismatched password to fail")
	}
	if VerifyPassword("", "anything-at-all-ok") {
		t.Fatal("empty hash must never verify")
	}

	if _, err := HashPassword("short"); err == nil {
		t.Fatal("short password should be rejected")
	}
}
