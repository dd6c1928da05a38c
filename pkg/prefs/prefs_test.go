package prefs

import (
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefs")
	s := Open(dir)

	if s.LastWatch() != "" || s.SeenCount("Vélos") != 0 || s.Theme() != "light" {
		t.Fatal("fresh store should be empty")
	}
	if err := s.SetLastWatch("Vélos / VTT"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSeenCount("Vélos / VTT", 12); err != nil {
		t.Fatal(err)
	}
	theme, err := s.ToggleTheme()
	if err != nil || theme != "dark" {
		t.Fatalf("ToggleTheme = %q, %v", theme, err)
	}

	// A second handle on the same directory sees the values on disk.
	again := Open(dir)
	if again.LastWatch() != "Vélos / VTT" {
		t.Fatalf("LastWatch = %q", again.LastWatch())
	}
	if again.SeenCount("Vélos / VTT") != 12 {
		t.Fatalf("SeenCount = %d", again.SeenCount("Vélos / VTT"))
	}
	if again.Theme() != "dark" {
		t.Fatalf("Theme = %q", again.Theme())
	}
	if w := again.Watches(); len(w) != 1 || w[0] != "Vélos / VTT" {
		t.Fatalf("Watches = %v", w)
	}

	if err := again.SetTheme("sepia"); err == nil {
		t.Fatal("unknown theme accepted")
	}
	if err := again.Erase(); err != nil {
		t.Fatal(err)
	}
	if again.LastWatch() != "" {
		t.Fatal("Erase left values behind")
	}
}
