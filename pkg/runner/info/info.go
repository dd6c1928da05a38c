package info

import (
	"context"
	"fmt"
	"os"

	"github.com/gdlpLG/lbcwatch/pkg/config"
	"github.com/gdlpLG/lbcwatch/pkg/prefs"
)

// Info prints where configuration and preferences come from.
type Info struct {
	Config *config.Config
	Prefs  *prefs.Store
}

func (n *Info) Do(ctx context.Context) error {
	if override := os.Getenv(config.EnvConfigPath); override != "" {
		fmt.Println(config.EnvConfigPath+" found on env, using ", override)
	} else {
		fmt.Println(config.EnvConfigPath + " env var not set")
	}

	if n.Config == nil {
		return fmt.Errorf("no configuration loaded")
	}
	if n.Config.File != "" {
		fmt.Println("Config.file: ", n.Config.File)
	} else {
		fmt.Println("Config.file:  none, using defaults")
	}
	fmt.Println("Config.server: ", n.Config.Server)
	fmt.Println("Config.prefs: ", n.Config.PrefsPath)

	if n.Prefs == nil {
		return fmt.Errorf("failed to open preferences")
	}
	fmt.Println("Theme: ", n.Prefs.Theme())
	if last := n.Prefs.LastWatch(); last != "" {
		fmt.Println("Last watch: ", last)
	}

	fmt.Printf("Seen watches:\n")
	found := 0
	for _, w := range n.Prefs.Watches() {
		fmt.Printf("  %s (%d ads)\n", w, n.Prefs.SeenCount(w))
		found++
	}
	if found == 0 {
		fmt.Printf("  %s\n", "no watches")
	}
	return nil
}
