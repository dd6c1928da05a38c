package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Export writes the plain-text top deals report of a watch, to File when set.
type Export struct {
	Session   *session.ClientSession
	Printer   *printers.PrettyPrint
	Watch     string
	File      string
	IncludeAI bool
}

func (n *Export) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not export, no session")
	}
	if err := n.Session.Open(ctx, n.Watch); err != nil {
		return err
	}
	name := n.Watch
	if name == "" {
		name = "All watches"
	}
	report := printers.Export(name, n.Session.Top(printers.ExportSize), n.IncludeAI, time.Now())

	if n.File == "" {
		n.Printer.Println(report)
		return nil
	}
	path, err := homedir.Expand(n.File)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	n.Printer.Println("Report written to " + path)
	return nil
}
