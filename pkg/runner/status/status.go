// Package status provides the runners that report on and stop the analysis
// job, and the follow loop shared with the analyze runner.
package status

import (
	"context"
	"errors"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/job"
	"github.com/gdlpLG/lbcwatch/pkg/notify"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Status prints the job state once, or follows it until the job finishes.
type Status struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Follow  bool
	JSON    bool
}

func (n *Status) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not get job status, no session")
	}
	if n.Follow {
		n.Session.FollowJob(ctx)
		return Follow(ctx, n.Session, n.Printer)
	}
	n.Session.Poller().Check(ctx)
	st := n.Session.JobState()
	n.Session.Close()
	if n.JSON {
		return n.Printer.JSON(st)
	}
	n.Printer.JobStatus(st)
	return nil
}

// Stop asks the server to stop the job.
type Stop struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
}

func (n *Stop) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not stop the job, no session")
	}
	if err := n.Session.StopAnalysis(ctx); err != nil {
		return err
	}
	n.Printer.Println("Stop requested.")
	return nil
}

// Follow prints job messages as they arrive and returns once the poller
// stopped, either on completion or after an idle grace period.
func Follow(ctx context.Context, s *session.ClientSession, pp *printers.PrettyPrint) error {
	check := time.NewTicker(250 * time.Millisecond)
	defer check.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-s.Bus().Events():
			switch m := msg.(type) {
			case events.JobLogMsg:
				pp.Println(m.Message)
			case events.JobDoneMsg:
				pp.Println(notify.CompletedTitle)
				return nil
			}
		case <-check.C:
			if !s.JobState().Running {
				st := s.JobState()
				if st.Status == "" {
					st.Status = job.StatusIdle
				}
				pp.JobStatus(st)
				return nil
			}
		}
	}
}
