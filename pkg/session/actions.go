package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/job"
	"github.com/gdlpLG/lbcwatch/pkg/notify"
	"github.com/gdlpLG/lbcwatch/pkg/selection"
)

// RefreshWatch asks the server to re-scan the active watch, reloads it and
// notifies about gems and price drops found by the scan.
func (s *ClientSession) RefreshWatch(ctx context.Context) (api.RefreshResult, error) {
	watch := s.store.Watch()
	if watch == "" {
		return api.RefreshResult{}, s.fail(ErrNoWatch, "Open a watch first.")
	}
	res, err := s.api.RefreshWatch(ctx, watch)
	if err != nil {
		return api.RefreshResult{}, s.fail(err, "Refresh failed.", "watch", watch)
	}
	if res.Message != "" {
		s.flash(events.LevelSuccess, res.Message)
	}
	if err := s.Open(ctx, watch); err != nil {
		return res, err
	}
	if n := len(res.Gems); n > 0 {
		s.notifier.Notify(notify.GemsTitle(n), notify.GemsBody(watch))
	}
	if n := len(res.PriceDrops); n > 0 {
		s.notifier.Notify(notify.PriceDropsTitle(n), notify.PriceDropsBody(watch))
	}
	return res, nil
}

// HideAd hides one ad and drops it from the store and the selection.
func (s *ClientSession) HideAd(ctx context.Context, id ad.ID) error {
	if err := s.api.HideAd(ctx, id); err != nil {
		return s.fail(err, "Could not hide the ad.", "id", string(id))
	}
	s.store.PatchRemove(id)
	if s.sel.Remove(id) {
		s.emitSelection()
	}
	s.flash(events.LevelSuccess, "Ad hidden.")
	return nil
}

// HideSelected hides every selected ad. Failures do not stop the batch; only
// the ads the server accepted leave the store.
func (s *ClientSession) HideSelected(ctx context.Context) (selection.BatchResult, error) {
	ids := s.sel.IDs()
	if len(ids) == 0 {
		return selection.BatchResult{}, s.fail(ErrNoSelection, "Select at least one ad.")
	}
	res := selection.RunBatch(ctx, ids, s.limiter, s.api.HideAd)
	for _, id := range res.Succeeded {
		s.store.PatchRemove(id)
	}
	s.sel.Clear()
	s.emitSelection()
	s.logBatch("hide", res)
	s.flash(events.LevelSuccess, fmt.Sprintf("✅ %d ad(s) hidden.", len(res.Succeeded)))
	return res, nil
}

// MoveSelected reassigns the selected ads to target. Moved ads leave the
// store unless target is the watch on screen.
func (s *ClientSession) MoveSelected(ctx context.Context, target string) (selection.BatchResult, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return selection.BatchResult{}, s.fail(ErrNoTarget, "Choose a target watch.")
	}
	ids := s.sel.IDs()
	if len(ids) == 0 {
		return selection.BatchResult{}, s.fail(ErrNoSelection, "Select at least one ad.")
	}
	res := selection.RunBatch(ctx, ids, s.limiter, func(ctx context.Context, id ad.ID) error {
		return s.api.MoveAds(ctx, []ad.ID{id}, target)
	})
	if current := s.store.Watch(); current != "" && current != target {
		for _, id := range res.Succeeded {
			s.store.PatchRemove(id)
		}
	}
	s.sel.Clear()
	s.emitSelection()
	s.logBatch("move", res, "target", target)
	s.flash(events.LevelSuccess, fmt.Sprintf("✅ %d ad(s) moved to %q.", len(res.Succeeded), target))
	return res, nil
}

// AnalyzeRequest describes an analysis launch.
type AnalyzeRequest struct {
	// Selected restricts the analysis to the selection.
	Selected bool
	// Prompt is required for selective analysis.
	Prompt string
}

// Analyze starts polling, launches the server analysis and reloads. A
// selective analysis clears the selection once the server accepted it.
func (s *ClientSession) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	body := api.AnalyzeRequest{CustomPrompt: strings.TrimSpace(req.Prompt)}
	if req.Selected {
		body.IDs = s.sel.IDs()
		if len(body.IDs) == 0 {
			return "", s.fail(ErrNoSelection, "Select at least one ad.")
		}
		if body.CustomPrompt == "" {
			return "", s.fail(ErrNoPrompt, "Enter a prompt for this analysis.")
		}
	} else {
		scope := s.store.Watch()
		if scope == "" {
			scope = "Live Search"
		}
		for _, a := range s.store.Snapshot() {
			a.SearchName = scope
			body.AdsData = append(body.AdsData, a)
			body.IDs = append(body.IDs, a.ID)
		}
	}

	s.poller.Start(ctx)
	msg, err := s.api.StartAnalysis(ctx, body)
	if err != nil {
		return "", s.fail(err, "AI error.")
	}
	if msg != "" {
		s.flash(events.LevelInfo, msg)
	}
	s.launched.Store(true)
	s.log.Info("analysis started", "ads", len(body.IDs), "selective", req.Selected)
	if err := s.Reload(ctx); err != nil {
		return msg, err
	}
	if req.Selected {
		s.ClearSelection()
	}
	return msg, nil
}

// settleLaunch reloads once when the cycle started by Analyze ended without
// ever seeing the job run: a short job can finish between two polls.
func (s *ClientSession) settleLaunch(ctx context.Context) {
	if !s.launched.Swap(false) {
		return
	}
	s.log.Info("analysis ended before it was seen running, reloading")
	s.reloadIfLoaded(ctx)
}

// MinCompare is the smallest selection CompareSelected accepts.
const MinCompare = 2

// CompareSelected sends the selected records to the AI for a side-by-side
// verdict. It works on the copies held by the selection, so ads that left
// the store since they were selected are still compared.
func (s *ClientSession) CompareSelected(ctx context.Context) (api.Comparison, error) {
	items := s.sel.Items()
	if len(items) < MinCompare {
		return api.Comparison{}, s.fail(ErrTooFewToCompare, fmt.Sprintf("Select at least %d ads.", MinCompare))
	}
	s.flash(events.LevelInfo, "🤖 Comparing...")
	res, err := s.api.CompareAds(ctx, items)
	if err != nil {
		return api.Comparison{}, s.fail(err, "Comparison failed.", "ads", len(items))
	}
	s.log.Info("ads compared", "ads", len(items))
	return res, nil
}

// ClearAnalyses drops AI results server-side, for the selection when
// selectedOnly is set and for the whole open watch otherwise. The store is
// reloaded so scores disappear; a selective clear empties the selection.
func (s *ClientSession) ClearAnalyses(ctx context.Context, selectedOnly bool) (int, error) {
	var req api.ClearAnalysisRequest
	n := 0
	if selectedOnly {
		req.IDs = s.sel.IDs()
		if len(req.IDs) == 0 {
			return 0, s.fail(ErrNoSelection, "Select at least one ad.")
		}
		n = len(req.IDs)
	} else {
		req.Watch = s.store.Watch()
		if req.Watch == "" {
			return 0, s.fail(ErrNoWatch, "Open a watch first.")
		}
		n = s.store.Len()
	}
	if err := s.api.ClearAnalyses(ctx, req); err != nil {
		return 0, s.fail(err, "Could not clear the analyses.", "watch", req.Watch)
	}
	s.log.Info("analyses cleared", "ads", n, "watch", req.Watch, "selective", selectedOnly)
	if selectedOnly {
		s.flash(events.LevelSuccess, fmt.Sprintf("%d analysis(es) cleared.", n))
	} else {
		s.flash(events.LevelSuccess, "Analyses cleared.")
	}
	if err := s.Reload(ctx); err != nil {
		return n, err
	}
	if selectedOnly {
		s.ClearSelection()
	}
	return n, nil
}

// StopAnalysis asks the server to stop the job. The poller reports the
// outcome on its next tick.
func (s *ClientSession) StopAnalysis(ctx context.Context) error {
	if err := s.poller.RequestStop(ctx); err != nil {
		return s.fail(err, "Could not stop the analysis.")
	}
	s.flash(events.LevelInfo, "Stop requested...")
	return nil
}

// FollowJob starts a poll cycle, as after a client restart with a job
// already running.
func (s *ClientSession) FollowJob(ctx context.Context) {
	s.poller.Start(ctx)
}

// JobState returns the poller state.
func (s *ClientSession) JobState() job.State {
	return s.poller.State()
}

func (s *ClientSession) logBatch(op string, res selection.BatchResult, attrs ...any) {
	attrs = append(attrs, "op", op, "succeeded", len(res.Succeeded), "failed", res.Failed)
	if res.Err != nil {
		attrs = append(attrs, "last_err", res.Err)
		s.log.Warn("bulk operation finished with failures", attrs...)
		return
	}
	s.log.Info("bulk operation finished", attrs...)
}

// jobSink turns poller effects into events, log lines and notifications.
type jobSink struct {
	s *ClientSession
}

func (j *jobSink) Log(status job.Status, message string) {
	level := events.LevelInfo
	if status == job.StatusError {
		level = events.LevelError
		j.s.log.Warn("job status", "status", string(status), "message", message)
	} else {
		j.s.log.Info("job status", "status", string(status), "message", message)
	}
	j.s.bus.Emit(events.JobLogMsg{Component: "job", Level: level, Message: message})
}

func (j *jobSink) Progress(status job.Status, percent float64, visible bool) {
	j.s.bus.Emit(events.JobProgressMsg{Component: "job", Status: string(status), Percent: percent, Visible: visible})
}

func (j *jobSink) Panel(open bool) {
	j.s.bus.Emit(events.JobPanelMsg{Component: "job", Open: open})
}

func (j *jobSink) Completed() {
	j.s.notifier.Notify(notify.CompletedTitle, "")
	j.s.bus.Emit(events.JobDoneMsg{Component: "job"})
}
