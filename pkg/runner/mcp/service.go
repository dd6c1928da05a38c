// Package mcp exposes a client session to Model Context Protocol clients, so
// an assistant can browse watches, read ads and drive the AI analysis.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/adstore"
	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/filter"
	"github.com/gdlpLG/lbcwatch/pkg/job"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Service serializes tool calls onto one session. Every call opens the watch
// it works on, so calls must not interleave.
type Service struct {
	session *session.ClientSession
	mu      sync.Mutex
}

// ErrUnknownAds is returned when ids do not belong to the opened watch.
var ErrUnknownAds = errors.New("unknown ad ids")

// NewService wraps s.
func NewService(s *session.ClientSession) *Service {
	return &Service{session: s}
}

// ListAdsOptions narrows a listing.
type ListAdsOptions struct {
	Watch      string
	Tags       []string
	ManualOnly bool
	Sort       string
	Top        int
}

// AdsResult is the payload of list_ads.
type AdsResult struct {
	Watch string  `json:"watch"`
	Count int     `json:"count"`
	Ads   []ad.Ad `json:"ads"`
}

// BatchResult is the payload of bulk tools.
type BatchResult struct {
	Succeeded []ad.ID `json:"succeeded"`
	Failed    int     `json:"failed"`
}

// ListAds opens the watch and returns its filtered view.
func (s *Service) ListAds(ctx context.Context, opts ListAdsOptions) (AdsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Open(ctx, opts.Watch); err != nil {
		return AdsResult{}, err
	}
	if opts.Sort != "" {
		key, ok := adstore.ParseSortKey(opts.Sort)
		if !ok {
			return AdsResult{}, fmt.Errorf("unknown sort %q, expected one of %v", opts.Sort, adstore.SortKeys)
		}
		s.session.Sort(key)
	}
	for _, t := range opts.Tags {
		if t = strings.TrimSpace(t); t != "" {
			s.session.ToggleTag(t)
		}
	}
	s.session.SetManualOnly(opts.ManualOnly)

	list := s.session.Visible()
	if opts.Top > 0 {
		list = s.session.Top(opts.Top)
	}
	return AdsResult{Watch: opts.Watch, Count: len(list), Ads: list}, nil
}

// ListTags returns the vocabulary of a watch.
func (s *Service) ListTags(ctx context.Context, watch string) ([]filter.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Open(ctx, watch); err != nil {
		return nil, err
	}
	return s.session.Tags(), nil
}

// ListWatches returns the watches on the server.
func (s *Service) ListWatches(ctx context.Context) ([]ad.Watch, error) {
	return s.session.Watches(ctx)
}

// Watch returns one watch.
func (s *Service) Watch(ctx context.Context, name string) (ad.Watch, error) {
	return s.session.Watch(ctx, name)
}

// JobStatus polls the job once.
func (s *Service) JobStatus(ctx context.Context) job.State {
	s.session.Poller().Check(ctx)
	return s.session.JobState()
}

// Hide hides ids from watch, best-effort.
func (s *Service) Hide(ctx context.Context, watch string, ids []ad.ID) (BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectIn(ctx, watch, ids); err != nil {
		return BatchResult{}, err
	}
	res, err := s.session.HideSelected(ctx)
	if err != nil {
		return BatchResult{}, err
	}
	return BatchResult{Succeeded: res.Succeeded, Failed: res.Failed}, nil
}

// Compare asks the AI to compare ids of watch.
func (s *Service) Compare(ctx context.Context, watch string, ids []ad.ID) (api.Comparison, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectIn(ctx, watch, ids); err != nil {
		return api.Comparison{}, err
	}
	defer s.session.ClearSelection()
	return s.session.CompareSelected(ctx)
}

// Refresh re-scans a watch on the server.
func (s *Service) Refresh(ctx context.Context, watch string) (api.RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Open(ctx, watch); err != nil {
		return api.RefreshResult{}, err
	}
	return s.session.RefreshWatch(ctx)
}

// Analyze starts an analysis of watch, restricted to ids with prompt when
// ids are given.
func (s *Service) Analyze(ctx context.Context, watch string, ids []ad.ID, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.selectIn(ctx, watch, ids); err != nil {
		return "", err
	}
	return s.session.Analyze(ctx, session.AnalyzeRequest{Selected: len(ids) > 0, Prompt: prompt})
}

// StopAnalysis asks the server to stop the job.
func (s *Service) StopAnalysis(ctx context.Context) error {
	return s.session.StopAnalysis(ctx)
}

// PriceHistory returns the price changes of an ad.
func (s *Service) PriceHistory(ctx context.Context, id ad.ID) ([]ad.PricePoint, error) {
	return s.session.PriceHistory(ctx, id)
}

func (s *Service) selectIn(ctx context.Context, watch string, ids []ad.ID) error {
	if err := s.session.Open(ctx, watch); err != nil {
		return err
	}
	s.session.ClearSelection()
	if missing := s.session.SelectIDs(ids); len(missing) > 0 {
		s.session.ClearSelection()
		return fmt.Errorf("%w: %v", ErrUnknownAds, missing)
	}
	return nil
}

// ParseIDs splits a comma separated id list.
func ParseIDs(raw string) []ad.ID {
	var ids []ad.ID
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, ad.ID(part))
		}
	}
	return ids
}
