package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"ecopark/internal/access"
	"ecopark/internal/apperror"
	"ecopark/internal/model"
	"ecopark/internal/validation"
	"ecopark/pkg/pagination"
)

// Board is the local view of one request collection. It loads the collection
// once, filters it synchronously and merges server echoes after submit and
// review.
type Board struct {
	client *Client
	kind   string

	mu     sync.Mutex
	items  []model.FundingRequest
	loaded bool

	submitting atomic.Bool
}

func NewBoard(c *Client, kind string) *Board {
	return &Board{client: c, kind: kind}
}

// Kind returns the request kind this board shows.
func (b *Board) Kind() string {
	return b.kind
}

// Load fetches the collection the first time it is called.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	loaded := b.loaded
	b.mu.Unlock()
	if loaded {
		return nil
	}
	return b.Refresh(ctx)
}

// Refresh refetches every page. The fetched data replaces local state.
func (b *Board) Refresh(ctx context.Context) error {
	var all []model.FundingRequest
	for page := 1; ; page++ {
		res, err := b.client.ListRequests(ctx, b.kind, ListQuery{Page: page, Limit: pagination.MaxLimit})
		if err != nil {
			return err
		}
		all = append(all, res.Items...)
		if len(res.Items) == 0 || int64(len(all)) >= res.Total {
			break
		}
	}

	b.mu.Lock()
	b.items = all
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Items returns a copy of the loaded requests, newest first.
func (b *Board) Items() []model.FundingRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.FundingRequest, len(b.items))
	copy(out, b.items)
	return out
}

// Filtered returns the loaded requests matching f.
func (b *Board) Filtered(f model.RequestFilter) []model.FundingRequest {
	return model.ApplyFilter(b.Items(), f)
}

// IsEmpty reports whether no loaded request matches f.
func (b *Board) IsEmpty(f model.RequestFilter) bool {
	return len(b.Filtered(f)) == 0
}

// Submit validates in locally, sends it and merges the created request.
// Only one submission may be in flight; in is never modified, so a failed
// submission can be retried with the same value.
func (b *Board) Submit(ctx context.Context, in validation.Submission) (*model.FundingRequest, error) {
	if err := b.gate(access.Submit); err != nil {
		return nil, err
	}
	if !b.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer b.submitting.Store(false)

	clean := validation.Default.SanitizeSubmission(in)
	if fields := validation.Default.Submission(b.kind, clean); fields != nil {
		return nil, localValidationError(fields)
	}

	created, err := b.client.SubmitRequest(ctx, b.kind, clean)
	if err != nil {
		return nil, err
	}
	b.merge(*created)
	return created, nil
}

// Review records a decision and merges the updated request.
func (b *Board) Review(ctx context.Context, id, decision, note string) (*model.FundingRequest, error) {
	if err := b.gate(access.Review); err != nil {
		return nil, err
	}

	r := validation.Default.NormalizeReview(validation.Review{Decision: decision, Note: note})
	if fields := validation.Default.Review(b.kind, r); fields != nil {
		return nil, localValidationError(fields)
	}

	updated, err := b.client.ReviewRequest(ctx, b.kind, id, r)
	if err != nil {
		return nil, err
	}
	b.merge(*updated)
	return updated, nil
}

// Stats fetches the collection's status counts from the server.
func (b *Board) Stats(ctx context.Context) (*Stats, error) {
	if err := b.gate(access.View); err != nil {
		return nil, err
	}
	return b.client.RequestStats(ctx, b.kind)
}

func (b *Board) gate(action access.Action) error {
	s := b.client.Session().Current()
	if s == nil {
		return ErrLoginRequired
	}
	if !access.Can(s.Role, b.kind, action) {
		return ErrNotPermitted
	}
	return nil
}

// merge replaces the request with the same id, or prepends a new one.
func (b *Board) merge(fr model.FundingRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == fr.ID {
			b.items[i] = fr
			return
		}
	}
	b.items = append([]model.FundingRequest{fr}, b.items...)
}

func localValidationError(fields map[string]string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       string(apperror.ErrCodeValidation),
		Message:    "validation failed",
		Fields:     fields,
	}
}
