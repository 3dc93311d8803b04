package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/submit"
	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"go.uber.org/zap"
)

// DryRunNote is the snippet recorded for orders that were not posted.
const DryRunNote = "(dry run)"

// Options controls whether and where a batch is posted.
type Options struct {
	Post     bool
	DryRun   bool
	Endpoint submit.Endpoint
}

// Runner submits payloads one at a time and collects their results.
type Runner struct {
	poster submit.Poster
	logger *zap.Logger
}

// NewRunner creates a Runner around a poster.
func NewRunner(poster submit.Poster, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{poster: poster, logger: logger}
}

// Run returns one result per payload, in input order. A failed order never
// stops the batch.
//
// DECISION ORDER (per payload):
//  1. Post disabled or DryRun  -> NOT_POSTED
//  2. Credentials incomplete   -> NO_CREDS
//  3. URL not dev/test         -> BLOCKED
//  4. Otherwise                -> outcome of the POST
func (r *Runner) Run(ctx context.Context, payloads []types.Payload, opts Options) []types.Result {
	results := make([]types.Result, 0, len(payloads))

	for _, p := range payloads {
		result := r.runOne(ctx, p, opts)

		r.logger.Info("order processed",
			zap.String("order_id", result.OrderID),
			zap.String("kind", string(result.Kind)),
			zap.Bool("posted", result.Posted),
			zap.String("status", result.StatusText()),
		)
		results = append(results, result)
	}

	return results
}

func (r *Runner) runOne(ctx context.Context, p types.Payload, opts Options) types.Result {
	switch {
	case !opts.Post || opts.DryRun:
		return types.NewResult(p, types.StatusNotPosted, DryRunNote)
	case !opts.Endpoint.HasCredentials():
		return types.NewResult(p, types.StatusNoCreds, "missing URL, username or password")
	case !submit.IsNonProdURL(opts.Endpoint.URL):
		return types.NewResult(p, types.StatusBlocked, "endpoint is not a dev/test URL")
	}

	if err := ctx.Err(); err != nil {
		return types.NewResult(p, types.StatusNetworkError, err.Error())
	}

	out := r.poster.Post(ctx, opts.Endpoint, p.XML)
	result := types.NewResult(p, out.Status, out.Snippet)
	result.Posted = true
	result.HTTPCode = out.HTTPCode
	return result
}

// Summary counts results by status.
type Summary struct {
	Total    int
	Posted   int
	ByStatus map[types.Status]int
}

// Summarize tallies the results of a batch.
func Summarize(results []types.Result) Summary {
	s := Summary{Total: len(results), ByStatus: make(map[types.Status]int)}
	for _, r := range results {
		if r.Posted {
			s.Posted++
		}
		s.ByStatus[r.Status]++
	}
	return s
}

// String renders the summary on one line, statuses in a fixed order.
func (s Summary) String() string {
	order := []types.Status{
		types.StatusOK, types.StatusWarning, types.StatusError, types.StatusUnknown,
		types.StatusHTTPError, types.StatusNetworkError, types.StatusAppError,
		types.StatusNoCreds, types.StatusBlocked, types.StatusNotPosted,
	}

	parts := []string{}
	for _, st := range order {
		if n := s.ByStatus[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", st, n))
		}
	}

	line := fmt.Sprintf("total=%d posted=%d", s.Total, s.Posted)
	if len(parts) > 0 {
		line += " " + strings.Join(parts, " ")
	}
	return line
}
