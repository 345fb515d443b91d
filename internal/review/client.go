package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ebad66/SafeCommit/internal/providers"
)

// phase tracks where the client is inside one review exchange. The protocol
// is deliberately a small explicit machine so the bounded-retry guarantee is
// visible: at most two model round trips, never more.
type phase int

const (
	phaseIdle phase = iota
	phaseRequesting1
	phaseValidating1
	phaseRequesting2
	phaseValidating2
	phaseDone
	phaseFailed
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseRequesting1:
		return "requesting"
	case phaseValidating1:
		return "validating"
	case phaseRequesting2:
		return "requesting-repair"
	case phaseValidating2:
		return "validating-repair"
	case phaseDone:
		return "done"
	case phaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrInvalidAfterRepair is returned when the model's output failed
// validation on both the initial and the repair attempt.
var ErrInvalidAfterRepair = errors.New("model output invalid after repair attempt")

// Options configures a Client.
type Options struct {
	// CallTimeout bounds each individual model call. Zero means no
	// per-call bound beyond the caller's context.
	CallTimeout time.Duration
	// MaxTokens is passed through to the provider.
	MaxTokens int
	// Debug echoes full prompts to the logger.
	Debug bool
}

// Client drives the ask-validate-repair exchange against a provider. It
// holds only immutable configuration and is safe for concurrent use; all
// per-review state lives on the stack of ReviewDiff.
type Client struct {
	provider providers.Reviewer
	opts     Options
	log      *zap.Logger
}

// NewClient constructs a Client around a provider. A nil logger disables
// logging.
func NewClient(provider providers.Reviewer, opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 8192
	}
	return &Client{provider: provider, opts: opts, log: log}
}

// ReviewDiff sends the diff to the model and returns validated findings.
//
// The exchange is: send the user prompt; parse and validate the response;
// on any parse or schema failure, send exactly one repair prompt embedding
// the invalid output verbatim and validate again. A second failure is
// permanent. A timeout on either call is fatal for the request with no
// further attempt.
func (c *Client) ReviewDiff(ctx context.Context, diff string, files []string) ([]Finding, error) {
	state := phaseIdle

	userPrompt := BuildUserPrompt(diff, files)
	if c.opts.Debug {
		c.log.Debug("built user prompt", zap.String("prompt", userPrompt))
	}

	state = phaseRequesting1
	raw, err := c.call(ctx, userPrompt)
	if err != nil {
		c.log.Warn("model call failed", zap.String("phase", state.String()), zap.Error(err))
		return nil, fmt.Errorf("model call: %w", err)
	}

	state = phaseValidating1
	findings, verr := ParseResponse(raw)
	if verr == nil {
		c.log.Debug("response validated", zap.String("phase", phaseDone.String()), zap.Int("findings", len(findings)))
		return findings, nil
	}
	c.log.Info("model response invalid, attempting repair",
		zap.String("phase", state.String()),
		zap.String("reason", verr.Error()))

	state = phaseRequesting2
	repairPrompt := BuildRepairPrompt(raw)
	if c.opts.Debug {
		c.log.Debug("built repair prompt", zap.String("prompt", repairPrompt))
	}
	raw2, err := c.call(ctx, repairPrompt)
	if err != nil {
		c.log.Warn("repair call failed", zap.String("phase", state.String()), zap.Error(err))
		return nil, fmt.Errorf("repair call: %w (original: %v)", err, verr)
	}

	state = phaseValidating2
	findings, verr2 := ParseResponse(raw2)
	if verr2 != nil {
		c.log.Warn("repair response still invalid",
			zap.String("phase", phaseFailed.String()),
			zap.String("reason", verr2.Error()))
		return nil, fmt.Errorf("%w: %v (original: %v)", ErrInvalidAfterRepair, verr2, verr)
	}

	c.log.Debug("repaired response validated", zap.String("phase", phaseDone.String()), zap.Int("findings", len(findings)))
	return findings, nil
}

func (c *Client) call(ctx context.Context, userPrompt string) (string, error) {
	if c.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.CallTimeout)
		defer cancel()
	}
	resp, err := c.provider.Review(ctx, providers.ReviewRequest{
		SystemPrompt: SystemPrompt(),
		UserPrompt:   userPrompt,
		MaxTokens:    c.opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
