package botchallenge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/famomatic/ytv1/internal/challenge"
)

// Provider adapts the static deobfuscation pipeline into a
// challenge.PoTokenProvider: it fetches a challenge envelope from a
// configurable endpoint over a shared *http.Client, solves it, and
// returns the base64 token. Wrap it with challenge.NewCachedPoTokenProvider
// for per-client caching.
type Provider struct {
	// HTTPClient issues the challenge fetch. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Endpoint is the challenge-fetch URL. The client ID is appended as
	// a `client` query parameter.
	Endpoint string
	// Logger receives non-fatal warnings (runtime fallback engagement).
	// The fetch is not retried. Defaults to a no-op logger.
	Logger Logger
}

var _ challenge.PoTokenProvider = (*Provider)(nil)

// NewProvider constructs a Provider with a default nop Logger if none is
// given.
func NewProvider(httpClient *http.Client, endpoint string) *Provider {
	return &Provider{HTTPClient: httpClient, Endpoint: endpoint, Logger: nopLogger{}}
}

func (p *Provider) logger() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return nopLogger{}
}

// GetToken fetches the envelope for clientID and solves it, falling back
// to the goja runtime solver only if the static pipeline fails to
// produce an answer (the same two-tier shape as playerjs.Decipherer).
func (p *Provider) GetToken(ctx context.Context, clientID string) (string, error) {
	data, err := p.fetchEnvelope(ctx, clientID)
	if err != nil {
		return "", fmt.Errorf("botchallenge: fetch envelope for client %q: %w", clientID, err)
	}

	c, err := DecodeEnvelope(data)
	if err != nil {
		return "", err
	}

	answer, err := Solve(c)
	if err != nil {
		p.logger().Warnf("botchallenge: static pipeline failed for client %q (%v), falling back to runtime", clientID, err)
		answer, err = SolveWithRuntime(c)
		if err != nil {
			return "", err
		}
	}

	return EncodeAnswer(c.Tag, answer)
}

func (p *Provider) fetchEnvelope(ctx context.Context, clientID string) (string, error) {
	u, err := url.Parse(p.Endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("client", clientID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
