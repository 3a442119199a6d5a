package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/infoshield/infoshield/internal/model"
	"github.com/infoshield/infoshield/internal/util"
	"github.com/infoshield/infoshield/internal/worker"
)

const maxTitleBytes = 64 << 10

// Prober checks that evidence source URLs actually resolve. Items whose
// source is unreachable are marked irrelevant before scoring, so dead
// citations cannot prop up a credibility score.
type Prober struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// NewProber creates a prober with polite, rate-limited outbound HTTP
func NewProber(httpCfg model.HTTPConfig, verifyCfg model.VerifyConfig, maxWorkers int) *Prober {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	return &Prober{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  httpCfg.UserAgent,
		maxWorkers: maxWorkers,
		robots:     util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout),
		limiter:    worker.NewLimiter(verifyCfg.RequestsPerSecond, verifyCfg.Burst),
	}
}

// Probe checks all evidence items with URLs concurrently and returns the
// graded copy. Items without a URL pass through untouched; a probe failure
// only clears the item's relevance, it never fails the call. When the probe
// had to read the page and found a title, it fills an empty item summary.
func (p *Prober) Probe(ctx context.Context, items []model.EvidenceItem) []model.EvidenceItem {
	if len(items) == 0 {
		return items
	}

	out := make([]model.EvidenceItem, len(items))
	copy(out, items)

	semaphore := make(chan struct{}, p.maxWorkers)
	var wg sync.WaitGroup

	for i := range out {
		if out[i].URL == "" {
			continue
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			result := p.probeOne(ctx, out[idx].URL)
			switch {
			case !result.IsAccessible:
				out[idx].Relevant = false
			case result.Title != "" && out[idx].Summary == "":
				out[idx].Summary = result.Title
			}
		}(i)
	}

	wg.Wait()
	return out
}

// probeOne checks a single source URL: robots permitting, a HEAD request,
// falling back to a ranged GET with a title sniff when HEAD is rejected.
func (p *Prober) probeOne(ctx context.Context, rawURL string) model.ProbeResult {
	result := model.ProbeResult{URL: rawURL}

	allowed, crawlDelay, err := p.robots.CanFetch(ctx, rawURL)
	if err != nil || !allowed {
		// Disallowed sources are not probed; leave them as-is rather
		// than punishing the evidence for our politeness.
		result.IsAccessible = true
		return result
	}

	if err := p.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		result.Error = err.Error()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	result.StatusCode = resp.StatusCode

	// Some servers reject HEAD outright; retry with GET before declaring
	// the source dead.
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusForbidden {
		return p.probeGet(ctx, rawURL)
	}

	result.IsAccessible = resp.StatusCode >= 200 && resp.StatusCode < 400
	return result
}

func (p *Prober) probeGet(ctx context.Context, rawURL string) model.ProbeResult {
	result := model.ProbeResult{URL: rawURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.IsAccessible = resp.StatusCode >= 200 && resp.StatusCode < 400

	if result.IsAccessible && strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		result.Title = sniffTitle(io.LimitReader(resp.Body, maxTitleBytes))
	}

	return result
}

// sniffTitle extracts the <title> text from an HTML stream
func sniffTitle(r io.Reader) string {
	tokenizer := html.NewTokenizer(r)
	inTitle := false

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				return ""
			}
		}
	}
}
