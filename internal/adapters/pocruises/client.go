package pocruises

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cruisewatch/internal/adapters/observability"
	"cruisewatch/internal/domain"
)

// Client queries the P&O per-cruise pricing endpoint. One GET per cruise code,
// no retries; a failed cruise is the caller's problem for this run.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, timeout time.Duration, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// CruisePrices fetches the raw pricing document for one cruise code.
func (c *Client) CruisePrices(ctx context.Context, code string) (map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	url := fmt.Sprintf("%s/price/cruise/%s?noOfGuests[adults]=2&noOfGuests[childs]=0&noOfGuests[infants]=0", c.base, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://www.pocruises.com/")
	req.Header.Set("brand", "po")
	req.Header.Set("country", "GB")
	req.Header.Set("currencyCode", "GBP")
	req.Header.Set("locale", "en_GB")
	req.AddCookie(&http.Cookie{Name: "countryCode", Value: "GB"})
	req.AddCookie(&http.Cookie{Name: "currencyCode", Value: "GBP"})

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(string(domain.ProviderPO), "price", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(string(domain.ProviderPO), "price", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: cruise %s", domain.ErrNotFound, code)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return doc, nil
}
