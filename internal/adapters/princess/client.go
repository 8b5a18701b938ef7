package princess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"cruisewatch/internal/adapters/observability"
	"cruisewatch/internal/domain"
)

// Client talks to the Princess reservation gateway: one metadata products dump
// per run, then one pricing POST per tracked cruise.
type Client struct {
	base     string
	clientID string
	session  string
	hc       *http.Client
	rl       *rate.Limiter
}

func New(base, clientID string, timeout time.Duration, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	return &Client{
		base:     strings.TrimRight(base, "/"),
		clientID: clientID,
		session:  uuid.NewString(),
		hc:       &http.Client{Timeout: timeout},
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Products fetches the full active-voyage metadata dump. Called once per run;
// the pricing responses carry no names, ships or dates of their own.
func (c *Client) Products(ctx context.Context) ([]map[string]any, error) {
	url := c.base + "/resdb/p1.0/products?agencyCountry=GB&cruiseType=C&voyageStatus=A&webDisplay=Y&promoFilter=all&light=false"
	doc, err := c.do(ctx, http.MethodGet, url, "products", nil)
	if err != nil {
		return nil, err
	}
	raw, ok := doc["products"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: products missing from metadata response", domain.ErrParse)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// CruiseFares posts the booking enquiry for one cruise code and returns the
// raw pricing document.
func (c *Client) CruiseFares(ctx context.Context, code string) (map[string]any, error) {
	url := fmt.Sprintf("%s/caps/pc/pricing/v1/cruises/%s", c.base, code)
	return c.do(ctx, http.MethodPost, url, "pricing", pricingPayload(code))
}

func (c *Client) do(ctx context.Context, method, url, endpoint string, body any) (map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(string(domain.ProviderPrincess), endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(string(domain.ProviderPrincess), endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, url)
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

func (c *Client) setHeaders(req *http.Request) {
	appID, _ := json.Marshal(map[string]string{
		"agencyId":       "DIRPB",
		"cruiseLineCode": "PCL",
		"sessionId":      c.session,
		"systemId":       "PB",
		"gdsCookie":      "CO=GB",
	})
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")
	req.Header.Set("AppId", string(appID))
	req.Header.Set("BookingCompany", "PO")
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	req.Header.Set("Origin", "https://www.princess.com")
	req.Header.Set("Referer", "https://www.princess.com")
	req.Header.Set("ProductCompany", "PC")
	req.Header.Set("ReqSrc", "W")
	if c.clientID != "" {
		req.Header.Set("pcl-client-id", c.clientID)
	}
	req.AddCookie(&http.Cookie{Name: "countryCode", Value: "GB"})
	req.AddCookie(&http.Cookie{Name: "currencyCode", Value: "GBP"})
}

// pricingPayload is the direct-booking enquiry the Princess web client sends:
// two GB adults, GBP, best-fare lead-in by itinerary.
func pricingPayload(code string) map[string]any {
	return map[string]any{
		"booking": map[string]any{
			"bookingAgency": map[string]any{
				"id":                        "DIRPB",
				"address":                   map[string]any{"stateId": "X", "countryId": "GB"},
				"creditCardChargeFeesFlag":  "Y",
				"countryCanBooks":           []string{"IE"},
				"borderCountries":           []string{"GB", "GI", "MT", "IE"},
				"currencies":                []map[string]any{{"id": "GBP"}, {"id": "EUR"}},
				"collectDirectInfoFlag":     "N",
				"internationalFaxFlag":      "Y",
				"confirmationMethod":        "F",
				"edocsFlag":                 "N",
			},
			"currencyCode": "GBP",
			"guests": []map[string]any{
				{"country": "GB", "homeCity": "LON"},
				{"country": "GB", "homeCity": "LON"},
			},
			"couponCodes": []string{},
		},
		"filters": map[string]any{
			"availabilities": []string{"Y", "G", "B"},
			"cruiseType":     "C",
			"cruises":        []string{code},
			"meta":           "I",
		},
		"leadInBy": "itins",
		"retrieveFlags": map[string]any{
			"additionalGuestFare": true,
			"averageFare":         false,
			"fareType":            "BESTFARE",
			"includeMisc":         false,
			"includeTfpe":         true,
			"roundUpFare":         true,
			"subMeta":             true,
			"zones":               true,
		},
	}
}
