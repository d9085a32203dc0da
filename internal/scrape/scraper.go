package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"competitive-analysis/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var (
	phonePattern = regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	titleTail    = regexp.MustCompile(`(?i)\s*[-|–]\s*(Home|Welcome|Official Site).*$`)
)

// Scraper fetches competitor pages and extracts business fields. Per-page
// failures never abort a batch; the competitor keeps its seed profile.
type Scraper struct {
	httpClient  *http.Client
	concurrency int
	logger      *zap.Logger
}

// NewScraper builds a scraper with bounded per-batch concurrency.
func NewScraper(logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		concurrency: 3,
		logger:      logger,
	}
}

// Enrich scrapes each competitor's site and fills in extracted fields.
// The returned slice preserves order and rank.
func (s *Scraper) Enrich(ctx context.Context, competitors []domain.Competitor) []domain.Competitor {
	enriched := make([]domain.Competitor, len(competitors))
	copy(enriched, competitors)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range enriched {
		g.Go(func() error {
			target := normalizeURL(enriched[i].URL)
			if target == "" {
				return nil
			}

			page, err := s.fetch(ctx, target)
			if err != nil {
				s.logger.Warn("scrape failed, keeping seed profile",
					zap.String("url", target),
					zap.Error(err))
				return nil
			}
			enriched[i] = merge(enriched[i], page)
			return nil
		})
	}
	_ = g.Wait()
	return enriched
}

// page holds fields extracted from one competitor site.
type page struct {
	name        string
	description string
	services    string
	contact     string
	address     string
	pricing     string
}

// fetch downloads and parses one page into extracted fields.
func (s *Scraper) fetch(ctx context.Context, target string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return page{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return page{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return page{}, err
	}

	return page{
		name:        extractName(doc, target),
		description: extractDescription(doc),
		services:    extractServices(doc),
		contact:     extractContact(doc),
		address:     extractAddress(doc),
		pricing:     extractPricing(doc),
	}, nil
}

// merge overlays extracted fields onto the seed profile, keeping seed
// values when extraction found nothing.
func merge(seed domain.Competitor, p page) domain.Competitor {
	if p.name != "" {
		seed.BusinessName = p.name
	}
	if p.description != "" {
		seed.Description = p.description
	}
	if p.services != "" {
		seed.Services = p.services
	}
	if p.contact != "" {
		seed.ContactInfo = p.contact
	}
	if p.address != "" {
		seed.Address = p.address
	}
	if p.pricing != "" {
		seed.PricingInfo = p.pricing
	}
	return seed
}

// normalizeURL defaults missing schemes to https and drops non-http URLs.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	if _, err := url.Parse(raw); err != nil {
		return ""
	}
	return raw
}

// extractName tries title, h1 headings, then the domain name.
func extractName(doc *goquery.Document, target string) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		name := titleTail.ReplaceAllString(title, "")
		if name != "" && len(name) < 100 {
			return name
		}
	}

	name := ""
	doc.Find("h1").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" && len(text) < 50 {
			name = text
			return false
		}
		return true
	})
	if name != "" {
		return name
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if idx := strings.Index(host, "."); idx > 0 {
		host = host[:idx]
	}
	if host == "" {
		return ""
	}
	return strings.ToUpper(host[:1]) + host[1:]
}

// extractDescription tries meta description, about sections, then paragraphs.
func extractDescription(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		if desc := strings.TrimSpace(content); desc != "" {
			return desc
		}
	}

	for _, selector := range []string{
		`section[class*="about"]`,
		`div[class*="about"]`,
		`section[class*="description"]`,
		`div[class*="description"]`,
		".hero-text",
		".intro",
	} {
		text := collapseSpace(doc.Find(selector).First().Text())
		if len(text) > 50 {
			return clip(text, 500)
		}
	}

	var parts []string
	doc.Find("p").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= 3 {
			return false
		}
		if text := collapseSpace(sel.Text()); len(text) > 20 {
			parts = append(parts, text)
		}
		return true
	})
	if len(parts) > 0 {
		return clip(strings.Join(parts, " "), 500)
	}
	return ""
}

// extractServices collects list items and links under service-like sections.
func extractServices(doc *goquery.Document) string {
	seen := make(map[string]bool)
	var services []string
	add := func(text string) {
		text = collapseSpace(text)
		if text == "" || len(text) > 200 || seen[text] {
			return
		}
		seen[text] = true
		services = append(services, text)
	}

	for _, keyword := range []string{"service", "offering", "product", "solution", "specialt"} {
		doc.Find(fmt.Sprintf(`div[class*=%q], section[class*=%q], ul[class*=%q]`, keyword, keyword, keyword)).
			Each(func(_ int, sel *goquery.Selection) {
				items := sel.Find("li")
				if items.Length() > 0 {
					items.Each(func(_ int, li *goquery.Selection) { add(li.Text()) })
					return
				}
				add(sel.Text())
			})
	}

	doc.Find("nav a, ul a, ol a").Each(func(_ int, link *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(link.Text()))
		for _, keyword := range []string{"service", "product", "solution"} {
			if strings.Contains(text, keyword) {
				add(link.Text())
				return
			}
		}
	})

	if len(services) > 10 {
		services = services[:10]
	}
	return strings.Join(services, "; ")
}

// extractContact pulls the first phone number and business email found.
func extractContact(doc *goquery.Document) string {
	body := doc.Text()
	var parts []string

	if phone := phonePattern.FindString(body); phone != "" {
		parts = append(parts, "Phone: "+strings.TrimSpace(phone))
	}
	for _, email := range emailPattern.FindAllString(body, -1) {
		lower := strings.ToLower(email)
		if strings.Contains(lower, "noreply") || strings.Contains(lower, "no-reply") || strings.Contains(lower, "example") {
			continue
		}
		parts = append(parts, "Email: "+email)
		break
	}
	return strings.Join(parts, "; ")
}

// extractAddress looks for address-like elements containing street markers.
func extractAddress(doc *goquery.Document) string {
	addressLike := regexp.MustCompile(`\d+.*[A-Za-z].*\d+`)
	result := ""

	doc.Find(`[class*="address"], [class*="location"], [class*="contact"], address`).
		EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := collapseSpace(sel.Text())
			lower := strings.ToLower(text)
			if addressLike.MatchString(text) || strings.Contains(lower, "street") || strings.Contains(lower, "ave") {
				result = clip(text, 200)
				return false
			}
			return true
		})
	return result
}

// extractPricing collects price-bearing fragments and table rows.
func extractPricing(doc *goquery.Document) string {
	perUnit := regexp.MustCompile(`(?i)\b\d+.*(hour|day|month|year|project)\b`)
	seen := make(map[string]bool)
	var pricing []string
	add := func(text string) {
		text = clip(collapseSpace(text), 100)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		pricing = append(pricing, text)
	}

	for _, keyword := range []string{"price", "cost", "rate", "fee", "pricing"} {
		doc.Find(fmt.Sprintf(`div[class*=%q], section[class*=%q], span[class*=%q], p[class*=%q]`, keyword, keyword, keyword, keyword)).
			Each(func(_ int, sel *goquery.Selection) {
				text := sel.Text()
				if strings.Contains(text, "$") || perUnit.MatchString(text) {
					add(text)
				}
			})
	}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		lower := strings.ToLower(table.Text())
		if !strings.Contains(lower, "price") && !strings.Contains(lower, "cost") &&
			!strings.Contains(lower, "rate") && !strings.Contains(lower, "$") {
			return
		}
		table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
			if i >= 5 {
				return false
			}
			if strings.Contains(row.Text(), "$") {
				add(row.Text())
			}
			return true
		})
	})

	if len(pricing) > 5 {
		pricing = pricing[:5]
	}
	sort.Strings(pricing)
	return strings.Join(pricing, "; ")
}

// collapseSpace trims and folds internal whitespace runs to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// clip truncates a string to at most n bytes on a rune boundary.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
