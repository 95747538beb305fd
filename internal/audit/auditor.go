// Package audit analyzes business websites: UX and content heuristics, tech
// stack detection, technical issues, contact extraction, and social media
// discovery.
package audit

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parmanandojha/aiagentsearch/internal/config"
	"github.com/parmanandojha/aiagentsearch/internal/model"
)

// Auditor audits business websites.
type Auditor struct {
	fetcher       *Fetcher
	maxLinkChecks int
}

// New creates an Auditor.
func New(cfg config.AuditConfig) *Auditor {
	maxChecks := cfg.MaxLinkChecks
	if maxChecks <= 0 {
		maxChecks = 10
	}
	return &Auditor{
		fetcher:       NewFetcher(cfg),
		maxLinkChecks: maxChecks,
	}
}

// Probe reports whether the website responds at all.
func (a *Auditor) Probe(ctx context.Context, websiteURL string) bool {
	return a.fetcher.Probe(ctx, websiteURL)
}

// Audit fetches the site and runs the full rubric. A fetch failure yields a
// result carrying a not-accessible issue, not an error; err is reserved for
// request construction problems.
func (a *Auditor) Audit(ctx context.Context, websiteURL string) (model.AuditResult, error) {
	result := model.AuditResult{Issues: []model.Issue{}}

	page, err := a.fetcher.Get(ctx, websiteURL)
	if err != nil {
		zap.L().Warn("audit: could not fetch page", zap.String("url", websiteURL), zap.Error(err))
		result.Issues = append(result.Issues, model.Issue{Kind: model.IssueNotAccessible})
		return result, nil
	}

	html := strings.ToLower(string(page.Body))

	result.Performance.LoadTimeSecs = page.LoadTime.Seconds()
	result.UX = auditUX(page.Doc, html)
	result.Content = auditContent(page.Doc)
	result.TechStack = detectTechStack(html)
	result.Issues = a.technicalIssues(ctx, page)

	return result, nil
}

var (
	navClassRe  = regexp.MustCompile(`(?i)nav|menu`)
	modernCSSRe = regexp.MustCompile(`bootstrap|tailwind|material|foundation`)
)

var ctaKeywords = []string{
	"contact us", "get started", "sign up", "book now",
	"call now", "learn more", "free trial", "buy now",
}

func auditUX(doc *goquery.Document, html string) model.UXAudit {
	ux := model.UXAudit{
		Navigation:      "Poor",
		VisualModernity: "Average",
	}

	ux.MobileResponsive = doc.Find(`meta[name="viewport"]`).Length() > 0
	if !ux.MobileResponsive {
		doc.Find(`link[rel="stylesheet"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			media, _ := s.Attr("media")
			if media != "" || strings.Contains(strings.ToLower(href), "responsive") {
				ux.MobileResponsive = true
				return false
			}
			return true
		})
	}

	if doc.Find("nav").Length() > 0 {
		ux.Navigation = "Good"
	} else {
		doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			if navClassRe.MatchString(class) {
				ux.Navigation = "Good"
				return false
			}
			return true
		})
	}

	text := strings.ToLower(doc.Text())
	for _, kw := range ctaKeywords {
		if strings.Contains(text, kw) {
			ux.CTAPresent = true
			break
		}
	}

	modernTags := doc.Find("section, article, header, footer, main").Length() > 0
	switch {
	case modernTags || modernCSSRe.MatchString(html):
		ux.VisualModernity = "Modern"
	case doc.Find("table").Length() > 0 && doc.Find("div").Length() == 0:
		// Old table-based layout.
		ux.VisualModernity = "Outdated"
	}

	return ux
}

var valuePropKeywords = []string{
	"best", "quality", "expert", "leading", "trusted",
	"experience", "professional", "award", "guarantee",
}

var serviceIndicators = []string{
	"services", "what we do", "our services", "offerings",
	"products", "solutions",
}

func auditContent(doc *goquery.Document) model.ContentAudit {
	content := model.ContentAudit{}
	text := strings.ToLower(doc.Text())

	for _, kw := range valuePropKeywords {
		if strings.Contains(text, kw) {
			content.ValueProposition = true
			break
		}
	}
	for _, ind := range serviceIndicators {
		if strings.Contains(text, ind) {
			content.ServicesListed = true
			break
		}
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, strings.ToLower(href))
	})
	for _, page := range []string{"about", "contact", "privacy"} {
		found := false
		for _, href := range hrefs {
			if strings.Contains(href, page) {
				found = true
				break
			}
		}
		if !found {
			content.MissingPages = append(content.MissingPages, strings.ToUpper(page[:1])+page[1:])
		}
	}

	return content
}

var cmsPatterns = []struct {
	name     string
	patterns []string
}{
	{"WordPress", []string{"wp-content", "wordpress", "/wp-includes/", "wp-json"}},
	{"Shopify", []string{"shopify", "shopifycdn", "cdn.shopify.com"}},
	{"Webflow", []string{"webflow", ".webflow.io", "webflowcdn"}},
	{"Wix", []string{"wix.com", "wixpress", "wixstatic"}},
	{"Squarespace", []string{"squarespace", "ssqs.com"}},
	{"Drupal", []string{"drupal", "/sites/default/"}},
	{"Joomla", []string{"joomla", "/components/"}},
}

var frontendPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"React", regexp.MustCompile(`react|reactjs`)},
	{"Vue", regexp.MustCompile(`vue\.js|vuejs`)},
	{"Angular", regexp.MustCompile(`angular`)},
	{"jQuery", regexp.MustCompile(`jquery`)},
	{"Bootstrap", regexp.MustCompile(`bootstrap`)},
	{"Tailwind", regexp.MustCompile(`tailwindcss`)},
}

var analyticsPatterns = []struct {
	name     string
	patterns []*regexp.Regexp
}{
	{"Google Analytics", []*regexp.Regexp{
		regexp.MustCompile(`google-analytics\.com`),
		regexp.MustCompile(`gtag`),
		regexp.MustCompile(`ga\(`),
		regexp.MustCompile(`analytics\.js`),
	}},
	{"Google Tag Manager", []*regexp.Regexp{
		regexp.MustCompile(`googletagmanager\.com`),
		regexp.MustCompile(`(?i)GTM-`),
	}},
	{"Facebook Pixel", []*regexp.Regexp{
		regexp.MustCompile(`facebook\.net`),
		regexp.MustCompile(`fbq`),
	}},
	{"Hotjar", []*regexp.Regexp{regexp.MustCompile(`hotjar\.com`)}},
	{"Mixpanel", []*regexp.Regexp{regexp.MustCompile(`mixpanel\.com`)}},
}

var customCMSPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"Custom (React)", regexp.MustCompile(`react|reactjs`)},
	{"Custom (Vue)", regexp.MustCompile(`vue|vuejs`)},
	{"Custom (Angular)", regexp.MustCompile(`angular`)},
	{"Custom (Next.js)", regexp.MustCompile(`next\.js|nextjs`)},
}

func detectTechStack(html string) model.TechStack {
	tech := model.TechStack{
		CMS:      "Not Detected",
		Frontend: "Not Detected",
	}

	for _, cms := range cmsPatterns {
		for _, p := range cms.patterns {
			if strings.Contains(html, p) {
				tech.CMS = cms.name
				break
			}
		}
		if tech.CMS != "Not Detected" {
			break
		}
	}
	if tech.CMS == "Not Detected" {
		for _, c := range customCMSPatterns {
			if c.pattern.MatchString(html) {
				tech.CMS = c.name
				break
			}
		}
	}

	for _, fw := range frontendPatterns {
		if fw.pattern.MatchString(html) {
			tech.Frontend = fw.name
			break
		}
	}

	for _, a := range analyticsPatterns {
		for _, p := range a.patterns {
			if p.MatchString(html) {
				tech.Analytics = append(tech.Analytics, a.name)
				break
			}
		}
	}

	return tech
}

// technicalIssues checks SSL, SEO tags, sampled internal links, page weight,
// and image alt coverage.
func (a *Auditor) technicalIssues(ctx context.Context, page *Page) []model.Issue {
	issues := []model.Issue{}
	doc := page.Doc

	if !strings.HasPrefix(page.URL, "https://") {
		issues = append(issues, model.Issue{Kind: model.IssueMissingSSL})
	}

	if strings.TrimSpace(doc.Find("title").First().Text()) == "" {
		issues = append(issues, model.Issue{Kind: model.IssueMissingTitle})
	}
	if doc.Find(`meta[name="description"]`).Length() == 0 {
		issues = append(issues, model.Issue{Kind: model.IssueMissingDescription})
	}

	switch h1 := doc.Find("h1").Length(); {
	case h1 == 0:
		issues = append(issues, model.Issue{Kind: model.IssueMissingH1})
	case h1 > 1:
		issues = append(issues, model.Issue{Kind: model.IssueMultipleH1})
	}

	if broken, checked := a.sampleInternalLinks(ctx, page); broken > 0 {
		issues = append(issues, model.Issue{
			Kind:   model.IssueBrokenLinks,
			Detail: fmt.Sprintf("%d/%d checked", broken, checked),
		})
	}

	if sizeMB := float64(len(page.Body)) / (1 << 20); sizeMB > 5 {
		issues = append(issues, model.Issue{
			Kind:   model.IssueLargePage,
			Detail: fmt.Sprintf("%.1fMB", sizeMB),
		})
	}

	images := doc.Find("img")
	if total := images.Length(); total > 0 {
		withoutAlt := 0
		images.Each(func(_ int, s *goquery.Selection) {
			if alt, _ := s.Attr("alt"); alt == "" {
				withoutAlt++
			}
		})
		if float64(withoutAlt) > float64(total)*0.3 {
			issues = append(issues, model.Issue{Kind: model.IssueMissingAlt})
		}
	}

	return issues
}

// sampleInternalLinks HEAD-checks up to maxLinkChecks same-host links
// concurrently and counts failures.
func (a *Auditor) sampleInternalLinks(ctx context.Context, page *Page) (broken, checked int) {
	links := internalLinks(page)
	if len(links) > a.maxLinkChecks {
		links = links[:a.maxLinkChecks]
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, link := range links {
		g.Go(func() error {
			status, err := a.fetcher.Head(gctx, link)
			mu.Lock()
			defer mu.Unlock()
			checked++
			if err != nil || status >= 400 {
				broken++
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return broken, checked
}

func internalLinks(page *Page) []string {
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	var links []string
	page.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref)
		if full.Host != base.Host || (full.Scheme != "http" && full.Scheme != "https") {
			return
		}
		u := full.String()
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		links = append(links, u)
	})
	return links
}
