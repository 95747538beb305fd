package audit

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/parmanandojha/aiagentsearch/internal/model"
)

var (
	phonePatterns = []*regexp.Regexp{
		// US format.
		regexp.MustCompile(`\+?1?\s*\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		// International.
		regexp.MustCompile(`\+?\d{1,4}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
	}
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	strictEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	whatsappRe    = regexp.MustCompile(`https?://(?:wa\.me|api\.whatsapp\.com)/[\d+\-]+`)
	nonPhoneRe    = regexp.MustCompile(`[^\d+]`)
)

// emailSkipDomains are common false positives in page source.
var emailSkipDomains = []string{"example.com", "sentry.io", "wixpress.com"}

var contactKeywords = []string{"contact", "get-in-touch", "reach-out", "message-us"}

// ExtractContacts pulls phone, email, contact-form, and WhatsApp channels
// from the business homepage. Failures return an empty Contact, never an
// error.
func (a *Auditor) ExtractContacts(ctx context.Context, websiteURL string) model.Contact {
	contact := model.Contact{}

	page, err := a.fetcher.Get(ctx, websiteURL)
	if err != nil {
		zap.L().Warn("audit: contact fetch failed", zap.String("url", websiteURL), zap.Error(err))
		return contact
	}

	text := page.Doc.Text()
	html := string(page.Body)

	contact.Phone = extractPhone(page.Doc, text)
	contact.Email = extractEmail(page.Doc, text)
	contact.ContactForm = extractContactForm(page.Doc, websiteURL)
	contact.WhatsApp = extractWhatsApp(page.Doc, html)

	return contact
}

func extractPhone(doc *goquery.Document, text string) string {
	// tel: links are the most reliable source.
	if href, ok := doc.Find(`a[href^="tel:"]`).First().Attr("href"); ok {
		if phone := normalizePhone(strings.TrimPrefix(href, "tel:")); phone != "" {
			return phone
		}
	}

	for _, re := range phonePatterns {
		for _, match := range re.FindAllString(text, 5) {
			if phone := normalizePhone(match); phone != "" {
				return phone
			}
		}
	}
	return ""
}

func normalizePhone(raw string) string {
	phone := nonPhoneRe.ReplaceAllString(raw, "")
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 10 || len(digits) > 15 {
		return ""
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return ""
		}
	}
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}

func extractEmail(doc *goquery.Document, text string) string {
	if href, ok := doc.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
		email := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(email, '?'); i >= 0 {
			email = email[:i]
		}
		email = strings.TrimSpace(email)
		if strictEmailRe.MatchString(email) {
			return email
		}
	}

	for _, match := range emailRe.FindAllString(text, 10) {
		skip := false
		lower := strings.ToLower(match)
		for _, domain := range emailSkipDomains {
			if strings.Contains(lower, domain) {
				skip = true
				break
			}
		}
		if !skip && strictEmailRe.MatchString(match) {
			return match
		}
	}
	return ""
}

func extractContactForm(doc *goquery.Document, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		lowerHref := strings.ToLower(href)
		lowerText := strings.ToLower(s.Text())
		for _, kw := range contactKeywords {
			if strings.Contains(lowerHref, kw) || strings.Contains(lowerText, kw) {
				found = resolveRef(base, href)
				return false
			}
		}
		return true
	})
	if found != "" {
		return found
	}

	forms := doc.Find("form")
	if forms.Length() == 0 {
		return ""
	}
	var action string
	forms.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if a, ok := s.Attr("action"); ok && a != "" {
			action = a
			return false
		}
		return true
	})
	if action != "" {
		return resolveRef(base, action)
	}
	return resolveRef(base, "/contact")
}

func extractWhatsApp(doc *goquery.Document, html string) string {
	if match := whatsappRe.FindString(html); match != "" {
		return match
	}
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		if strings.Contains(lower, "whatsapp") || strings.Contains(lower, "wa.me") {
			found = href
			return false
		}
		return true
	})
	return found
}

func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
