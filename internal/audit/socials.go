package audit

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/parmanandojha/aiagentsearch/internal/model"
)

type socialPlatform struct {
	name     string
	baseURL  string
	patterns []*regexp.Regexp
}

var socialPlatforms = []socialPlatform{
	{
		name:    "instagram",
		baseURL: "https://instagram.com/",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)instagram\.com/([a-zA-Z0-9_.]+)`),
			regexp.MustCompile(`(?i)instagr\.am/([a-zA-Z0-9_.]+)`),
		},
	},
	{
		name:    "facebook",
		baseURL: "https://facebook.com/",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)facebook\.com/([a-zA-Z0-9_.]+)`),
			regexp.MustCompile(`(?i)fb\.com/([a-zA-Z0-9_.]+)`),
		},
	},
	{
		name:    "linkedin",
		baseURL: "https://linkedin.com/company/",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)linkedin\.com/(?:company|in|pub)/([a-zA-Z0-9_.-]+)`),
		},
	},
	{
		name:    "twitter",
		baseURL: "https://twitter.com/",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:twitter|x)\.com/([a-zA-Z0-9_]+)`),
		},
	},
	{
		name:    "youtube",
		baseURL: "https://youtube.com/",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)youtube\.com/(?:channel|c|user|@)/([a-zA-Z0-9_.-]+)`),
			regexp.MustCompile(`(?i)youtu\.be/([a-zA-Z0-9_.-]+)`),
		},
	},
}

// DiscoverSocials finds social media profile links on the business homepage.
// Failures return an empty Socials, never an error.
func (a *Auditor) DiscoverSocials(ctx context.Context, websiteURL string) model.Socials {
	page, err := a.fetcher.Get(ctx, websiteURL)
	if err != nil {
		zap.L().Warn("audit: socials fetch failed", zap.String("url", websiteURL), zap.Error(err))
		return model.Socials{}
	}
	return socialsFromPage(page.Doc, string(page.Body))
}

func socialsFromPage(doc *goquery.Document, html string) model.Socials {
	found := map[string]string{}

	// Pattern scan over the raw HTML catches links embedded in scripts and
	// widgets, not just anchors.
	for _, platform := range socialPlatforms {
		for _, re := range platform.patterns {
			if m := re.FindStringSubmatch(html); m != nil {
				found[platform.name] = platform.baseURL + m[1]
				break
			}
		}
	}

	// Prefer full anchor hrefs when present.
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		for _, platform := range socialPlatforms {
			for _, re := range platform.patterns {
				if re.MatchString(href) {
					if _, ok := found[platform.name]; !ok || strings.HasPrefix(href, "https://") {
						found[platform.name] = href
					}
				}
			}
		}
	})

	return model.Socials{
		Instagram: found["instagram"],
		Facebook:  found["facebook"],
		LinkedIn:  found["linkedin"],
		Twitter:   found["twitter"],
		YouTube:   found["youtube"],
	}
}
