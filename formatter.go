package richtext

import "strings"

// FormatArticles formats articles as one line each for display.
// Paywalled articles are flagged.
func FormatArticles(articles []*Article) string {
	if len(articles) == 0 {
		return ""
	}

	lines := make([]string, 0, len(articles))
	for _, a := range articles {
		line := a.ID + "  " + a.Slug + "  " + a.Title
		if a.HasPaywall {
			line += "  [paywall]"
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
