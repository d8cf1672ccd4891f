package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// denyList holds the selectors of nodes that never carry page content.
var denyList = []string{
	// non-content markup
	"script", "style", "noscript", "template", "iframe", "svg",

	// site chrome
	"nav", "footer", "body > header",
	".site-header", ".site-footer", ".header", ".footer",
	".skip-to-content", ".skip-link", ".breadcrumb", ".sidebar", ".menu",
	".pagination", ".share", ".feedback", ".print-only",
	`[class*="nav"]`, `[id*="nav"]`, `[class*="menu"]`,
	`[class*="breadcrumb"]`, `[class*="sidebar"]`,

	// interactive widgets
	"form", "button", "input", "select", "textarea", ".search",

	// hidden from readers
	`[aria-hidden="true"]`, ".sr-only", ".screen-reader-only",
	".screen-reader-text", ".visually-hidden",
}

const emptyCandidates = "div, section, article, span, p"

// Normalize removes boilerplate, interactive and hidden nodes below sel, then
// prunes empty containers until none remain. The document root and body are
// never removed even when their classes match. Normalize is idempotent.
func Normalize(sel *goquery.Selection) {
	for _, selector := range denyList {
		sel.Find(selector).Not("html, body").Remove()
	}

	for {
		empty := sel.Find(emptyCandidates).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Children().Length() == 0 && strings.TrimSpace(s.Text()) == ""
		})
		if empty.Length() == 0 {
			return
		}
		empty.Remove()
	}
}
