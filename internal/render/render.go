// Package render turns briefs into Markdown and HTML documents for export.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/heartmarshall/exegesis-backend/internal/domain"
)

// Format is an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat resolves a query value. Empty means Markdown.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, true
	case "html":
		return FormatHTML, true
	}
	return "", false
}

// ContentType returns the HTTP media type of f.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Extension returns the file extension used for downloads.
func (f Format) Extension() string {
	if f == FormatHTML {
		return ".html"
	}
	return ".md"
}

// Raw HTML in brief fields is dropped, not passed through.
var md = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

// Render renders b in format f.
func Render(b *domain.Brief, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(b)), nil
	case FormatHTML:
		return HTML(b)
	default:
		return nil, fmt.Errorf("render: unknown format %q", f)
	}
}

// HTML renders b as a standalone HTML document.
func HTML(b *domain.Brief) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(b)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	out.WriteString(escapeHTML(b.Title))
	out.WriteString("</title>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// Markdown renders b as a Markdown document. Empty sections are omitted.
func Markdown(b *domain.Brief) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", inline(b.Title))
	if b.Description != nil && strings.TrimSpace(*b.Description) != "" {
		fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(*b.Description))
	}
	fmt.Fprintf(&sb, "**Category:** %s  \n**Created:** %s\n\n", categoryLabel(b.Category), b.CreatedAt.UTC().Format("2006-01-02"))

	if len(b.LinguisticInsights) > 0 {
		sb.WriteString("## Linguistic insights\n\n")
		for _, li := range b.LinguisticInsights {
			fmt.Fprintf(&sb, "- **%s**", inline(li.Term))
			if li.Transliteration != "" {
				fmt.Fprintf(&sb, " (_%s_)", inline(li.Transliteration))
			}
			if li.Meaning != "" {
				fmt.Fprintf(&sb, ": %s", inline(li.Meaning))
			}
			sb.WriteString("\n")
			if li.Usage != "" {
				fmt.Fprintf(&sb, "  %s\n", inline(li.Usage))
			}
		}
		sb.WriteString("\n")
	}

	if ctx := strings.TrimSpace(b.HistoricalContext); ctx != "" {
		fmt.Fprintf(&sb, "## Historical context\n\n%s\n\n", ctx)
	}

	if len(b.OutlinePoints) > 0 {
		sb.WriteString("## Sermon outline\n\n")
		for i, p := range b.OutlinePoints {
			fmt.Fprintf(&sb, "%d. **%s**", i+1, inline(p.Title))
			if p.Content != "" {
				fmt.Fprintf(&sb, ": %s", inline(p.Content))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if t := strings.TrimSpace(b.Transcript); t != "" {
		sb.WriteString("## Transcript\n\n")
		for _, line := range strings.Split(t, "\n") {
			fmt.Fprintf(&sb, "> %s\n", strings.TrimRight(line, " \t\r"))
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func categoryLabel(c domain.Category) string {
	switch c {
	case domain.CategoryOldTestament:
		return "Old Testament"
	case domain.CategoryNewTestament:
		return "New Testament"
	default:
		return "Topical"
	}
}

// inline keeps a field on one line so it cannot break list structure.
func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;", "'", "&#39;")

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }
