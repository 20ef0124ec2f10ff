package services

import (
	"fmt"
	"html"
	"strings"
)

// GenerateCallScriptPDF renders a call script as a printable PDF
func GenerateCallScriptPDF(script *CallScript) ([]byte, error) {
	return GeneratePDF(renderScriptHTML(script), DefaultPDFOptions())
}

func renderScriptHTML(script *CallScript) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Georgia, serif; font-size: 12pt; color: #1a1a1a; line-height: 1.5; }
h1 { font-size: 16pt; border-bottom: 2px solid #1a1a1a; padding-bottom: 6px; }
h2 { font-size: 12pt; text-transform: uppercase; letter-spacing: 1px; margin-top: 18px; }
.meta { color: #555; font-size: 10pt; margin-bottom: 12px; }
ul { margin: 4px 0; }
.fallback { margin: 6px 0; }
.fallback strong { display: inline-block; min-width: 130px; }
</style>
</head>
<body>
`)

	title := "Call Script"
	if script.Metadata.CustomerName != "" {
		title = fmt.Sprintf("Call Script: %s", script.Metadata.CustomerName)
	}
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(&b, `<div class="meta">Purpose: %s &middot; Company: %s &middot; Generated: %s</div>`+"\n",
		html.EscapeString(script.Metadata.Purpose),
		html.EscapeString(script.Metadata.CustomerCompany),
		html.EscapeString(script.Metadata.GeneratedAt))

	writeSection(&b, "Greeting", script.Greeting)
	writeSection(&b, "Introduction", script.Introduction)
	writeListSection(&b, "Main Points", script.MainPoints)
	writeListSection(&b, "Questions", script.Questions)
	writeSection(&b, "Closing", script.Closing)

	b.WriteString("<h2>If The Customer Is...</h2>\n")
	fallbacks := []struct{ label, text string }{
		{"Busy", script.Fallbacks.Busy},
		{"Not interested", script.Fallbacks.NotInterested},
		{"Needs more info", script.Fallbacks.NeedMoreInfo},
	}
	for _, fb := range fallbacks {
		fmt.Fprintf(&b, `<div class="fallback"><strong>%s:</strong> %s</div>`+"\n",
			html.EscapeString(fb.label), html.EscapeString(fb.text))
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeSection(b *strings.Builder, heading, text string) {
	fmt.Fprintf(b, "<h2>%s</h2>\n<p>%s</p>\n", html.EscapeString(heading), html.EscapeString(text))
}

func writeListSection(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "<h2>%s</h2>\n<ul>\n", html.EscapeString(heading))
	for _, item := range items {
		fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(item))
	}
	b.WriteString("</ul>\n")
}
