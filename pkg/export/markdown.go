package export

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/chartdata"
	"github.com/vanderheijden86/neuralx/pkg/metrics"
)

// Package-level compiled regex for slug creation (avoids recompilation per call)
var slugNonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// sanitizeMermaidID ensures an ID is valid for Mermaid diagrams.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range asciiFold(id) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			sb.WriteRune(r)
		}
	}
	result := sb.String()
	if result == "" {
		return "node"
	}
	return result
}

// sanitizeMermaidText prepares text for use in Mermaid node labels.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "‹",
		">", "›",
		"|", "/",
		"\n", " ",
		"\r", "",
	)
	return strings.TrimSpace(replacer.Replace(text))
}

// GenerateMarkdown renders the paper as a standalone markdown document:
// metadata, table of contents, the body with figures as Mermaid flowcharts,
// the result series as tables, and the numbered references.
func GenerateMarkdown(p *content.Paper) (string, error) {
	if p == nil {
		return "", fmt.Errorf("no paper to export")
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", p.Title))
	if p.Subtitle != "" {
		sb.WriteString(fmt.Sprintf("*%s*\n\n", p.Subtitle))
	}

	sb.WriteString("| Campo | Valor |\n|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Autores** | %s |\n", escapeCell(strings.Join(p.Authors, ", "))))
	sb.WriteString(fmt.Sprintf("| **Afiliación** | %s |\n", escapeCell(p.Affiliation)))
	sb.WriteString(fmt.Sprintf("| **Revista** | %s (%d) |\n", escapeCell(p.Journal), p.Year))
	sb.WriteString(fmt.Sprintf("| **Publicado** | %s |\n", escapeCell(p.PublicationDate)))
	sb.WriteString(fmt.Sprintf("| **Citas** | %d |\n", p.Stats.Citations))
	sb.WriteString(fmt.Sprintf("| **Lectura** | %d min |\n", p.ReadingMinutes()))
	if len(p.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("| **Etiquetas** | %s |\n", escapeCell(strings.Join(p.Tags, ", "))))
	}
	sb.WriteString("\n")

	// Precompute stable, unique slugs for TOC anchors and headings.
	slugCounts := make(map[string]int, len(p.Sections)+1)
	abstractSlug := uniqueSlug(createSlug("Resumen"), slugCounts)
	slugs := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		slugs[i] = uniqueSlug(createSlug(s.Title), slugCounts)
	}

	sb.WriteString("## Contenido\n\n")
	sb.WriteString(fmt.Sprintf("- [Resumen](#%s)\n", abstractSlug))
	for i, s := range p.Sections {
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", s.Title, slugs[i]))
	}
	sb.WriteString("\n---\n\n")

	sb.WriteString(fmt.Sprintf("<a id=\"%s\"></a>\n\n## Resumen\n\n", abstractSlug))
	sb.WriteString(strings.TrimSpace(p.Abstract) + "\n\n")

	if len(p.KeyFindings) > 0 {
		sb.WriteString("### Hallazgos Clave\n\n")
		for _, f := range p.KeyFindings {
			sb.WriteString(fmt.Sprintf("- ✓ %s\n", f))
		}
		sb.WriteString("\n")
	}

	for i, s := range p.Sections {
		sb.WriteString(fmt.Sprintf("<a id=\"%s\"></a>\n\n", slugs[i]))
		sb.WriteString(fmt.Sprintf("## %s\n\n", s.Title))
		sb.WriteString(strings.TrimSpace(s.Body) + "\n\n")
		if s.Figure != nil {
			sb.WriteString(figureMermaid(*s.Figure))
		}
	}
	sb.WriteString("---\n\n")

	sb.WriteString(resultsMarkdown(p))

	if len(p.References) > 0 {
		sb.WriteString("## Referencias\n\n")
		for i, r := range p.References {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.String()))
		}
		sb.WriteString("\n")
	}

	if p.Footer.Copyright != "" {
		sb.WriteString(fmt.Sprintf("---\n\n*%s*\n", p.Footer.Copyright))
	}

	return sb.String(), nil
}

// figureMermaid renders a figure's stages as a left-to-right flowchart.
func figureMermaid(f content.Figure) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\ngraph LR\n")
	ids := make([]string, len(f.Stages))
	seen := make(map[string]int, len(f.Stages))
	for i, stage := range f.Stages {
		ids[i] = uniqueSlug(sanitizeMermaidID(stage), seen)
		ids[i] = strings.ReplaceAll(ids[i], "-", "_")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids[i], sanitizeMermaidText(stage)))
	}
	for i := 1; i < len(ids); i++ {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", ids[i-1], ids[i]))
	}
	sb.WriteString("```\n\n")
	sb.WriteString(fmt.Sprintf("**%s.** %s\n\n", f.Label, f.Caption))
	return sb.String()
}

// resultsMarkdown renders the chart series as tables.
func resultsMarkdown(p *content.Paper) string {
	var sb strings.Builder
	sb.WriteString("## Resultados\n\n")

	if len(p.SummaryCards) > 0 {
		sb.WriteString("| Métrica | Valor | Nota |\n|---------|-------|------|\n")
		for _, c := range p.SummaryCards {
			value := c.Value
			if c.Unit != "" {
				value += " " + c.Unit
			}
			sb.WriteString(fmt.Sprintf("| %s | **%s** | %s |\n", escapeCell(c.Title), escapeCell(value), escapeCell(c.Note)))
		}
		sb.WriteString("\n")
	}

	if len(p.Generations) > 0 {
		sb.WriteString(fmt.Sprintf("### %s\n\n", chartdata.AccuracyTitle))
		sb.WriteString("| Generación | Precisión (%) | | Latencia (ms) |\n|------------|---------------|---|---------------|\n")
		for _, g := range p.Generations {
			bar := barChart(chartdata.Normalize(g.Accuracy, chartdata.AccuracyMin, chartdata.AccuracyMax))
			sb.WriteString(fmt.Sprintf("| %s | %.1f | %s | %.0f |\n", escapeCell(g.Name), g.Accuracy, bar, g.Latency))
		}
		mean, std := chartdata.Summary(chartdata.Accuracy(p.Generations))
		sb.WriteString(fmt.Sprintf("\nPrecisión media %.1f%% (σ %.1f).\n\n", mean, std))
	}

	if len(p.Scatter) > 0 {
		_, _, zs := chartdata.XYZ(p.Scatter)
		classes := chartdata.SizeClasses(zs)
		sb.WriteString(fmt.Sprintf("### %s\n\n", chartdata.ScatterTitle))
		sb.WriteString("| PC1 | PC2 | Precisión | Tamaño |\n|-----|-----|-----------|--------|\n")
		for i, pt := range p.Scatter {
			sb.WriteString(fmt.Sprintf("| %.0f | %.0f | %.0f | %s |\n", pt.X, pt.Y, pt.Z, strings.Repeat("●", classes[i]+1)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "|", "\\|")
}

func uniqueSlug(base string, counts map[string]int) string {
	if base == "" {
		base = "section"
	}
	if count, ok := counts[base]; ok {
		count++
		counts[base] = count
		return fmt.Sprintf("%s-%d", base, count)
	}
	counts[base] = 0
	return base
}

// createSlug creates a URL-friendly slug from heading text.
func createSlug(text string) string {
	slug := strings.ToLower(asciiFold(text))
	slug = slugNonAlphanumericRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func barChart(value float64) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value * 4)
	if filled > 4 {
		filled = 4
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 4-filled)
}

// SaveMarkdownToFile writes GenerateMarkdown's output to filename.
func SaveMarkdownToFile(p *content.Paper, filename string) error {
	defer metrics.Timer(metrics.ExportText)()

	md, err := GenerateMarkdown(p)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(md), 0644)
}
