package content

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CiteFormat names a citation style.
type CiteFormat string

const (
	CiteAPA    CiteFormat = "apa"
	CiteBibTeX CiteFormat = "bibtex"
	CitePlain  CiteFormat = "plain"
)

// CiteFormats lists the supported styles in menu order.
func CiteFormats() []CiteFormat {
	return []CiteFormat{CiteAPA, CiteBibTeX, CitePlain}
}

// ErrUnknownCiteFormat is returned by Cite for a style it does not know.
var ErrUnknownCiteFormat = errors.New("unknown citation format")

// Cite formats the paper as a citation.
func (p *Paper) Cite(format CiteFormat) (string, error) {
	switch format {
	case CiteAPA:
		return p.citeAPA(), nil
	case CiteBibTeX:
		return p.citeBibTeX(), nil
	case CitePlain:
		return fmt.Sprintf("%s. %q. %s, %d.", strings.Join(p.Authors, ", "), p.Title, p.Journal, p.Year), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCiteFormat, format)
	}
}

// citeAPA renders "Surname, I., Surname, I., & Surname, I. (Year). Title. Journal."
func (p *Paper) citeAPA() string {
	names := make([]string, len(p.Authors))
	for i, a := range p.Authors {
		names[i] = apaName(a)
	}
	var authors string
	switch len(names) {
	case 0:
	case 1:
		authors = names[0]
	default:
		authors = strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
	return fmt.Sprintf("%s (%d). %s. %s.", authors, p.Year, p.Title, p.Journal)
}

func (p *Paper) citeBibTeX() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s,\n", p.CiteKey())
	fmt.Fprintf(&b, "  title   = {%s},\n", p.Title)
	fmt.Fprintf(&b, "  author  = {%s},\n", strings.Join(stripHonorifics(p.Authors), " and "))
	fmt.Fprintf(&b, "  journal = {%s},\n", p.Journal)
	fmt.Fprintf(&b, "  year    = {%d}\n", p.Year)
	b.WriteString("}")
	return b.String()
}

// CiteKey is the BibTeX key: first author's surname, year and the first
// significant title word, lowercased and without accents.
func (p *Paper) CiteKey() string {
	var surname string
	if len(p.Authors) > 0 {
		f := strings.Fields(p.Authors[0])
		if len(f) > 0 {
			surname = f[len(f)-1]
		}
	}
	var word string
	for _, w := range strings.Fields(p.Title) {
		if len([]rune(w)) > 3 {
			word = w
			break
		}
	}
	return asciiLower(surname) + fmt.Sprint(p.Year) + asciiLower(word)
}

// ShareText is the snippet copied by the reader's share action.
func (p *Paper) ShareText() string {
	return fmt.Sprintf("%q (%s, %d) · %s", p.Title, p.Journal, p.Year, p.Project)
}

func stripHonorifics(authors []string) []string {
	out := make([]string, len(authors))
	for i, a := range authors {
		fields := strings.Fields(a)
		for len(fields) > 1 && isHonorific(fields[0]) {
			fields = fields[1:]
		}
		out[i] = strings.Join(fields, " ")
	}
	return out
}

func isHonorific(w string) bool {
	return strings.HasSuffix(w, ".") && len([]rune(w)) > 2
}

// apaName turns "Prof. A. K. Smith" into "Smith, A. K.".
func apaName(full string) string {
	fields := strings.Fields(stripHonorifics([]string{full})[0])
	if len(fields) == 0 {
		return ""
	}
	surname := fields[len(fields)-1]
	var initials []string
	for _, f := range fields[:len(fields)-1] {
		r := []rune(f)
		initials = append(initials, string(unicode.ToUpper(r[0]))+".")
	}
	if len(initials) == 0 {
		return surname
	}
	return surname + ", " + strings.Join(initials, " ")
}

// asciiLower drops diacritics and anything that is not a letter or digit.
func asciiLower(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
