package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// CanonicalHeaders is the exact 21-column header set of the platform's
// import format, names, order and casing included. Output written under
// these headers must stay byte-compatible with the documented format.
var CanonicalHeaders = []string{
	"firstName",
	"lastName",
	"amount",
	"address",
	"city",
	"postalCode",
	"country",
	"type",
	"formTitle",
	"rateTitle",
	"email",
	"language",
	"date (MM/DD/YYYY)",
	"state/province",
	"paymentMethod",
	"receiptUrl",
	"ticketUrl",
	"receiptNumber",
	"companyName",
	"note",
	"annotation",
}

// HeaderAlias binds a header recognition pattern to a canonical field name.
// Patterns are matched case-insensitively anywhere in the header text, in
// order, first match wins. The indirection exists so that header renames in
// the platform's own export template need a pattern addition, not a code
// change.
type HeaderAlias struct {
	Pattern string `yaml:"pattern"`
	Field   string `yaml:"field"`

	re *regexp.Regexp
}

// DefaultHeaderAliases recognizes the header spellings seen in the
// platform's export templates. Order matters: receiptNumber must be tried
// before the bare receipt pattern, annotation before note.
var DefaultHeaderAliases = []HeaderAlias{
	{Pattern: `first`, Field: "firstName"},
	{Pattern: `last`, Field: "lastName"},
	{Pattern: `amount|total`, Field: "amount"},
	{Pattern: `e-?mail`, Field: "email"},
	{Pattern: `postal|zip`, Field: "postalCode"},
	{Pattern: `state|province`, Field: "state/province"},
	{Pattern: `payment`, Field: "paymentMethod"},
	{Pattern: `company|organi[sz]ation`, Field: "companyName"},
	{Pattern: `receipt\s*number`, Field: "receiptNumber"},
	{Pattern: `receipt`, Field: "receiptUrl"},
	{Pattern: `ticket`, Field: "ticketUrl"},
	{Pattern: `form`, Field: "formTitle"},
	{Pattern: `rate`, Field: "rateTitle"},
	{Pattern: `date`, Field: "date (MM/DD/YYYY)"},
	{Pattern: `language`, Field: "language"},
	{Pattern: `country`, Field: "country"},
	{Pattern: `city`, Field: "city"},
	{Pattern: `address`, Field: "address"},
	{Pattern: `annotation|comment`, Field: "annotation"},
	{Pattern: `note`, Field: "note"},
	{Pattern: `type`, Field: "type"},
}

// CompileAliases compiles the recognition patterns, returning a copy of the
// list ready for MatchHeader.
func CompileAliases(aliases []HeaderAlias) ([]HeaderAlias, error) {
	compiled := make([]HeaderAlias, len(aliases))
	for i, a := range aliases {
		re, err := regexp.Compile(`(?i)` + a.Pattern)
		if err != nil {
			return nil, fmt.Errorf("CompileAliases: pattern %q: %w", a.Pattern, err)
		}
		a.re = re
		compiled[i] = a
	}
	return compiled, nil
}

// MatchHeader resolves a template header to a canonical field name, or ""
// when no pattern recognizes it. Unmatched headers become empty output
// columns.
func MatchHeader(header string, aliases []HeaderAlias) string {
	h := strings.TrimSpace(header)
	for _, a := range aliases {
		if a.re != nil && a.re.MatchString(h) {
			return a.Field
		}
	}
	return ""
}

// LoadHeaderAliases reads a replacement alias table from a YAML file, a list
// of {pattern, field} entries in match order.
func LoadHeaderAliases(path string) ([]HeaderAlias, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadHeaderAliases: read %q: %w", path, err)
	}
	var aliases []HeaderAlias
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("LoadHeaderAliases: parse %q: %w", path, err)
	}
	if len(aliases) == 0 {
		return nil, fmt.Errorf("LoadHeaderAliases: %q contains no aliases", path)
	}
	return aliases, nil
}

// ReadTemplateHeaders reads the header line of an externally supplied
// platform export template.
func ReadTemplateHeaders(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadTemplateHeaders: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("ReadTemplateHeaders: read header line of %q: %w", path, err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}
	return headers, nil
}
