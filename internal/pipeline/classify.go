package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// dateLayouts are tried in order before the Unix-timestamp fallback. WHMCS
// emits ISO dates, but older exports carried slash dates and full
// timestamps.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"2006/01/02",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// CanonicalizeDate parses raw date text into a civil.Date. After the layout
// list fails, a 10–13 digit numeric string is interpreted as a Unix
// timestamp, milliseconds when it has 13 digits. ok is false when nothing
// matches.
func CanonicalizeDate(raw string) (civil.Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return civil.Date{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}

	if len(s) >= 10 && len(s) <= 13 && isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			var t time.Time
			if len(s) >= 13 {
				t = time.UnixMilli(n).UTC()
			} else {
				t = time.Unix(n, 0).UTC()
			}
			return civil.DateOf(t), true
		}
	}

	return civil.Date{}, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// FormatDate renders a civil.Date in the platform's MM/DD/YYYY form.
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Month, d.Day, d.Year)
}

// ParseAmount parses raw amount text as a decimal under a symbol-tolerant
// reading: the trimmed text is tried as-is, then again with grouping commas,
// inner whitespace and common currency symbols stripped. ok is false when
// both attempts fail.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	if d, err := decimal.NewFromString(s); err == nil {
		return d, true
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', ' ', '$', '€', '£':
			return -1
		}
		return r
	}, s)
	if d, err := decimal.NewFromString(s); err == nil {
		return d, true
	}

	return decimal.Decimal{}, false
}

// FormatAmount renders d with at most two fractional digits and trailing
// zeros trimmed: "1,234.50" parses and renders as "1234.5", "10.00" as "10".
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(2).String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Payment methods accepted by the target platform's import.
const (
	MethodApplePayOrGooglePay = "applePayOrGooglePay"
	MethodACH                 = "ach"
	MethodPAD                 = "pad"
	MethodTransfer            = "transfer"
	MethodManual              = "manual"
	MethodCheque              = "cheque"
	MethodCash                = "cash"
	MethodCard                = "card"
	MethodFree                = "free"
	MethodUnknown             = "unknown"
)

// PaymentRule maps a gateway keyword onto a platform payment method. Rules
// are evaluated in order; the first keyword contained in the gateway text
// wins, so more specific keywords must come first.
type PaymentRule struct {
	Keyword string `yaml:"keyword"`
	Method  string `yaml:"method"`
}

// DefaultPaymentRules covers the gateway spellings seen in the WHMCS
// exports.
var DefaultPaymentRules = []PaymentRule{
	{Keyword: "apple", Method: MethodApplePayOrGooglePay},
	{Keyword: "google", Method: MethodApplePayOrGooglePay},
	{Keyword: "echeck", Method: MethodACH},
	{Keyword: "ach", Method: MethodACH},
	{Keyword: "pad", Method: MethodPAD},
	{Keyword: "wire", Method: MethodTransfer},
	{Keyword: "transfer", Method: MethodTransfer},
	{Keyword: "eft", Method: MethodTransfer},
	{Keyword: "mailin", Method: MethodManual},
	{Keyword: "mail in", Method: MethodManual},
	{Keyword: "manual", Method: MethodManual},
	{Keyword: "offline", Method: MethodManual},
	// Card gateways come before the cheque keywords: "Stripe Checkout"
	// contains "check".
	{Keyword: "stripe", Method: MethodCard},
	{Keyword: "card", Method: MethodCard},
	{Keyword: "credit", Method: MethodCard},
	{Keyword: "visa", Method: MethodCard},
	{Keyword: "master", Method: MethodCard},
	{Keyword: "amex", Method: MethodCard},
	{Keyword: "discover", Method: MethodCard},
	{Keyword: "cheque", Method: MethodCheque},
	{Keyword: "check", Method: MethodCheque},
	{Keyword: "cash", Method: MethodCash},
}

// ClassifyPaymentMethod maps raw gateway text onto the platform enumeration
// using the ordered rule table. A zero amount overrides the heuristic
// unconditionally: those rows import as "free" whatever the gateway says.
func ClassifyPaymentMethod(gateway string, amount decimal.Decimal, rules []PaymentRule) string {
	if amount.IsZero() {
		return MethodFree
	}

	g := strings.ToLower(gateway)
	for _, rule := range rules {
		if rule.Keyword != "" && strings.Contains(g, strings.ToLower(rule.Keyword)) {
			return rule.Method
		}
	}
	return MethodUnknown
}

// LoadPaymentRules reads a replacement rule table from a YAML file, a list
// of {keyword, method} entries in match order.
func LoadPaymentRules(path string) ([]PaymentRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadPaymentRules: read %q: %w", path, err)
	}
	var rules []PaymentRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("LoadPaymentRules: parse %q: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("LoadPaymentRules: %q contains no rules", path)
	}
	return rules, nil
}
