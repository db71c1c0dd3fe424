package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func TestCanonicalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"iso date", "2023-05-01", "05/01/2023", true},
		{"iso datetime", "2023-05-01 13:45:00", "05/01/2023", true},
		{"surrounding whitespace", "  2023-05-01  ", "05/01/2023", true},
		{"slash date", "12/31/2022", "12/31/2022", true},
		{"unix seconds", "1690000000", "07/22/2023", true},
		{"unix milliseconds", "1690000000000", "07/22/2023", true},
		{"not a date", "not-a-date", "", false},
		{"nine digits", "169000000", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := CanonicalizeDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("CanonicalizeDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && FormatDate(d) != tt.want {
				t.Errorf("CanonicalizeDate(%q) = %s, want %s", tt.input, FormatDate(d), tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := civil.Date{Year: 2023, Month: 5, Day: 1}
	if got := FormatDate(d); got != "05/01/2023" {
		t.Errorf("FormatDate = %q, want %q", got, "05/01/2023")
	}
}

func TestParseAndFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"grouped", "1,234.50", "1234.5", true},
		{"trailing zeros trimmed", "10.00", "10", true},
		{"integer", "7", "7", true},
		{"zero", "0.00", "0", true},
		{"negative", "-12.30", "-12.3", true},
		{"currency symbol", "$5.00", "5", true},
		{"inner whitespace", "1 234.00", "1234", true},
		{"three decimals rounded", "1.005", "1.01", true},
		{"empty", "", "", false},
		{"garbage", "abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok {
				if got := FormatAmount(d); got != tt.want {
					t.Errorf("FormatAmount(ParseAmount(%q)) = %q, want %q", tt.input, got, tt.want)
				}
			}
		})
	}
}

func TestClassifyPaymentMethod(t *testing.T) {
	one := decimal.NewFromInt(1)
	zero := decimal.Zero

	tests := []struct {
		name    string
		gateway string
		amount  decimal.Decimal
		want    string
	}{
		{"stripe is card", "stripe", one, MethodCard},
		{"case insensitive", "Stripe Checkout", one, MethodCard},
		{"mailin is manual", "mailin", one, MethodManual},
		{"cheque", "Cheque", one, MethodCheque},
		{"us spelling", "check", one, MethodCheque},
		{"echeck is ach", "eCheck", one, MethodACH},
		{"bank transfer", "Bank Transfer", one, MethodTransfer},
		{"apple pay", "Apple Pay", one, MethodApplePayOrGooglePay},
		{"cash", "cash", one, MethodCash},
		{"unmatched", "bitcoin", one, MethodUnknown},
		{"empty gateway", "", one, MethodUnknown},
		{"zero overrides gateway", "stripe", zero, MethodFree},
		{"zero with empty gateway", "", zero, MethodFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPaymentMethod(tt.gateway, tt.amount, DefaultPaymentRules)
			if got != tt.want {
				t.Errorf("ClassifyPaymentMethod(%q) = %q, want %q", tt.gateway, got, tt.want)
			}
		})
	}
}

func TestLoadPaymentRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "- keyword: zelle\n  method: transfer\n- keyword: stripe\n  method: card\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadPaymentRules(path)
	if err != nil {
		t.Fatalf("LoadPaymentRules failed: %v", err)
	}
	if len(rules) != 2 || rules[0].Keyword != "zelle" || rules[0].Method != "transfer" {
		t.Errorf("unexpected rules: %+v", rules)
	}

	got := ClassifyPaymentMethod("Zelle payment", decimal.NewFromInt(5), rules)
	if got != MethodTransfer {
		t.Errorf("custom rule not applied, got %q", got)
	}
}

func TestLoadPaymentRules_Missing(t *testing.T) {
	if _, err := LoadPaymentRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
