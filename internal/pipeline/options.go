package pipeline

import "cloud.google.com/go/civil"

// AnonymousClientID is the placeholder client id WHMCS assigns to
// transactions without an account, excludable via Options.
const AnonymousClientID = "0"

// Options is the full configuration surface of one generate run.
type Options struct {
	ClientsPath      string
	TransactionsPath string
	InvoicesPath     string // only read when IncludeZeroInvoices is set
	TemplatePath     string // empty → the canonical 21-column header set

	DefaultType     string
	DefaultLanguage string
	DefaultCountry  string

	IncludeZeroInvoices bool
	ExcludeAnonymous    bool
	FailOnErrors        bool

	AliasRulesPath   string // optional YAML header-alias overrides
	PaymentRulesPath string // optional YAML payment keyword overrides

	// GeneratedAt is substituted for uncanonicalizable dates when not
	// running fail-fast; normally the run's own date.
	GeneratedAt civil.Date

	// RunID correlates all artifacts of one run.
	RunID string
}
