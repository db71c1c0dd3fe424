package pipeline

import (
	"context"
	"fmt"

	"github.com/opsdeck/whmcs-import/internal/logger"
	"github.com/opsdeck/whmcs-import/internal/whmcs"
)

// Step is a single stage of the import draft pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is the shared state threaded through the steps of one run.
type State struct {
	Options Options

	Clients      []whmcs.Client
	Transactions []whmcs.Transaction
	Invoices     []whmcs.Invoice

	ClientIndex  map[string]whmcs.Client
	Headers      []string
	Aliases      []HeaderAlias
	PaymentRules []PaymentRule
	Synthesized  int

	Result *Result
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewImportDraftPipeline creates the standard load → join → synthesize →
// resolve-rules → transform pipeline.
func NewImportDraftPipeline() *Pipeline {
	return NewPipeline(
		&LoadStep{},
		&JoinStep{},
		&SynthesizeStep{},
		&ResolveRulesStep{},
		&TransformStep{},
	)
}

// Run executes the standard pipeline over the configured inputs and returns
// the run result. Writing artifacts is the caller's concern; nothing here
// touches the output paths.
func Run(ctx context.Context, opts Options) (*Result, error) {
	state := &State{Options: opts}
	if err := NewImportDraftPipeline().Execute(ctx, state); err != nil {
		return nil, err
	}
	return state.Result, nil
}

// LoadStep reads the source tables fully into memory. A missing required
// file is fatal: nothing downstream can run without it.
type LoadStep struct{}

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	opts := state.Options

	clients, err := whmcs.LoadClients(opts.ClientsPath)
	if err != nil {
		return err
	}
	state.Clients = clients

	txns, err := whmcs.LoadTransactions(opts.TransactionsPath)
	if err != nil {
		return err
	}
	state.Transactions = txns

	if opts.IncludeZeroInvoices {
		invoices, err := whmcs.LoadInvoices(opts.InvoicesPath)
		if err != nil {
			return err
		}
		state.Invoices = invoices
	}

	log.Info().
		Int("clients", len(state.Clients)).
		Int("transactions", len(state.Transactions)).
		Int("invoices", len(state.Invoices)).
		Msg("source tables loaded")
	return nil
}

// JoinStep builds the client lookup used to resolve transaction rows.
type JoinStep struct{}

func (s *JoinStep) Execute(ctx context.Context, state *State) error {
	state.ClientIndex = BuildClientIndex(state.Clients)
	return nil
}

// SynthesizeStep appends pseudo-transactions for unrepresented zero-total
// invoices when the run asks for them.
type SynthesizeStep struct{}

func (s *SynthesizeStep) Execute(ctx context.Context, state *State) error {
	if !state.Options.IncludeZeroInvoices {
		return nil
	}
	synthesized := SynthesizeZeroInvoices(state.Invoices, state.Transactions)
	state.Transactions = append(state.Transactions, synthesized...)
	state.Synthesized = len(synthesized)
	if len(synthesized) > 0 {
		log := logger.FromContext(ctx)
		log.Info().
			Int("synthesized", len(synthesized)).
			Msg("zero-total invoices synthesized as transactions")
	}
	return nil
}

// ResolveRulesStep settles the output header list and the alias/payment rule
// tables for the run: canonical headers or a template's, built-in rules or a
// YAML override.
type ResolveRulesStep struct{}

func (s *ResolveRulesStep) Execute(ctx context.Context, state *State) error {
	opts := state.Options

	state.Headers = CanonicalHeaders
	if opts.TemplatePath != "" {
		headers, err := ReadTemplateHeaders(opts.TemplatePath)
		if err != nil {
			return err
		}
		state.Headers = headers
	}

	aliases := DefaultHeaderAliases
	if opts.AliasRulesPath != "" {
		loaded, err := LoadHeaderAliases(opts.AliasRulesPath)
		if err != nil {
			return err
		}
		aliases = loaded
	}
	compiled, err := CompileAliases(aliases)
	if err != nil {
		return err
	}
	state.Aliases = compiled

	state.PaymentRules = DefaultPaymentRules
	if opts.PaymentRulesPath != "" {
		rules, err := LoadPaymentRules(opts.PaymentRulesPath)
		if err != nil {
			return err
		}
		state.PaymentRules = rules
	}

	return nil
}

// TransformStep is the single pass over the joined transactions: normalize,
// sanitize, classify, map, validate, audit. All findings accumulate on the
// Result; nothing aborts mid-batch.
type TransformStep struct{}

func (s *TransformStep) Execute(ctx context.Context, state *State) error {
	opts := state.Options
	res := &Result{RunID: opts.RunID, Headers: state.Headers}
	res.Stats.Synthesized = state.Synthesized

	for _, txn := range state.Transactions {
		clientID := NormalizeField(txn.ClientID)
		client, found := state.ClientIndex[clientID]
		if !found {
			res.Stats.SkippedNoClient++
			continue
		}
		if opts.ExcludeAnonymous && clientID == AnonymousClientID {
			res.Stats.SkippedAnonymous++
			continue
		}

		rawFirst := NormalizeField(client.FirstName)
		rawLast := NormalizeField(client.LastName)
		rawCompany := NormalizeField(client.CompanyName)

		first := SanitizePersonName(rawFirst)
		last := SanitizePersonName(rawLast)
		company := SanitizeCompanyName(rawCompany)

		// Rows without both names are dropped, not reported: they tend to be
		// deliberate exclusions (refunds, adjustments) rather than data
		// defects.
		if first == "" || last == "" {
			res.Stats.SkippedEmptyName++
			continue
		}

		amountText := NormalizeField(txn.AmountIn)
		if amountText == "" {
			amountText = NormalizeField(txn.AmountOut)
		}
		amount, ok := ParseAmount(amountText)
		if !ok {
			res.Stats.SkippedNoAmount++
			continue
		}

		ids := RowIDs{
			Email:         NormalizeField(client.Email),
			ClientID:      clientID,
			TransactionID: NormalizeField(txn.ID),
			InvoiceID:     NormalizeField(txn.InvoiceID),
		}
		rowIndex := len(res.Rows)

		if first != rawFirst {
			res.PersonDiffs = append(res.PersonDiffs, TransformDiff{
				Field: "firstName", Original: rawFirst, Sanitized: first, IDs: ids,
			})
		}
		if last != rawLast {
			res.PersonDiffs = append(res.PersonDiffs, TransformDiff{
				Field: "lastName", Original: rawLast, Sanitized: last, IDs: ids,
			})
		}
		if company != rawCompany {
			res.CompanyDiffs = append(res.CompanyDiffs, TransformDiff{
				Field: "companyName", Original: rawCompany, Sanitized: company, IDs: ids,
			})
		}

		rawDate := NormalizeField(txn.Date)
		dateText := ""
		if d, ok := CanonicalizeDate(rawDate); ok {
			dateText = FormatDate(d)
		} else {
			res.Errors = append(res.Errors, ValidationError{
				RowIndex: rowIndex,
				Field:    "date (MM/DD/YYYY)",
				Reason:   "date could not be canonicalized",
				Raw:      rawDate,
				IDs:      ids,
			})
			// Best-effort fallback to the run's generation date; fail-fast
			// runs abort anyway, so the field stays empty there.
			if !opts.FailOnErrors {
				dateText = FormatDate(opts.GeneratedAt)
			}
		}

		if !ValidatePersonName(first) {
			res.Errors = append(res.Errors, ValidationError{
				RowIndex: rowIndex, Field: "firstName",
				Reason: "sanitized value fails the person-name allowlist",
				Raw:    rawFirst, Sanitized: first, IDs: ids,
			})
		}
		if !ValidatePersonName(last) {
			res.Errors = append(res.Errors, ValidationError{
				RowIndex: rowIndex, Field: "lastName",
				Reason: "sanitized value fails the person-name allowlist",
				Raw:    rawLast, Sanitized: last, IDs: ids,
			})
		}
		if bad := InvalidCompanyRunes(company); len(bad) > 0 {
			res.Errors = append(res.Errors, ValidationError{
				RowIndex: rowIndex, Field: "companyName",
				Reason: fmt.Sprintf("invalid characters after sanitization: %q", string(bad)),
				Raw:    rawCompany, Sanitized: company, IDs: ids,
			})
		}

		gateway := NormalizeField(txn.Gateway)
		row := Row{
			FirstName:     first,
			LastName:      last,
			Amount:        FormatAmount(amount),
			Address:       joinAddress(NormalizeField(client.Address1), NormalizeField(client.Address2)),
			City:          NormalizeField(client.City),
			PostalCode:    NormalizeField(client.PostCode),
			Country:       defaultIfEmpty(NormalizeField(client.Country), opts.DefaultCountry),
			Type:          opts.DefaultType,
			Email:         ids.Email,
			Language:      opts.DefaultLanguage,
			Date:          dateText,
			StateProvince: NormalizeField(client.State),
			PaymentMethod: ClassifyPaymentMethod(gateway, amount, state.PaymentRules),
			CompanyName:   company,
			Annotation: BuildAnnotation(
				ids.TransactionID,
				ids.InvoiceID,
				NormalizeField(txn.TransID),
				gateway,
				NormalizeField(txn.Description),
			),
		}

		res.Rows = append(res.Rows, ProjectRow(row, state.Headers, state.Aliases))
		res.Stats.Emitted++
	}

	state.Result = res
	log := logger.FromContext(ctx)
	log.Info().
		Int("emitted", res.Stats.Emitted).
		Int("skipped_no_client", res.Stats.SkippedNoClient).
		Int("skipped_anonymous", res.Stats.SkippedAnonymous).
		Int("skipped_no_amount", res.Stats.SkippedNoAmount).
		Int("skipped_empty_name", res.Stats.SkippedEmptyName).
		Int("validation_errors", len(res.Errors)).
		Msg("transform pass complete")
	return nil
}
