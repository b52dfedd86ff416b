package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sufield/confdesk/internal/assert"
)

// SponsorStatus is the CRM pipeline stage of a sponsor deal.
type SponsorStatus string

const (
	SponsorProspect    SponsorStatus = "prospect"
	SponsorContacted   SponsorStatus = "contacted"
	SponsorNegotiating SponsorStatus = "negotiating"
	SponsorClosedWon   SponsorStatus = "closed-won"
	SponsorClosedLost  SponsorStatus = "closed-lost"
)

// ContractStatus tracks the paperwork of a deal.
type ContractStatus string

const (
	ContractNone            ContractStatus = "none"
	ContractVerbalAgreement ContractStatus = "verbal-agreement"
	ContractSent            ContractStatus = "contract-sent"
	ContractSigned          ContractStatus = "contract-signed"
)

// InvoiceStatus tracks billing of a deal.
type InvoiceStatus string

const (
	InvoiceNotSent   InvoiceStatus = "not-sent"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// UnknownKey buckets empty or unrecognised statuses in PipelineSummary maps.
const UnknownKey = "unknown"

var (
	sponsorStatuses  = []SponsorStatus{SponsorProspect, SponsorContacted, SponsorNegotiating, SponsorClosedWon, SponsorClosedLost}
	contractStatuses = []ContractStatus{ContractNone, ContractVerbalAgreement, ContractSent, ContractSigned}
	invoiceStatuses  = []InvoiceStatus{InvoiceNotSent, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled}
)

// SponsorStatuses returns the pipeline stages in funnel order.
func SponsorStatuses() []SponsorStatus {
	return append([]SponsorStatus(nil), sponsorStatuses...)
}

// SponsorDeal links a sponsor to a conference with its pipeline state.
type SponsorDeal struct {
	ID             string          `json:"id" yaml:"id"`
	ConferenceID   string          `json:"conference_id" yaml:"conference_id"`
	SponsorName    string          `json:"sponsor_name" yaml:"sponsor_name"`
	Tier           string          `json:"tier,omitempty" yaml:"tier"`
	Status         SponsorStatus   `json:"status" yaml:"status"`
	ContractStatus ContractStatus  `json:"contract_status" yaml:"contract_status"`
	InvoiceStatus  InvoiceStatus   `json:"invoice_status" yaml:"invoice_status"`
	ContractValue  decimal.Decimal `json:"contract_value" yaml:"contract_value"`
	Currency       string          `json:"currency,omitempty" yaml:"currency"`
	AssignedTo     string          `json:"assigned_to,omitempty" yaml:"assigned_to"`
	UpdatedAt      time.Time       `json:"updated_at" yaml:"updated_at"`
}

// Validate rejects unknown statuses and negative contract values.
// Empty contract and invoice statuses are allowed and mean none / not-sent.
// Returns ErrInvalidSponsorDeal if validation fails.
func (d SponsorDeal) Validate() error {
	if strings.TrimSpace(d.SponsorName) == "" {
		return fmt.Errorf("%w: sponsor_name cannot be empty", ErrInvalidSponsorDeal)
	}
	if strings.TrimSpace(d.ConferenceID) == "" {
		return fmt.Errorf("%w: conference_id cannot be empty", ErrInvalidSponsorDeal)
	}
	if !knownSponsorStatus(d.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSponsorDeal, d.Status)
	}
	if d.ContractStatus != "" && !knownContractStatus(d.ContractStatus) {
		return fmt.Errorf("%w: unknown contract_status %q", ErrInvalidSponsorDeal, d.ContractStatus)
	}
	if d.InvoiceStatus != "" && !knownInvoiceStatus(d.InvoiceStatus) {
		return fmt.Errorf("%w: unknown invoice_status %q", ErrInvalidSponsorDeal, d.InvoiceStatus)
	}
	if d.ContractValue.IsNegative() {
		return fmt.Errorf("%w: contract_value must be >= 0 (got %s)", ErrInvalidSponsorDeal, d.ContractValue)
	}
	return nil
}

// IsClosed reports whether the deal left the active pipeline.
func (d SponsorDeal) IsClosed() bool {
	return d.Status == SponsorClosedWon || d.Status == SponsorClosedLost
}

func knownSponsorStatus(s SponsorStatus) bool {
	for _, k := range sponsorStatuses {
		if s == k {
			return true
		}
	}
	return false
}

func knownContractStatus(s ContractStatus) bool {
	for _, k := range contractStatuses {
		if s == k {
			return true
		}
	}
	return false
}

func knownInvoiceStatus(s InvoiceStatus) bool {
	for _, k := range invoiceStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// PipelineSummary is the funnel view over a conference's sponsor deals.
type PipelineSummary struct {
	TotalDeals       int            `json:"total_deals"`
	ByStatus         map[string]int `json:"by_status"`
	ByContractStatus map[string]int `json:"by_contract_status"`
	ByInvoiceStatus  map[string]int `json:"by_invoice_status"`
	ByTier           map[string]int `json:"by_tier"`
	OpenByAssignee   map[string]int `json:"open_by_assignee"`
	WonDeals         int            `json:"won_deals"`
	LostDeals        int            `json:"lost_deals"`
	ActiveDeals      int            `json:"active_deals"`
	Prospects        int            `json:"prospects"`
	SignedContracts  int            `json:"signed_contracts"`
	WinRate          float64        `json:"win_rate"`

	ClosedWonValue decimal.Decimal `json:"closed_won_value"`
	InvoicedValue  decimal.Decimal `json:"invoiced_value"`
	PaidValue      decimal.Decimal `json:"paid_value"`
	OverdueValue   decimal.Decimal `json:"overdue_value"`
}

// AggregatePipeline tallies deals by pipeline, contract and invoice status.
//
// Every known status key is present in the maps, zero-filled; empty or
// unrecognised values are counted under UnknownKey. Values are only summed
// for closed-won deals, in the deals' own currency.
func AggregatePipeline(deals []SponsorDeal) PipelineSummary {
	s := PipelineSummary{
		ByStatus:         make(map[string]int, len(sponsorStatuses)),
		ByContractStatus: make(map[string]int, len(contractStatuses)),
		ByInvoiceStatus:  make(map[string]int, len(invoiceStatuses)),
		ByTier:           make(map[string]int),
		OpenByAssignee:   make(map[string]int),
		ClosedWonValue:   decimal.Zero,
		InvoicedValue:    decimal.Zero,
		PaidValue:        decimal.Zero,
		OverdueValue:     decimal.Zero,
	}
	for _, k := range sponsorStatuses {
		s.ByStatus[string(k)] = 0
	}
	for _, k := range contractStatuses {
		s.ByContractStatus[string(k)] = 0
	}
	for _, k := range invoiceStatuses {
		s.ByInvoiceStatus[string(k)] = 0
	}

	for _, d := range deals {
		s.TotalDeals++
		s.ByStatus[statusKey(string(d.Status), knownSponsorStatus(d.Status))]++

		contract := d.ContractStatus
		if contract == "" {
			contract = ContractNone
		}
		s.ByContractStatus[statusKey(string(contract), knownContractStatus(contract))]++

		invoice := d.InvoiceStatus
		if invoice == "" {
			invoice = InvoiceNotSent
		}
		s.ByInvoiceStatus[statusKey(string(invoice), knownInvoiceStatus(invoice))]++

		if contract == ContractSigned {
			s.SignedContracts++
		}

		switch d.Status {
		case SponsorProspect:
			s.Prospects++
		case SponsorContacted, SponsorNegotiating:
			s.ActiveDeals++
		case SponsorClosedWon:
			s.WonDeals++
			s.ByTier[tierKey(d.Tier)]++
			s.ClosedWonValue = s.ClosedWonValue.Add(d.ContractValue)
			switch invoice {
			case InvoiceSent:
				s.InvoicedValue = s.InvoicedValue.Add(d.ContractValue)
			case InvoicePaid:
				s.InvoicedValue = s.InvoicedValue.Add(d.ContractValue)
				s.PaidValue = s.PaidValue.Add(d.ContractValue)
			case InvoiceOverdue:
				s.InvoicedValue = s.InvoicedValue.Add(d.ContractValue)
				s.OverdueValue = s.OverdueValue.Add(d.ContractValue)
			}
		case SponsorClosedLost:
			s.LostDeals++
		}

		if !d.IsClosed() {
			assignee := strings.TrimSpace(d.AssignedTo)
			if assignee == "" {
				assignee = "unassigned"
			}
			s.OpenByAssignee[assignee]++
		}
	}

	if closed := s.WonDeals + s.LostDeals; closed > 0 {
		s.WinRate = math.Round(float64(s.WonDeals)/float64(closed)*1000) / 10
	}
	assert.Invariantf(s.WonDeals+s.LostDeals+s.ActiveDeals+s.Prospects <= s.TotalDeals,
		"pipeline buckets exceed %d deals", s.TotalDeals)
	return s
}

func statusKey(s string, known bool) string {
	if !known {
		return UnknownKey
	}
	return s
}

func tierKey(tier string) string {
	if t := strings.TrimSpace(tier); t != "" {
		return t
	}
	return UnknownKey
}
