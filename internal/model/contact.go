// Package model defines the shared data types for the resolution pipeline.
package model

import (
	"strings"
	"time"
)

// Source identifies which page type a search originated from. Fallback
// enrichment appends the "-clay" suffix to the original source.
type Source string

const (
	SourceLinkedIn     Source = "linkedin"
	SourceSalesNav     Source = "sales-navigator"
	SourceClay         Source = "clay"
	SourceLinkedInClay Source = "linkedin-clay"
	SourceSalesNavClay Source = "sales-navigator-clay"
)

// ClaySuffix marks a history entry whose email was supplied by the
// asynchronous fallback workflow.
const ClaySuffix = "-clay"

// WithClay returns the source tagged with the fallback suffix.
func (s Source) WithClay() Source {
	return Source(string(s) + ClaySuffix)
}

// ContactRecord is the resolved contact, produced by the primary enrichment
// API or synthesized from a fallback (name, company, email) triple. An empty
// Email is a representable state, not an error.
type ContactRecord struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
	CompanyName string `json:"companyName"`
}

// SynthesizeContact builds a ContactRecord from a fallback result, splitting
// the person name on the first space.
func SynthesizeContact(personName, companyName, email string) ContactRecord {
	first := personName
	last := ""
	if i := strings.Index(personName, " "); i >= 0 {
		first = personName[:i]
		last = strings.TrimSpace(personName[i+1:])
	}
	return ContactRecord{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		CompanyName: companyName,
	}
}

// ExtractionResult holds a scraped (name, company) pair. Transient; produced
// per search and never persisted.
type ExtractionResult struct {
	PersonName  string `json:"personName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// LeadData is a Sales Navigator row or sidebar extraction.
type LeadData struct {
	FullName    string `json:"fullName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Valid reports whether the lead carries enough data to resolve.
func (l LeadData) Valid() bool {
	return l.FullName != "" && l.CompanyName != ""
}

// HistoryEntry is one persisted record of a completed search. It is mutated
// in place, never duplicated, when the fallback workflow later supplies an
// email for the same (fullName, companyName) pair.
type HistoryEntry struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	FullName       string        `json:"fullName"`
	CompanyName    string        `json:"companyName"`
	ContactData    ContactRecord `json:"contactData"`
	Source         Source        `json:"source"`
	Success        bool          `json:"success"`
	ClayEnriched   bool          `json:"clayEnriched,omitempty"`
	ClayEnrichedAt *time.Time    `json:"clayEnrichedAt,omitempty"`
}
