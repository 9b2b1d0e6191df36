// Package entity defines the domain models for the companyinfo feature.
package entity

// CompanyInfo is the profile of one listed company.
type CompanyInfo struct {
	Symbol      string // Ticker symbol, unique
	Name        string
	Description string
	Country     string
	Industry    string
	Address     string
}
