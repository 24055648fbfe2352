package models

import "strings"

// Place is one autocomplete suggestion. Code is what searches are issued with.
type Place struct {
	Name        string `json:"name"`
	CountryName string `json:"country_name"`
	Code        string `json:"code"`
}

// Label is the human-readable text put back into the input once a place is picked.
func (p Place) Label() string {
	if p.CountryName == "" {
		return p.Name
	}
	return strings.TrimSpace(p.Name + ", " + p.CountryName)
}
