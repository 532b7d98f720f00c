package parser

import (
	"github.com/biter777/countries"

	"github.com/compmap/eventmap/internal/util"
)

// europeanCountries is the set of countries kept by FilterEuropean.
// Russia is deliberately absent.
var europeanCountries = map[countries.CountryCode]struct{}{
	countries.ALB: {}, countries.AND: {}, countries.ARM: {}, countries.AUT: {},
	countries.BLR: {}, countries.BEL: {}, countries.BIH: {}, countries.BGR: {},
	countries.HRV: {}, countries.CYP: {}, countries.CZE: {}, countries.DNK: {},
	countries.EST: {}, countries.FIN: {}, countries.FRA: {}, countries.GEO: {},
	countries.DEU: {}, countries.GRC: {}, countries.HUN: {}, countries.ISL: {},
	countries.IRL: {}, countries.ITA: {}, countries.XKX: {}, countries.LVA: {},
	countries.LIE: {}, countries.LTU: {}, countries.LUX: {}, countries.MLT: {},
	countries.MDA: {}, countries.MCO: {}, countries.MNE: {}, countries.NLD: {},
	countries.MKD: {}, countries.NOR: {}, countries.POL: {}, countries.PRT: {},
	countries.ROU: {}, countries.SMR: {}, countries.SRB: {}, countries.SVK: {},
	countries.SVN: {}, countries.ESP: {}, countries.SWE: {}, countries.CHE: {},
	countries.UKR: {}, countries.GBR: {}, countries.VAT: {},
}

// CountryCode resolves the first comma token of a country field, accepting
// common spellings ("Czechia", "UK", "Deutschland").
func CountryCode(country string) countries.CountryCode {
	return countries.ByName(util.FirstToken(country))
}

// IsEuropean reports whether the country field names a European country.
func IsEuropean(country string) bool {
	_, ok := europeanCountries[CountryCode(country)]
	return ok
}

// FilterEuropean keeps rows whose country is European, in order.
func FilterEuropean(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if IsEuropean(row[ColCountry]) {
			out = append(out, row)
		}
	}
	return out
}
