package demographics

// DefaultAliases maps demographic-source country name variants to the
// canonical spellings used by the boundary dataset. Derived from manual
// inspection of join mismatches between the two naming schemes; intentionally
// finite and reviewable rather than fuzzy.
func DefaultAliases() map[string]string {
	return map[string]string{
		"Bahamas, The":                   "The Bahamas",
		"Brunei Darussalam":              "Brunei",
		"Cabo Verde":                     "Cape Verde",
		"Congo, Dem. Rep.":               "Democratic Republic of the Congo",
		"Congo, Rep.":                    "Republic of the Congo",
		"Cote d'Ivoire":                  "Ivory Coast",
		"Czech Republic":                 "Czechia",
		"Egypt, Arab Rep.":               "Egypt",
		"Gambia, The":                    "Gambia",
		"Guinea-Bissau":                  "Guinea Bissau",
		"Hong Kong SAR, China":           "Hong Kong S.A.R.",
		"Iran, Islamic Rep.":             "Iran",
		"Korea, Dem. People's Rep.":      "North Korea",
		"Korea, Rep.":                    "South Korea",
		"Kyrgyz Republic":                "Kyrgyzstan",
		"Lao PDR":                        "Laos",
		"Macao SAR, China":               "Macao S.A.R",
		"Macedonia, FYR":                 "Macedonia",
		"Micronesia, Fed. Sts.":          "Federated States of Micronesia",
		"Russian Federation":             "Russia",
		"Serbia":                         "Republic of Serbia",
		"Slovak Republic":                "Slovakia",
		"St. Lucia":                      "Saint Lucia",
		"St. Vincent and the Grenadines": "Saint Vincent and the Grenadines",
		"Syrian Arab Republic":           "Syria",
		"Tanzania":                       "United Republic of Tanzania",
		"Timor-Leste":                    "East Timor",
		"United States":                  "United States of America",
		"Venezuela, RB":                  "Venezuela",
		"Viet Nam":                       "Vietnam",
		"Yemen, Rep.":                    "Yemen",
	}
}
