// Package domain resolves free-text addresses to coordinates.
//
// # Address Layouts
//
// Addresses are comma separated and read positionally:
//
//	"Via Roma 10, Firenze, FI, 50123"           street, city, province, postcode
//	"Via Roma 10, Firenze, 50123"               street, city, postcode
//	"UK, 10 Downing St, London, Westminster, SW1A 2AA"
//	                                            country, street, city, county, postcode
//
// The postcode is whatever 5-digit token appears first, so "Via Roma 10 50123
// Firenze" still yields a postcode.
//
// # Candidate Selection
//
// Geocoding providers return several candidates per query, often including
// same-named streets in neighbouring towns and city-level fallbacks. The
// [Selector] keeps only street-level candidates (road or square) and then
//
//   - trusts the postcode when one was given,
//   - otherwise requires both street and locality to agree, refusing to treat
//     "Monterotondo" as "Monterotondo Marittimo",
//   - otherwise scores candidates by provider confidence plus one point per
//     agreeing field.
//
// Rejections carry a user-facing message: [ValidationError] when candidates
// exist but contradict the input, [NoResultsError] when nothing usable came
// back. Province disagreements that are geographically impossible (Firenze in
// the province of Milano) are reported differently from plain mismatches.
//
// # Locale
//
// Road types, province aliases, impossible city/province pairs and the
// keywords that mark an address as domestic all live in [Locale].
// [DefaultLocale] is Italian.
package domain
