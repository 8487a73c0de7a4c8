// Package fields maps Document AI entities onto application field names.
//
// A static table renames vendor entity types (e.g. "vessel_name",
// "combined_kw") to the field names the fleet client expects and decides how
// each value is parsed. Parsers are heuristic: a value that cannot be parsed
// is kept as the original text.
package fields
