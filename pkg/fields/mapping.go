package fields

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind says how a mapped value is parsed.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindNumber
)

// Target is the application field a vendor entity maps to.
type Target struct {
	Name string
	Kind Kind
}

// vendorFields renames Document AI entity types to application fields.
var vendorFields = map[string]Target{
	"vessel_name":  {"name", KindText},
	"ship_name":    {"name", KindText},
	"name_of_ship": {"name", KindText},
	"yacht_name":   {"name", KindText},

	"registration_number": {"registrationNumber", KindText},
	"official_number":     {"registrationNumber", KindText},
	"registry_number":     {"registrationNumber", KindText},
	"imo_number":          {"imoNumber", KindText},
	"imo":                 {"imoNumber", KindText},
	"mmsi":                {"mmsi", KindText},
	"mmsi_number":         {"mmsi", KindText},
	"call_sign":           {"callSign", KindText},
	"certificate_number":  {"certificateNumber", KindText},

	"flag":             {"flag", KindText},
	"flag_state":       {"flag", KindText},
	"port_of_registry": {"homePort", KindText},
	"home_port":        {"homePort", KindText},

	"date_of_registry":     {"registrationDate", KindDate},
	"registration_date":    {"registrationDate", KindDate},
	"date_of_registration": {"registrationDate", KindDate},
	"date_of_issue":        {"issueDate", KindDate},
	"issue_date":           {"issueDate", KindDate},
	"expiry_date":          {"expiryDate", KindDate},
	"date_of_expiry":       {"expiryDate", KindDate},
	"valid_until":          {"expiryDate", KindDate},
	"date_of_build":        {"buildDate", KindDate},
	"keel_laid":            {"buildDate", KindDate},

	"year_built":    {"yearBuilt", KindNumber},
	"year_of_build": {"yearBuilt", KindNumber},
	"builder":       {"builder", KindText},
	"builder_name":  {"builder", KindText},
	"shipyard":      {"builder", KindText},
	"hull_material": {"hullMaterial", KindText},

	"length":         {"lengthOverall", KindNumber},
	"length_overall": {"lengthOverall", KindNumber},
	"loa":            {"lengthOverall", KindNumber},
	"beam":           {"beam", KindNumber},
	"breadth":        {"beam", KindNumber},
	"draft":          {"draft", KindNumber},
	"draught":        {"draft", KindNumber},
	"gross_tonnage":  {"grossTonnage", KindNumber},
	"gt":             {"grossTonnage", KindNumber},
	"net_tonnage":    {"netTonnage", KindNumber},
	"nt":             {"netTonnage", KindNumber},

	"engine_power":        {"enginePowerKw", KindNumber},
	"combined_kw":         {"enginePowerKw", KindNumber},
	"total_power":         {"enginePowerKw", KindNumber},
	"propulsion_power":    {"enginePowerKw", KindNumber},
	"engine_make":         {"engineMake", KindText},
	"engine_manufacturer": {"engineMake", KindText},

	"owner":            {"ownerName", KindText},
	"owner_name":       {"ownerName", KindText},
	"registered_owner": {"ownerName", KindText},
	"owner_address":    {"ownerAddress", KindText},
}

// Entity is one extracted entity from a Document AI response.
type Entity struct {
	Type           string  `json:"type"`
	MentionText    string  `json:"mentionText"`
	NormalizedText string  `json:"normalizedText,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// Field is a mapped application field.
type Field struct {
	Name       string  `json:"name"`
	Value      any     `json:"value"`
	Raw        string  `json:"raw"`
	VendorType string  `json:"vendorType"`
	Confidence float64 `json:"confidence"`
	Parsed     bool    `json:"parsed"`
}

// Result is the outcome of mapping a document's entities.
type Result struct {
	Fields   map[string]Field `json:"fields"`
	Unmapped []string         `json:"unmapped,omitempty"`
}

// Values flattens the result into field name to value.
func (r Result) Values() map[string]any {
	out := make(map[string]any, len(r.Fields))
	for name, f := range r.Fields {
		out[name] = f.Value
	}
	return out
}

// Lookup returns the target for a vendor entity type. Unknown types map to
// their camelCase form as text.
func Lookup(vendorType string) (Target, bool) {
	key := normalizeVendorName(vendorType)
	if t, ok := vendorFields[key]; ok {
		return t, true
	}
	return Target{Name: camelCase(key), Kind: KindText}, false
}

// Map converts entities to application fields. When several entities map to
// the same field the most confident one is kept.
func Map(entities []Entity) Result {
	result := Result{Fields: make(map[string]Field)}
	unmapped := make(map[string]struct{})

	for _, e := range entities {
		if strings.TrimSpace(e.Type) == "" {
			continue
		}
		target, known := Lookup(e.Type)
		if !known {
			unmapped[e.Type] = struct{}{}
		}
		if target.Name == "" {
			continue
		}

		field := parse(target, e)
		if existing, ok := result.Fields[target.Name]; ok && existing.Confidence >= field.Confidence {
			continue
		}
		result.Fields[target.Name] = field
	}

	for name := range unmapped {
		result.Unmapped = append(result.Unmapped, name)
	}
	sort.Strings(result.Unmapped)
	return result
}

func parse(target Target, e Entity) Field {
	raw := strings.TrimSpace(e.MentionText)
	field := Field{
		Name:       target.Name,
		Value:      raw,
		Raw:        raw,
		VendorType: e.Type,
		Confidence: e.Confidence,
	}

	switch target.Kind {
	case KindDate:
		for _, candidate := range []string{raw, e.NormalizedText} {
			if d, ok := ParseDate(candidate); ok {
				field.Value = d
				field.Parsed = true
				break
			}
		}
	case KindNumber:
		for _, candidate := range []string{raw, e.NormalizedText} {
			if n, ok := ParseNumber(candidate); ok {
				field.Value = n
				field.Parsed = true
				break
			}
		}
	default:
		field.Parsed = raw != ""
	}
	return field
}

func normalizeVendorName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(name)
}

func camelCase(snake string) string {
	parts := strings.Split(snake, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(p)
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(p[size:])
	}
	return sb.String()
}
