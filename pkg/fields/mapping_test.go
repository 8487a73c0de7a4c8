package fields

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	target, ok := Lookup("Vessel Name")
	assert.True(t, ok)
	assert.Equal(t, Target{Name: "name", Kind: KindText}, target)

	target, ok = Lookup("combined-kw")
	assert.True(t, ok)
	assert.Equal(t, Target{Name: "enginePowerKw", Kind: KindNumber}, target)

	target, ok = Lookup("hull_identification_number")
	assert.False(t, ok)
	assert.Equal(t, "hullIdentificationNumber", target.Name)

	target, ok = Lookup("date_échéance")
	assert.False(t, ok)
	assert.Equal(t, "dateÉchéance", target.Name)
}

func TestMap(t *testing.T) {
	entities := []Entity{
		{Type: "vessel_name", MentionText: " Sea Breeze ", Confidence: 0.98},
		{Type: "date_of_registry", MentionText: "10 December 2020", Confidence: 0.91},
		{Type: "combined_kw", MentionText: "Combined KW 2864", Confidence: 0.87},
		{Type: "gross_tonnage", MentionText: "unreadable", Confidence: 0.40},
		{Type: "expiry_date", MentionText: "see reverse", NormalizedText: "2025-06-30", Confidence: 0.8},
		{Type: "official_number", MentionText: "OFF-123", Confidence: 0.60},
		{Type: "registration_number", MentionText: "REG-987", Confidence: 0.95},
		{Type: "hull_colour", MentionText: "white", Confidence: 0.70},
		{Type: "", MentionText: "ignored"},
	}

	got := Map(entities)

	want := Result{
		Fields: map[string]Field{
			"name":               {Name: "name", Value: "Sea Breeze", Raw: "Sea Breeze", VendorType: "vessel_name", Confidence: 0.98, Parsed: true},
			"registrationDate":   {Name: "registrationDate", Value: "10-12-2020", Raw: "10 December 2020", VendorType: "date_of_registry", Confidence: 0.91, Parsed: true},
			"enginePowerKw":      {Name: "enginePowerKw", Value: float64(2864), Raw: "Combined KW 2864", VendorType: "combined_kw", Confidence: 0.87, Parsed: true},
			"grossTonnage":       {Name: "grossTonnage", Value: "unreadable", Raw: "unreadable", VendorType: "gross_tonnage", Confidence: 0.40, Parsed: false},
			"expiryDate":         {Name: "expiryDate", Value: "30-06-2025", Raw: "see reverse", VendorType: "expiry_date", Confidence: 0.8, Parsed: true},
			"registrationNumber": {Name: "registrationNumber", Value: "REG-987", Raw: "REG-987", VendorType: "registration_number", Confidence: 0.95, Parsed: true},
			"hullColour":         {Name: "hullColour", Value: "white", Raw: "white", VendorType: "hull_colour", Confidence: 0.70, Parsed: true},
		},
		Unmapped: []string{"hull_colour"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}

	values := got.Values()
	assert.Equal(t, "Sea Breeze", values["name"])
	assert.Equal(t, float64(2864), values["enginePowerKw"])
}

func TestMapEmpty(t *testing.T) {
	got := Map(nil)
	assert.Empty(t, got.Fields)
	assert.Empty(t, got.Unmapped)
}
