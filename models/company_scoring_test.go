package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// populateRequired fills the first n scored required fields.
func populateRequired(c *Company, n int) {
	fields := []func(){
		func() { c.Description = strPtr("desc") },
		func() { c.Industry = strPtr("software") },
		func() { c.Website = strPtr("https://example.com") },
		func() { c.Country = strPtr("DE") },
		func() { c.Size = strPtr("51-200") },
		func() { c.FoundedYear = intPtr(2001) },
		func() { c.Headquarters = strPtr("Berlin") },
		func() { c.Revenue = strPtr("10M") },
		func() { c.EmployeeCount = strPtr("120") },
		func() { c.LegalStatus = strPtr("GmbH") },
		func() { c.Ceo = strPtr("A. Chief") },
		func() { c.Linkedin = strPtr("https://linkedin.com/company/x") },
		func() { c.Phone = strPtr("+49 30 1234") },
		func() { c.Email = strPtr("info@example.com") },
		func() { c.BusinessModel = strPtr("SaaS") },
		func() { c.TargetMarket = strPtr("SMB") },
	}
	for i := 0; i < n && i < len(fields); i++ {
		fields[i]()
	}
}

// populateOptional fills the first n scored optional fields.
func populateOptional(c *Company, n int) {
	fields := []func(){
		func() { c.MarketCap = strPtr("100M") },
		func() { c.StockSymbol = strPtr("EXM") },
		func() { c.Founders = strPtr("F. Ounder") },
		func() { c.BoardMembers = strPtr("B. Member") },
		func() { c.Twitter = strPtr("https://twitter.com/x") },
		func() { c.Facebook = strPtr("https://facebook.com/x") },
		func() { c.Instagram = strPtr("https://instagram.com/x") },
		func() { c.Youtube = strPtr("https://youtube.com/x") },
		func() { c.Address = strPtr("Somestr. 1") },
		func() { c.GlassdoorRating = decPtr(decimal.NewFromFloat(4.2)) },
		func() { c.GoogleRating = decPtr(decimal.NewFromFloat(4.5)) },
		func() { c.Products = strPtr("widgets") },
		func() { c.GeographicPresence = strPtr("EU") },
		func() { c.KeyPartners = strPtr("partner gmbh") },
		func() { c.Competitors = strPtr("rival inc") },
		func() { c.MarketShare = strPtr("5%") },
		func() { c.CompetitiveAdvantage = strPtr("speed") },
		func() { c.GrowthStage = strPtr("scaleup") },
	}
	for i := 0; i < n && i < len(fields); i++ {
		fields[i]()
	}
}

func TestCompletenessThresholds(t *testing.T) {
	if len(RequiredCompletenessFields) != 16 {
		t.Fatalf("required field list has %d entries, want 16", len(RequiredCompletenessFields))
	}
	if len(OptionalCompletenessFields) != 18 {
		t.Fatalf("optional field list has %d entries, want 18", len(OptionalCompletenessFields))
	}
	if got := RequiredCompletenessThreshold(); got != 13 {
		t.Errorf("required threshold = %d, want 13", got)
	}
	if got := OptionalCompletenessThreshold(); got != 9 {
		t.Errorf("optional threshold = %d, want 9", got)
	}
}

func TestIsFullyPopulatedBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		required int
		optional int
		want     bool
	}{
		{"empty", 0, 0, false},
		{"at both thresholds", 13, 9, true},
		{"required one short", 12, 9, false},
		{"optional one short", 13, 8, false},
		{"everything", 16, 18, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			company := &Company{Name: "Acme"}
			populateRequired(company, tc.required)
			populateOptional(company, tc.optional)

			required, optional := CompletenessCounts(company)
			if required != tc.required || optional != tc.optional {
				t.Fatalf("counts = (%d, %d), want (%d, %d)", required, optional, tc.required, tc.optional)
			}
			if got := IsFullyPopulated(company); got != tc.want {
				t.Errorf("IsFullyPopulated = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompletenessIgnoresWhitespaceAndZeroValues(t *testing.T) {
	company := &Company{
		Name:            "Acme",
		Description:     strPtr("   "),
		FoundedYear:     intPtr(0),
		GlassdoorRating: decPtr(decimal.Zero),
		Sector:          strPtr("energy"),
	}
	required, optional := CompletenessCounts(company)
	if required != 0 || optional != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", required, optional)
	}
}

func TestApplyMergeCoalesces(t *testing.T) {
	existing := &Company{
		Name:        "Acme",
		Description: strPtr("old description"),
		Industry:    strPtr("software"),
		Type:        CompanyTypeTarget,
	}

	input := &NewCompany{
		Name:        "Acme",
		Description: strPtr(""),
		Industry:    strPtr("fintech"),
		Ceo:         strPtr("A. Chief"),
		Type:        strPtr("PARTNER"),
	}
	applyMerge(existing, input)

	if existing.Description == nil || *existing.Description != "old description" {
		t.Error("empty incoming description overwrote existing value")
	}
	if existing.Industry == nil || *existing.Industry != "fintech" {
		t.Error("non-empty incoming industry did not win")
	}
	if existing.Ceo == nil || *existing.Ceo != "A. Chief" {
		t.Error("new field was not set")
	}
	if existing.Type != CompanyTypePartner {
		t.Errorf("type = %s, want PARTNER", existing.Type)
	}
}

func TestNewCompanyFromInputDefaultsType(t *testing.T) {
	company := newCompanyFromInput(&NewCompany{Name: "Acme"})
	if company.Type != CompanyTypeTarget {
		t.Errorf("default type = %s, want TARGET", company.Type)
	}
	if company.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("id was not assigned")
	}

	company = newCompanyFromInput(&NewCompany{Name: "Acme", Type: strPtr("SUPPLIER")})
	if company.Type != CompanyTypeSupplier {
		t.Errorf("explicit type = %s, want SUPPLIER", company.Type)
	}

	company = newCompanyFromInput(&NewCompany{Name: "Acme", Type: strPtr("bogus")})
	if company.Type != CompanyTypeTarget {
		t.Errorf("invalid type fell back to %s, want TARGET", company.Type)
	}
}

func TestParseCompanyType(t *testing.T) {
	if _, err := ParseCompanyType("CUSTOMER"); err != nil {
		t.Errorf("CUSTOMER should parse: %v", err)
	}
	if _, err := ParseCompanyType("customer"); err == nil {
		t.Error("parsing is case-sensitive; lowercase should fail")
	}
	if _, err := ParseCompanyType(""); err == nil {
		t.Error("empty string should fail")
	}
}
