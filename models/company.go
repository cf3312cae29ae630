package models

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// isDuplicateKey reports MySQL error 1062 (unique index violation).
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// Company is shared across users: content and insights are per-user, the
// company row they point at is not.
type Company struct {
	ID          uuid.UUID   `gorm:"primary_key" json:"id"`
	Name        string      `gorm:"size:255;not null;uniqueIndex" json:"name" binding:"required"`
	TradingName *string     `gorm:"size:255" json:"trading_name"`
	Description *string     `gorm:"type:text" json:"description"`
	Industry    *string     `gorm:"size:255" json:"industry"`
	Sector      *string     `gorm:"size:255" json:"sector"`
	FoundedYear *int        `json:"founded_year"`
	Headquarters *string    `gorm:"size:255" json:"headquarters"`
	Country     *string     `gorm:"size:100" json:"country"`
	Size        *string     `gorm:"size:100" json:"size"`
	Type        CompanyType `gorm:"type:enum('SUPPLIER','COMPETITOR','PARTNER','TARGET','CUSTOMER');default:'TARGET'" json:"type"`

	Revenue       *string `gorm:"size:100" json:"revenue"`
	MarketCap     *string `gorm:"size:100" json:"market_cap"`
	EmployeeCount *string `gorm:"size:100" json:"employee_count"`
	LegalStatus   *string `gorm:"size:100" json:"legal_status"`
	StockSymbol   *string `gorm:"size:50" json:"stock_symbol"`

	Ceo          *string `gorm:"size:255" json:"ceo"`
	KeyExecutives *string `gorm:"type:text" json:"key_executives"`
	Founders     *string `gorm:"type:text" json:"founders"`
	BoardMembers *string `gorm:"type:text" json:"board_members"`

	Website    *string `gorm:"size:255" json:"website"`
	Linkedin   *string `gorm:"size:255" json:"linkedin"`
	Twitter    *string `gorm:"size:255" json:"twitter"`
	Facebook   *string `gorm:"size:255" json:"facebook"`
	Instagram  *string `gorm:"size:255" json:"instagram"`
	Youtube    *string `gorm:"size:255" json:"youtube"`
	OtherSocial *string `gorm:"type:text" json:"other_social"`

	Phone        *string `gorm:"size:50" json:"phone"`
	Email        *string `gorm:"size:255" json:"email"`
	Address      *string `gorm:"type:text" json:"address"`
	SupportEmail *string `gorm:"size:255" json:"support_email"`
	SalesEmail   *string `gorm:"size:255" json:"sales_email"`
	PressContact *string `gorm:"size:255" json:"press_contact"`

	GlassdoorRating *decimal.Decimal `gorm:"type:decimal(4,2)" json:"glassdoor_rating"`
	GoogleRating    *decimal.Decimal `gorm:"type:decimal(4,2)" json:"google_rating"`
	TrustpilotScore *decimal.Decimal `gorm:"type:decimal(4,2)" json:"trustpilot_score"`
	BbbRating       *string          `gorm:"size:10" json:"bbb_rating"`
	YelpRating      *decimal.Decimal `gorm:"type:decimal(4,2)" json:"yelp_rating"`
	IndustryReviews *string          `gorm:"type:text" json:"industry_reviews"`

	BusinessModel      *string `gorm:"type:text" json:"business_model"`
	Products           *string `gorm:"type:text" json:"products"`
	TargetMarket       *string `gorm:"type:text" json:"target_market"`
	GeographicPresence *string `gorm:"type:text" json:"geographic_presence"`
	Languages          *string `gorm:"type:text" json:"languages"`

	KeyPartners  *string `gorm:"type:text" json:"key_partners"`
	MajorClients *string `gorm:"type:text" json:"major_clients"`
	Suppliers    *string `gorm:"type:text" json:"suppliers"`
	Competitors  *string `gorm:"type:text" json:"competitors"`
	Acquisitions *string `gorm:"type:text" json:"acquisitions"`
	Subsidiaries *string `gorm:"type:text" json:"subsidiaries"`

	MarketShare          *string `gorm:"size:100" json:"market_share"`
	CompetitiveAdvantage *string `gorm:"type:text" json:"competitive_advantage"`
	IndustryRanking      *string `gorm:"size:100" json:"industry_ranking"`
	GrowthStage          *string `gorm:"size:100" json:"growth_stage"`
	MarketTrends         *string `gorm:"type:text" json:"market_trends"`

	RecentNews          *string `gorm:"type:text" json:"recent_news"`
	PressReleases       *string `gorm:"type:text" json:"press_releases"`
	MediaMentions       *string `gorm:"type:text" json:"media_mentions"`
	Awards              *string `gorm:"type:text" json:"awards"`
	SpeakingEngagements *string `gorm:"type:text" json:"speaking_engagements"`

	TechnologyStack  *string `gorm:"type:text" json:"technology_stack"`
	Patents          *string `gorm:"type:text" json:"patents"`
	RdInvestment     *string `gorm:"size:100" json:"rd_investment"`
	InnovationAreas  *string `gorm:"type:text" json:"innovation_areas"`
	TechPartnerships *string `gorm:"type:text" json:"tech_partnerships"`

	EsgScore                  *string `gorm:"size:100" json:"esg_score"`
	SustainabilityInitiatives *string `gorm:"type:text" json:"sustainability_initiatives"`
	CorporateValues           *string `gorm:"type:text" json:"corporate_values"`
	DiversityInclusion        *string `gorm:"type:text" json:"diversity_inclusion"`
	SocialImpact              *string `gorm:"type:text" json:"social_impact"`

	OfficeLocations  *string `gorm:"type:text" json:"office_locations"`
	RemoteWorkPolicy *string `gorm:"size:255" json:"remote_work_policy"`
	WorkCulture      *string `gorm:"type:text" json:"work_culture"`
	Benefits         *string `gorm:"type:text" json:"benefits"`
	HiringStatus     *string `gorm:"size:100" json:"hiring_status"`

	SwotAnalysis      *string `gorm:"type:text" json:"swot_analysis"`
	RiskFactors       *string `gorm:"type:text" json:"risk_factors"`
	GrowthStrategy    *string `gorm:"type:text" json:"growth_strategy"`
	InvestmentThesis  *string `gorm:"type:text" json:"investment_thesis"`
	DueDiligenceNotes *string `gorm:"type:text" json:"due_diligence_notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewCompany is the create-or-merge request body (camelCase, matching the web
// client). Every field except Name is optional.
type NewCompany struct {
	Name        string  `json:"name" binding:"required"`
	TradingName *string `json:"tradingName"`
	Description *string `json:"description"`
	Industry    *string `json:"industry"`
	Sector      *string `json:"sector"`
	FoundedYear *int    `json:"foundedYear"`
	Headquarters *string `json:"headquarters"`
	Country     *string `json:"country"`
	Size        *string `json:"size"`
	Type        *string `json:"type"`

	Revenue       *string `json:"revenue"`
	MarketCap     *string `json:"marketCap"`
	EmployeeCount *string `json:"employeeCount"`
	LegalStatus   *string `json:"legalStatus"`
	StockSymbol   *string `json:"stockSymbol"`

	Ceo           *string `json:"ceo"`
	KeyExecutives *string `json:"keyExecutives"`
	Founders      *string `json:"founders"`
	BoardMembers  *string `json:"boardMembers"`

	Website     *string `json:"website"`
	Linkedin    *string `json:"linkedin"`
	Twitter     *string `json:"twitter"`
	Facebook    *string `json:"facebook"`
	Instagram   *string `json:"instagram"`
	Youtube     *string `json:"youtube"`
	OtherSocial *string `json:"otherSocial"`

	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	SupportEmail *string `json:"supportEmail"`
	SalesEmail   *string `json:"salesEmail"`
	PressContact *string `json:"pressContact"`

	GlassdoorRating *decimal.Decimal `json:"glassdoorRating"`
	GoogleRating    *decimal.Decimal `json:"googleRating"`
	TrustpilotScore *decimal.Decimal `json:"trustpilotScore"`
	BbbRating       *string          `json:"bbbRating"`
	YelpRating      *decimal.Decimal `json:"yelpRating"`
	IndustryReviews *string          `json:"industryReviews"`

	BusinessModel      *string `json:"businessModel"`
	Products           *string `json:"products"`
	TargetMarket       *string `json:"targetMarket"`
	GeographicPresence *string `json:"geographicPresence"`
	Languages          *string `json:"languages"`

	KeyPartners  *string `json:"keyPartners"`
	MajorClients *string `json:"majorClients"`
	Suppliers    *string `json:"suppliers"`
	Competitors  *string `json:"competitors"`
	Acquisitions *string `json:"acquisitions"`
	Subsidiaries *string `json:"subsidiaries"`

	MarketShare          *string `json:"marketShare"`
	CompetitiveAdvantage *string `json:"competitiveAdvantage"`
	IndustryRanking      *string `json:"industryRanking"`
	GrowthStage          *string `json:"growthStage"`
	MarketTrends         *string `json:"marketTrends"`

	RecentNews          *string `json:"recentNews"`
	PressReleases       *string `json:"pressReleases"`
	MediaMentions       *string `json:"mediaMentions"`
	Awards              *string `json:"awards"`
	SpeakingEngagements *string `json:"speakingEngagements"`

	TechnologyStack  *string `json:"technologyStack"`
	Patents          *string `json:"patents"`
	RdInvestment     *string `json:"rdInvestment"`
	InnovationAreas  *string `json:"innovationAreas"`
	TechPartnerships *string `json:"techPartnerships"`

	EsgScore                  *string `json:"esgScore"`
	SustainabilityInitiatives *string `json:"sustainabilityInitiatives"`
	CorporateValues           *string `json:"corporateValues"`
	DiversityInclusion        *string `json:"diversityInclusion"`
	SocialImpact              *string `json:"socialImpact"`

	OfficeLocations  *string `json:"officeLocations"`
	RemoteWorkPolicy *string `json:"remoteWorkPolicy"`
	WorkCulture      *string `json:"workCulture"`
	Benefits         *string `json:"benefits"`
	HiringStatus     *string `json:"hiringStatus"`

	SwotAnalysis      *string `json:"swotAnalysis"`
	RiskFactors       *string `json:"riskFactors"`
	GrowthStrategy    *string `json:"growthStrategy"`
	InvestmentThesis  *string `json:"investmentThesis"`
	DueDiligenceNotes *string `json:"dueDiligenceNotes"`
}

/*
caches:
	Company:$id
*/

func (c Company) RemoveInstanceRedis() error {
	return utils.RemoveInstanceRedis[Company](c.ID.String())
}

// --- completeness scoring ---

type completenessField struct {
	name      string
	populated func(c *Company) bool
}

func strSet(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}

func intSet(p *int) bool {
	return p != nil && *p != 0
}

func decSet(p *decimal.Decimal) bool {
	return p != nil && !p.IsZero()
}

// RequiredCompletenessFields is the fixed list the resolver scores against.
// A company is only treated as immutable when 80% of these are populated.
var RequiredCompletenessFields = []completenessField{
	{"description", func(c *Company) bool { return strSet(c.Description) }},
	{"industry", func(c *Company) bool { return strSet(c.Industry) }},
	{"website", func(c *Company) bool { return strSet(c.Website) }},
	{"country", func(c *Company) bool { return strSet(c.Country) }},
	{"size", func(c *Company) bool { return strSet(c.Size) }},
	{"founded_year", func(c *Company) bool { return intSet(c.FoundedYear) }},
	{"headquarters", func(c *Company) bool { return strSet(c.Headquarters) }},
	{"revenue", func(c *Company) bool { return strSet(c.Revenue) }},
	{"employee_count", func(c *Company) bool { return strSet(c.EmployeeCount) }},
	{"legal_status", func(c *Company) bool { return strSet(c.LegalStatus) }},
	{"ceo", func(c *Company) bool { return strSet(c.Ceo) }},
	{"linkedin", func(c *Company) bool { return strSet(c.Linkedin) }},
	{"phone", func(c *Company) bool { return strSet(c.Phone) }},
	{"email", func(c *Company) bool { return strSet(c.Email) }},
	{"business_model", func(c *Company) bool { return strSet(c.BusinessModel) }},
	{"target_market", func(c *Company) bool { return strSet(c.TargetMarket) }},
}

// OptionalCompletenessFields: half of these must be populated as well.
var OptionalCompletenessFields = []completenessField{
	{"market_cap", func(c *Company) bool { return strSet(c.MarketCap) }},
	{"stock_symbol", func(c *Company) bool { return strSet(c.StockSymbol) }},
	{"founders", func(c *Company) bool { return strSet(c.Founders) }},
	{"board_members", func(c *Company) bool { return strSet(c.BoardMembers) }},
	{"twitter", func(c *Company) bool { return strSet(c.Twitter) }},
	{"facebook", func(c *Company) bool { return strSet(c.Facebook) }},
	{"instagram", func(c *Company) bool { return strSet(c.Instagram) }},
	{"youtube", func(c *Company) bool { return strSet(c.Youtube) }},
	{"address", func(c *Company) bool { return strSet(c.Address) }},
	{"glassdoor_rating", func(c *Company) bool { return decSet(c.GlassdoorRating) }},
	{"google_rating", func(c *Company) bool { return decSet(c.GoogleRating) }},
	{"products", func(c *Company) bool { return strSet(c.Products) }},
	{"geographic_presence", func(c *Company) bool { return strSet(c.GeographicPresence) }},
	{"key_partners", func(c *Company) bool { return strSet(c.KeyPartners) }},
	{"competitors", func(c *Company) bool { return strSet(c.Competitors) }},
	{"market_share", func(c *Company) bool { return strSet(c.MarketShare) }},
	{"competitive_advantage", func(c *Company) bool { return strSet(c.CompetitiveAdvantage) }},
	{"growth_stage", func(c *Company) bool { return strSet(c.GrowthStage) }},
}

// CompletenessCounts returns how many required/optional fields hold data.
func CompletenessCounts(c *Company) (required int, optional int) {
	for _, f := range RequiredCompletenessFields {
		if f.populated(c) {
			required++
		}
	}
	for _, f := range OptionalCompletenessFields {
		if f.populated(c) {
			optional++
		}
	}
	return required, optional
}

func RequiredCompletenessThreshold() int {
	return int(math.Ceil(float64(len(RequiredCompletenessFields)) * 0.8))
}

func OptionalCompletenessThreshold() int {
	return int(math.Ceil(float64(len(OptionalCompletenessFields)) * 0.5))
}

// IsFullyPopulated decides whether the resolver may overwrite an existing row.
func IsFullyPopulated(c *Company) bool {
	required, optional := CompletenessCounts(c)
	return required >= RequiredCompletenessThreshold() &&
		optional >= OptionalCompletenessThreshold()
}

// --- create-or-merge ---

func coalescePtr[T any](incoming *T, existing *T, set func(*T) bool) *T {
	if set(incoming) {
		return incoming
	}
	return existing
}

func coStr(incoming, existing *string) *string {
	return coalescePtr(incoming, existing, strSet)
}

func coInt(incoming, existing *int) *int {
	return coalescePtr(incoming, existing, intSet)
}

func coDec(incoming, existing *decimal.Decimal) *decimal.Decimal {
	return coalescePtr(incoming, existing, decSet)
}

// applyMerge copies every truthy incoming field onto the existing row.
// Empty incoming values never clear existing data.
func applyMerge(existing *Company, input *NewCompany) {
	if input.Type != nil {
		if t, err := ParseCompanyType(*input.Type); err == nil {
			existing.Type = t
		}
	}
	existing.TradingName = coStr(input.TradingName, existing.TradingName)
	existing.Description = coStr(input.Description, existing.Description)
	existing.Industry = coStr(input.Industry, existing.Industry)
	existing.Sector = coStr(input.Sector, existing.Sector)
	existing.FoundedYear = coInt(input.FoundedYear, existing.FoundedYear)
	existing.Headquarters = coStr(input.Headquarters, existing.Headquarters)
	existing.Country = coStr(input.Country, existing.Country)
	existing.Size = coStr(input.Size, existing.Size)
	existing.Revenue = coStr(input.Revenue, existing.Revenue)
	existing.MarketCap = coStr(input.MarketCap, existing.MarketCap)
	existing.EmployeeCount = coStr(input.EmployeeCount, existing.EmployeeCount)
	existing.LegalStatus = coStr(input.LegalStatus, existing.LegalStatus)
	existing.StockSymbol = coStr(input.StockSymbol, existing.StockSymbol)
	existing.Ceo = coStr(input.Ceo, existing.Ceo)
	existing.KeyExecutives = coStr(input.KeyExecutives, existing.KeyExecutives)
	existing.Founders = coStr(input.Founders, existing.Founders)
	existing.BoardMembers = coStr(input.BoardMembers, existing.BoardMembers)
	existing.Website = coStr(input.Website, existing.Website)
	existing.Linkedin = coStr(input.Linkedin, existing.Linkedin)
	existing.Twitter = coStr(input.Twitter, existing.Twitter)
	existing.Facebook = coStr(input.Facebook, existing.Facebook)
	existing.Instagram = coStr(input.Instagram, existing.Instagram)
	existing.Youtube = coStr(input.Youtube, existing.Youtube)
	existing.OtherSocial = coStr(input.OtherSocial, existing.OtherSocial)
	existing.Phone = coStr(input.Phone, existing.Phone)
	existing.Email = coStr(input.Email, existing.Email)
	existing.Address = coStr(input.Address, existing.Address)
	existing.SupportEmail = coStr(input.SupportEmail, existing.SupportEmail)
	existing.SalesEmail = coStr(input.SalesEmail, existing.SalesEmail)
	existing.PressContact = coStr(input.PressContact, existing.PressContact)
	existing.GlassdoorRating = coDec(input.GlassdoorRating, existing.GlassdoorRating)
	existing.GoogleRating = coDec(input.GoogleRating, existing.GoogleRating)
	existing.TrustpilotScore = coDec(input.TrustpilotScore, existing.TrustpilotScore)
	existing.BbbRating = coStr(input.BbbRating, existing.BbbRating)
	existing.YelpRating = coDec(input.YelpRating, existing.YelpRating)
	existing.IndustryReviews = coStr(input.IndustryReviews, existing.IndustryReviews)
	existing.BusinessModel = coStr(input.BusinessModel, existing.BusinessModel)
	existing.Products = coStr(input.Products, existing.Products)
	existing.TargetMarket = coStr(input.TargetMarket, existing.TargetMarket)
	existing.GeographicPresence = coStr(input.GeographicPresence, existing.GeographicPresence)
	existing.Languages = coStr(input.Languages, existing.Languages)
	existing.KeyPartners = coStr(input.KeyPartners, existing.KeyPartners)
	existing.MajorClients = coStr(input.MajorClients, existing.MajorClients)
	existing.Suppliers = coStr(input.Suppliers, existing.Suppliers)
	existing.Competitors = coStr(input.Competitors, existing.Competitors)
	existing.Acquisitions = coStr(input.Acquisitions, existing.Acquisitions)
	existing.Subsidiaries = coStr(input.Subsidiaries, existing.Subsidiaries)
	existing.MarketShare = coStr(input.MarketShare, existing.MarketShare)
	existing.CompetitiveAdvantage = coStr(input.CompetitiveAdvantage, existing.CompetitiveAdvantage)
	existing.IndustryRanking = coStr(input.IndustryRanking, existing.IndustryRanking)
	existing.GrowthStage = coStr(input.GrowthStage, existing.GrowthStage)
	existing.MarketTrends = coStr(input.MarketTrends, existing.MarketTrends)
	existing.RecentNews = coStr(input.RecentNews, existing.RecentNews)
	existing.PressReleases = coStr(input.PressReleases, existing.PressReleases)
	existing.MediaMentions = coStr(input.MediaMentions, existing.MediaMentions)
	existing.Awards = coStr(input.Awards, existing.Awards)
	existing.SpeakingEngagements = coStr(input.SpeakingEngagements, existing.SpeakingEngagements)
	existing.TechnologyStack = coStr(input.TechnologyStack, existing.TechnologyStack)
	existing.Patents = coStr(input.Patents, existing.Patents)
	existing.RdInvestment = coStr(input.RdInvestment, existing.RdInvestment)
	existing.InnovationAreas = coStr(input.InnovationAreas, existing.InnovationAreas)
	existing.TechPartnerships = coStr(input.TechPartnerships, existing.TechPartnerships)
	existing.EsgScore = coStr(input.EsgScore, existing.EsgScore)
	existing.SustainabilityInitiatives = coStr(input.SustainabilityInitiatives, existing.SustainabilityInitiatives)
	existing.CorporateValues = coStr(input.CorporateValues, existing.CorporateValues)
	existing.DiversityInclusion = coStr(input.DiversityInclusion, existing.DiversityInclusion)
	existing.SocialImpact = coStr(input.SocialImpact, existing.SocialImpact)
	existing.OfficeLocations = coStr(input.OfficeLocations, existing.OfficeLocations)
	existing.RemoteWorkPolicy = coStr(input.RemoteWorkPolicy, existing.RemoteWorkPolicy)
	existing.WorkCulture = coStr(input.WorkCulture, existing.WorkCulture)
	existing.Benefits = coStr(input.Benefits, existing.Benefits)
	existing.HiringStatus = coStr(input.HiringStatus, existing.HiringStatus)
	existing.SwotAnalysis = coStr(input.SwotAnalysis, existing.SwotAnalysis)
	existing.RiskFactors = coStr(input.RiskFactors, existing.RiskFactors)
	existing.GrowthStrategy = coStr(input.GrowthStrategy, existing.GrowthStrategy)
	existing.InvestmentThesis = coStr(input.InvestmentThesis, existing.InvestmentThesis)
	existing.DueDiligenceNotes = coStr(input.DueDiligenceNotes, existing.DueDiligenceNotes)
}

func newCompanyFromInput(input *NewCompany) *Company {
	companyType := DefaultCompanyType
	if input.Type != nil {
		if t, err := ParseCompanyType(*input.Type); err == nil {
			companyType = t
		}
	}
	company := &Company{
		ID:   uuid.New(),
		Name: input.Name,
		Type: companyType,
	}
	applyMerge(company, input)
	return company
}

// lockCompanyName serializes find-or-create on the normalized name so
// concurrent requests cannot race past the existence check. Lock acquisition
// is best-effort: without Redis the unique index on name is the backstop.
func lockCompanyName(ctx context.Context, name string) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil, nil
	}
	key := "lock:company:name:" + strings.ToLower(strings.TrimSpace(name))
	return locker.Obtain(ctx, key, 10*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
}

// CreateOrMergeCompany maps a company name to exactly one row:
//   - not found            -> create with the supplied fields
//   - found, incomplete    -> coalescing merge (truthy incoming values win)
//   - found, fully populated -> ErrorCompanyComplete, row untouched
//
// merged reports whether an existing row was updated rather than created.
func CreateOrMergeCompany(ctx context.Context, input *NewCompany) (company *Company, merged bool, err error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, false, errors.New("company name is required")
	}

	lock, lockErr := lockCompanyName(ctx, input.Name)
	if lockErr != nil && lockErr != redislock.ErrNotObtained {
		return nil, false, lockErr
	}
	if lock != nil {
		defer lock.Release(context.WithoutCancel(ctx))
	}

	db := config.GetDB()

	var existing Company
	err = db.WithContext(ctx).Where("name = ?", input.Name).First(&existing).Error
	switch {
	case err == nil:
		if IsFullyPopulated(&existing) {
			return nil, false, utils.ErrorCompanyComplete
		}
		applyMerge(&existing, input)
		if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, false, err
		}
		_ = existing.RemoveInstanceRedis()
		return &existing, true, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		company = newCompanyFromInput(input)
		if err := db.WithContext(ctx).Create(company).Error; err != nil {
			if !isDuplicateKey(err) {
				return nil, false, err
			}
			// Unique index on name: a concurrent create won the race (only
			// reachable without Redis). Re-read and merge instead.
			var after Company
			if ferr := db.WithContext(ctx).Where("name = ?", input.Name).First(&after).Error; ferr == nil {
				if IsFullyPopulated(&after) {
					return nil, false, utils.ErrorCompanyComplete
				}
				applyMerge(&after, input)
				if uerr := db.WithContext(ctx).Save(&after).Error; uerr != nil {
					return nil, false, uerr
				}
				_ = after.RemoveInstanceRedis()
				return &after, true, nil
			}
			return nil, false, err
		}
		return company, false, nil

	default:
		return nil, false, err
	}
}

// FindOrCreateCompanyByName is the ingestion-side resolver: the minimal row
// created here carries placeholder values the merge policy later overwrites.
// created reports whether this call inserted the row (the ingestion saga
// compensates by deleting it if downstream writes fail).
func FindOrCreateCompanyByName(ctx context.Context, name string, uploadTitle string) (company *Company, created bool, err error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, errors.New("company name is required")
	}

	lock, lockErr := lockCompanyName(ctx, name)
	if lockErr != nil && lockErr != redislock.ErrNotObtained {
		return nil, false, lockErr
	}
	if lock != nil {
		defer lock.Release(context.WithoutCancel(ctx))
	}

	db := config.GetDB()

	var existing Company
	err = db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	description := "Company created from content upload: " + uploadTitle
	unknown := "Unknown"
	company = &Company{
		ID:          uuid.New(),
		Name:        name,
		Description: &description,
		Industry:    &unknown,
		Country:     &unknown,
		Size:        &unknown,
		Type:        DefaultCompanyType,
	}
	if err := db.WithContext(ctx).Create(company).Error; err != nil {
		if isDuplicateKey(err) {
			var after Company
			if ferr := db.WithContext(ctx).Where("name = ?", name).First(&after).Error; ferr == nil {
				return &after, false, nil
			}
		}
		return nil, false, err
	}
	return company, true, nil
}

// DeleteCompany is the compensation step for ingestion failures; normal flows
// never delete companies.
func DeleteCompany(ctx context.Context, id uuid.UUID) error {
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&Company{}, "id = ?", id).Error; err != nil {
		return err
	}
	return utils.RemoveInstanceRedis[Company](id.String())
}

// GetCompany reads through the Redis cache. May return ErrorRecordNotFound.
func GetCompany(ctx context.Context, id string) (*Company, error) {
	cached, err := utils.RetrieveRedis[Company](id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var company Company
	if err := db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if err := utils.StoreRedis[Company](&company, id); err != nil {
		return nil, err
	}
	return &company, nil
}

// CompanySummary is the flat list projection.
type CompanySummary struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Industry    *string     `json:"industry"`
	Country     *string     `json:"country"`
	Size        *string     `json:"size"`
	Type        CompanyType `json:"type"`
	Website     *string     `json:"website"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func GetCompanies(ctx context.Context) ([]*CompanySummary, error) {
	db := config.GetDB()
	var companies []*CompanySummary
	err := db.WithContext(ctx).Model(&Company{}).
		Select("id", "name", "description", "industry", "country", "size", "type", "website", "created_at", "updated_at").
		Order("created_at DESC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// CompanyWithContent nests the calling user's content and insights under the
// shared company row.
type CompanyWithContent struct {
	Company
	ContentItems     []*ContentItem     `json:"content_items"`
	BusinessInsights []*BusinessInsight `json:"business_insights"`
}

// GetCompaniesGroupedWithContent returns companies that have content for this
// user, with the user's items and insights attached. Grouping uses a
// request-local index keyed by company id; order follows the content fetch
// (newest content first).
func GetCompaniesGroupedWithContent(ctx context.Context, userId int) ([]*CompanyWithContent, error) {
	db := config.GetDB()

	var items []*ContentItem
	err := db.WithContext(ctx).
		Where("user_id = ? AND company_id IS NOT NULL", userId).
		Preload("Transcriptions").
		Preload("BusinessInsights").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*CompanyWithContent{}, nil
	}

	companyIds := make([]string, 0, len(items))
	for _, item := range items {
		if item.CompanyId != nil {
			companyIds = append(companyIds, *item.CompanyId)
		}
	}
	companyIds = utils.UniqueSlice(companyIds)

	var companies []*Company
	if err := db.WithContext(ctx).Where("id IN ?", companyIds).Find(&companies).Error; err != nil {
		return nil, err
	}
	byId := make(map[string]*CompanyWithContent, len(companies))
	for _, c := range companies {
		byId[c.ID.String()] = &CompanyWithContent{Company: *c}
	}

	ordered := make([]*CompanyWithContent, 0, len(companies))
	seen := make(map[string]bool, len(companies))
	for _, item := range items {
		if item.CompanyId == nil {
			continue
		}
		group, ok := byId[*item.CompanyId]
		if !ok {
			continue
		}
		if !seen[*item.CompanyId] {
			seen[*item.CompanyId] = true
			ordered = append(ordered, group)
		}
		group.ContentItems = append(group.ContentItems, item)
		group.BusinessInsights = append(group.BusinessInsights, item.BusinessInsights...)
	}
	return ordered, nil
}

// SearchCompanies does a case-insensitive substring match on name with an
// optional type filter.
func SearchCompanies(ctx context.Context, query string, companyType *CompanyType) ([]*Company, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("name ASC")
	if companyType != nil {
		dbCtx = dbCtx.Where("type = ?", *companyType)
	}
	var companies []*Company
	if err := dbCtx.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// enrichableColumns is the allow-list for the enrich endpoint: arbitrary keys
// from the client never reach the UPDATE statement.
var enrichableColumns = map[string]bool{
	"trading_name": true, "description": true, "industry": true, "sector": true,
	"founded_year": true, "headquarters": true, "country": true, "size": true,
	"type": true, "revenue": true, "market_cap": true, "employee_count": true,
	"legal_status": true, "stock_symbol": true, "ceo": true, "key_executives": true,
	"founders": true, "board_members": true, "website": true, "linkedin": true,
	"twitter": true, "facebook": true, "instagram": true, "youtube": true,
	"other_social": true, "phone": true, "email": true, "address": true,
	"support_email": true, "sales_email": true, "press_contact": true,
	"glassdoor_rating": true, "google_rating": true, "trustpilot_score": true,
	"bbb_rating": true, "yelp_rating": true, "industry_reviews": true,
	"business_model": true, "products": true, "target_market": true,
	"geographic_presence": true, "languages": true, "key_partners": true,
	"major_clients": true, "suppliers": true, "competitors": true,
	"acquisitions": true, "subsidiaries": true, "market_share": true,
	"competitive_advantage": true, "industry_ranking": true, "growth_stage": true,
	"market_trends": true, "recent_news": true, "press_releases": true,
	"media_mentions": true, "awards": true, "speaking_engagements": true,
	"technology_stack": true, "patents": true, "rd_investment": true,
	"innovation_areas": true, "tech_partnerships": true, "esg_score": true,
	"sustainability_initiatives": true, "corporate_values": true,
	"diversity_inclusion": true, "social_impact": true, "office_locations": true,
	"remote_work_policy": true, "work_culture": true, "benefits": true,
	"hiring_status": true, "swot_analysis": true, "risk_factors": true,
	"growth_strategy": true, "investment_thesis": true, "due_diligence_notes": true,
}

// EnrichCompany applies a field patch. Unknown keys are rejected rather than
// silently dropped so callers notice typos.
func EnrichCompany(ctx context.Context, id string, patch map[string]interface{}) (*Company, error) {
	if len(patch) == 0 {
		return nil, errors.New("enrichment data is required")
	}
	updates := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if !enrichableColumns[key] {
			return nil, fmt.Errorf("unknown company field: %s", key)
		}
		if key == "type" {
			s, ok := value.(string)
			if !ok {
				return nil, errors.New("invalid company type")
			}
			t, err := ParseCompanyType(s)
			if err != nil {
				return nil, err
			}
			value = t
		}
		updates[key] = value
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Company{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Updates with identical values also report zero rows; confirm existence.
		if err := utils.ValidateResourceId[Company](ctx, "", id); err != nil {
			return nil, err
		}
	}
	_ = utils.RemoveInstanceRedis[Company](id)

	var company Company
	if err := db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}
