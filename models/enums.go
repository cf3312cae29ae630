package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type CompanyType string

const (
	CompanyTypeSupplier   CompanyType = "SUPPLIER"
	CompanyTypeCompetitor CompanyType = "COMPETITOR"
	CompanyTypePartner    CompanyType = "PARTNER"
	CompanyTypeTarget     CompanyType = "TARGET"
	CompanyTypeCustomer   CompanyType = "CUSTOMER"
)

// DefaultCompanyType is the single documented default applied on every create
// path when the caller does not specify a type.
const DefaultCompanyType = CompanyTypeTarget

var companyTypes = map[string]CompanyType{
	"SUPPLIER":   CompanyTypeSupplier,
	"COMPETITOR": CompanyTypeCompetitor,
	"PARTNER":    CompanyTypePartner,
	"TARGET":     CompanyTypeTarget,
	"CUSTOMER":   CompanyTypeCustomer,
}

func ParseCompanyType(s string) (CompanyType, error) {
	if t, ok := companyTypes[s]; ok {
		return t, nil
	}
	return "", errors.New("invalid company type")
}

type ContentType string

const (
	ContentTypeAudio       ContentType = "AUDIO"
	ContentTypeVideo       ContentType = "VIDEO"
	ContentTypeBlogArticle ContentType = "BLOG_ARTICLE"
	ContentTypeDocument    ContentType = "DOCUMENT"
	ContentTypeText        ContentType = "TEXT"
)

// ExpectedContentTypes drives the content-diversity gap pass; order is the
// order gaps are reported in.
var ExpectedContentTypes = []ContentType{
	ContentTypeAudio,
	ContentTypeVideo,
	ContentTypeBlogArticle,
	ContentTypeDocument,
	ContentTypeText,
}

var contentTypes = map[string]ContentType{
	"AUDIO":        ContentTypeAudio,
	"VIDEO":        ContentTypeVideo,
	"BLOG_ARTICLE": ContentTypeBlogArticle,
	"DOCUMENT":     ContentTypeDocument,
	"TEXT":         ContentTypeText,
}

func ParseContentType(s string) (ContentType, error) {
	if t, ok := contentTypes[s]; ok {
		return t, nil
	}
	return "", errors.New("invalid content type")
}

type ContentSource string

const (
	ContentSourceFileUpload  ContentSource = "FILE_UPLOAD"
	ContentSourceYoutubeURL  ContentSource = "YOUTUBE_URL"
	ContentSourceBlogURL     ContentSource = "BLOG_URL"
	ContentSourceDirectInput ContentSource = "DIRECT_INPUT"
)

var contentSources = map[string]ContentSource{
	"FILE_UPLOAD":  ContentSourceFileUpload,
	"YOUTUBE_URL":  ContentSourceYoutubeURL,
	"BLOG_URL":     ContentSourceBlogURL,
	"DIRECT_INPUT": ContentSourceDirectInput,
}

func ParseContentSource(s string) (ContentSource, error) {
	if t, ok := contentSources[s]; ok {
		return t, nil
	}
	return "", errors.New("invalid content source")
}

type ContentStatus string

const (
	ContentStatusPending      ContentStatus = "PENDING"
	ContentStatusTranscribing ContentStatus = "TRANSCRIBING"
	ContentStatusAnalyzing    ContentStatus = "ANALYZING"
	ContentStatusCompleted    ContentStatus = "COMPLETED"
	ContentStatusFailed       ContentStatus = "FAILED"
)

type InsightCategory string

const (
	InsightCategoryBusinessModel InsightCategory = "BUSINESS_MODEL"
	InsightCategoryMarketing     InsightCategory = "MARKETING"
	InsightCategoryOperations    InsightCategory = "OPERATIONS"
	InsightCategoryFinancial     InsightCategory = "FINANCIAL"
	InsightCategoryStrategic     InsightCategory = "STRATEGIC"
	InsightCategoryCustomer      InsightCategory = "CUSTOMER"
	InsightCategoryProduct       InsightCategory = "PRODUCT"
	InsightCategoryCompetitive   InsightCategory = "COMPETITIVE"
	InsightCategoryRisks         InsightCategory = "RISKS"
	InsightCategoryOpportunities InsightCategory = "OPPORTUNITIES"
)

// ExpectedInsightCategories drives the missing-category gap pass.
var ExpectedInsightCategories = []InsightCategory{
	InsightCategoryBusinessModel,
	InsightCategoryMarketing,
	InsightCategoryOperations,
	InsightCategoryFinancial,
	InsightCategoryStrategic,
	InsightCategoryCustomer,
	InsightCategoryProduct,
	InsightCategoryCompetitive,
	InsightCategoryRisks,
	InsightCategoryOpportunities,
}

type InsightPriority string

const (
	InsightPriorityLow      InsightPriority = "LOW"
	InsightPriorityMedium   InsightPriority = "MEDIUM"
	InsightPriorityHigh     InsightPriority = "HIGH"
	InsightPriorityCritical InsightPriority = "CRITICAL"
)

type ProcessingJobStatus string

const (
	ProcessingJobStatusPending    ProcessingJobStatus = "PENDING"
	ProcessingJobStatusProcessing ProcessingJobStatus = "PROCESSING"
	ProcessingJobStatusDone       ProcessingJobStatus = "DONE"
	ProcessingJobStatusFailed     ProcessingJobStatus = "FAILED"
)

// Scan/Value keep enum columns honest when rows are read outside gorm's
// default string handling.

func (t *CompanyType) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	*t = CompanyType(s)
	return nil
}

func (t CompanyType) Value() (driver.Value, error) { return string(t), nil }

func scanEnumString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("enum column must be string, got %T", value)
	}
}
