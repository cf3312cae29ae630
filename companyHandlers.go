package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/models"
	"github.com/contentlens/insight_backend/utils"
	"github.com/gin-gonic/gin"
)

func listCompaniesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if strings.EqualFold(c.Query("view"), "grouped") {
			userId, _ := userIdFromRequest(c)
			grouped, err := models.GetCompaniesGroupedWithContent(ctx, userId)
			if err != nil {
				respondStoreError(c, "listCompaniesHandler", "Failed to fetch companies", nil, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"companies": grouped})
			return
		}

		companies, err := models.GetCompanies(ctx)
		if err != nil {
			respondStoreError(c, "listCompaniesHandler", "Failed to fetch companies", nil, err)
			return
		}
		c.JSON(http.StatusOK, companies)
	}
}

func createCompanyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCompany
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Company name is required"})
			return
		}
		if input.Type != nil {
			if _, err := models.ParseCompanyType(*input.Type); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company type"})
				return
			}
		}

		company, merged, err := models.CreateOrMergeCompany(c.Request.Context(), &input)
		if err != nil {
			if errors.Is(err, utils.ErrorCompanyComplete) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": fmt.Sprintf(
						"A company named %q already exists with complete information. Please choose a different name or search for the existing company.",
						input.Name),
				})
				return
			}
			respondStoreError(c, "createCompanyHandler", "Database error", input.Name, err)
			return
		}

		if merged {
			c.JSON(http.StatusOK, gin.H{
				"message": fmt.Sprintf("Company %q updated successfully with additional information", input.Name),
				"company": company,
			})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Company created successfully",
			"company": company,
		})
	}
}

func getCompanyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		companyId := c.Param("id")

		company, err := models.GetCompany(ctx, companyId)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
				return
			}
			respondStoreError(c, "getCompanyHandler", "Failed to fetch company", companyId, err)
			return
		}

		// A content fetch failure degrades to an empty list rather than
		// failing the whole request.
		userId, _ := userIdFromRequest(c)
		items, err := models.GetContentItemsForCompany(ctx, userId, companyId)
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "getCompanyHandler", "failed to fetch company content", companyId, err)
			items = []*models.ContentItem{}
		}

		c.JSON(http.StatusOK, gin.H{
			"company":      company,
			"contentItems": items,
		})
	}
}

type enrichCompanyRequest struct {
	CompanyId      string                 `json:"companyId"`
	EnrichmentData map[string]interface{} `json:"enrichmentData"`
}

func enrichCompanyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req enrichCompanyRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CompanyId == "" || len(req.EnrichmentData) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Company ID and enrichment data are required"})
			return
		}

		company, err := models.EnrichCompany(c.Request.Context(), req.CompanyId, req.EnrichmentData)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
				return
			}
			if strings.HasPrefix(err.Error(), "unknown company field") || strings.Contains(err.Error(), "invalid company type") {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			respondStoreError(c, "enrichCompanyHandler", "Failed to enrich company", req.CompanyId, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Company enriched successfully",
			"company": company,
		})
	}
}

func searchCompaniesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		query := c.Query("q")
		if strings.TrimSpace(query) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
			return
		}

		var companyType *models.CompanyType
		if raw := c.Query("type"); raw != "" {
			t, err := models.ParseCompanyType(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company type"})
				return
			}
			companyType = &t
		}

		companies, err := models.SearchCompanies(ctx, query, companyType)
		if err != nil {
			respondStoreError(c, "searchCompaniesHandler", "Failed to search companies", query, err)
			return
		}

		// Attach the caller's content and insights to each hit; the company
		// rows themselves are shared.
		userId, _ := userIdFromRequest(c)
		results := make([]*models.CompanyWithContent, 0, len(companies))
		for _, company := range companies {
			items, err := models.GetContentItemsForCompany(ctx, userId, company.ID.String())
			if err != nil {
				respondStoreError(c, "searchCompaniesHandler", "Failed to search companies", company.ID.String(), err)
				return
			}
			group := &models.CompanyWithContent{
				Company:          *company,
				ContentItems:     items,
				BusinessInsights: []*models.BusinessInsight{},
			}
			for _, item := range items {
				group.BusinessInsights = append(group.BusinessInsights, item.BusinessInsights...)
			}
			results = append(results, group)
		}

		relatedContent, err := models.SearchContentItems(ctx, userId, query, 10)
		if err != nil {
			respondStoreError(c, "searchCompaniesHandler", "Failed to search content", query, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"companies":      results,
			"relatedContent": relatedContent,
			"query":          query,
		})
	}
}
