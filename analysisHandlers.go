package main

import (
	"net/http"
	"time"

	"github.com/contentlens/insight_backend/models"
	"github.com/contentlens/insight_backend/workflow"
	"github.com/gin-gonic/gin"
)

func runConsistencyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userId, _ := userIdFromRequest(c)

		items, err := models.GetCompletedContentItems(ctx, userId)
		if err != nil {
			respondStoreError(c, "runConsistencyHandler", "Failed to fetch content", nil, err)
			return
		}
		if len(items) < workflow.MinConsistencyItems {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Need at least 2 content items for consistency analysis"})
			return
		}

		findings := workflow.AnalyzeConsistency(items)

		report, err := models.CreateConsistencyReport(ctx, userId, findings)
		if err != nil {
			respondStoreError(c, "runConsistencyHandler", "Failed to create consistency report", nil, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"report":  report,
			"message": "Consistency analysis completed",
		})
	}
}

func listConsistencyReportsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := userIdFromRequest(c)

		reports, err := models.GetConsistencyReports(c.Request.Context(), userId)
		if err != nil {
			respondStoreError(c, "listConsistencyReportsHandler", "Failed to fetch reports", nil, err)
			return
		}
		c.JSON(http.StatusOK, reports)
	}
}

func runGapsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userId, _ := userIdFromRequest(c)

		items, err := models.GetCompletedContentItems(ctx, userId)
		if err != nil {
			respondStoreError(c, "runGapsHandler", "Failed to fetch content", nil, err)
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No content available for gap analysis"})
			return
		}

		gaps := workflow.AnalyzeGaps(items)
		recommendations := workflow.OverallRecommendations(gaps)

		report, err := models.CreateGapAnalysisReport(ctx, userId, gaps, recommendations)
		if err != nil {
			respondStoreError(c, "runGapsHandler", "Failed to create gap analysis report", nil, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"report":  report,
			"message": "Gap analysis completed",
		})
	}
}

func listGapReportsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := userIdFromRequest(c)

		reports, err := models.GetGapAnalysisReports(c.Request.Context(), userId)
		if err != nil {
			respondStoreError(c, "listGapReportsHandler", "Failed to fetch reports", nil, err)
			return
		}
		c.JSON(http.StatusOK, reports)
	}
}

func listInsightsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := userIdFromRequest(c)

		insights, err := models.GetBusinessInsights(c.Request.Context(), userId)
		if err != nil {
			respondStoreError(c, "listInsightsHandler", "Failed to fetch insights", nil, err)
			return
		}
		c.JSON(http.StatusOK, insights)
	}
}

func exportInsightsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := userIdFromRequest(c)

		filename := "insights-" + time.Now().Format("2006-01-02") + ".xlsx"
		c.Writer.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Writer.Header().Set("Content-Disposition", "attachment; filename="+filename)

		if err := workflow.ExportInsightsExcel(c.Request.Context(), userId, c.Writer); err != nil {
			respondStoreError(c, "exportInsightsHandler", "Failed to export insights", nil, err)
			return
		}
		c.Status(http.StatusOK)
	}
}
