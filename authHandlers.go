package main

import (
	"net/http"
	"strings"

	"github.com/contentlens/insight_backend/models"
	"github.com/gin-gonic/gin"
)

func signupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":    user.ID,
			"email": user.Email,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		info, err := models.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if strings.Contains(err.Error(), "invalid email or password") || strings.Contains(err.Error(), "disabled") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			respondStoreError(c, "loginHandler", "Failed to log in", req.Email, err)
			return
		}

		c.JSON(http.StatusOK, info)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil || !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to log out"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
