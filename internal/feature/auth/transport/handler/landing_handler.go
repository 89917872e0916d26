package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/feature/auth/transport/middleware"
)

// LandingHandler serves the role-dependent landing pages the auth workflows
// redirect to. The storefront, seller and admin screens themselves are owned
// by other features; these endpoints only confirm the session identity so the
// redirect targets resolve.
type LandingHandler struct{}

// NewLandingHandler creates a new instance of LandingHandler.
func NewLandingHandler() *LandingHandler {
	return &LandingHandler{}
}

// Customer handles the public storefront landing page.
func (h *LandingHandler) Customer(c *gin.Context) {
	resp := gin.H{"page": "storefront"}
	if sess := middleware.FromContext(c); sess != nil && sess.IsAuthenticated() {
		resp["username"] = sess.Username
		resp["full_name"] = sess.FullName
	}
	c.JSON(http.StatusOK, resp)
}

// Seller handles the seller dashboard landing page.
func (h *LandingHandler) Seller(c *gin.Context) {
	sess := middleware.FromContext(c)
	c.JSON(http.StatusOK, gin.H{"page": "seller_dashboard", "username": sess.Username})
}

// Admin handles the admin dashboard landing page.
func (h *LandingHandler) Admin(c *gin.Context) {
	sess := middleware.FromContext(c)
	c.JSON(http.StatusOK, gin.H{"page": "admin_dashboard", "username": sess.Username})
}
