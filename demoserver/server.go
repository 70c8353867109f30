package demoserver

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-restaurant-tracker/models"
)

// Server is the built-in demo backend: the full consumed API surface over an
// in-memory store. It backs the clearly-labeled demo mode when the real
// service is unreachable, and the end-to-end tests.
type Server struct {
	Engine *gin.Engine
	store  *Store
	hub    *hub
	secret []byte
}

func New() *Server {
	gin.SetMode(gin.ReleaseMode)

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		secret = "demo-secret-key"
	}

	s := &Server{
		Engine: gin.New(),
		store:  newStore(),
		hub:    newHub(),
		secret: []byte(secret),
	}

	s.Engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.Engine

	e.POST("/auth/login", s.login())
	e.POST("/auth/register", s.register())
	e.GET("/ws", s.handleWebSocket())

	auth := e.Group("/", s.authentication())
	auth.POST("/auth/logout", s.logout())

	auth.GET("/orders", s.getOrders())
	auth.GET("/orders/:order_id", s.getOrder())
	auth.PATCH("/orders/:order_id/status", s.requireRole(models.RoleAdmin), s.updateOrderStatus())

	driver := auth.Group("/driver", s.requireRole(models.RoleDriver))
	driver.GET("/available", s.driverAvailable())
	driver.GET("/assigned", s.driverAssigned())
	driver.GET("/timeline/:order_id", s.driverTimeline())
	driver.GET("/stats", s.driverStats())
	driver.POST("/pickup/:order_id", s.driverPickup())
	driver.POST("/complete/:order_id", s.driverComplete())
	driver.POST("/cancel/:order_id", s.driverCancel())
	driver.POST("/availability", s.setAvailability())

	chef := auth.Group("/chef", s.requireRole(models.RoleChef))
	chef.GET("/assigned", s.chefAssigned())
	chef.POST("/complete-cooking/:order_id", s.chefCompleteCooking())
	chef.POST("/complete-packing/:order_id", s.chefCompletePacking())
	chef.POST("/availability", s.setAvailability())

	auth.GET("/dashboard", s.requireRole(models.RoleAdmin), s.dashboard())
	admin := auth.Group("/admin", s.requireRole(models.RoleAdmin))
	admin.GET("/chefs", s.adminChefs())
	admin.GET("/drivers", s.adminDrivers())
	admin.GET("/users", s.adminUsers())

	auth.GET("/workflow", s.getWorkflows())
	auth.GET("/workflow/:order_id/steps", s.getWorkflowSteps())
	auth.PATCH("/workflow/:order_id/steps/:step_id", s.updateWorkflowStep())
}

// authentication validates the bearer token and stashes the caller's
// identity on the context.
func (s *Server) authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}
		claims, err := s.validateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set("uid", claims.Uid)
		c.Set("name", claims.Name)
		c.Set("email", claims.Email)
		c.Set("user_role", claims.User_role)
		c.Next()
	}
}

func (s *Server) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetString("user_role")
		if models.NormalizeRole(raw) != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// respondData wraps a payload in the single-nested {"data": ...} envelope
// most endpoints of the real backend use.
func respondData(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": payload})
}

func storeError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, errNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	}
}
