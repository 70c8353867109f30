package demoserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-restaurant-tracker/models"
)

func (s *Server) getOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.allOrders())
	}
}

func (s *Server) getOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := s.store.order(c.Param("order_id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		respondData(c, order)
	}
}

func (s *Server) updateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status models.Status `json:"status"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		orderID := c.Param("order_id")
		if err := s.store.setStatus(orderID, req.Status); err != nil {
			storeError(c, err)
			return
		}
		s.hub.broadcast("order_update", orderID)
		respondData(c, gin.H{"id": orderID, "status": req.Status})
	}
}

// --- driver ---

func (s *Server) driverAvailable() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.availableForPickup())
	}
}

func (s *Server) driverAssigned() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.assignedTo(c.GetString("uid")))
	}
}

func (s *Server) driverTimeline() gin.HandlerFunc {
	return func(c *gin.Context) {
		steps, ok := s.store.stepsOf(c.Param("order_id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		respondData(c, steps)
	}
}

func (s *Server) driverStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.driverStats(c.GetString("uid")))
	}
}

func (s *Server) driverPickup() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		if err := s.store.pickup(orderID, c.GetString("uid"), c.GetString("name")); err != nil {
			storeError(c, err)
			return
		}
		s.hub.broadcast("order_update", orderID)
		respondData(c, gin.H{"id": orderID, "status": models.StatusDispatched})
	}
}

func (s *Server) driverComplete() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		if err := s.store.completeDelivery(orderID, c.GetString("uid")); err != nil {
			storeError(c, err)
			return
		}
		s.hub.broadcast("order_update", orderID)
		respondData(c, gin.H{"id": orderID, "status": models.StatusDelivered})
	}
}

func (s *Server) driverCancel() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		if err := s.store.cancelDelivery(orderID, c.GetString("uid")); err != nil {
			storeError(c, err)
			return
		}
		s.hub.broadcast("order_update", orderID)
		respondData(c, gin.H{"id": orderID, "status": models.StatusCancelled})
	}
}

func (s *Server) setAvailability() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.store.setAvailability(c.GetString("uid"), req.Status == "available")
		respondData(c, gin.H{"status": req.Status})
	}
}

// --- chef ---

func (s *Server) chefAssigned() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.kitchenQueue())
	}
}

func (s *Server) chefCompleteCooking() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		if err := s.store.completeCooking(orderID, c.GetString("uid"), c.GetString("name")); err != nil {
			storeError(c, err)
			return
		}
		s.hub.broadcast("order_update", orderID)
		respondData(c, gin.H{"id": orderID, "status": models.StatusPacking})
	}
}

func (s *Server) chefCompletePacking() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		if err := s.store.completePacking(orderID, c.GetString("name")); err != nil {
			storeError(c, err)
			return
		}
		s.hub.broadcast("order_update", orderID)
		respondData(c, gin.H{"id": orderID, "status": models.StatusReady})
	}
}

// --- dashboard / admin ---

func (s *Server) dashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.summary())
	}
}

func (s *Server) adminChefs() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.staff(models.RoleChef))
	}
}

func (s *Server) adminDrivers() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.staff(models.RoleDriver))
	}
}

func (s *Server) adminUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.allUsers())
	}
}

// --- workflow ---

func (s *Server) getWorkflows() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, s.store.workflows())
	}
}

func (s *Server) getWorkflowSteps() gin.HandlerFunc {
	return func(c *gin.Context) {
		steps, ok := s.store.stepsOf(c.Param("order_id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		respondData(c, steps)
	}
}

func (s *Server) updateWorkflowStep() gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.StepPatch
		if err := c.BindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		orderID := c.Param("order_id")
		if err := s.store.updateStep(orderID, c.Param("step_id"), patch); err != nil {
			storeError(c, err)
			return
		}
		s.hub.broadcast("workflow_update", orderID)
		respondData(c, gin.H{"id": c.Param("step_id")})
	}
}
