package demoserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

var validate = validator.New()

// SignedDetails mirrors the claim set the real backend issues.
type SignedDetails struct {
	Email     string
	Name      string
	Uid       string
	User_role string
	jwt.StandardClaims
}

func (s *Server) generateToken(email, name, uid, userRole string) (string, error) {
	claims := SignedDetails{
		Email:     email,
		Name:      name,
		Uid:       uid,
		User_role: userRole,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) validateToken(signedToken string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("the token is invalid")
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("token is expired")
	}
	return claims, nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Password  string `json:"password" validate:"required,min=6"`
	User_type string `json:"user_type" validate:"required"`
}

func (s *Server) login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, ok := s.store.authenticate(req.Email, req.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "email or password is incorrect"})
			return
		}
		token, err := s.generateToken(user.User.Email, user.User.Name, user.User.User_id, user.User.User_type)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}
		// the upstream gateway double-wraps auth responses; mirror it so the
		// client's envelope handling stays honest
		c.JSON(http.StatusOK, gin.H{
			"body_json": gin.H{
				"data": gin.H{
					"token":     token,
					"email":     user.User.Email,
					"name":      user.User.Name,
					"user_id":   user.User.User_id,
					"user_type": user.User.User_type,
				},
			},
		})
	}
}

func (s *Server) register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.store.register(req.Name, req.Email, req.Password, req.User_type); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		respondData(c, gin.H{"email": req.Email})
	}
}

func (s *Server) logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		// tokens are stateless here; the client clears its own session
		respondData(c, gin.H{"message": "logged out"})
	}
}
