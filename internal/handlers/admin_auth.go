package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"perfume-backend/internal/apperror"
)

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func AdminLogin(admins AdminFinder, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		if jwtSecret == "" {
			respondWithError(c, http.StatusServiceUnavailable, route, apperror.KindInternal, "admin login is disabled")
			return
		}

		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		admin, err := admins.FindAdminByEmail(c.Request.Context(), email)
		if err != nil {
			if !apperror.Is(err, apperror.KindNotFound) {
				logger.Error("admin lookup failed", "route", route, "error", err)
			}
			respondWithError(c, http.StatusUnauthorized, route, apperror.KindUnauthorized, "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, apperror.KindUnauthorized, "invalid credentials")
			return
		}

		claims := jwt.MapClaims{
			"sub":   admin.ID.Hex(),
			"role":  "admin",
			"email": admin.Email,
			"exp":   time.Now().Add(accessTTL).Unix(),
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			logger.Error("token signing failed", "route", route, "error", err)
			respondWithError(c, http.StatusInternalServerError, route, apperror.KindInternal, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": signed,
		})
	}
}
