package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
)

var logger = slog.Default().With("component", "http")

// SetLogger replaces the handler logger.
func SetLogger(l *slog.Logger) {
	logger = l.With("component", "http")
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		logger.Error("panic recovered", "route", route, "panic", r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(apperror.KindInternal, "internal server error", http.StatusInternalServerError))
	}
}

func errorBody(kind apperror.Kind, message string, status int) gin.H {
	return gin.H{"error": string(kind), "message": message, "status": status}
}

func respondWithError(c *gin.Context, status int, route string, kind apperror.Kind, message string) {
	logger.Info("returning error", "route", route, "status", status, "message", message)
	c.AbortWithStatusJSON(status, errorBody(kind, message, status))
}

// respondAppError maps an error to its HTTP status. Anything that is not an
// *apperror.Error is logged and hidden behind a 500.
func respondAppError(c *gin.Context, route string, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		logger.Error("request failed", "route", route, "error", err)
		respondWithError(c, http.StatusInternalServerError, route, apperror.KindInternal, "internal server error")
		return
	}

	message := appErr.Message
	var stockErr *apperror.InsufficientStockError
	if errors.As(err, &stockErr) {
		message = stockErr.Error()
	}
	if appErr.Kind.Status() >= http.StatusInternalServerError {
		logger.Error("request failed", "route", route, "kind", appErr.Kind, "error", err)
	}
	respondWithError(c, appErr.Kind.Status(), route, appErr.Kind, message)
}

// respondValidationError reports binding failures field by field when the
// validator produced them.
func respondValidationError(c *gin.Context, route string, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondWithError(c, http.StatusBadRequest, route, apperror.KindValidation, "invalid request body: "+err.Error())
		return
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fieldProblem(fe))
	}
	respondWithError(c, http.StatusBadRequest, route, apperror.KindValidation, strings.Join(problems, "; "))
}

func fieldProblem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "max", "lte":
		return fe.Field() + " must be at most " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email"
	default:
		return fe.Field() + " is invalid"
	}
}

func parseObjectID(c *gin.Context, param, route string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, apperror.KindValidation, "invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

func ensureDBConnection(ctx context.Context, db Pinger) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Ping(checkCtx)
}

func Ping(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /ping"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			logger.Warn("database ping failed", "route", route, "error", err)
			respondWithError(c, http.StatusServiceUnavailable, route, apperror.KindExternal, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
