package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses.
func respondError(ctx *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Los datos enviados no son válidos", "errors": verr.Fields})
	case errors.Is(err, services.ErrApplicantNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrOfferingNotFound),
		errors.Is(err, services.ErrDossierEntryNotFound),
		errors.Is(err, services.ErrCallNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrDuplicateApplication):
		ctx.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrOfferingClosed),
		errors.Is(err, services.ErrDossierRequired):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStorageFailure):
		log.Printf("[STORAGE] %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar uno de los archivos. Intente nuevamente."})
	default:
		log.Printf("[ERROR] %s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}

func paramID(ctx *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// queryInt reads an optional positive integer query parameter.
func queryInt(ctx *gin.Context, name string) (*int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return nil, false
	}
	return &v, true
}
