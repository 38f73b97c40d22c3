package controllers

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/convocatorias/convocatorias-backend/src/storage"
	"github.com/convocatorias/convocatorias-backend/src/utils"
	"github.com/gin-gonic/gin"
)

type DownloadController struct {
	store storage.FileStore
	drive *utils.DriveClient
}

func NewDownloadController(store storage.FileStore, drive *utils.DriveClient) *DownloadController {
	return &DownloadController{store: store, drive: drive}
}

// Download handles GET /descargas?path=
func (c *DownloadController) Download(ctx *gin.Context) {
	ref := ctx.Query("path")
	if ref == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Path requerido"})
		return
	}

	if utils.IsGoogleDriveURL(ref) {
		c.streamFromDrive(ctx, ref)
		return
	}

	full, err := c.store.Resolve(ref)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		log.Printf("[DESCARGAS] archivo no encontrado: %s", full)
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Archivo no encontrado"})
		return
	}
	ctx.File(full)
}

func (c *DownloadController) streamFromDrive(ctx *gin.Context, url string) {
	if !c.drive.Configured() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": utils.ErrDriveNotConfigured.Error()})
		return
	}
	file, err := c.drive.Download(ctx.Request.Context(), url)
	if err != nil {
		if errors.Is(err, utils.ErrDriveNotConfigured) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[GOOGLE_DRIVE] %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo descargar el archivo de Google Drive"})
		return
	}
	defer file.Body.Close()

	contentType := file.MimeType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(file.Name))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Header("Content-Type", contentType)
	ctx.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.Name}))
	if file.Size > 0 {
		ctx.Header("Content-Length", strconv.FormatInt(file.Size, 10))
	}
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, file.Body); err != nil {
		log.Printf("[GOOGLE_DRIVE] stream interrumpido: %v", err)
	}
}
