package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var ErrDriveNotConfigured = errors.New("GOOGLE_DRIVE_CREDENTIALS_PATH o GOOGLE_DRIVE_CREDENTIALS_JSON debe estar configurado")

// DriveClient streams attachments that applicants linked from Google Drive.
// The service account is loaded on first use.
type DriveClient struct {
	credentialsPath string
	credentialsJSON string

	once    sync.Once
	service *drive.Service
	initErr error
}

func NewDriveClient(credentialsPath, credentialsJSON string) *DriveClient {
	return &DriveClient{credentialsPath: credentialsPath, credentialsJSON: credentialsJSON}
}

// Configured reports whether credentials were provided at all.
func (c *DriveClient) Configured() bool {
	return c != nil && (c.credentialsPath != "" || c.credentialsJSON != "")
}

func (c *DriveClient) init(ctx context.Context) (*drive.Service, error) {
	c.once.Do(func() {
		if !c.Configured() {
			c.initErr = ErrDriveNotConfigured
			return
		}

		credsBytes := []byte(c.credentialsJSON)
		if c.credentialsPath != "" {
			var err error
			credsBytes, err = os.ReadFile(c.credentialsPath)
			if err != nil {
				c.initErr = fmt.Errorf("error leyendo archivo de credenciales: %w", err)
				return
			}
		}

		creds, err := google.CredentialsFromJSON(ctx, credsBytes, drive.DriveReadonlyScope)
		if err != nil {
			c.initErr = fmt.Errorf("error cargando credenciales: %w", err)
			return
		}
		c.service, err = drive.NewService(context.Background(), option.WithCredentials(creds))
		if err != nil {
			c.initErr = fmt.Errorf("error creando servicio de Google Drive: %w", err)
			return
		}
		log.Printf("[GOOGLE_DRIVE] Servicio inicializado correctamente")
	})
	return c.service, c.initErr
}

var driveIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
}

var driveHost = regexp.MustCompile(`^https?://(drive|docs)\.google\.com/`)

// IsGoogleDriveURL verifica si una referencia apunta a Google Drive
func IsGoogleDriveURL(ref string) bool {
	return driveHost.MatchString(ref)
}

// ExtractFileIDFromURL extrae el ID del archivo de una URL de Google Drive
func ExtractFileIDFromURL(url string) (string, error) {
	for _, re := range driveIDPatterns {
		if matches := re.FindStringSubmatch(url); len(matches) > 1 {
			return matches[1], nil
		}
	}
	return "", fmt.Errorf("no se pudo extraer el ID del archivo de la URL: %s", url)
}

// DriveFile is an open download from Drive.
type DriveFile struct {
	Body     io.ReadCloser
	Name     string
	MimeType string
	Size     int64
}

// Download opens the file referenced by a Drive URL.
func (c *DriveClient) Download(ctx context.Context, url string) (*DriveFile, error) {
	fileID, err := ExtractFileIDFromURL(url)
	if err != nil {
		return nil, err
	}
	service, err := c.init(ctx)
	if err != nil {
		return nil, err
	}

	file, err := service.Files.Get(fileID).Fields("id", "name", "mimeType", "size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error obteniendo información del archivo: %w", err)
	}
	if file.MimeType == "application/vnd.google-apps.folder" {
		return nil, fmt.Errorf("las carpetas de Google Drive no se pueden descargar directamente")
	}

	resp, err := service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("error descargando archivo: %w", err)
	}

	log.Printf("[GOOGLE_DRIVE] Descargando %s (%s, %d bytes)", file.Name, file.MimeType, file.Size)
	return &DriveFile{Body: resp.Body, Name: file.Name, MimeType: file.MimeType, Size: file.Size}, nil
}
