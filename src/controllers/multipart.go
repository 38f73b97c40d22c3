package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"github.com/gin-gonic/gin"
)

// bindPayload decodes a JSON body, or the "datos" field of a multipart form.
// The returned form is nil for JSON requests.
func bindPayload(ctx *gin.Context, maxBytes int64, dest interface{}) (*multipart.Form, error) {
	if maxBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
	}

	if !strings.HasPrefix(ctx.ContentType(), "multipart/form-data") {
		if err := ctx.ShouldBindJSON(dest); err != nil {
			return nil, err
		}
		return nil, nil
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, err
	}
	raw := form.Value["datos"]
	if len(raw) == 0 {
		return nil, errors.New("el campo datos es obligatorio")
	}
	if err := json.Unmarshal([]byte(raw[0]), dest); err != nil {
		return nil, fmt.Errorf("datos: %w", err)
	}
	return form, nil
}

// formFile returns the first file uploaded under any of the keys.
func formFile(form *multipart.Form, keys ...string) *storage.Upload {
	if form == nil {
		return nil
	}
	for _, key := range keys {
		if headers := form.File[key]; len(headers) > 0 {
			return storage.FromFileHeader(headers[0])
		}
	}
	return nil
}

// indexedFile accepts both "section[0][archivo]" and "section.0.archivo".
func indexedFile(form *multipart.Form, section string, i int) *storage.Upload {
	return formFile(form,
		fmt.Sprintf("%s[%d][archivo]", section, i),
		fmt.Sprintf("%s.%d.archivo", section, i),
	)
}

func applicantFiles(form *multipart.Form) dtos.ApplicantFiles {
	return dtos.ApplicantFiles{
		Photo:       formFile(form, "foto_perfil"),
		CoverLetter: formFile(form, "carta_postulacion"),
		Curriculum:  formFile(form, "curriculum_vitae"),
		IDScan:      formFile(form, "ci_documento"),
	}
}

func attachSectionFiles(form *multipart.Form, sections *dtos.DossierSectionsDTO) {
	if form == nil {
		return
	}
	for i := range sections.Educations {
		sections.Educations[i].Upload = indexedFile(form, "formaciones", i)
	}
	for i := range sections.Experiences {
		sections.Experiences[i].Upload = indexedFile(form, "experiencias", i)
	}
	for i := range sections.Trainings {
		sections.Trainings[i].Upload = indexedFile(form, "capacitaciones", i)
	}
	for i := range sections.Publications {
		sections.Publications[i].Upload = indexedFile(form, "producciones", i)
	}
	for i := range sections.Awards {
		sections.Awards[i].Upload = indexedFile(form, "reconocimientos", i)
	}
}

func attachDocumentFiles(form *multipart.Form, docs []dtos.DocumentDTO) {
	if form == nil {
		return
	}
	for i := range docs {
		docs[i].Upload = indexedFile(form, "documentos", i)
	}
}
