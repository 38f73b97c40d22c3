package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"github.com/xeipuuv/gojsonschema"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentService struct {
	db    *gorm.DB
	store storage.FileStore
}

// NewDocumentService creates a new instance of DocumentService
func NewDocumentService(db *gorm.DB, store storage.FileStore) *DocumentService {
	return &DocumentService{db: db, store: store}
}

// descriptorSchema builds a JSON Schema for the metadata of a document type.
// File fields travel as uploads and are not part of the metadata.
func descriptorSchema(fields []models.FieldDescriptor) map[string]interface{} {
	properties := map[string]interface{}{}
	required := []string{}

	for _, f := range fields {
		var prop map[string]interface{}
		switch f.Kind {
		case models.FieldFile:
			continue
		case models.FieldNumber:
			prop = map[string]interface{}{
				"anyOf": []interface{}{
					map[string]interface{}{"type": "number"},
					map[string]interface{}{"type": "string", "pattern": `^-?[0-9]+(\.[0-9]+)?$`},
				},
			}
		case models.FieldDate:
			prop = map[string]interface{}{"type": "string", "format": "date"}
		case models.FieldSelect:
			if len(f.Options) > 0 {
				options := make([]interface{}, len(f.Options))
				for i, o := range f.Options {
					options[i] = o
				}
				prop = map[string]interface{}{"enum": options}
			} else {
				prop = map[string]interface{}{"type": "string"}
			}
		default:
			prop = map[string]interface{}{"type": "string"}
			if f.Required {
				prop["minLength"] = 1
			}
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// validateMetadata checks metadata against the type's field descriptors.
func validateMetadata(fields []models.FieldDescriptor, metadata map[string]interface{}) (*ValidationError, error) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(descriptorSchema(fields)),
		gojsonschema.NewGoLoader(metadata),
	)
	if err != nil {
		return nil, fmt.Errorf("could not validate metadata: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	verr := &ValidationError{}
	for _, re := range result.Errors() {
		field := re.Field()
		msg := "valor inválido"
		switch re.Type() {
		case "required":
			if property, ok := re.Details()["property"].(string); ok {
				field = property
			}
			msg = "es obligatorio"
		case "enum":
			msg = "no es una opción válida"
		case "format":
			msg = "debe tener formato AAAA-MM-DD"
		case "string_gte":
			msg = "es obligatorio"
		case "number_any_of":
			msg = "debe ser numérico"
		}
		verr.add(field, msg)
	}
	return verr, nil
}

// CheckDocuments drops documents without a file or reference and validates
// the rest against their document type. The error is a *ValidationError for
// bad input.
func (s *DocumentService) CheckDocuments(ctx context.Context, docs []dtos.DocumentDTO) ([]dtos.DocumentDTO, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.DocumentTypeID)
	}
	var types []models.DocumentTypeModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&types).Error; err != nil {
		return nil, err
	}
	byID := make(map[int]models.DocumentTypeModel, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}

	verr := &ValidationError{}
	kept := make([]dtos.DocumentDTO, 0, len(docs))
	perType := map[int]int{}
	for i, d := range docs {
		prefix := fmt.Sprintf("documentos.%d.", i)
		docType, ok := byID[d.DocumentTypeID]
		if !ok {
			verr.add(prefix+"tipo_documento_id", "tipo de documento no encontrado")
			continue
		}
		d.File = trimmed(d.File)
		if d.Upload == nil && d.File == nil {
			continue
		}

		perType[docType.ID]++
		if !docType.AllowsMultiple && perType[docType.ID] > 1 {
			verr.add(prefix+"tipo_documento_id", "solo se permite un documento de este tipo")
			continue
		}

		mverr, err := validateMetadata(docType.Fields.Data(), d.Metadata)
		if err != nil {
			return nil, err
		}
		verr.merge(prefix+"metadatos.", mverr)
		kept = append(kept, d)
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return kept, nil
}

// replaceDocuments deletes prior documents of every type present in docs and
// inserts the new ones. docs must come from CheckDocuments.
func (s *DocumentService) replaceDocuments(tx *gorm.DB, batch *uploadBatch, applicant *models.ApplicantModel, docs []dtos.DocumentDTO) error {
	if len(docs) == 0 {
		return nil
	}

	seen := map[int]bool{}
	typeIDs := []int{}
	for _, d := range docs {
		if !seen[d.DocumentTypeID] {
			seen[d.DocumentTypeID] = true
			typeIDs = append(typeIDs, d.DocumentTypeID)
		}
	}
	err := tx.Where("postulante_id = ? AND tipo_documento_id IN ?", applicant.ID, typeIDs).
		Delete(&models.RequiredDocumentModel{}).Error
	if err != nil {
		return err
	}

	dir := path.Join("postulantes", applicant.NationalID, "documentos")
	for _, d := range docs {
		file, err := batch.resolve(dir, d.Upload, d.File)
		if err != nil {
			return err
		}
		doc := models.RequiredDocumentModel{
			ApplicantID:    applicant.ID,
			DocumentTypeID: d.DocumentTypeID,
			File:           strings.TrimSpace(*file),
			Metadata:       datatypes.JSONMap(d.Metadata),
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
	}
	return nil
}
