package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"gorm.io/gorm"
)

const (
	catalogPrefix      = "catalog:"
	activeSitesKey     = catalogPrefix + "sedes_activas"
	activePositionsKey = catalogPrefix + "cargos_activos"
	defaultCatalogTTL  = 5 * time.Minute
)

type CatalogService struct {
	db    *gorm.DB
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewCatalogService creates a new instance of CatalogService. A zero ttl
// falls back to five minutes.
func NewCatalogService(db *gorm.DB, cache Cache, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogService{db: db, cache: cache, ttl: ttl, now: time.Now}
}

// cached returns the snapshot stored under key or loads and stores it.
func cached[T any](ctx context.Context, s *CatalogService, key string, load func() (T, error)) (T, error) {
	if data, found := s.cache.Get(ctx, key); found {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		log.Printf("[CACHE] discarding unreadable entry %s", key)
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if data, err := json.Marshal(value); err == nil {
		s.cache.Set(ctx, key, data, s.ttl)
	}
	return value, nil
}

// ActiveSites lists active sites ordered by name.
func (s *CatalogService) ActiveSites(ctx context.Context) ([]models.SiteModel, error) {
	return cached(ctx, s, activeSitesKey, func() ([]models.SiteModel, error) {
		var sites []models.SiteModel
		err := s.db.WithContext(ctx).Where("activo = ?", true).Order("nombre").Find(&sites).Error
		return sites, err
	})
}

// ActivePositions lists active positions ordered by name.
func (s *CatalogService) ActivePositions(ctx context.Context) ([]models.PositionModel, error) {
	return cached(ctx, s, activePositionsKey, func() ([]models.PositionModel, error) {
		var positions []models.PositionModel
		err := s.db.WithContext(ctx).Where("activo = ?", true).Order("nombre").Find(&positions).Error
		return positions, err
	})
}

// InvalidateCatalog forgets every cached catalog snapshot.
func (s *CatalogService) InvalidateCatalog(ctx context.Context) {
	s.cache.Invalidate(ctx, catalogPrefix)
}

// GetOffering returns an offering with its call, site and position, read
// through tx so it joins the caller's transaction.
func (s *CatalogService) GetOffering(tx *gorm.DB, id int) (*models.OfferingModel, error) {
	var offering models.OfferingModel
	err := tx.Preload("Call").Preload("Site").Preload("Position").First(&offering, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferingNotFound
		}
		return nil, err
	}
	return &offering, nil
}

// OpenCalls lists active calls whose window contains now, with their active
// offerings grouped by site.
func (s *CatalogService) OpenCalls(ctx context.Context) ([]dtos.OpenCallDTO, error) {
	var calls []models.CallModel
	err := s.db.WithContext(ctx).
		Preload("Offerings", "activo = ?", true).
		Preload("Offerings.Site").
		Preload("Offerings.Position").
		Where("estado = ?", models.CallActive).
		Order("fecha_cierre").
		Find(&calls).Error
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := []dtos.OpenCallDTO{}
	for _, call := range calls {
		if !call.IsOpen(now) {
			continue
		}

		bySite := map[int]*dtos.SitePositionsDTO{}
		var order []int
		for _, o := range call.Offerings {
			group, ok := bySite[o.SiteID]
			if !ok {
				group = &dtos.SitePositionsDTO{Site: o.Site}
				bySite[o.SiteID] = group
				order = append(order, o.SiteID)
			}
			group.Positions = append(group.Positions, dtos.PositionVacancyDTO{
				OfferingID: o.ID,
				Position:   o.Position,
				Vacancies:  o.Vacancies,
			})
		}

		groups := make([]dtos.SitePositionsDTO, 0, len(order))
		for _, id := range order {
			groups = append(groups, *bySite[id])
		}
		sort.SliceStable(groups, func(i, j int) bool {
			if groups[i].Site == nil || groups[j].Site == nil {
				return false
			}
			return groups[i].Site.Name < groups[j].Site.Name
		})

		call.Offerings = nil
		result = append(result, dtos.OpenCallDTO{Call: call, OfferingsBySite: groups})
	}
	return result, nil
}

// ActiveDocumentTypes lists the document types applicants can upload.
func (s *CatalogService) ActiveDocumentTypes(ctx context.Context) ([]models.DocumentTypeModel, error) {
	var types []models.DocumentTypeModel
	err := s.db.WithContext(ctx).Where("activo = ?", true).Order("orden").Order("nombre").Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// AcademicLevels is the fixed catalog of education levels.
func (s *CatalogService) AcademicLevels() []dtos.LabelValueDTO {
	levels := make([]dtos.LabelValueDTO, 0, len(models.AcademicLevelLabels))
	for _, l := range models.AcademicLevelLabels {
		levels = append(levels, dtos.LabelValueDTO{Label: l.Label, Value: string(l.Value)})
	}
	return levels
}
