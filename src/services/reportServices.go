package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	excelize "github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReportService creates a new instance of ReportService
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

// periodStart maps "30", "90" and "365" to a start instant; anything else is all time.
func periodStart(period string, now time.Time) *time.Time {
	var start time.Time
	switch period {
	case "30":
		start = now.AddDate(0, 0, -30)
	case "90":
		start = now.AddDate(0, 0, -90)
	case "365":
		start = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &start
}

func since(tx *gorm.DB, column string, start *time.Time) *gorm.DB {
	if start == nil {
		return tx
	}
	return tx.Where(column+" >= ?", *start)
}

var monthNames = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// Dashboard aggregates the admin reports landing page for period.
func (s *ReportService) Dashboard(ctx context.Context, period string) (*dtos.DashboardDTO, error) {
	now := s.now()
	start := periodStart(period, now)
	out := &dtos.DashboardDTO{
		ByStatus:           dtos.ChartDTO{Labels: []string{}, Data: []int64{}},
		TopSites:           []dtos.NameTotalDTO{},
		TopPositions:       []dtos.NameTotalDTO{},
		Calls:              []dtos.OpenCallSummaryDTO{},
		LatestApplications: []models.ApplicationModel{},
	}

	g, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.db.WithContext(gctx) }
	applications := func() *gorm.DB { return db().Model(&models.ApplicationModel{}) }

	g.Go(func() error {
		return since(applications(), "created_at", start).Count(&out.TotalApplications).Error
	})
	g.Go(func() error {
		return since(applications(), "created_at", start).Distinct("postulante_id").Count(&out.UniqueApplicants).Error
	})

	var statusRows []struct {
		Estado string
		Total  int64
	}
	g.Go(func() error {
		return since(applications(), "created_at", start).
			Select("estado, COUNT(*) AS total").
			Group("estado").
			Order("estado").
			Scan(&statusRows).Error
	})

	var recent []time.Time
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)
	g.Go(func() error {
		return applications().Where("created_at >= ?", monthStart).Pluck("created_at", &recent).Error
	})

	top := func(table, column string, dest *[]dtos.NameTotalDTO) func() error {
		return func() error {
			return since(applications(), "postulaciones.created_at", start).
				Select(table + ".nombre AS name, COUNT(*) AS total").
				Joins("JOIN convocatoria_sede_cargo ON convocatoria_sede_cargo.id = postulaciones.oferta_id").
				Joins("JOIN " + table + " ON " + table + ".id = convocatoria_sede_cargo." + column).
				Group(table + ".id, " + table + ".nombre").
				Order("total DESC").
				Limit(5).
				Scan(dest).Error
		}
	}
	g.Go(top("sedes", "sede_id", &out.TopSites))
	g.Go(top("cargos", "cargo_id", &out.TopPositions))

	var calls []models.CallModel
	g.Go(func() error {
		return db().Preload("Offerings").Where("estado = ?", models.CallActive).Order("fecha_cierre").Find(&calls).Error
	})

	g.Go(func() error {
		return db().
			Preload("Applicant").
			Preload("Offering.Site").
			Preload("Offering.Position").
			Order("created_at DESC").Order("id DESC").
			Limit(10).
			Find(&out.LatestApplications).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var enabled int64
	for _, row := range statusRows {
		out.ByStatus.Labels = append(out.ByStatus.Labels, row.Estado)
		out.ByStatus.Data = append(out.ByStatus.Data, row.Total)
		if row.Estado == string(models.StatusEnabled) {
			enabled = row.Total
		}
	}
	if out.TotalApplications > 0 {
		out.EnabledRate = math.Round(float64(enabled)/float64(out.TotalApplications)*1000) / 10
	}

	out.ByMonth = monthlyChart(recent, monthStart, now)

	if err := s.openCallSummaries(ctx, calls, now, out); err != nil {
		return nil, err
	}
	return out, nil
}

// monthlyChart buckets timestamps into the six months starting at from.
func monthlyChart(times []time.Time, from, now time.Time) dtos.ChartDTO {
	chart := dtos.ChartDTO{Labels: make([]string, 0, 6), Data: make([]int64, 6)}
	index := map[string]int{}
	for i := 0; i < 6; i++ {
		m := from.AddDate(0, i, 0)
		index[m.Format("2006-01")] = i
		chart.Labels = append(chart.Labels, fmt.Sprintf("%s %d", monthNames[m.Month()-1], m.Year()))
	}
	for _, t := range times {
		if i, ok := index[t.In(now.Location()).Format("2006-01")]; ok {
			chart.Data[i]++
		}
	}
	return chart
}

func (s *ReportService) openCallSummaries(ctx context.Context, calls []models.CallModel, now time.Time, out *dtos.DashboardDTO) error {
	for _, call := range calls {
		if !call.IsOpen(now) {
			continue
		}
		out.OpenCalls++

		ids := make([]int, 0, len(call.Offerings))
		for _, o := range call.Offerings {
			ids = append(ids, o.ID)
		}
		var count int64
		if len(ids) > 0 {
			err := s.db.WithContext(ctx).Model(&models.ApplicationModel{}).Where("oferta_id IN ?", ids).Count(&count).Error
			if err != nil {
				return err
			}
		}

		days := int(math.Ceil(call.Deadline().Sub(now).Hours() / 24))
		out.Calls = append(out.Calls, dtos.OpenCallSummaryDTO{
			ID:            call.ID,
			Title:         call.Title,
			Applications:  count,
			DaysRemaining: days,
		})
	}
	return nil
}

var exportHeaders = []string{
	"N°", "CI", "Nombres", "Apellidos", "Email", "Celular", "Fecha Nacimiento", "Género",
	"Sede Postulada", "Cargo Postulado", "Estado", "Fecha Postulación",
	"Nivel Académico Máximo", "Título/Profesión", "Universidad", "Año Titulación", "Total Formaciones",
	"Experiencia Reciente (Cargo)", "Empresa/Institución", "Años de Experiencia", "Total Experiencias",
	"Capacitaciones", "Producciones Intelectuales", "Reconocimientos",
	"Observaciones",
}

const exportSheet = "Postulaciones"

// ExportApplications writes the filtered applications to an xlsx workbook.
func (s *ReportService) ExportApplications(ctx context.Context, filter dtos.ApplicationFilter) (*excelize.File, error) {
	var applications []models.ApplicationModel
	err := filtered(s.db.WithContext(ctx), filter).
		Preload("Applicant.Educations").
		Preload("Applicant.Experiences").
		Preload("Applicant.Trainings").
		Preload("Applicant.Publications").
		Preload("Applicant.Awards").
		Preload("Offering.Site").
		Preload("Offering.Position").
		Order("postulaciones.created_at DESC").
		Order("postulaciones.id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"6B21A8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	year := s.now().Year()
	for i, a := range applications {
		row := exportRow(i+1, a, year)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func countLabel(n int, noun string) string {
	if n == 0 {
		return "Ninguno"
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func exportRow(n int, a models.ApplicationModel, currentYear int) []interface{} {
	applicant := a.Applicant
	if applicant == nil {
		row := make([]interface{}, len(exportHeaders))
		row[0] = n
		for i := 1; i < len(row); i++ {
			row[i] = "-"
		}
		return row
	}

	site, position := "-", "-"
	if a.Offering != nil {
		position, site = a.Offering.Label()
	}

	birth := "-"
	if applicant.BirthDate != nil {
		birth = applicant.BirthDate.Format("02/01/2006")
	}
	gender := "-"
	if applicant.Gender != nil {
		switch *applicant.Gender {
		case models.GenderMale:
			gender = "Masculino"
		case models.GenderFemale:
			gender = "Femenino"
		case models.GenderOther:
			gender = "Otro"
		}
	}

	educations := append([]models.EducationModel(nil), applicant.Educations...)
	sort.SliceStable(educations, func(i, j int) bool {
		return educations[i].Level.Rank() > educations[j].Level.Rank()
	})
	level, title, university, issueYear := "Sin registro", "-", "-", "-"
	if len(educations) > 0 {
		top := educations[0]
		level = string(top.Level)
		for _, l := range models.AcademicLevelLabels {
			if l.Value == top.Level {
				level = l.Label
			}
		}
		title, university, issueYear = top.Title, top.Institution, fmt.Sprint(top.IssueYear)
	}

	recentPosition, recentOrg := "Sin registro", "-"
	years := 0
	var recent *models.ExperienceModel
	for i := range applicant.Experiences {
		e := &applicant.Experiences[i]
		if recent == nil || e.StartYear > recent.StartYear {
			recent = e
		}
		end := currentYear
		if e.EndYear != nil {
			end = *e.EndYear
		}
		if end > e.StartYear {
			years += end - e.StartYear
		}
	}
	if recent != nil {
		recentPosition, recentOrg = recent.Position, recent.Organization
	}
	yearsLabel := "Sin experiencia"
	if years > 0 {
		yearsLabel = fmt.Sprintf("%d años", years)
	}

	return []interface{}{
		n,
		applicant.NationalID,
		applicant.FirstNames,
		applicant.LastNames,
		valueOr(applicant.Email, "-"),
		applicant.Phone,
		birth,
		gender,
		site,
		position,
		a.Status.Label(),
		a.CreatedAt.Format("02/01/2006 15:04"),
		level,
		title,
		university,
		issueYear,
		len(applicant.Educations),
		recentPosition,
		recentOrg,
		yearsLabel,
		len(applicant.Experiences),
		countLabel(len(applicant.Trainings), "cursos"),
		countLabel(len(applicant.Publications), "publicaciones"),
		countLabel(len(applicant.Awards), "reconocimientos"),
		valueOr(a.Notes, ""),
	}
}
