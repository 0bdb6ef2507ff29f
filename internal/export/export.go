// Package export writes dashboard listings to Excel workbooks.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"eadmin/internal/api"
	"eadmin/internal/config"
	"eadmin/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	reservationsSheet = "Reservas"
	usersSheet        = "Usuários"
	pageSize          = 50
)

// ReservationLister pages the admin reservation listing.
type ReservationLister interface {
	List(ctx context.Context, params api.FilterParams) (models.Page[models.Reservation], error)
}

// UserLister pages the user listing.
type UserLister interface {
	List(ctx context.Context, params api.PageParams) (models.Page[models.User], error)
}

type Exporter struct {
	dir    string
	loc    *time.Location
	logger *zerolog.Logger
	now    func() time.Time
}

func NewExporter(cfg config.ExportConfig, loc *time.Location, logger *zerolog.Logger) *Exporter {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Exporter{dir: cfg.Path, loc: loc, logger: logger, now: time.Now}
}

// Reservations exports the reservations starting between the first day and
// the end of the last day, sorted by start.
func (e *Exporter) Reservations(ctx context.Context, lister ReservationLister, from, to time.Time) (string, error) {
	from = startOfDay(from.In(e.loc))
	to = startOfDay(to.In(e.loc)).AddDate(0, 0, 1)
	if !to.After(from) {
		return "", fmt.Errorf("invalid period: %s after %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var selected []models.Reservation
	for page := 1; ; page++ {
		result, err := lister.List(ctx, api.FilterParams{PageParams: api.PageParams{Page: page, PageSize: pageSize}})
		if err != nil {
			return "", fmt.Errorf("error getting reservations: %w", err)
		}
		for _, r := range result.Content {
			start := r.StartDateTime.In(e.loc)
			if !start.Before(from) && start.Before(to) {
				selected = append(selected, r)
			}
		}
		if page >= result.TotalOfPages || len(result.Content) == 0 {
			break
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].StartDateTime.Before(selected[j].StartDateTime.Time)
	})

	name := fmt.Sprintf("reservas_%s_a_%s.xlsx", from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"))
	return e.writeReservations(name, selected, from, to.AddDate(0, 0, -1))
}

func (e *Exporter) writeReservations(name string, reservations []models.Reservation, from, to time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reservationsSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(reservationsSheet, "A1", fmt.Sprintf("Período: %s - %s", from.Format("02/01/2006"), to.Format("02/01/2006")))
	_ = f.MergeCell(reservationsSheet, "A1", "G1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(reservationsSheet, "A1", "A1", titleStyle)

	headers := []string{"Espaço", "Sigla", "Usuário", "E-mail", "Início", "Fim", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(reservationsSheet, cell, header)
		_ = f.SetCellStyle(reservationsSheet, cell, cell, headerStyle)
	}

	styles := make(map[string]int)
	for i, r := range reservations {
		row := i + 3
		status := r.Lifecycle()
		values := []interface{}{
			r.AcademicSpace.RoomName,
			r.AcademicSpace.Acronym,
			r.User.Name,
			r.User.Email,
			r.StartDateTime.In(e.loc).Format("02/01/2006 15:04"),
			r.EndDateTime.In(e.loc).Format("02/01/2006 15:04"),
			StatusLabel(status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(reservationsSheet, cell, v)
		}

		styleID, ok := styles[status]
		if !ok {
			styleID, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{statusColor(status)}, Pattern: 1},
			})
			if err != nil {
				continue
			}
			styles[status] = styleID
		}
		cell, _ := excelize.CoordinatesToCellName(len(values), row)
		_ = f.SetCellStyle(reservationsSheet, cell, cell, styleID)
	}

	_ = f.SetColWidth(reservationsSheet, "A", "A", 25)
	_ = f.SetColWidth(reservationsSheet, "B", "B", 10)
	_ = f.SetColWidth(reservationsSheet, "C", "D", 25)
	_ = f.SetColWidth(reservationsSheet, "E", "F", 18)
	_ = f.SetColWidth(reservationsSheet, "G", "G", 28)

	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(e.dir, name)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(reservations)).Msg("Reservations Excel file created")
	return filePath, nil
}

// Users exports every user page by page.
func (e *Exporter) Users(ctx context.Context, lister UserLister) (string, error) {
	var users []models.User
	for page := 1; ; page++ {
		result, err := lister.List(ctx, api.PageParams{Page: page, PageSize: pageSize})
		if err != nil {
			return "", fmt.Errorf("error getting users: %w", err)
		}
		users = append(users, result.Content...)
		if page >= result.TotalOfPages || len(result.Content) == 0 {
			break
		}
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(usersSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Nome", "E-mail", "Perfil", "Telefone", "Curso", "Unidade escolar"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(usersSheet, cell, header)
	}

	for i, user := range users {
		row := i + 2
		school := ""
		if user.SchoolUnit != nil {
			school = user.SchoolUnit.Name
		}
		_ = f.SetCellValue(usersSheet, fmt.Sprintf("A%d", row), user.ID)
		_ = f.SetCellValue(usersSheet, fmt.Sprintf("B%d", row), user.Name)
		_ = f.SetCellValue(usersSheet, fmt.Sprintf("C%d", row), user.Email)
		_ = f.SetCellValue(usersSheet, fmt.Sprintf("D%d", row), RoleLabel(user.Role))
		_ = f.SetCellValue(usersSheet, fmt.Sprintf("E%d", row), user.ContactNumber)
		_ = f.SetCellValue(usersSheet, fmt.Sprintf("F%d", row), user.Course)
		_ = f.SetCellValue(usersSheet, fmt.Sprintf("G%d", row), school)
	}

	_ = f.SetColWidth(usersSheet, "A", "A", 38)
	_ = f.SetColWidth(usersSheet, "B", "C", 25)
	_ = f.SetColWidth(usersSheet, "D", "F", 15)
	_ = f.SetColWidth(usersSheet, "G", "G", 30)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("usuarios_%s.xlsx", e.now().In(e.loc).Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(users)).Msg("Users Excel file created")
	return filePath, nil
}

// StatusLabel is the display name of a reservation status.
func StatusLabel(status string) string {
	switch status {
	case models.StatusScheduled:
		return "Agendado"
	case models.StatusConfirmedByTheUser:
		return "Confirmado pelo professor"
	case models.StatusConfirmedByTheEnterprise:
		return "Confirmado pela instituição"
	case models.StatusCanceled:
		return "Cancelado"
	default:
		return status
	}
}

func RoleLabel(role string) string {
	switch role {
	case models.RoleAdmin:
		return "Administrador"
	case models.RoleTeacher:
		return "Professor"
	default:
		return role
	}
}

func statusColor(status string) string {
	switch status {
	case models.StatusCanceled:
		return "#FFC7CE"
	case models.StatusScheduled:
		return "#FFEB9C"
	default:
		return "#C6EFCE"
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
