package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"vetclinic/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateClinicalHistory(a *models.Appointment, records []*models.ClinicalRecord) (string, error)
}

type HistoryGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // путь до TTF с поддержкой UTF-8
	fontName string
}

func NewHistoryGenerator(rootDir, fontPath string) *HistoryGenerator {
	return &HistoryGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

// GenerateClinicalHistory — PDF с историей клинических записей приёма.
// Возвращает путь до сгенерированного файла.
func (g *HistoryGenerator) GenerateClinicalHistory(a *models.Appointment, records []*models.ClinicalRecord) (string, error) {
	filename := fmt.Sprintf("historial_cita_%d.pdf", a.ID)
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Historial clínico — cita %d", a.ID), true)
	pdf.SetAuthor("Clínica Veterinaria", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "HISTORIAL CLÍNICO", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("Cita №%d — %s %s", a.ID, a.Date, a.TimeSlot)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Paciente")
	g.kvLine(pdf, "Mascota", fmt.Sprintf("%s (%s, %s, %d años)", a.PetName, a.PetSpecies, a.PetSex, a.PetAge))
	g.kvLine(pdf, "Propietario", fmt.Sprintf("%s %s", a.OwnerName, a.OwnerSurname))
	g.kvLine(pdf, "Contacto", fmt.Sprintf("%s / %s", a.OwnerEmail, a.OwnerPhone))
	g.kvLine(pdf, "Motivo", a.Description)
	pdf.Ln(2)
	g.hr(pdf)

	for i, rec := range records {
		g.sectionTitle(pdf, fmt.Sprintf("Registro %d — %s", i+1, rec.CreatedAt.Format("02.01.2006 15:04")))
		g.kvLine(pdf, "Síntomas", rec.Symptoms)
		g.kvLine(pdf, "Temperatura", fmt.Sprintf("%.1f °C", rec.Temperature))
		g.kvLine(pdf, "Peso", fmt.Sprintf("%.1f kg", rec.Weight))
		g.kvLine(pdf, "Frec. cardíaca", fmt.Sprintf("%d lpm", rec.HeartRate))
		g.kvLine(pdf, "Diagnóstico", rec.Diagnosis)
		g.kvLine(pdf, "Tratamiento", rec.Treatment)
		if rec.VaccineName != "" {
			g.kvLine(pdf, "Vacuna", fmt.Sprintf("%s (lote %s)", rec.VaccineName, rec.VaccineBatch))
		}
		if rec.Notes != "" {
			pdf.SetFont(g.fontName, "", 11)
			pdf.MultiCell(0, 6, "Notas: "+rec.Notes, "", "L", false)
		}
		pdf.Ln(2)
		g.hr(pdf)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Pág. %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ===== helpers =====

func (g *HistoryGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(g.RootDir, filename), nil
}

func (g *HistoryGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func (g *HistoryGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *HistoryGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *HistoryGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
