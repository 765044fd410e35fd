package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/contract-approval/internal/application/port"
	"github.com/garyjia/contract-approval/internal/domain/entity"
)

const (
	MatrixSheet = "Approval Matrix"
	TypeSheet   = "Type Agreements"

	// UnlimitedLabel marks a bracket without an upper limit
	UnlimitedLabel = "Unlimited"

	// excelize built-in number format "#,##0"
	thousandsFormat = 3
)

var (
	matrixHeader = []interface{}{"From (exclusive)", "To (inclusive)", "Agreement", "Decision"}
	typeHeader   = []interface{}{"Contract Type", "Approver", "Basis"}
)

// MatrixWorkbook renders the approval matrix as an xlsx workbook
type MatrixWorkbook struct {
	logger *zap.Logger
}

// NewMatrixWorkbook creates a new workbook exporter
func NewMatrixWorkbook(logger *zap.Logger) *MatrixWorkbook {
	return &MatrixWorkbook{logger: logger}
}

// Export writes one row per bracket on the matrix sheet and one row per
// contract-type rule on the type sheet, and returns the file contents
func (w *MatrixWorkbook) Export(brackets []entity.Bracket, typeRules []entity.TypeRule) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), MatrixSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(TypeSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: thousandsFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	if err := w.writeRow(f, MatrixSheet, 1, matrixHeader); err != nil {
		return nil, err
	}
	for i, b := range brackets {
		var end interface{} = UnlimitedLabel
		if b.End != nil {
			end = *b.End
		}
		row := []interface{}{b.Start, end, b.ApproverLabel(), b.DecisionLabel()}
		if err := w.writeRow(f, MatrixSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := w.writeRow(f, TypeSheet, 1, typeHeader); err != nil {
		return nil, err
	}
	for i, r := range typeRules {
		row := []interface{}{r.ContractType.String(), r.Approver, r.Basis}
		if err := w.writeRow(f, TypeSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	w.applyLayout(f, headerStyle, amountStyle, len(brackets))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Info("Approval matrix workbook generated",
		zap.Int("brackets", len(brackets)),
		zap.Int("type_rules", len(typeRules)),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// writeRow writes values starting at column A of the given row
func (w *MatrixWorkbook) writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

type layoutStep struct {
	name string
	fn   func() error
}

// applyLayout styles headers and amount columns. Failures only affect presentation.
func (w *MatrixWorkbook) applyLayout(f *excelize.File, headerStyle, amountStyle, bracketRows int) {
	steps := []layoutStep{
		{"matrix header", func() error { return f.SetCellStyle(MatrixSheet, "A1", "D1", headerStyle) }},
		{"type header", func() error { return f.SetCellStyle(TypeSheet, "A1", "C1", headerStyle) }},
		{"amount widths", func() error { return f.SetColWidth(MatrixSheet, "A", "B", 18) }},
		{"stakeholder widths", func() error { return f.SetColWidth(MatrixSheet, "C", "D", 40) }},
		{"type widths", func() error { return f.SetColWidth(TypeSheet, "A", "C", 30) }},
	}
	if bracketRows > 0 {
		last := fmt.Sprintf("B%d", bracketRows+1)
		steps = append(steps, layoutStep{"amount format", func() error {
			return f.SetCellStyle(MatrixSheet, "A2", last, amountStyle)
		}})
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			w.logger.Warn("Failed to apply workbook layout", zap.String("step", step.name), zap.Error(err))
		}
	}
}

// Verify interface compliance
var _ port.MatrixExporter = (*MatrixWorkbook)(nil)
