package mrp

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName é o nome da planilha gerada por WriteXLSX
const SheetName = "MRP"

var exportHeader = []interface{}{
	"Código", "Descrição", "Unidade", "Estoque", "Estoque de segurança",
	"Demanda", "Suprimento", "Necessidade líquida", "Falta", "Necessário em", "Ação", "Motivo",
}

// WriteXLSX grava o resultado do MRP em uma planilha xlsx
func WriteXLSX(result *Result, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("erro ao criar planilha: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for i, r := range result.Recommendations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.MaterialCode,
			r.MaterialDescription,
			r.Unit,
			r.CurrentStock.InexactFloat64(),
			r.SafetyStock.InexactFloat64(),
			r.Demand.InexactFloat64(),
			r.Supply.InexactFloat64(),
			r.NetRequirement.InexactFloat64(),
			r.ShortageQuantity.InexactFloat64(),
			r.RequiredByDate.Format("2006-01-02"),
			string(r.ActionType),
			r.Reason,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("erro ao escrever linha %d: %w", i+2, err)
		}
	}

	if err := f.SetCellValue(SheetName, "N1", "Executado em"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "O1", result.ExecutedAt.Format("2006-01-02 15:04:05")); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("erro ao gerar arquivo xlsx: %w", err)
	}
	return nil
}
