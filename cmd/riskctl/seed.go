package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/credit-risk-dashboard/internal/domain/scoring"
)

// creditRow fila lista para INSERT: id + los diez literales SQL en el orden de scoring.FeatureNames.
type creditRow struct {
	ID     int64
	Values []string
}

// Columnas que admiten NULL; el resto toma 0 cuando el CSV trae NA.
var nullableColumns = map[string]bool{
	"MonthlyIncome":      true,
	"NumberOfDependents": true,
}

// Columnas decimales; el resto son contadores enteros.
var decimalColumns = map[string]bool{
	"RevolvingUtilizationOfUnsecuredLines": true,
	"DebtRatio":                            true,
	"MonthlyIncome":                        true,
}

// readCreditCSV lee el CSV "Give Me Some Credit" (cs-training.csv). La primera columna
// sin nombre (o "id") es el ID; SeriousDlqin2yrs se ignora. Si el archivo no es UTF-8
// válido se decodifica como ISO-8859-1.
func readCreditCSV(r io.Reader, limit int) ([]creditRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idCol, featureCols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []creditRow
	line := 1
	for limit <= 0 || len(rows) < limit {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(rec[idCol]), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("línea %d: id inválido %q", line, rec[idCol])
		}
		row := creditRow{ID: id, Values: make([]string, len(scoring.FeatureNames))}
		for i, name := range scoring.FeatureNames {
			lit, err := sqlLiteral(name, rec[featureCols[i]])
			if err != nil {
				return nil, fmt.Errorf("línea %d, %s: %w", line, name, err)
			}
			row.Values[i] = lit
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapHeader ubica la columna de ID y las diez features por nombre.
func mapHeader(header []string) (int, []int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		pos[h] = i
	}

	idCol := -1
	for _, name := range []string{"", "id", "Unnamed: 0"} {
		if i, ok := pos[name]; ok {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return 0, nil, fmt.Errorf("cabecera sin columna de id")
	}

	cols := make([]int, len(scoring.FeatureNames))
	for i, name := range scoring.FeatureNames {
		p, ok := pos[name]
		if !ok {
			return 0, nil, fmt.Errorf("cabecera sin columna %q", name)
		}
		cols[i] = p
	}
	return idCol, cols, nil
}

// sqlLiteral valida el valor numérico y lo devuelve como literal SQL.
func sqlLiteral(column, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "NA") {
		if nullableColumns[column] {
			return "NULL", nil
		}
		return "0", nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("valor no numérico %q", raw)
	}
	if decimalColumns[column] {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	if f != math.Trunc(f) {
		return "", fmt.Errorf("se esperaba un entero, llegó %q", raw)
	}
	return strconv.FormatInt(int64(f), 10), nil
}

// writeSeedSQL escribe INSERTs por lotes, idempotentes (ON CONFLICT DO NOTHING).
func writeSeedSQL(w io.Writer, rows []creditRow, batch int) error {
	if batch <= 0 {
		batch = 500
	}
	cols := make([]string, 0, len(scoring.FeatureNames)+1)
	cols = append(cols, "id")
	for _, name := range scoring.FeatureNames {
		cols = append(cols, strconv.Quote(name))
	}

	var b strings.Builder
	b.WriteString("-- Clientes de ejemplo (dataset \"Give Me Some Credit\")\n")
	b.WriteString("-- Generado por riskctl seed\n\n")
	for start := 0; start < len(rows); start += batch {
		end := min(start+batch, len(rows))
		fmt.Fprintf(&b, "INSERT INTO credit_risk (%s) VALUES\n", strings.Join(cols, ", "))
		for i, r := range rows[start:end] {
			fmt.Fprintf(&b, "  (%d, %s)", r.ID, strings.Join(r.Values, ", "))
			if start+i < end-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (id) DO NOTHING;\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSeedDownSQL borra el rango de ids sembrado.
func writeSeedDownSQL(w io.Writer, rows []creditRow) error {
	if len(rows) == 0 {
		_, err := io.WriteString(w, "-- sin filas sembradas\n")
		return err
	}
	lo, hi := rows[0].ID, rows[0].ID
	for _, r := range rows[1:] {
		lo, hi = min(lo, r.ID), max(hi, r.ID)
	}
	_, err := fmt.Fprintf(w, "DELETE FROM credit_risk WHERE id BETWEEN %d AND %d;\n", lo, hi)
	return err
}
