package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dietopt/diet-optimizer/pkg/core"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	lowStyle    = cellStyle.Foreground(lipgloss.Color("1"))
	highStyle   = cellStyle.Foreground(lipgloss.Color("4"))
)

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// renderResult prints the selection and the per-nutrient table.
func renderResult(selection core.Selection, totalCost float64, contrib *core.ContributionTable, bounds core.BoundSet) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Selection"))
	sb.WriteString("\n")
	foods := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("food", "category", "quantity", "unit price", "price", "weight").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, item := range selection.Items {
		foods.Row(
			item.Food.Name,
			item.Food.Category,
			strconv.Itoa(item.Quantity),
			formatNumber(item.Food.Price),
			formatNumber(item.TotalPrice()),
			formatNumber(item.TotalWeight()),
		)
	}
	foods.Row("total", "", "", "", formatNumber(totalCost), formatNumber(selection.TotalWeight()))
	sb.WriteString(foods.String())
	sb.WriteString("\n\n")

	if contrib == nil {
		return sb.String()
	}

	sb.WriteString(titleStyle.Render("Nutrients"))
	sb.WriteString("\n")
	status := make([]int, len(contrib.Nutrients))
	rows := make([][]string, len(contrib.Nutrients))
	for n, name := range contrib.Nutrients {
		intake := contrib.Total.Values[n]
		switch {
		case intake < bounds.Lower.Values[n]:
			status[n] = -1
		case intake > bounds.Upper.Values[n]:
			status[n] = 1
		}
		rows[n] = []string{
			name,
			formatNumber(bounds.Lower.Values[n]),
			formatNumber(bounds.Upper.Values[n]),
			fmt.Sprintf("%.2f", intake),
			formatRatio(contrib.LowerReferenceRatio.Values[n]),
			formatRatio(contrib.RequirementRatio.Values[n]),
		}
	}
	nutrients := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("nutrient", "lower", "upper", "intake", "lower ref ratio", "requirement ratio").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(status) && status[row] < 0:
				return lowStyle
			case row >= 0 && row < len(status) && status[row] > 0:
				return highStyle
			}
			return cellStyle
		})
	sb.WriteString(nutrients.String())
	sb.WriteString("\n")
	return sb.String()
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		_, err := f.Write(append(raw, '\n'))
		return err
	})
}
