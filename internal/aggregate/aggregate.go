// Package aggregate строит производные представления набора заказов:
// сводку по позициям с общим итогом и чек-лист оплаты.
// Все функции чистые и не изменяют входные данные.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// Row - сводная строка по одному названию позиции во всех заказах.
type Row struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Summary - сводка по всем заказам.
type Summary struct {
	Rows       []Row           `json:"rows"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Overview агрегирует строки заказов по названию.
// Цена берётся из первой встреченной строки с этим названием.
// Строки упорядочены по убыванию количества, при равенстве сохраняется порядок появления.
func Overview(orders []domain.Order) Summary {
	var rows []Row
	index := make(map[string]int)
	grand := decimal.Zero

	for _, order := range orders {
		grand = grand.Add(order.TotalPrice)
		for _, line := range order.Items {
			i, ok := index[line.Name]
			if !ok {
				index[line.Name] = len(rows)
				rows = append(rows, Row{Name: line.Name, UnitPrice: line.Price})
				i = len(rows) - 1
			}
			rows[i].Quantity += line.Quantity
		}
	}

	for i := range rows {
		rows[i].Subtotal = rows[i].UnitPrice.Mul(decimal.NewFromInt(int64(rows[i].Quantity)))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Quantity > rows[j].Quantity
	})

	return Summary{Rows: rows, GrandTotal: grand}
}

// RowsTotal возвращает сумму подытогов строк сводки.
// Совпадает с GrandTotal, пока цены строк с одинаковым названием не расходятся.
func (s Summary) RowsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.Subtotal)
	}
	return total
}

// Quantity возвращает общее количество позиций в сводке.
func (s Summary) Quantity() int {
	n := 0
	for _, r := range s.Rows {
		n += r.Quantity
	}
	return n
}
