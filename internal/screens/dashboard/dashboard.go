// Package dashboard models the landing screen after login.
package dashboard

import (
	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
	"github.com/v0xg/pageobj/internal/screens/common/table"
)

const Path = "/vue-element-admin/#/dashboard"

// Screen is the dashboard page. Its own maps are empty; everything comes
// from the components, merged in field order.
type Screen struct {
	*page.Page

	StatsChart   *StatsChart
	BudgetChart  *BudgetChart
	AreasChart   *AreasChart
	WeekChart    *WeekChart
	OrderTable   *table.Table
	TodoList     *TodoList
	ProgressCard *ProgressCard
}

func New(doc locator.Document, baseURL string, opts ...page.Option) *Screen {
	root := locator.Root(doc)
	s := &Screen{
		StatsChart:   NewStatsChart(root),
		BudgetChart:  NewBudgetChart(root),
		AreasChart:   NewAreasChart(root),
		WeekChart:    NewWeekChart(root),
		OrderTable:   NewOrderTable(root),
		TodoList:     NewTodoList(root),
		ProgressCard: NewProgressCard(root),
	}
	opts = append([]page.Option{page.WithComponents(
		s.StatsChart,
		s.BudgetChart,
		s.AreasChart,
		s.WeekChart,
		s.OrderTable,
		s.TodoList,
		s.ProgressCard,
	)}, opts...)
	s.Page = page.New(doc, page.JoinURL(baseURL, Path), opts...)
	return s
}
