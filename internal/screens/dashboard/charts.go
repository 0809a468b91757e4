package dashboard

import (
	"context"
	"fmt"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
)

const (
	echarts    = ".echarts-for-react"
	dataPoints = `.echarts-for-react path[data-type="data-point"]`
	tooltips   = ".echarts-tooltip"
)

// chartExtra is shared by every chart: hover-revealed points and tooltips.
func chartExtra(c locator.Locator) *locator.Map {
	return locator.NewMap().
		Set("dataPoints", c.Locator(dataPoints)).
		Set("tooltips", c.Locator(tooltips))
}

func legends(m *locator.Map, c locator.Locator, keys, labels []string) *locator.Map {
	for i, k := range keys {
		m.Set(k, c.GetByText(labels[i]))
	}
	return m
}

// StatsChart is the pie chart of industry statistics.
type StatsChart struct{ *page.Fragment }

func NewStatsChart(root locator.Locator) *StatsChart {
	onLoad := func(c locator.Locator) *locator.Map {
		m := locator.NewMap().
			Set("chartContainer", c).
			Set("pieChart", c.Locator(echarts))
		return legends(m, c,
			[]string{"industriesLegend", "technologyLegend", "forexLegend", "goldLegend", "forecastsLegend"},
			[]string{"Industries", "Technology", "Forex", "Gold", "Forecasts"})
	}
	return &StatsChart{page.NewFragment(root.GetByRole("region", locator.Name("Statistics Chart")), onLoad, chartExtra)}
}

// Period selects the budget chart's aggregation
type Period string

const (
	Weekly  Period = "Weekly"
	Monthly Period = "Monthly"
)

// BudgetChart is the radar chart comparing budget and spending.
type BudgetChart struct{ *page.Fragment }

func NewBudgetChart(root locator.Locator) *BudgetChart {
	onLoad := func(c locator.Locator) *locator.Map {
		m := locator.NewMap().
			Set("chartContainer", c).
			Set("lineChart", c.Locator(echarts)).
			Set("weeklyRadio", c.GetByRole("radio", locator.Name(string(Weekly)))).
			Set("monthlyRadio", c.GetByRole("radio", locator.Name(string(Monthly))))
		return legends(m, c, []string{"budgetLegend", "spendingLegend"}, []string{"Budget", "Spending"})
	}
	return &BudgetChart{page.NewFragment(root.GetByRole("region", locator.Name("Budget Chart")), onLoad, chartExtra)}
}

// SelectPeriod clicks the period radio unless it is already checked.
func (b *BudgetChart) SelectPeriod(ctx context.Context, p Period) error {
	var key string
	switch p {
	case Weekly:
		key = "weeklyRadio"
	case Monthly:
		key = "monthlyRadio"
	default:
		return fmt.Errorf("unknown period %q", p)
	}
	radio := b.Locators().MustGet(key)
	checked, err := radio.IsChecked(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if checked {
		return nil
	}
	return radio.Click(ctx)
}

// AreasChart is the stacked area chart of visits, messages and purchases.
type AreasChart struct{ *page.Fragment }

func NewAreasChart(root locator.Locator) *AreasChart {
	onLoad := func(c locator.Locator) *locator.Map {
		m := locator.NewMap().
			Set("chartContainer", c).
			Set("areaChart", c.Locator(echarts).Nth(1))
		return legends(m, c,
			[]string{"newVisitsLegend", "messagesLegend", "purchasesLegend"},
			[]string{"New Visits", "Messages", "Purchases"})
	}
	return &AreasChart{page.NewFragment(root.GetByRole("region", locator.Name("Areas Chart")), onLoad, chartExtra)}
}

// WeekChart is the bar chart of the current week.
type WeekChart struct{ *page.Fragment }

func NewWeekChart(root locator.Locator) *WeekChart {
	onLoad := func(c locator.Locator) *locator.Map {
		return locator.NewMap().
			Set("chartContainer", c).
			Set("lineChart", c.Locator(echarts))
	}
	return &WeekChart{page.NewFragment(root.GetByRole("region", locator.Name("Week Chart")), onLoad, chartExtra)}
}
