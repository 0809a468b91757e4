package dashboard

import (
	"context"

	"github.com/v0xg/pageobj/internal/locator"
	"github.com/v0xg/pageobj/internal/page"
	"github.com/v0xg/pageobj/internal/screens/common/table"
)

// orderHeader is the header row text of the transaction table.
const orderHeader = "Order_No Price Status"

// NewOrderTable scopes the first table on the dashboard.
func NewOrderTable(root locator.Locator) *table.Table {
	return table.New(root.GetByRole("table").First(), table.Keys{
		Table:   "orderTable",
		Headers: "orderTableHeaders",
		Rows:    "orderRows",
	}, orderHeader)
}

type TodoList struct{ *page.Fragment }

func NewTodoList(root locator.Locator) *TodoList {
	onLoad := func(c locator.Locator) *locator.Map {
		return locator.NewMap().
			Set("todoInput", c.GetByRole("textbox", locator.Name("Todo List"))).
			Set("todoList", c).
			Set("todoItems", c.GetByRole("listitem"))
	}
	extra := func(c locator.Locator) *locator.Map {
		return locator.NewMap().
			Set("todoCheckboxes", c.GetByRole("checkbox")).
			Set("todoCompletedItems", c.GetByRole("checkbox", locator.Checked(true))).
			Set("todoActiveItems", c.GetByRole("checkbox", locator.Checked(false)))
	}
	return &TodoList{page.NewFragment(root.GetByRole("list").First(), onLoad, extra)}
}

// Completed counts checked todo items
func (t *TodoList) Completed(ctx context.Context) (int, error) {
	return t.Locators().MustGet("todoCompletedItems").Count(ctx)
}

// Active counts unchecked todo items
func (t *TodoList) Active(ctx context.Context) (int, error) {
	return t.Locators().MustGet("todoActiveItems").Count(ctx)
}

type ProgressCard struct{ *page.Fragment }

func NewProgressCard(root locator.Locator) *ProgressCard {
	onLoad := func(c locator.Locator) *locator.Map {
		return locator.NewMap().
			Set("progressContainer", c).
			Set("vueProgress", c.GetByText("Vue").First()).
			Set("javascriptProgress", c.GetByText("JavaScript").First()).
			Set("cssProgress", c.GetByText("CSS").First()).
			Set("eslintProgress", c.GetByText("ESLint").First())
	}
	extra := func(c locator.Locator) *locator.Map {
		return locator.NewMap().Set("progressBars", c.GetByRole("progressbar"))
	}
	return &ProgressCard{page.NewFragment(root.GetByRole("region", locator.Name("Progress Card")), onLoad, extra)}
}
