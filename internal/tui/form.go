package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gsales/gsales/internal/tui/styles"
)

const (
	fieldItem = iota
	fieldQty
	fieldPrice
	fieldCount
)

// saleForm is the add-sale input form: item, qty, price.
type saleForm struct {
	inputs []textinput.Model
	focus  int
}

func newSaleForm() saleForm {
	inputs := make([]textinput.Model, fieldCount)

	item := textinput.New()
	item.Placeholder = "Item name"
	item.CharLimit = 64
	item.Width = 28
	inputs[fieldItem] = item

	qty := textinput.New()
	qty.Placeholder = "Qty"
	qty.CharLimit = 10
	qty.Width = 8
	qty.SetValue("1")
	inputs[fieldQty] = qty

	price := textinput.New()
	price.Placeholder = "Unit price"
	price.CharLimit = 12
	price.Width = 12
	inputs[fieldPrice] = price

	return saleForm{inputs: inputs}
}

func (f *saleForm) open() tea.Cmd {
	f.focus = fieldItem
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.inputs[fieldItem].SetValue("")
	f.inputs[fieldQty].SetValue("1")
	f.inputs[fieldPrice].SetValue("")
	return f.inputs[fieldItem].Focus()
}

func (f *saleForm) next() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *saleForm) prev() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + fieldCount - 1) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *saleForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *saleForm) values() (item, qty, price string) {
	return f.inputs[fieldItem].Value(),
		f.inputs[fieldQty].Value(),
		f.inputs[fieldPrice].Value()
}

func (f *saleForm) view() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("New sale"))
	b.WriteString("\n\n")

	labels := []string{"Item ", "Qty  ", "Price"}
	for i, input := range f.inputs {
		label := labels[i]
		if i == f.focus {
			b.WriteString(styles.AccentStyle.Render("› " + label))
		} else {
			b.WriteString(styles.DimStyle.Render("  " + label))
		}
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("enter save · tab next field · esc cancel"))
	return b.String()
}
