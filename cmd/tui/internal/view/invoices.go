package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/d10sys/d10admin/internal/api"
	"github.com/d10sys/d10admin/internal/cashregister"
	"github.com/d10sys/d10admin/internal/invoice"
	"github.com/d10sys/d10admin/internal/listctrl"
	"github.com/d10sys/d10admin/internal/pricing"
)

const invoicesScope = "invoices"

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStateEdit
	invoicesStateForm
)

type InvoicesModel struct {
	CommonModel
	api      *api.Client
	register *cashregister.Service

	state  invoicesState
	ctrl   *listctrl.Controller[invoice.Invoice]
	search textinput.Model
	form   *huh.Form

	searchFocused bool
	status        string

	// Edit working copy. previousStatus and the stockDecreased flag are
	// captured from the version loaded into the list, not re-fetched.
	loaded         invoice.Invoice
	previousStatus invoice.Status
	workProducts   []invoice.CartProduct
	workStatus     invoice.Status
	workDiscount   float64
	lineCursor     int

	formStatus      invoice.Status
	formDiscountPct string
}

func NewInvoicesModel(apiClient *api.Client, register *cashregister.Service) InvoicesModel {
	search := textinput.New()
	search.Placeholder = "Buscar por cliente o número..."
	search.CharLimit = 64

	return InvoicesModel{
		api:      apiClient,
		register: register,
		ctrl: listctrl.New(listctrl.Config[invoice.Invoice]{
			ID:   func(inv invoice.Invoice) string { return inv.ID },
			Mode: listctrl.FetchRecent,
		}),
		search: search,
	}
}

func (m InvoicesModel) Title() string { return "Facturas" }

func (m InvoicesModel) ShortHelp() string {
	switch m.state {
	case invoicesStateEdit:
		return "Esc: cancelar | x: quitar línea | s: estado/descuento | Enter: guardar"
	case invoicesStateForm:
		return "Esc: cancelar | Enter: confirmar"
	}

	if m.searchFocused {
		return "Esc: cerrar búsqueda"
	}

	return "Esc: volver | /: buscar | Enter: editar | x: eliminar | r: refrescar"
}

func (m InvoicesModel) Init() tea.Cmd {
	req, ok := m.ctrl.Refresh()
	if !ok {
		return nil
	}

	return m.loadCmd(req)
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceMsg:
		if msg.Scope != invoicesScope {
			return m, nil
		}

		if req, ok := m.ctrl.CommitInput(msg.Token); ok {
			return m, m.loadCmd(req)
		}

		return m, nil

	case invoicesLoadedMsg:
		if msg.err != nil {
			m.ctrl.Fail(msg.gen)
			m.status = msg.err.Error()

			return m, nil
		}

		m.ctrl.Apply(msg.gen, msg.items, 0)

		return m, nil

	case invoiceActionMsg:
		m.state = invoicesStateBrowse
		m.form = nil

		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
		case msg.cashErr != nil:
			m.status = fmt.Sprintf("%s Error de caja: %v", msg.status, msg.cashErr)
		default:
			m.status = msg.status
		}

		if msg.err == nil {
			if req, ok := m.ctrl.Refresh(); ok {
				return m, m.loadCmd(req)
			}
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	switch m.state {
	case invoicesStateEdit:
		return m.updateEdit(msg)
	case invoicesStateForm:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searchFocused {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.searchFocused = false
			m.search.Blur()

			return m, nil
		case tea.KeyUp, tea.KeyDown, tea.KeyEnter:
			// Selection and edit keys work while typing.
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			token := m.ctrl.SetInput(m.search.Value())

			return m, tea.Batch(cmd, debounceTick(invoicesScope, token))
		}
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "/":
		m.searchFocused = true
		m.search.Focus()

		return m, nil
	case "up":
		m.ctrl.MoveUp()
		return m, nil
	case "down":
		m.ctrl.MoveDown()
		return m, nil
	case "r":
		if req, ok := m.ctrl.Refresh(); ok {
			return m, m.loadCmd(req)
		}

		return m, nil
	case "enter", "e":
		if selected, ok := m.ctrl.Selected(); ok {
			return m.startEdit(selected), nil
		}

		return m, nil
	case "x":
		if selected, ok := m.ctrl.Selected(); ok {
			return m, m.deleteCmd(selected.ID)
		}

		return m, nil
	}

	return m, nil
}

func (m InvoicesModel) startEdit(inv invoice.Invoice) InvoicesModel {
	m.loaded = inv
	m.previousStatus = inv.Status
	m.workProducts = append([]invoice.CartProduct(nil), inv.Products...)
	m.workStatus = inv.Status
	m.workDiscount = inv.Discount
	m.lineCursor = 0
	m.state = invoicesStateEdit

	return m
}

func (m InvoicesModel) workSubtotal() float64 {
	var sum float64
	for _, line := range m.workProducts {
		sum += line.Subtotal
	}

	return sum
}

func (m InvoicesModel) workTotal() float64 {
	return pricing.Total(m.workSubtotal(), m.workDiscount)
}

func (m InvoicesModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.state = invoicesStateBrowse
		return m, nil
	case "up":
		if m.lineCursor > 0 {
			m.lineCursor--
		}

		return m, nil
	case "down":
		if m.lineCursor < len(m.workProducts)-1 {
			m.lineCursor++
		}

		return m, nil
	case "x":
		if m.lineCursor >= 0 && m.lineCursor < len(m.workProducts) {
			removedID := m.workProducts[m.lineCursor].ID

			kept := m.workProducts[:0]
			for _, line := range m.workProducts {
				if line.ID != removedID {
					kept = append(kept, line)
				}
			}

			m.workProducts = kept
			if m.lineCursor >= len(m.workProducts) {
				m.lineCursor = 0
			}
		}

		return m, nil
	case "s":
		return m.startEditForm()
	case "enter":
		return m, m.saveCmd()
	}

	return m, nil
}

func (m InvoicesModel) startEditForm() (tea.Model, tea.Cmd) {
	m.formStatus = m.workStatus
	m.formDiscountPct = fmt.Sprintf("%g", pricing.PercentFromDiscount(m.workDiscount, m.workSubtotal()))

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.Status]().
				Title("Estado").
				Options(statusOptions()...).
				Value(&m.formStatus),
			huh.NewInput().
				Title("Descuento (% del subtotal)").
				Value(&m.formDiscountPct).
				Validate(validateNonNegativeAmount),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = invoicesStateForm

	return m, m.form.Init()
}

func (m InvoicesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = invoicesStateEdit
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	pct, _ := parseAmount(m.formDiscountPct)

	discount, err := pricing.DiscountFromPercent(pct, m.workSubtotal())
	if err != nil {
		m.status = err.Error()
	} else {
		m.workDiscount = discount
	}

	m.workStatus = m.formStatus
	m.state = invoicesStateEdit
	m.form = nil

	return m, nil
}

func (m InvoicesModel) View() string {
	switch m.state {
	case invoicesStateForm:
		if m.form != nil {
			return lipgloss.NewStyle().Padding(1).Render(m.form.View())
		}

		return ""
	case invoicesStateEdit:
		return m.editView()
	}

	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if m.ctrl.IsSearching() {
		b.WriteString("Cargando facturas...\n")
	} else {
		b.WriteString(m.invoiceTable())
	}

	if detail := m.detailPanel(); detail != "" {
		b.WriteString("\n")
		b.WriteString(detail)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m InvoicesModel) invoiceTable() string {
	cols := []column{
		{title: "Fecha", width: 12},
		{title: "Cliente", width: 26},
		{title: "Estado", width: 12},
		{title: "Total", width: 12},
		{title: "Líneas", width: 7},
	}

	items := m.ctrl.Items()
	rows := make([][]string, len(items))
	for i, inv := range items {
		rows[i] = []string{
			FormatDate(inv.Date),
			inv.Client.Name,
			string(inv.Status),
			FormatPrice(inv.Total),
			fmt.Sprintf("%d", len(inv.Products)),
		}
	}

	return renderTable(cols, rows, m.ctrl.SelectedIndex())
}

func (m InvoicesModel) detailPanel() string {
	inv, ok := m.ctrl.Selected()
	if !ok {
		return ""
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"N° %s  |  %s  |  CUIT/DNI %s\nSubtotal: %s  Descuento: %s  Total: %s",
			inv.ID,
			inv.Client.Name,
			inv.Client.CuitDni,
			FormatPrice(inv.SubtotalSum()),
			FormatPrice(inv.Discount),
			FormatPrice(inv.Total),
		))
}

func (m InvoicesModel) editView() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Editando factura %s  |  Cliente: %s\n\n", m.loaded.ID, m.loaded.Client.Name))

	cols := []column{
		{title: "Producto", width: 28},
		{title: "Cant.", width: 8},
		{title: "Precio", width: 10},
		{title: "Subtotal", width: 10},
	}

	rows := make([][]string, len(m.workProducts))
	for i, line := range m.workProducts {
		rows[i] = []string{
			line.Name,
			fmt.Sprintf("%g", line.SaleUnitQuantity),
			FormatPrice(line.PriceBySaleUnit),
			FormatPrice(line.Subtotal),
		}
	}

	b.WriteString(renderTable(cols, rows, m.lineCursor))

	b.WriteString(fmt.Sprintf(
		"\nEstado: %s → %s   Descuento: %s   Total: %s\n",
		m.previousStatus,
		m.workStatus,
		FormatPrice(m.workDiscount),
		FormatPrice(m.workTotal()),
	))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// Messages

type invoicesLoadedMsg struct {
	gen   int
	items []invoice.Invoice
	err   error
}

func (m InvoicesModel) loadCmd(req listctrl.Request) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		var (
			items []invoice.Invoice
			err   error
		)

		if req.Kind == listctrl.KindRecent {
			items, err = apiClient.RecentInvoices(ctx)
		} else {
			items, err = apiClient.SearchInvoices(ctx, req.Query)
		}

		return invoicesLoadedMsg{gen: req.Gen, items: items, err: err}
	}
}

type invoiceActionMsg struct {
	status  string
	cashErr error
	err     error
}

// saveCmd replaces the invoice and applies the cash rule for the status
// transition, using the previous status and stockDecreased captured when
// the invoice was loaded. The cash step never rolls back the update.
func (m InvoicesModel) saveCmd() tea.Cmd {
	apiClient := m.api
	register := m.register

	loaded := m.loaded
	previous := m.previousStatus
	total := m.workTotal()

	params := invoice.CreateParams{
		Client:   loaded.Client,
		Products: m.workProducts,
		Status:   m.workStatus,
		Discount: m.workDiscount,
		Total:    total,
	}

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := apiClient.UpdateInvoice(ctx, loaded.ID, params); err != nil {
			return invoiceActionMsg{err: err}
		}

		fired, cashErr := register.ApplyInvoiceStatusChange(ctx, cashregister.StatusChange{
			InvoiceID:               loaded.ID,
			PreviousStatus:          &previous,
			NextStatus:              params.Status,
			Total:                   total,
			StockDecreasedInitially: loaded.StockDecreased,
		})

		status := "Factura actualizada."
		if fired {
			status = "Factura actualizada. Ingreso registrado en caja."
		}

		return invoiceActionMsg{status: status, cashErr: cashErr}
	}
}

func (m InvoicesModel) deleteCmd(id string) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := apiClient.DeleteInvoice(ctx, id); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: "Factura eliminada."}
	}
}
