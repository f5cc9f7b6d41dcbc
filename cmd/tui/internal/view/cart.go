package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/d10sys/d10admin/internal/api"
	"github.com/d10sys/d10admin/internal/cart"
	"github.com/d10sys/d10admin/internal/cashregister"
	"github.com/d10sys/d10admin/internal/invoice"
	"github.com/d10sys/d10admin/internal/pricing"
)

type cartState int

const (
	cartStateBrowse cartState = iota
	cartStateDiscount
	cartStateStatus
)

type CartModel struct {
	CommonModel
	api      *api.Client
	cart     *cart.Store
	register *cashregister.Service

	state  cartState
	form   *huh.Form
	cursor int

	creating bool
	status   string

	formDiscountPct string
	formStatus      invoice.Status
}

func NewCartModel(apiClient *api.Client, cartStore *cart.Store, register *cashregister.Service) CartModel {
	return CartModel{
		api:      apiClient,
		cart:     cartStore,
		register: register,
	}
}

func (m CartModel) Title() string { return "Carrito" }

func (m CartModel) ShortHelp() string {
	if m.state != cartStateBrowse {
		return "Esc: cancelar | Enter: confirmar"
	}

	return "Esc: volver | x: quitar línea | d: descuento | s: estado | Enter: facturar"
}

func (m CartModel) Init() tea.Cmd {
	return nil
}

func (m CartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoiceCreatedMsg:
		m.creating = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error al facturar: %v", msg.err)
			return m, nil
		}

		m.cursor = 0
		m.status = "Factura creada."

		if msg.cashErr != nil {
			m.status = fmt.Sprintf("Factura creada; error de caja: %v", msg.cashErr)
		} else if msg.cashFired {
			m.status = "Factura creada. Ingreso registrado en caja."
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.state != cartStateBrowse {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m CartModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	inv := m.cart.Invoice()

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil
	case "down":
		if m.cursor < len(inv.Products)-1 {
			m.cursor++
		}

		return m, nil
	case "x":
		if m.cursor >= 0 && m.cursor < len(inv.Products) {
			removed := inv.Products[m.cursor]
			m.cart.RemoveLine(removed.ID)
			m.status = fmt.Sprintf("%s quitado del carrito.", removed.Name)

			if m.cursor >= len(m.cart.Invoice().Products) {
				m.cursor = 0
			}
		}

		return m, nil
	case "d":
		return m.startDiscountForm(inv)
	case "s":
		return m.startStatusForm(inv)
	case "enter":
		return m.startCreate(inv)
	}

	return m, nil
}

func (m CartModel) startDiscountForm(inv invoice.Invoice) (tea.Model, tea.Cmd) {
	m.formDiscountPct = fmt.Sprintf("%g", pricing.PercentFromDiscount(inv.Discount, inv.SubtotalSum()))

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Descuento (% del subtotal)").
				Value(&m.formDiscountPct).
				Validate(validateNonNegativeAmount),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = cartStateDiscount

	return m, m.form.Init()
}

func (m CartModel) startStatusForm(inv invoice.Invoice) (tea.Model, tea.Cmd) {
	m.formStatus = inv.Status

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[invoice.Status]().
				Title("Estado").
				Options(statusOptions()...).
				Value(&m.formStatus),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = cartStateStatus

	return m, m.form.Init()
}

func statusOptions() []huh.Option[invoice.Status] {
	return []huh.Option[invoice.Status]{
		huh.NewOption("Pendiente", invoice.StatusPendiente),
		huh.NewOption("Pago", invoice.StatusPago),
		huh.NewOption("Enviado", invoice.StatusEnviado),
		huh.NewOption("Entregado", invoice.StatusEntregado),
		huh.NewOption("Cancelado", invoice.StatusCancelado),
	}
}

func (m CartModel) startCreate(inv invoice.Invoice) (tea.Model, tea.Cmd) {
	if len(inv.Products) == 0 {
		m.status = "El carrito está vacío."
		return m, nil
	}

	if inv.Client.ID == "" {
		m.status = "Elegí un cliente antes de facturar (pantalla Clientes, tecla u)."
		return m, nil
	}

	m.creating = true
	m.status = ""

	return m, m.createInvoiceCmd(inv)
}

func (m CartModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = cartStateBrowse
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

	switch m.state {
	case cartStateDiscount:
		pct, _ := parseAmount(m.formDiscountPct)

		inv := m.cart.Invoice()
		discount, err := pricing.DiscountFromPercent(pct, inv.SubtotalSum())
		if err != nil {
			m.status = err.Error()
		} else {
			m.cart.SetDiscount(discount)
			m.status = "Descuento aplicado."
		}
	case cartStateStatus:
		m.cart.SetStatus(m.formStatus)
		m.status = fmt.Sprintf("Estado: %s.", m.formStatus)
	}

	m.state = cartStateBrowse
	m.form = nil

	return m, nil
}

func (m CartModel) View() string {
	if m.state != cartStateBrowse && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	if m.creating {
		return lipgloss.NewStyle().Padding(2).Render("Creando factura...")
	}

	inv := m.cart.Invoice()

	var b strings.Builder

	clientName := inv.Client.Name
	if clientName == "" {
		clientName = "(sin cliente)"
	}

	b.WriteString(fmt.Sprintf("Cliente: %s  |  Estado: %s\n\n", clientName, inv.Status))

	if len(inv.Products) == 0 {
		b.WriteString(statusStyle.Render("El carrito está vacío.") + "\n")
	} else {
		b.WriteString(m.lineTable(inv))
	}

	b.WriteString(fmt.Sprintf(
		"\nSubtotal: %s   Descuento: %s (%.1f%%)   Total: %s\n",
		FormatPrice(inv.SubtotalSum()),
		FormatPrice(inv.Discount),
		pricing.PercentFromDiscount(inv.Discount, inv.SubtotalSum()),
		FormatPrice(inv.Total),
	))

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m CartModel) lineTable(inv invoice.Invoice) string {
	cols := []column{
		{title: "Producto", width: 28},
		{title: "Cant.", width: 8},
		{title: "Precio", width: 10},
		{title: "Desc.", width: 10},
		{title: "Subtotal", width: 10},
	}

	rows := make([][]string, len(inv.Products))
	for i, line := range inv.Products {
		rows[i] = []string{
			line.Name,
			fmt.Sprintf("%g %s", line.SaleUnitQuantity, strings.ToLower(line.SaleUnitType)),
			FormatPrice(line.PriceBySaleUnit),
			FormatPrice(line.IndividualDiscount),
			FormatPrice(line.Subtotal),
		}
	}

	return renderTable(cols, rows, m.cursor)
}

// Messages

type invoiceCreatedMsg struct {
	cashFired bool
	cashErr   error
	err       error
}

// createInvoiceCmd runs the checkout: POST the invoice, then best-effort
// apply the cash rule, then clear the cart. A failed POST aborts the whole
// sequence and keeps the cart.
func (m CartModel) createInvoiceCmd(snapshot invoice.Invoice) tea.Cmd {
	apiClient := m.api
	cartStore := m.cart
	register := m.register

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		err := apiClient.CreateInvoice(ctx, invoice.CreateParams{
			Client:   snapshot.Client,
			Products: snapshot.Products,
			Status:   snapshot.Status,
			Discount: snapshot.Discount,
			Total:    snapshot.Total,
		})
		if err != nil {
			return invoiceCreatedMsg{err: err}
		}

		// New invoice: no previous status, the cart never saw a stock
		// decrement. A cash failure does not undo the created invoice.
		fired, cashErr := register.ApplyInvoiceStatusChange(ctx, cashregister.StatusChange{
			NextStatus: snapshot.Status,
			Total:      snapshot.Total,
		})

		cartStore.Clear()

		return invoiceCreatedMsg{cashFired: fired, cashErr: cashErr}
	}
}
