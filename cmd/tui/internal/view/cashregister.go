package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/d10sys/d10admin/internal/cashregister"
)

type cashState int

const (
	cashStateBrowse cashState = iota
	cashStateAdjust
	cashStateFilter
	cashStateEdit
)

type CashRegisterModel struct {
	CommonModel
	register *cashregister.Service

	state  cashState
	form   *huh.Form
	cursor int

	amount       float64
	transactions []cashregister.Transaction
	dateFilter   string

	loading bool
	status  string

	// Adjust/edit form bindings.
	editingID       string
	formType        cashregister.TransactionType
	formAmount      string
	formDescription string
	formDate        string
}

func NewCashRegisterModel(register *cashregister.Service) CashRegisterModel {
	return CashRegisterModel{register: register, loading: true}
}

func (m CashRegisterModel) Title() string { return "Caja" }

func (m CashRegisterModel) ShortHelp() string {
	if m.state != cashStateBrowse {
		return "Esc: cancelar | Enter/Tab: navegar formulario"
	}

	return "Esc: volver | a: ajustar caja | f: filtrar por fecha | e: editar | x: eliminar | r: refrescar"
}

func (m CashRegisterModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CashRegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cashLoadedMsg:
		m.loading = false

		// The balance keeps its last-known value on failure.
		m.amount = msg.amount

		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}

		m.transactions = msg.transactions
		if m.cursor >= len(m.transactions) {
			m.cursor = 0
		}

		return m, nil

	case cashActionMsg:
		m.state = cashStateBrowse
		m.form = nil

		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}

		m.status = msg.status
		m.loading = true

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.state != cashStateBrowse {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m CashRegisterModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil
	case "down":
		if m.cursor < len(m.transactions)-1 {
			m.cursor++
		}

		return m, nil
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "a":
		return m.startAdjustForm()
	case "f":
		return m.startFilterForm()
	case "e":
		if m.cursor >= 0 && m.cursor < len(m.transactions) {
			return m.startEditForm(m.transactions[m.cursor])
		}

		return m, nil
	case "x":
		if m.cursor >= 0 && m.cursor < len(m.transactions) {
			return m, m.deleteCmd(m.transactions[m.cursor].ID)
		}

		return m, nil
	}

	return m, nil
}

func (m CashRegisterModel) startAdjustForm() (tea.Model, tea.Cmd) {
	m.editingID = ""
	m.formType = cashregister.TransactionIn
	m.formAmount = ""
	m.formDescription = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[cashregister.TransactionType]().
				Title("Movimiento").
				Options(
					huh.NewOption("Ingreso", cashregister.TransactionIn),
					huh.NewOption("Egreso", cashregister.TransactionOut),
				).
				Value(&m.formType),
			huh.NewInput().
				Title("Monto").
				Value(&m.formAmount).
				Validate(validatePositiveAmount),
			huh.NewInput().
				Title("Descripción (opcional)").
				Value(&m.formDescription),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = cashStateAdjust

	return m, m.form.Init()
}

func (m CashRegisterModel) startFilterForm() (tea.Model, tea.Cmd) {
	m.formDate = m.dateFilter

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Fecha (YYYY-MM-DD, vacío = sin filtro)").
				Value(&m.formDate).
				Validate(validateOptionalDate),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = cashStateFilter

	return m, m.form.Init()
}

func (m CashRegisterModel) startEditForm(tx cashregister.Transaction) (tea.Model, tea.Cmd) {
	m.editingID = tx.ID
	m.formType = tx.Type
	m.formAmount = fmt.Sprintf("%g", tx.Amount)
	m.formDescription = tx.Description

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[cashregister.TransactionType]().
				Title("Movimiento").
				Options(
					huh.NewOption("Ingreso", cashregister.TransactionIn),
					huh.NewOption("Egreso", cashregister.TransactionOut),
				).
				Value(&m.formType),
			huh.NewInput().
				Title("Monto").
				Value(&m.formAmount).
				Validate(validatePositiveAmount),
			huh.NewInput().
				Title("Descripción").
				Value(&m.formDescription),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = cashStateEdit

	return m, m.form.Init()
}

func (m CashRegisterModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = cashStateBrowse
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
	case cashStateAdjust:
		return m, m.adjustCmd()
	case cashStateEdit:
		return m, m.updateTransactionCmd()
	case cashStateFilter:
		m.dateFilter = strings.TrimSpace(m.formDate)
		m.state = cashStateBrowse
		m.form = nil
		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func (m CashRegisterModel) View() string {
	if m.state != cashStateBrowse && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var b strings.Builder

	balance := FormatPrice(m.amount)
	if m.loading {
		balance += "  (actualizando...)"
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Saldo en caja: " + balance))
	b.WriteString("\n\n")

	filter := "sin filtro"
	if m.dateFilter != "" {
		filter = m.dateFilter
	}

	b.WriteString(statusStyle.Render("Fecha: "+filter) + "\n\n")

	if len(m.transactions) == 0 {
		b.WriteString(statusStyle.Render("Sin movimientos.") + "\n")
	} else {
		b.WriteString(m.transactionTable())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m CashRegisterModel) transactionTable() string {
	cols := []column{
		{title: "Fecha", width: 12},
		{title: "Tipo", width: 8},
		{title: "Monto", width: 12},
		{title: "Descripción", width: 44},
	}

	rows := make([][]string, len(m.transactions))
	for i, tx := range m.transactions {
		rows[i] = []string{
			FormatDate(tx.CreatedAt),
			string(tx.Type),
			FormatPrice(tx.Amount),
			tx.Description,
		}
	}

	return renderTable(cols, rows, m.cursor)
}

// Messages

type cashLoadedMsg struct {
	amount       float64
	transactions []cashregister.Transaction
	err          error
}

func (m CashRegisterModel) loadCmd() tea.Cmd {
	register := m.register
	date := m.dateFilter

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		amount, amountErr := register.RefreshAmount(ctx)
		if amountErr != nil {
			return cashLoadedMsg{amount: amount, err: amountErr}
		}

		txs, err := register.RefreshTransactions(ctx, date)

		return cashLoadedMsg{amount: amount, transactions: txs, err: err}
	}
}

type cashActionMsg struct {
	status string
	err    error
}

func (m CashRegisterModel) adjustCmd() tea.Cmd {
	register := m.register
	txType := m.formType
	description := strings.TrimSpace(m.formDescription)
	amount, _ := parseAmount(m.formAmount)

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		var err error
		if txType == cashregister.TransactionIn {
			err = register.AddCash(ctx, amount, description)
		} else {
			err = register.RemoveCash(ctx, amount, description)
		}

		if err != nil {
			return cashActionMsg{err: err}
		}

		return cashActionMsg{status: "Movimiento registrado."}
	}
}

func (m CashRegisterModel) updateTransactionCmd() tea.Cmd {
	register := m.register
	id := m.editingID
	amount, _ := parseAmount(m.formAmount)

	params := cashregister.CreateTransactionParams{
		Amount:      amount,
		Type:        m.formType,
		Description: strings.TrimSpace(m.formDescription),
	}

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := register.UpdateTransaction(ctx, id, params); err != nil {
			return cashActionMsg{err: err}
		}

		return cashActionMsg{status: "Movimiento actualizado."}
	}
}

func (m CashRegisterModel) deleteCmd(id string) tea.Cmd {
	register := m.register

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := register.DeleteTransaction(ctx, id); err != nil {
			return cashActionMsg{err: err}
		}

		return cashActionMsg{status: "Movimiento eliminado."}
	}
}
