package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/d10sys/d10admin/internal/api"
	"github.com/d10sys/d10admin/internal/cart"
	"github.com/d10sys/d10admin/internal/client"
	"github.com/d10sys/d10admin/internal/listctrl"
)

const clientsScope = "clients"

type clientsState int

const (
	clientsStateBrowse clientsState = iota
	clientsStateForm
)

type ClientsModel struct {
	CommonModel
	api  *api.Client
	cart *cart.Store

	state  clientsState
	ctrl   *listctrl.Controller[client.Client]
	search textinput.Model
	form   *huh.Form

	searchFocused bool
	status        string

	// Client form bindings. editingID empty means create.
	editingID   string
	formType    client.Type
	formName    string
	formAddress string
	formPhone   string
	formEmail   string
	formCuitDni string
}

func NewClientsModel(apiClient *api.Client, cartStore *cart.Store) ClientsModel {
	search := textinput.New()
	search.Placeholder = "Buscar por nombre o cuit/dni..."
	search.CharLimit = 64
	search.Focus()

	return ClientsModel{
		api:  apiClient,
		cart: cartStore,
		ctrl: listctrl.New(listctrl.Config[client.Client]{
			ID:   func(c client.Client) string { return c.ID },
			Mode: listctrl.ShowNothing,
		}),
		search:        search,
		searchFocused: true,
	}
}

func (m ClientsModel) Title() string { return "Clientes" }

func (m ClientsModel) ShortHelp() string {
	if m.state == clientsStateForm {
		return "Esc: cancelar | Enter/Tab: navegar formulario"
	}

	if m.searchFocused {
		return "Esc: cerrar búsqueda"
	}

	return "Esc: volver | /: buscar | c: crear | e: editar | u: usar en carrito | x: eliminar"
}

func (m ClientsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceMsg:
		if msg.Scope != clientsScope {
			return m, nil
		}

		if req, ok := m.ctrl.CommitInput(msg.Token); ok {
			return m, m.searchCmd(req)
		}

		return m, nil

	case clientsLoadedMsg:
		if msg.err != nil {
			m.ctrl.Fail(msg.gen)
			m.status = msg.err.Error()

			return m, nil
		}

		m.ctrl.Apply(msg.gen, msg.items, 0)

		return m, nil

	case clientSavedMsg:
		m.state = clientsStateBrowse
		m.form = nil

		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}

		m.status = msg.status

		if req, ok := m.ctrl.Refresh(); ok {
			return m, m.searchCmd(req)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.state == clientsStateForm {
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ClientsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case tea.KeyUp, tea.KeyDown:
			// Selection keys work while typing.
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			token := m.ctrl.SetInput(m.search.Value())

			return m, tea.Batch(cmd, debounceTick(clientsScope, token))
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
	case "c":
		return m.startForm(nil)
	case "e":
		if selected, ok := m.ctrl.Selected(); ok {
			return m.startForm(&selected)
		}

		return m, nil
	case "u":
		if selected, ok := m.ctrl.Selected(); ok {
			m.cart.SetClient(selected)
			m.status = fmt.Sprintf("Carrito asignado a %s.", selected.Name)
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

func (m ClientsModel) startForm(c *client.Client) (tea.Model, tea.Cmd) {
	m.editingID = ""
	m.formType = client.TypeFisica
	m.formName = ""
	m.formAddress = ""
	m.formPhone = ""
	m.formEmail = ""
	m.formCuitDni = ""

	if c != nil {
		m.editingID = c.ID
		m.formType = c.Type
		m.formName = c.Name
		m.formCuitDni = c.CuitDni

		if c.Address != nil {
			m.formAddress = *c.Address
		}

		if c.Phone != nil {
			m.formPhone = *c.Phone
		}

		if c.Email != nil {
			m.formEmail = *c.Email
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[client.Type]().
				Title("Tipo").
				Options(
					huh.NewOption("Persona física", client.TypeFisica),
					huh.NewOption("Persona jurídica", client.TypeJuridica),
				).
				Value(&m.formType),
			huh.NewInput().Title("Nombre").Value(&m.formName).Validate(validateRequired),
			huh.NewInput().Title("CUIT/DNI").Value(&m.formCuitDni).Validate(validateRequired),
			huh.NewInput().Title("Dirección (opcional)").Value(&m.formAddress),
			huh.NewInput().Title("Teléfono (opcional)").Value(&m.formPhone),
			huh.NewInput().Title("Email (opcional)").Value(&m.formEmail),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = clientsStateForm

	return m, m.form.Init()
}

func (m ClientsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = clientsStateBrowse
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

	return m, m.saveCmd()
}

func (m ClientsModel) View() string {
	if m.state == clientsStateForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.ctrl.IsSearching():
		b.WriteString("Buscando clientes...\n")
	case m.ctrl.Query() == "":
		b.WriteString(statusStyle.Render("Escribí para buscar clientes.") + "\n")
	case len(m.ctrl.Items()) == 0:
		b.WriteString(statusStyle.Render("Sin resultados.") + "\n")
	default:
		b.WriteString(m.clientTable())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

func (m ClientsModel) clientTable() string {
	cols := []column{
		{title: "Nombre", width: 30},
		{title: "Tipo", width: 10},
		{title: "CUIT/DNI", width: 16},
		{title: "Teléfono", width: 14},
		{title: "Email", width: 24},
	}

	items := m.ctrl.Items()
	rows := make([][]string, len(items))
	for i, c := range items {
		phone, email := "", ""
		if c.Phone != nil {
			phone = *c.Phone
		}

		if c.Email != nil {
			email = *c.Email
		}

		rows[i] = []string{c.Name, string(c.Type), c.CuitDni, phone, email}
	}

	return renderTable(cols, rows, m.ctrl.SelectedIndex())
}

// Messages

type clientsLoadedMsg struct {
	gen   int
	items []client.Client
	err   error
}

func (m ClientsModel) searchCmd(req listctrl.Request) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		items, err := apiClient.SearchClients(ctx, req.Query)

		return clientsLoadedMsg{gen: req.Gen, items: items, err: err}
	}
}

type clientSavedMsg struct {
	status string
	err    error
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

func (m ClientsModel) saveCmd() tea.Cmd {
	apiClient := m.api
	editingID := m.editingID

	params := client.CreateParams{
		Type:    m.formType,
		Name:    strings.TrimSpace(m.formName),
		Address: optional(m.formAddress),
		Phone:   optional(m.formPhone),
		Email:   optional(m.formEmail),
		CuitDni: strings.TrimSpace(m.formCuitDni),
	}

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if editingID == "" {
			if err := apiClient.CreateClient(ctx, params); err != nil {
				return clientSavedMsg{err: err}
			}

			return clientSavedMsg{status: "Cliente creado."}
		}

		if err := apiClient.UpdateClient(ctx, editingID, params); err != nil {
			return clientSavedMsg{err: err}
		}

		return clientSavedMsg{status: "Cliente actualizado."}
	}
}

func (m ClientsModel) deleteCmd(id string) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := apiClient.DeleteClient(ctx, id); err != nil {
			return clientSavedMsg{err: err}
		}

		return clientSavedMsg{status: "Cliente eliminado."}
	}
}
