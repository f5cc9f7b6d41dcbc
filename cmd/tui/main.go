package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/d10sys/d10admin/cmd/tui/internal/view"
	"github.com/d10sys/d10admin/internal/api"
	"github.com/d10sys/d10admin/internal/cart"
	"github.com/d10sys/d10admin/internal/cashregister"
	"github.com/d10sys/d10admin/internal/config"
)

type model struct {
	apiClient *api.Client
	cartStore *cart.Store
	register  *cashregister.Service

	currentView View

	productsView view.ProductsModel
	clientsView  view.ClientsModel
	cartView     view.CartModel
	invoicesView view.InvoicesModel
	cashView     view.CashRegisterModel
}

type View int

const (
	ViewMenu     View = 0
	ViewProducts View = 1
	ViewClients  View = 2
	ViewCart     View = 3
	ViewInvoices View = 4
	ViewCash     View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	apiClient := api.New(cfg.API.BaseURL, cfg.API.Timeout)
	cartStore := cart.NewStore(cfg.Cart.Path)
	register := cashregister.NewService(apiClient)

	return model{
		apiClient:    apiClient,
		cartStore:    cartStore,
		register:     register,
		currentView:  ViewMenu,
		productsView: view.NewProductsModel(apiClient, cartStore),
		clientsView:  view.NewClientsModel(apiClient, cartStore),
		cartView:     view.NewCartModel(apiClient, cartStore, register),
		invoicesView: view.NewInvoicesModel(apiClient, register),
		cashView:     view.NewCashRegisterModel(register),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewProducts
				m.productsView = view.NewProductsModel(m.apiClient, m.cartStore)

				return m, m.productsView.Init()
			case "2":
				m.currentView = ViewClients
				m.clientsView = view.NewClientsModel(m.apiClient, m.cartStore)

				return m, m.clientsView.Init()
			case "3":
				m.currentView = ViewCart
				m.cartView = view.NewCartModel(m.apiClient, m.cartStore, m.register)

				return m, m.cartView.Init()
			case "4":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.apiClient, m.register)

				return m, m.invoicesView.Init()
			case "5":
				m.currentView = ViewCash
				m.cashView = view.NewCashRegisterModel(m.register)

				return m, m.cashView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewClients:
		var newModel tea.Model
		newModel, cmd = m.clientsView.Update(msg)
		m.clientsView = newModel.(view.ClientsModel)
	case ViewCart:
		var newModel tea.Model
		newModel, cmd = m.cartView.Update(msg)
		m.cartView = newModel.(view.CartModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewCash:
		var newModel tea.Model
		newModel, cmd = m.cashView.Update(msg)
		m.cashView = newModel.(view.CashRegisterModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"d10 Admin\n\n" +
				"1. Productos\n" +
				"2. Clientes\n" +
				"3. Carrito\n" +
				"4. Facturas\n" +
				"5. Caja\n\n" +
				"q. Salir",
		)
	case ViewProducts:
		return m.productsView.View()
	case ViewClients:
		return m.clientsView.View()
	case ViewCart:
		return m.cartView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewCash:
		return m.cashView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
