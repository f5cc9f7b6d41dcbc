package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/d10sys/d10admin/internal/api"
	"github.com/d10sys/d10admin/internal/cart"
	"github.com/d10sys/d10admin/internal/invoice"
	"github.com/d10sys/d10admin/internal/listctrl"
	"github.com/d10sys/d10admin/internal/pricing"
	"github.com/d10sys/d10admin/internal/product"
)

const productsScope = "products"

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateForm
	productsStateStock
	productsStateAddToCart
)

type ProductsModel struct {
	CommonModel
	api  *api.Client
	cart *cart.Store

	state  productsState
	ctrl   *listctrl.Controller[product.Product]
	search textinput.Model
	form   *huh.Form

	searchFocused bool
	status        string

	// Product form bindings. editingID empty means create.
	editingID          string
	formCode           string
	formName           string
	formDescription    string
	formQuality        product.Quality
	formProvider       string
	formCategory       string
	formSubcategory    string
	formDimensions     string
	formMeasureType    product.MeasureType
	formSaleUnitType   product.SaleUnitType
	formPrice          string
	formMeasurePerUnit string
	formImagePath      string
	formImages         []string

	// Stock form bindings.
	formStockType product.StockRecordType
	formStockQty  string

	// Add-to-cart form bindings.
	formCartQty         string
	formCartDiscountPct string
}

func NewProductsModel(apiClient *api.Client, cartStore *cart.Store) ProductsModel {
	search := textinput.New()
	search.Placeholder = "Buscar productos..."
	search.CharLimit = 64

	return ProductsModel{
		api:  apiClient,
		cart: cartStore,
		ctrl: listctrl.New(listctrl.Config[product.Product]{
			ID:       func(p product.Product) string { return p.ID },
			Mode:     listctrl.ListAll,
			PageSize: 15,
		}),
		search: search,
	}
}

func (m ProductsModel) Title() string { return "Productos" }

func (m ProductsModel) ShortHelp() string {
	switch m.state {
	case productsStateBrowse:
		if m.searchFocused {
			return "Esc: cerrar búsqueda"
		}

		return "Esc: volver | /: buscar | n/p: página | c: crear | e: editar | a: al carrito | s: stock | t: discontinuar | x: eliminar"
	default:
		return "Esc: cancelar | Enter/Tab: navegar formulario"
	}
}

func (m ProductsModel) Init() tea.Cmd {
	req, ok := m.ctrl.Refresh()
	if !ok {
		return nil
	}

	return m.loadCmd(req)
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceMsg:
		if msg.Scope != productsScope {
			return m, nil
		}

		if req, ok := m.ctrl.CommitInput(msg.Token); ok {
			return m, m.loadCmd(req)
		}

		return m, nil

	case productsLoadedMsg:
		if msg.err != nil {
			m.ctrl.Fail(msg.gen)
			m.status = msg.err.Error()

			return m, nil
		}

		m.ctrl.Apply(msg.gen, msg.items, msg.totalPages)

		return m, nil

	case productSavedMsg:
		m.state = productsStateBrowse
		m.form = nil

		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}

		m.status = msg.status

		if req, ok := m.ctrl.Refresh(); ok {
			return m, m.loadCmd(req)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	switch m.state {
	case productsStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			// Fall through to selection handling below.
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			token := m.ctrl.SetInput(m.search.Value())

			return m, tea.Batch(cmd, debounceTick(productsScope, token))
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
	case "n":
		if req, ok := m.ctrl.NextPage(); ok {
			return m, m.loadCmd(req)
		}

		return m, nil
	case "p":
		if req, ok := m.ctrl.PrevPage(); ok {
			return m, m.loadCmd(req)
		}

		return m, nil
	case "r":
		if req, ok := m.ctrl.Refresh(); ok {
			return m, m.loadCmd(req)
		}

		return m, nil
	case "c":
		return m.startProductForm(nil)
	case "e":
		if selected, ok := m.ctrl.Selected(); ok {
			return m.startProductForm(&selected)
		}

		return m, nil
	case "s":
		if _, ok := m.ctrl.Selected(); ok {
			return m.startStockForm()
		}

		return m, nil
	case "a":
		if _, ok := m.ctrl.Selected(); ok {
			return m.startAddToCartForm()
		}

		return m, nil
	case "t":
		if selected, ok := m.ctrl.Selected(); ok {
			return m, m.toggleDiscontinuedCmd(selected)
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

func (m ProductsModel) startProductForm(p *product.Product) (tea.Model, tea.Cmd) {
	m.editingID = ""
	m.formCode = ""
	m.formName = ""
	m.formDescription = ""
	m.formQuality = product.QualityPrimera
	m.formProvider = ""
	m.formCategory = ""
	m.formSubcategory = ""
	m.formDimensions = ""
	m.formMeasureType = product.MeasureM2
	m.formSaleUnitType = product.SaleUnitCaja
	m.formPrice = ""
	m.formMeasurePerUnit = ""
	m.formImagePath = ""
	m.formImages = nil

	if p != nil {
		m.editingID = p.ID
		m.formCode = p.Code
		m.formName = p.Name
		m.formDescription = p.Description
		m.formQuality = p.Quality
		m.formProvider = p.ProviderName
		m.formCategory = p.Category
		m.formSubcategory = p.Subcategory
		m.formDimensions = p.Dimensions
		m.formMeasureType = p.MeasureType
		m.formSaleUnitType = p.SaleUnitType
		m.formPrice = fmt.Sprintf("%g", p.PriceBySaleUnit)
		m.formMeasurePerUnit = fmt.Sprintf("%g", p.MeasurePerSaleUnit)
		m.formImages = p.Images
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Código").Value(&m.formCode).Validate(validateRequired),
			huh.NewInput().Title("Nombre").Value(&m.formName).Validate(validateRequired),
			huh.NewInput().Title("Descripción").Value(&m.formDescription),
			huh.NewSelect[product.Quality]().
				Title("Calidad").
				Options(
					huh.NewOption("Primera", product.QualityPrimera),
					huh.NewOption("Segunda", product.QualitySegunda),
				).
				Value(&m.formQuality),
			huh.NewInput().Title("Proveedor").Value(&m.formProvider),
			huh.NewInput().Title("Categoría").Value(&m.formCategory),
			huh.NewInput().Title("Subcategoría").Value(&m.formSubcategory),
			huh.NewInput().Title("Dimensiones").Value(&m.formDimensions),
		),
		huh.NewGroup(
			huh.NewSelect[product.MeasureType]().
				Title("Unidad de medida").
				Options(
					huh.NewOption("m2", product.MeasureM2),
					huh.NewOption("ml", product.MeasureML),
					huh.NewOption("mm", product.MeasureMM),
					huh.NewOption("unidad", product.MeasureUnidad),
				).
				Value(&m.formMeasureType),
			huh.NewSelect[product.SaleUnitType]().
				Title("Unidad de venta").
				Options(
					huh.NewOption("Caja", product.SaleUnitCaja),
					huh.NewOption("Juego", product.SaleUnitJuego),
					huh.NewOption("Unidad", product.SaleUnitUnidad),
				).
				Value(&m.formSaleUnitType),
			huh.NewInput().Title("Precio por unidad de venta").Value(&m.formPrice).Validate(validatePositiveAmount),
			huh.NewInput().Title("Medida por unidad de venta").Value(&m.formMeasurePerUnit).Validate(validatePositiveAmount),
			huh.NewInput().Title("Imagen (ruta local, opcional)").Value(&m.formImagePath),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = productsStateForm

	return m, m.form.Init()
}

func (m ProductsModel) startStockForm() (tea.Model, tea.Cmd) {
	selected, _ := m.ctrl.Selected()

	m.formStockType = product.StockIn
	m.formStockQty = ""

	available := selected.Stock.Quantity
	stockType := &m.formStockType

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[product.StockRecordType]().
				Title("Movimiento").
				Options(
					huh.NewOption("Ingreso (IN)", product.StockIn),
					huh.NewOption("Egreso (OUT)", product.StockOut),
				).
				Value(stockType),
			huh.NewInput().
				Title(fmt.Sprintf("Cantidad (disponible: %g)", available)).
				Value(&m.formStockQty).
				Validate(func(s string) error {
					if err := validatePositiveAmount(s); err != nil {
						return err
					}

					qty, _ := parseAmount(s)
					if *stockType == product.StockOut && qty > available {
						return fmt.Errorf("Stock insuficiente")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = productsStateStock

	return m, m.form.Init()
}

func (m ProductsModel) startAddToCartForm() (tea.Model, tea.Cmd) {
	m.formCartQty = "1"
	m.formCartDiscountPct = "0"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Cantidad (unidades de venta)").Value(&m.formCartQty).Validate(validatePositiveAmount),
			huh.NewInput().Title("Descuento individual (%)").Value(&m.formCartDiscountPct).Validate(validateNonNegativeAmount),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = productsStateAddToCart

	return m, m.form.Init()
}

func (m ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = productsStateBrowse
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
	case productsStateForm:
		return m, m.saveProductCmd()
	case productsStateStock:
		return m, m.saveStockCmd()
	case productsStateAddToCart:
		return m.addToCart()
	}

	return m, nil
}

// addToCart freezes the selected product's pricing into a cart line. Two
// additions of the same product yield two independent lines.
func (m ProductsModel) addToCart() (tea.Model, tea.Cmd) {
	selected, ok := m.ctrl.Selected()
	if !ok {
		m.state = productsStateBrowse
		m.form = nil

		return m, nil
	}

	qty, _ := parseAmount(m.formCartQty)
	pct, _ := parseAmount(m.formCartDiscountPct)

	gross := qty * selected.PriceBySaleUnit
	individualDiscount, err := pricing.DiscountFromPercent(pct, gross)
	if err != nil {
		m.status = err.Error()
		m.state = productsStateBrowse
		m.form = nil

		return m, nil
	}

	m.cart.AddLine(invoice.CartProduct{
		ID:                  selected.ID,
		Name:                selected.Name,
		MeasureType:         string(selected.MeasureType),
		PriceByMeasureUnit:  selected.PriceByMeasureUnit,
		MeasureUnitQuantity: qty * selected.MeasurePerSaleUnit,
		SaleUnitType:        string(selected.SaleUnitType),
		PriceBySaleUnit:     selected.PriceBySaleUnit,
		SaleUnitQuantity:    qty,
		IndividualDiscount:  individualDiscount,
		Subtotal:            pricing.LineSubtotal(qty, selected.PriceBySaleUnit, individualDiscount),
	})

	m.status = fmt.Sprintf("%s agregado al carrito", selected.Name)
	m.state = productsStateBrowse
	m.form = nil

	return m, nil
}

func (m ProductsModel) View() string {
	if m.state != productsStateBrowse && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if m.ctrl.IsSearching() {
		b.WriteString("Cargando productos...\n")
	} else {
		b.WriteString(m.productTable())
	}

	b.WriteString(fmt.Sprintf("\nPágina %d/%d\n", m.ctrl.Page()+1, max(m.ctrl.TotalPages(), 1)))

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

func (m ProductsModel) productTable() string {
	cols := []column{
		{title: "Código", width: 10},
		{title: "Nombre", width: 28},
		{title: "Precio", width: 10},
		{title: "Stock", width: 8},
		{title: "Estado", width: 14},
	}

	items := m.ctrl.Items()
	rows := make([][]string, len(items))
	for i, p := range items {
		state := "activo"
		if p.Discontinued {
			state = "discontinuado"
		}

		rows[i] = []string{
			p.Code,
			p.Name,
			FormatPrice(p.PriceBySaleUnit),
			fmt.Sprintf("%g", p.Stock.Quantity),
			state,
		}
	}

	return renderTable(cols, rows, m.ctrl.SelectedIndex())
}

func (m ProductsModel) detailPanel() string {
	p, ok := m.ctrl.Selected()
	if !ok {
		return ""
	}

	var chars []string
	for _, c := range p.Characteristics {
		chars = append(chars, fmt.Sprintf("%s=%s", c.Key, c.Value))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"%s  |  %s %s  |  %s por %s (%g %s)\nStock: %g %s (%g %s)  |  Calidad: %s  |  Imágenes: %d\n%s",
			p.Code,
			p.Name,
			p.Dimensions,
			FormatPrice(p.PriceBySaleUnit),
			strings.ToLower(string(p.SaleUnitType)),
			p.MeasurePerSaleUnit,
			strings.ToLower(string(p.MeasureType)),
			p.Stock.Quantity,
			strings.ToLower(string(p.SaleUnitType)),
			p.Stock.MeasureUnitEquivalent,
			strings.ToLower(string(p.MeasureType)),
			p.Quality,
			len(p.Images),
			strings.Join(chars, "  "),
		))
}

// Messages

type productsLoadedMsg struct {
	gen        int
	items      []product.Product
	totalPages int
	err        error
}

func (m ProductsModel) loadCmd(req listctrl.Request) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		page, err := apiClient.ListProducts(ctx, req.Query, req.Page, req.Size)

		return productsLoadedMsg{gen: req.Gen, items: page.Content, totalPages: page.TotalPages, err: err}
	}
}

type productSavedMsg struct {
	status string
	err    error
}

// saveProductCmd uploads the optional image first, then creates or replaces
// the product with the asset URL appended.
func (m ProductsModel) saveProductCmd() tea.Cmd {
	apiClient := m.api
	editingID := m.editingID
	imagePath := strings.TrimSpace(m.formImagePath)
	images := m.formImages

	price, _ := parseAmount(m.formPrice)
	measurePerUnit, _ := parseAmount(m.formMeasurePerUnit)

	params := product.CreateParams{
		Code:               strings.TrimSpace(m.formCode),
		Name:               strings.TrimSpace(m.formName),
		Description:        strings.TrimSpace(m.formDescription),
		Quality:            m.formQuality,
		ProviderName:       strings.TrimSpace(m.formProvider),
		Category:           strings.TrimSpace(m.formCategory),
		Subcategory:        strings.TrimSpace(m.formSubcategory),
		Dimensions:         strings.TrimSpace(m.formDimensions),
		MeasureType:        m.formMeasureType,
		SaleUnitType:       m.formSaleUnitType,
		PriceBySaleUnit:    price,
		MeasurePerSaleUnit: measurePerUnit,
	}

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if imagePath != "" {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return productSavedMsg{err: fmt.Errorf("leer imagen: %w", err)}
			}

			uploadURL, err := apiClient.RequestUploadURL(ctx, filepath.Base(imagePath))
			if err != nil {
				return productSavedMsg{err: err}
			}

			assetURL, err := apiClient.UploadImage(ctx, uploadURL, data)
			if err != nil {
				return productSavedMsg{err: err}
			}

			images = append(images, assetURL)
		}

		params.Images = images

		if editingID == "" {
			if err := apiClient.CreateProduct(ctx, params); err != nil {
				return productSavedMsg{err: err}
			}

			return productSavedMsg{status: "Producto creado."}
		}

		if err := apiClient.UpdateProduct(ctx, editingID, params); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: "Producto actualizado."}
	}
}

func (m ProductsModel) saveStockCmd() tea.Cmd {
	apiClient := m.api
	selected, ok := m.ctrl.Selected()
	if !ok {
		return nil
	}

	qty, _ := parseAmount(m.formStockQty)
	movement := product.StockMovement{Type: m.formStockType, Quantity: qty}

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := apiClient.UpdateProductStock(ctx, selected.ID, movement); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: "Stock actualizado."}
	}
}

func (m ProductsModel) toggleDiscontinuedCmd(p product.Product) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := apiClient.SetProductDiscontinued(ctx, p.ID, !p.Discontinued); err != nil {
			return productSavedMsg{err: err}
		}

		if p.Discontinued {
			return productSavedMsg{status: "Producto reactivado."}
		}

		return productSavedMsg{status: "Producto discontinuado."}
	}
}

func (m ProductsModel) deleteCmd(id string) tea.Cmd {
	apiClient := m.api

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		if err := apiClient.DeleteProduct(ctx, id); err != nil {
			return productSavedMsg{err: err}
		}

		return productSavedMsg{status: "Producto eliminado."}
	}
}
