package product

import "time"

// Quality grades a product batch.
type Quality string

const (
	QualityPrimera Quality = "PRIMERA"
	QualitySegunda Quality = "SEGUNDA"
)

// MeasureType is the physical unit used for stock accounting.
type MeasureType string

const (
	MeasureM2     MeasureType = "M2"
	MeasureML     MeasureType = "ML"
	MeasureMM     MeasureType = "MM"
	MeasureUnidad MeasureType = "UNIDAD"
)

// SaleUnitType is the unit a product is sold in.
type SaleUnitType string

const (
	SaleUnitCaja   SaleUnitType = "CAJA"
	SaleUnitJuego  SaleUnitType = "JUEGO"
	SaleUnitUnidad SaleUnitType = "UNIDAD"
)

// CharacteristicKey is the fixed set of descriptive attribute keys.
type CharacteristicKey string

const (
	CharColor    CharacteristicKey = "COLOR"
	CharOrigen   CharacteristicKey = "ORIGEN"
	CharBorde    CharacteristicKey = "BORDE"
	CharAspecto  CharacteristicKey = "ASPECTO"
	CharTextura  CharacteristicKey = "TEXTURA"
	CharTransito CharacteristicKey = "TRANSITO"
)

// Characteristic is a key/value descriptive attribute.
type Characteristic struct {
	Key   CharacteristicKey `json:"key"`
	Value string            `json:"value"`
}

// StockRecordType marks a stock movement direction.
type StockRecordType string

const (
	StockIn  StockRecordType = "IN"
	StockOut StockRecordType = "OUT"
)

// StockMovement is the payload for recording one stock movement.
type StockMovement struct {
	Type     StockRecordType `json:"type"`
	Quantity float64         `json:"quantity"`
}

// StockRecord is one entry of the append-only stock movement list.
// Quantity is expressed in sale units.
type StockRecord struct {
	Type     StockRecordType `json:"type"`
	Quantity float64         `json:"quantity"`
	Date     time.Time       `json:"date"`
}

// Stock is the stock aggregate owned by a product. Quantity never goes
// below zero; the backend rejects OUT movements that would.
type Stock struct {
	Quantity              float64       `json:"quantity"`
	MeasureUnitEquivalent float64       `json:"measureUnitEquivalent"`
	RecordList            []StockRecord `json:"recordList"`
}

// Product is a catalog entry. Discontinued hides it from default flows but
// never deletes it; historical invoices keep their frozen snapshots.
type Product struct {
	ID                 string           `json:"id"`
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	Discontinued       bool             `json:"discontinued"`
	Stock              Stock            `json:"stock"`
	Description        string           `json:"description"`
	Quality            Quality          `json:"quality"`
	ProviderName       string           `json:"providerName"`
	Characteristics    []Characteristic `json:"characteristics"`
	Images             []string         `json:"images"`
	Category           string           `json:"category"`
	Subcategory        string           `json:"subcategory"`
	Dimensions         string           `json:"dimensions"`
	MeasureType        MeasureType      `json:"measureType"`
	PriceByMeasureUnit float64          `json:"priceByMeasureUnit"`
	SaleUnitType       SaleUnitType     `json:"saleUnitType"`
	PriceBySaleUnit    float64          `json:"priceBySaleUnit"`
	MeasurePerSaleUnit float64          `json:"measurePerSaleUnit"`
}

// CreateParams is the payload for creating or replacing a product. The
// backend derives priceByMeasureUnit from priceBySaleUnit and the
// conversion factor.
type CreateParams struct {
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Quality            Quality          `json:"quality"`
	ProviderName       string           `json:"providerName"`
	Characteristics    []Characteristic `json:"characteristics"`
	Images             []string         `json:"images"`
	Category           string           `json:"category"`
	Subcategory        string           `json:"subcategory"`
	Dimensions         string           `json:"dimensions"`
	MeasureType        MeasureType      `json:"measureType"`
	SaleUnitType       SaleUnitType     `json:"saleUnitType"`
	PriceBySaleUnit    float64          `json:"priceBySaleUnit"`
	MeasurePerSaleUnit float64          `json:"measurePerSaleUnit"`
}
