package view

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const apiTimeout = 10 * time.Second

// FormatPrice formats a peso amount.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ApiCtx returns a context with a standard timeout for backend calls.
func ApiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("monto inválido")
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("monto inválido")
	}

	return v, nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("campo requerido")
	}

	return nil
}

func validatePositiveAmount(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return err
	}

	if v <= 0 {
		return fmt.Errorf("el monto debe ser mayor a 0")
	}

	return nil
}

func validateNonNegativeAmount(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return err
	}

	if v < 0 {
		return fmt.Errorf("el monto no puede ser negativo")
	}

	return nil
}

func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("fecha inválida, formato YYYY-MM-DD")
	}

	return nil
}
