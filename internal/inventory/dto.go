package inventory

import (
	"fmt"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateProductDTO struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int64           `json:"stock_quantity"`
	MinimumStock  int64           `json:"minimum_stock"`
	Prices        []Price         `json:"prices"`
}

func (dto CreateProductDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("sku", dto.SKU).Required().MaxLength(40)
	v.Field("name", dto.Name).Required().MaxLength(120)
	v.Field("category", dto.Category).Required().MaxLength(60)
	v.Field("cost_price", dto.CostPrice).NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("stock_quantity", dto.StockQuantity).NonNegative(errors.ErrCodeInvalidQuantity)
	v.Field("minimum_stock", dto.MinimumStock).NonNegative(errors.ErrCodeInvalidQuantity)
	v.Field("prices", dto.Prices).Custom(validatePrices)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateProductDTO struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int64           `json:"stock_quantity"`
	MinimumStock  int64           `json:"minimum_stock"`
	Prices        []Price         `json:"prices"`
}

func (dto UpdateProductDTO) Validate() error {
	return CreateProductDTO{
		SKU:           "-",
		Name:          dto.Name,
		Category:      dto.Category,
		CostPrice:     dto.CostPrice,
		StockQuantity: dto.StockQuantity,
		MinimumStock:  dto.MinimumStock,
		Prices:        dto.Prices,
	}.Validate()
}

type ListProductsDTO struct {
	Category string
	Search   string
	LowStock bool
}

// validatePrices requires a default tier and at most one price per tier.
func validatePrices(value interface{}) *errors.AppError {
	prices, _ := value.([]Price)
	seen := make(map[Tier]bool, len(prices))
	for i, p := range prices {
		field := fmt.Sprintf("prices[%d]", i)
		if p.Tier.position() == len(Tiers) {
			return errors.NewValidationFieldError(field, fmt.Sprintf("unknown tier %q", p.Tier), errors.ErrCodeValidationFailed)
		}
		if seen[p.Tier] {
			return errors.NewValidationFieldError(field, fmt.Sprintf("tier %q listed twice", p.Tier), errors.ErrCodeValidationFailed)
		}
		if p.Price.IsNegative() {
			return errors.NewValidationFieldError(field, "price must not be negative", errors.ErrCodeInvalidAmount)
		}
		if !validation.FitsMoneyScale(p.Price) {
			return errors.NewValidationFieldError(field, fmt.Sprintf("price must have at most %d decimal places", validation.MoneyScale), errors.ErrCodeInvalidAmount)
		}
		seen[p.Tier] = true
	}
	if !seen[TierDefault] {
		return errors.NewValidationFieldError("prices", "a default price is required", errors.ErrCodeValidationFailed)
	}
	return nil
}
