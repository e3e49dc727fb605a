/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  All monetary fields travel as decimal strings ("2.50"), never floats.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/inventory"
	"github.com/warp/pos-engine/transaction"
)

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// LoginRequest identifies the employee starting a session.
type LoginRequest struct {
	EmployeeID string `json:"employee_id"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	CanRestock    bool    `json:"can_restock"`
	CanFlexRefund bool    `json:"can_grant_flexible_refund"`
	WorkedHours   float64 `json:"worked_hours"`
}

func employeeDTO(e *employee.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:            e.ID,
		Name:          e.Name,
		Role:          e.Role.Label(),
		CanRestock:    e.Role.CanRestock(),
		CanFlexRefund: e.Role.CanGrantFlexibleRefund(),
		WorkedHours:   e.WorkedHours(),
	}
}

// =============================================================================
// ITEM TYPES
// =============================================================================

// ItemDTO represents an item in API responses.
type ItemDTO struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

func itemDTO(i *inventory.Item) ItemDTO {
	return ItemDTO{
		Barcode:  i.Barcode(),
		Name:     i.Name(),
		Price:    i.Price().StringFixed(2),
		Quantity: i.Quantity(),
	}
}

func itemDTOs(items []*inventory.Item) []ItemDTO {
	dtos := make([]ItemDTO, len(items))
	for i, item := range items {
		dtos[i] = itemDTO(item)
	}
	return dtos
}

// CreateItemRequest registers a new ledger item or, on the temporary
// endpoint, a session item.
type CreateItemRequest struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// StockStatusDTO classifies a barcode's stock level.
type StockStatusDTO struct {
	Barcode  string `json:"barcode"`
	State    string `json:"state"`
	Quantity int    `json:"quantity"`
	Display  string `json:"display"`
}

// RestockRequest adds stock to a ledger item.
type RestockRequest struct {
	EmployeeID string `json:"employee_id"`
	Quantity   int    `json:"quantity"`
}

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// TransactionLineRequest is one scanned line of a sale or return.
type TransactionLineRequest struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

// SaleRequest submits a sale.
type SaleRequest struct {
	EmployeeID string                   `json:"employee_id"`
	Lines      []TransactionLineRequest `json:"lines"`
}

// ReturnRequest submits a return. RefundAmount, when present, is subject
// to the acting employee's refund policy.
type ReturnRequest struct {
	EmployeeID        string                   `json:"employee_id"`
	OriginalReceiptID string                   `json:"original_receipt_id"`
	Lines             []TransactionLineRequest `json:"lines"`
	RefundAmount      *string                  `json:"refund_amount,omitempty"`
}

// LineItemDTO is one captured receipt line.
type LineItemDTO struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// ReceiptDTO represents a receipt in API responses.
type ReceiptDTO struct {
	ID                string        `json:"id"`
	CreatedAt         string        `json:"created_at"`
	Kind              string        `json:"kind"`
	Total             string        `json:"total"`
	ProcessedBy       EmployeeDTO   `json:"processed_by"`
	OriginalReceiptID string        `json:"original_receipt_id,omitempty"`
	Lines             []LineItemDTO `json:"lines"`
}

func receiptDTO(r *transaction.Receipt) ReceiptDTO {
	lines := r.Lines()
	lineDTOs := make([]LineItemDTO, len(lines))
	for i, line := range lines {
		lineDTOs[i] = LineItemDTO{
			Barcode:   line.Barcode(),
			Name:      line.Name(),
			Quantity:  line.Quantity(),
			UnitPrice: line.UnitPrice().StringFixed(2),
			Subtotal:  line.Subtotal().StringFixed(2),
		}
	}
	emp := r.ProcessedBy()
	return ReceiptDTO{
		ID:                r.ID(),
		CreatedAt:         r.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
		Kind:              string(r.Kind()),
		Total:             r.Total().StringFixed(2),
		ProcessedBy:       employeeDTO(&emp),
		OriginalReceiptID: r.OriginalReceiptID(),
		Lines:             lineDTOs,
	}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
