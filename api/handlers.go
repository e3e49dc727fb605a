/*
handlers.go - HTTP API handlers for the point-of-sale engine

PURPOSE:
  Exposes the inventory facade and the transaction orchestrator over
  REST. Handles HTTP request/response and JSON serialization; all
  business rules live in the domain packages.

ENDPOINTS:
  Session:
    POST   /api/login                       Resolve employee id to identity

  Items:
    GET    /api/items                       List ledger items
    POST   /api/items                       Register a ledger item
    POST   /api/items/temporary             Add an ad-hoc session item
    GET    /api/items/{barcode}             Lookup (ledger wins ties)
    GET    /api/items/{barcode}/status      Stock status
    POST   /api/items/{barcode}/restock     Permission-gated restock

  Stock reports:
    GET    /api/stock/low                   Items at or below threshold
    GET    /api/stock/out                   Items with zero stock

  Transactions:
    POST   /api/sales                       Process a sale
    POST   /api/returns                     Process a return
    GET    /api/receipts/{id}               Receipt as JSON
    GET    /api/receipts/{id}/text          Rendered receipt text

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Unknown employee at login
  - 403: Permission denied
  - 404: Item or receipt not found
  - 409: Insufficient stock, refund policy violations, duplicates
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - seed.go: Sample catalog and staff
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/inventory"
	"github.com/warp/pos-engine/transaction"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Inventory    *inventory.Service
	Transactions *transaction.Orchestrator
	Directory    *employee.Directory
	Log          *zap.Logger
}

// NewHandler creates a handler over the engine's components.
func NewHandler(inv *inventory.Service, orch *transaction.Orchestrator, dir *employee.Directory, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Inventory: inv, Transactions: orch, Directory: dir, Log: log}
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// Login resolves an employee id to an identity.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, ok := h.Directory.Login(req.EmployeeID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unknown employee id", nil)
		return
	}
	writeJSON(w, http.StatusOK, employeeDTO(emp))
}

// =============================================================================
// ITEM HANDLERS
// =============================================================================

// ListItems returns all registered ledger items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, itemDTOs(h.Inventory.Items()))
}

// CreateItem registers a new ledger item.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	if !h.Inventory.AddItem(item) {
		writeError(w, http.StatusConflict, "Item already registered", nil)
		return
	}
	writeJSON(w, http.StatusCreated, itemDTO(item))
}

// CreateTemporaryItem adds an ad-hoc item for the current session.
func (h *Handler) CreateTemporaryItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	h.Inventory.AddTemporaryItem(item)
	writeJSON(w, http.StatusCreated, itemDTO(item))
}

func (h *Handler) decodeItem(w http.ResponseWriter, r *http.Request) (*inventory.Item, bool) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price", err)
		return nil, false
	}
	item, err := inventory.NewItem(req.Barcode, req.Name, price, req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item", err)
		return nil, false
	}
	return item, true
}

// GetItem looks a barcode up in the ledger, then the session registry.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	item, ok := h.Inventory.FindAny(barcode)
	if !ok {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, itemDTO(item))
}

// GetItemStatus classifies a barcode's stock level.
func (h *Handler) GetItemStatus(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	status := h.Inventory.StatusOf(barcode)
	writeJSON(w, http.StatusOK, StockStatusDTO{
		Barcode:  barcode,
		State:    string(status.State),
		Quantity: status.Quantity,
		Display:  status.String(),
	})
}

// Restock adds stock to a ledger item, gated on the employee's capability.
func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	emp, ok := h.Directory.Login(req.EmployeeID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unknown employee id", nil)
		return
	}

	if err := h.Inventory.Restock(barcode, req.Quantity, emp); err != nil {
		writeDomainError(w, err)
		return
	}
	status := h.Inventory.StatusOf(barcode)
	writeJSON(w, http.StatusOK, StockStatusDTO{
		Barcode:  barcode,
		State:    string(status.State),
		Quantity: status.Quantity,
		Display:  status.String(),
	})
}

// =============================================================================
// STOCK REPORT HANDLERS
// =============================================================================

// LowStock lists ledger items at or below the threshold.
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"threshold": h.Inventory.LowStockThreshold(),
		"items":     itemDTOs(h.Inventory.LowStockItems()),
	})
}

// OutOfStock lists ledger items with no stock left.
func (h *Handler) OutOfStock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": itemDTOs(h.Inventory.OutOfStockItems()),
	})
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ProcessSale validates and commits a sale.
func (h *Handler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	emp, ok := h.Directory.Login(req.EmployeeID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unknown employee id", nil)
		return
	}
	lines, ok := h.resolveLines(w, req.Lines)
	if !ok {
		return
	}

	receipt, err := h.Transactions.ProcessSale(r.Context(), lines, emp)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receiptDTO(receipt))
}

// ProcessReturn commits a return under the refund policy.
func (h *Handler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	var req ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	emp, ok := h.Directory.Login(req.EmployeeID)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unknown employee id", nil)
		return
	}
	lines, ok := h.resolveLines(w, req.Lines)
	if !ok {
		return
	}

	var refund *decimal.Decimal
	if req.RefundAmount != nil {
		amount, err := decimal.NewFromString(*req.RefundAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid refund amount", err)
			return
		}
		refund = &amount
	}

	receipt, err := h.Transactions.ProcessReturn(r.Context(), req.OriginalReceiptID, lines, emp, refund)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receiptDTO(receipt))
}

// resolveLines turns scanned (barcode, quantity) pairs into captured lines.
// Unknown barcodes are rejected here: the UI registers a temporary item
// first when a scan is not recognized.
func (h *Handler) resolveLines(w http.ResponseWriter, reqs []TransactionLineRequest) ([]transaction.LineItem, bool) {
	lines := make([]transaction.LineItem, 0, len(reqs))
	for _, lr := range reqs {
		item, ok := h.Inventory.FindAny(lr.Barcode)
		if !ok {
			writeError(w, http.StatusNotFound, "Item not found: "+lr.Barcode, nil)
			return nil, false
		}
		line, err := transaction.NewLineItem(item, lr.Quantity)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid line for "+lr.Barcode, err)
			return nil, false
		}
		lines = append(lines, line)
	}
	return lines, true
}

// GetReceipt returns an archived receipt as JSON.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	receipt, err := h.Transactions.FindReceipt(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load receipt", err)
		return
	}
	if receipt == nil {
		writeError(w, http.StatusNotFound, "Receipt not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, receiptDTO(receipt))
}

// GetReceiptText returns the rendered receipt text.
func (h *Handler) GetReceiptText(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	receipt, err := h.Transactions.FindReceipt(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load receipt", err)
		return
	}
	if receipt == nil {
		writeError(w, http.StatusNotFound, "Receipt not found", nil)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(receipt.FormattedText()))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "Permission denied", err)
	case inventory.IsNotFound(err), errors.Is(err, inventory.ErrNotLedgerItem):
		writeError(w, http.StatusNotFound, "Item not found", err)
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, transaction.ErrRefundExceedsValue),
		errors.Is(err, transaction.ErrDuplicateReceiptID):
		writeError(w, http.StatusConflict, "Transaction rejected", err)
	case transaction.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid transaction", err)
	default:
		writeError(w, http.StatusInternalServerError, "Transaction failed", err)
	}
}
